// Package health exposes liveness and readiness probes over gin.
package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("health", fx.Provide(ProvideHealth))

type Dependency struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Health struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Deps    []Dependency `json:"deps,omitempty"`
}

type HealthService interface {
	Liveness(c *gin.Context)
	Readiness(c *gin.Context)
}

type health struct {
	db    *gorm.DB
	redis *redis.Client
}

type HealthParams struct {
	fx.In
	DB    *gorm.DB      `optional:"true"`
	Redis *redis.Client `optional:"true"`
}

func ProvideHealth(p HealthParams) HealthService {
	return &health{db: p.DB, redis: p.Redis}
}

func (h *health) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, &Health{Status: "healthy", Message: "OK"})
}

func (h *health) Readiness(c *gin.Context) {
	resp := &Health{Status: "healthy", Message: "OK"}
	status := http.StatusOK

	if h.db != nil {
		dep := Dependency{Name: "database", Status: "healthy", Message: "OK"}
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			dep.Status = "unhealthy"
			dep.Message = err.Error()
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
		resp.Deps = append(resp.Deps, dep)
	}

	if h.redis != nil {
		dep := Dependency{Name: "redis", Status: "healthy", Message: "OK"}
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			// the signal cache is best-effort, a dead redis does not
			// make the service unready
			dep.Status = "unhealthy"
			dep.Message = err.Error()
		}
		resp.Deps = append(resp.Deps, dep)
	}

	c.JSON(status, resp)
}
