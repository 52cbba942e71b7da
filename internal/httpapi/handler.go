// Package httpapi exposes the aggregator over a gin REST surface.
package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"offerscout/internal/config"
	"offerscout/pkg/health"
	"offerscout/services/aggregator"
	"offerscout/services/cache"
)

type Handler struct {
	agg          *aggregator.Service
	store        *cache.Store
	defaultLimit int
	perNetwork   int
	logger       *zap.Logger
}

type HandlerParams struct {
	fx.In

	Aggregator *aggregator.Service
	Store      *cache.Store `optional:"true"`
	Config     *config.Config
	Logger     *zap.Logger
}

func NewHandler(p HandlerParams) *Handler {
	return &Handler{
		agg:          p.Aggregator,
		store:        p.Store,
		defaultLimit: p.Config.Search.DefaultLimit,
		perNetwork:   p.Config.Search.LimitPerNetwork,
		logger:       p.Logger,
	}
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg *config.Config, h *Handler, hs health.HealthService) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", hs.Liveness)
	r.GET("/readyz", hs.Readiness)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/offers/search", h.SearchOffers)
		v1.GET("/offers/discovery", h.DiscoverOffers)
		v1.GET("/networks", h.Networks)
		v1.POST("/feedback", h.SubmitFeedback)
	}
	return r
}

// SearchOffers queries the credentialed networks directly, uncached.
func (h *Handler) SearchOffers(c *gin.Context) {
	p := aggregator.SearchParams{
		Keyword:         c.Query("keyword"),
		Category:        c.Query("category"),
		MinEPC:          queryFloat(c, "min_epc"),
		MinCommission:   queryFloat(c, "min_commission"),
		LimitPerNetwork: queryInt(c, "limit", h.perNetwork),
	}

	offers := h.agg.SearchAllNetworks(c.Request.Context(), p)
	c.JSON(http.StatusOK, gin.H{
		"keyword": p.Keyword,
		"count":   len(offers),
		"offers":  offers,
	})
}

// DiscoverOffers answers from the daily cache when fresh, otherwise sweeps
// the providers. analyze=false skips the signal-backed enrichment on a miss;
// refresh=true bypasses the cache.
func (h *Handler) DiscoverOffers(c *gin.Context) {
	mode := c.DefaultQuery("mode", aggregator.ModeAll)
	switch mode {
	case aggregator.ModeAll, aggregator.ModeDirect, aggregator.ModeBlog:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be all, direct or blog"})
		return
	}

	p := aggregator.DiscoveryParams{
		Keyword:      c.Query("keyword"),
		Limit:        queryInt(c, "limit", h.defaultLimit),
		Mode:         mode,
		Analyze:      c.DefaultQuery("analyze", "true") != "false",
		ForceRefresh: c.Query("refresh") == "true",
	}

	offers, err := h.agg.SearchDiscovery(c.Request.Context(), p)
	if err != nil {
		h.logger.Error("discovery search failed", zap.String("keyword", p.Keyword), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "discovery search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"keyword": p.Keyword,
		"mode":    mode,
		"count":   len(offers),
		"offers":  offers,
	})
}

// Networks lists configured credentialed networks and probes reachability of
// every provider.
func (h *Handler) Networks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"networks": h.agg.AvailableNetworks(),
		"status":   h.agg.TestConnections(c.Request.Context()),
	})
}

type feedbackRequest struct {
	Name    string `json:"name"`
	Message string `json:"message" binding:"required"`
}

func (h *Handler) SubmitFeedback(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "feedback storage not configured"})
		return
	}

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if req.Name == "" {
		req.Name = "anonymous"
	}

	if err := h.store.AppendFeedback(c.Request.Context(), req.Name, req.Message); err != nil {
		h.logger.Error("feedback append failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store feedback"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "received"})
}

func queryFloat(c *gin.Context, name string) *float64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

var Module = fx.Module("httpapi",
	fx.Provide(
		NewHandler,
		NewRouter,
	),
)
