package aggregator

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"offerscout/services/cache"
	"offerscout/services/network"
	"offerscout/services/scoring"
)

var Module = fx.Module("aggregator.module",
	fx.Provide(
		ProvideNode,
		New,
	),
)

func ProvideNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

type ServiceParams struct {
	fx.In

	Registry *network.Registry
	Engine   *scoring.Engine
	Store    *cache.Store `optional:"true"`
	Node     *snowflake.Node
	Logger   *zap.Logger
}

func New(p ServiceParams) *Service {
	svc := NewService(p.Registry, p.Engine, p.Store, p.Logger)
	svc.node = p.Node
	return svc
}
