//go:build wireinject
// +build wireinject

package app

import (
	"net/http"

	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Modules
	"github.com/teamdeck/console/internal/module/inbox"
	"github.com/teamdeck/console/internal/module/session"
	"github.com/teamdeck/console/internal/module/tenantctx"

	// Ports
	"github.com/teamdeck/console/internal/port/inbound"

	// Infrastructure
	"github.com/teamdeck/console/internal/shared/config"
	"github.com/teamdeck/console/internal/shared/logger"

	// Utils
	"github.com/teamdeck/console/internal/utils/metrics"
)

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      goredis.UniversalClient
	HTTPClient *http.Client
	Logger     *logger.Logger
	ZapLogger  *zap.Logger
	Metrics    *metrics.Metrics
	Stores     *Stores

	// Modules
	Resolver *session.Resolver
	Tenants  *tenantctx.Registry
	Inbox    *inbox.Service

	// Inbound ports
	Ports inbound.InboundPorts
}

// InitializeDependencies wires every dependency from configuration.
func InitializeDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	wire.Build(
		InfraSet,
		BackendSet,
		ModuleSet,
		InboundSet,
		wire.Struct(new(Dependencies), "*"),
	)
	return nil, nil, nil
}
