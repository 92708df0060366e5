package app

import (
	"fmt"
	"net/http"

	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Inbound adapters
	ginadapter "github.com/teamdeck/console/internal/adapter/inbound/gin"

	// Ports
	"github.com/teamdeck/console/internal/port/inbound"
	"github.com/teamdeck/console/internal/port/outbound"

	// Outbound adapters
	"github.com/teamdeck/console/internal/adapter/outbound/backend"
	"github.com/teamdeck/console/internal/adapter/outbound/instrumented"
	"github.com/teamdeck/console/internal/adapter/outbound/memory"
	"github.com/teamdeck/console/internal/adapter/outbound/postgres"
	redisadapter "github.com/teamdeck/console/internal/adapter/outbound/redis"

	// Modules
	"github.com/teamdeck/console/internal/module/account"
	"github.com/teamdeck/console/internal/module/authflow"
	"github.com/teamdeck/console/internal/module/dashboard"
	"github.com/teamdeck/console/internal/module/feedback"
	"github.com/teamdeck/console/internal/module/inbox"
	"github.com/teamdeck/console/internal/module/session"
	"github.com/teamdeck/console/internal/module/settings"
	"github.com/teamdeck/console/internal/module/tenantctx"

	// Infrastructure
	"github.com/teamdeck/console/internal/infra/httpclient"
	"github.com/teamdeck/console/internal/shared/cache"
	"github.com/teamdeck/console/internal/shared/config"
	"github.com/teamdeck/console/internal/shared/database"
	"github.com/teamdeck/console/internal/shared/logger"

	// Utils
	"github.com/teamdeck/console/internal/utils/metrics"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideLogger,
	ProvideZapLogger,
	ProvideMetrics,
	ProvideHTTPClient,
	ProvideRedisClient,
	ProvideDatabase,
	ProvideStores,
)

// ProvideLogger creates the request logger.
func ProvideLogger(cfg *config.Config) *logger.Logger {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideZapLogger creates the zap logger used by modules.
func ProvideZapLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.NewZap(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideMetrics returns nil when metrics are disabled.
func ProvideMetrics(cfg *config.Config) *metrics.Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.New(cfg.Metrics.Namespace)
}

// ProvideHTTPClient creates the pooled client for backend calls.
func ProvideHTTPClient(cfg *config.Config) *http.Client {
	return httpclient.New(cfg.Backend)
}

// ProvideRedisClient connects to Redis. Redis is optional unless it backs
// the stores, so a failed connection only logs a warning for other drivers.
func ProvideRedisClient(cfg *config.Config, zapLog *zap.Logger) (goredis.UniversalClient, func(), error) {
	if cfg.Redis.Address == "" {
		if cfg.Store.Driver == DriverRedis {
			return nil, nil, fmt.Errorf("store driver redis requires redis.address")
		}
		return nil, func() {}, nil
	}
	client, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		if cfg.Store.Driver == DriverRedis {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		zapLog.Warn("Redis connection failed, continuing without it", zap.Error(err))
		return nil, func() {}, nil
	}
	return client, func() {
		if err := cache.Close(client); err != nil {
			zapLog.Warn("close redis", zap.Error(err))
		}
	}, nil
}

// ProvideDatabase opens Postgres only for the postgres store driver.
func ProvideDatabase(cfg *config.Config, zapLog *zap.Logger) (*gorm.DB, func(), error) {
	if cfg.Store.Driver != DriverPostgres {
		return nil, func() {}, nil
	}
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("init database: %w", err)
	}
	if err := postgres.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return db, func() {
		if err := database.Close(db); err != nil {
			zapLog.Warn("close database", zap.Error(err))
		}
	}, nil
}

// Stores groups the per-user state stores chosen by store.driver.
type Stores struct {
	Driver      string
	Selection   outbound.SelectionStore
	Cooldown    outbound.CooldownStore
	RateLimiter outbound.RateLimiter
}

// ProvideStores builds the stores for the configured driver. Cooldowns and
// rate limits live in Redis whenever a client is available, else in memory.
func ProvideStores(cfg *config.Config, redis goredis.UniversalClient, db *gorm.DB, m *metrics.Metrics) (*Stores, error) {
	driver := cfg.Store.Driver
	if driver == "" {
		driver = DriverMemory
	}
	prefix := cfg.Store.KeyPrefix

	var selection outbound.SelectionStore
	switch driver {
	case DriverMemory:
		selection = memory.NewSelectionStore(cfg.Store.MaxKeys, cfg.Store.TTL)
	case DriverRedis:
		selection = redisadapter.NewSelectionStore(redis, prefix, cfg.Store.TTL)
	case DriverPostgres:
		selection = postgres.NewSelectionAdapter(db, cfg.Store.TTL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}

	var (
		cooldown outbound.CooldownStore
		limiter  outbound.RateLimiter
		err      error
	)
	if redis != nil {
		cooldown = redisadapter.NewCooldownStore(redis, prefix)
		limiter = redisadapter.NewRateLimiter(redis, prefix)
	} else {
		if cooldown, err = memory.NewCooldownStore(cfg.Store.MaxKeys); err != nil {
			return nil, fmt.Errorf("cooldown store: %w", err)
		}
		if limiter, err = memory.NewRateLimiter(cfg.Store.MaxKeys); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	return &Stores{
		Driver:      driver,
		Selection:   instrumented.SelectionStore(selection, driver, m),
		Cooldown:    instrumented.CooldownStore(cooldown, cooldownDriver(redis), m),
		RateLimiter: limiter,
	}, nil
}

func cooldownDriver(redis goredis.UniversalClient) string {
	if redis != nil {
		return DriverRedis
	}
	return DriverMemory
}

// ===== Backend Providers =====

// BackendSet provides the backend REST client and its API facades.
var BackendSet = wire.NewSet(
	ProvideBackendClient,
	ProvideAuthAPI,
	ProvideTeamAPI,
	ProvideNotificationAPI,
	ProvideAccountAPI,
	ProvideFeedbackAPI,
	ProvideDashboardAPI,
)

// ProvideBackendClient creates the shared backend client.
func ProvideBackendClient(cfg *config.Config, httpClient *http.Client, m *metrics.Metrics, zapLog *zap.Logger) (*backend.Client, error) {
	return backend.New(cfg.Backend, httpClient, m, zapLog)
}

// ProvideAuthAPI exposes the auth endpoints.
func ProvideAuthAPI(c *backend.Client) outbound.AuthAPI {
	return backend.NewAuth(c)
}

// ProvideTeamAPI exposes the team endpoints.
func ProvideTeamAPI(c *backend.Client) outbound.TeamAPI {
	return backend.NewTeams(c)
}

// ProvideNotificationAPI exposes the notification endpoints.
func ProvideNotificationAPI(c *backend.Client) outbound.NotificationAPI {
	return backend.NewNotifications(c)
}

// ProvideAccountAPI exposes the account endpoints.
func ProvideAccountAPI(c *backend.Client) outbound.AccountAPI {
	return backend.NewAccount(c)
}

// ProvideFeedbackAPI exposes the feedback endpoint.
func ProvideFeedbackAPI(c *backend.Client) outbound.FeedbackAPI {
	return backend.NewFeedback(c)
}

// ProvideDashboardAPI exposes the dashboard endpoint.
func ProvideDashboardAPI(c *backend.Client) outbound.DashboardAPI {
	return backend.NewDashboard(c)
}

// ===== Module Providers =====

// ModuleSet provides the console modules.
var ModuleSet = wire.NewSet(
	ProvideSessionResolver,
	ProvideTenantRegistry,
	ProvideInboxService,
	ProvideSettingsService,
	ProvideAuthFlowService,
	ProvideAccountService,
	feedback.NewService,
	dashboard.NewService,
)

// ProvideSessionResolver creates the session resolver.
func ProvideSessionResolver(cfg *config.Config, api outbound.AuthAPI, zapLog *zap.Logger) *session.Resolver {
	return session.NewResolver(api, cfg.Auth.TokenCookie, zapLog)
}

// ProvideTenantRegistry creates the per-user tenant contexts.
func ProvideTenantRegistry(cfg *config.Config, teams outbound.TeamAPI, stores *Stores, m *metrics.Metrics, zapLog *zap.Logger) (*tenantctx.Registry, error) {
	return tenantctx.NewRegistry(teams, stores.Selection, cfg.Tenant, m, zapLog)
}

// ProvideInboxService creates the invitation reconciler.
func ProvideInboxService(
	cfg *config.Config,
	notifications outbound.NotificationAPI,
	teams outbound.TeamAPI,
	tenants *tenantctx.Registry,
	m *metrics.Metrics,
	zapLog *zap.Logger,
) (*inbox.Service, error) {
	return inbox.NewService(notifications, teams, tenants, cfg.Inbox, cfg.Tenant, m, zapLog)
}

// ProvideSettingsService creates the settings panel service.
func ProvideSettingsService(cfg *config.Config, teams outbound.TeamAPI, tenants *tenantctx.Registry, zapLog *zap.Logger) (*settings.Service, error) {
	return settings.NewService(teams, tenants, cfg.Tenant.MaxSessions, zapLog)
}

// ProvideAuthFlowService creates the auth screen flows. The resolver is
// the probe used to redirect visitors who already hold a session.
func ProvideAuthFlowService(
	cfg *config.Config,
	api outbound.AuthAPI,
	resolver *session.Resolver,
	stores *Stores,
	m *metrics.Metrics,
	zapLog *zap.Logger,
) (*authflow.Service, error) {
	return authflow.NewService(api, resolver, stores.Cooldown, cfg.Auth, cfg.Backend.BaseURL, cfg.Auth.MaxFlows, m, zapLog)
}

// ProvideAccountService creates the account service.
func ProvideAccountService(cfg *config.Config, api outbound.AccountAPI, zapLog *zap.Logger) (*account.Service, error) {
	return account.NewService(api, cfg.I18n, authflow.PolicyFromConfig(cfg.Auth.Password), zapLog)
}

// ===== Inbound Adapter Providers =====

// InboundSet provides HTTP adapters.
var InboundSet = wire.NewSet(
	ginadapter.NewSessionAdapter,
	ProvideAuthAdapter,
	ginadapter.NewTeamAdapter,
	ginadapter.NewInboxAdapter,
	ginadapter.NewAccountAdapter,
	ginadapter.NewFeedbackAdapter,
	ginadapter.NewDashboardAdapter,
	wire.Struct(new(inbound.InboundPorts), "*"),
)

// ProvideAuthAdapter creates the auth screen adapter.
func ProvideAuthAdapter(cfg *config.Config, flows *authflow.Service) inbound.AuthFlowHttpPort {
	return ginadapter.NewAuthAdapter(flows, cfg.Auth.FlowCookie)
}
