package dashboard

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/teamdeck/console/internal/module/tenantctx"
	"github.com/teamdeck/console/internal/port/outbound"
)

// Overview is the dashboard landing payload.
type Overview struct {
	Overview json.RawMessage    `json:"overview"`
	Tenants  tenantctx.Snapshot `json:"tenants"`
}

// Service assembles the dashboard overview.
type Service struct {
	api     outbound.DashboardAPI
	tenants *tenantctx.Registry
	logger  *zap.Logger
}

// NewService creates the dashboard service.
func NewService(api outbound.DashboardAPI, tenants *tenantctx.Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, tenants: tenants, logger: logger}
}

// Overview proxies the backend overview and attaches the tenant snapshot.
// A failed tenant refresh degrades to the last known snapshot.
func (s *Service) Overview(ctx context.Context, userKey string) (*Overview, error) {
	raw, err := s.api.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard overview: %w", err)
	}
	snap, err := s.tenants.For(ctx, userKey).Ensure(ctx)
	if err != nil {
		s.logger.Warn("tenant snapshot unavailable", zap.String("user", userKey), zap.Error(err))
	}
	return &Overview{Overview: raw, Tenants: snap}, nil
}
