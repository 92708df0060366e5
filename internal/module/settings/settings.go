package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teamdeck/console/internal/domain/auth"
	"github.com/teamdeck/console/internal/domain/session"
	"github.com/teamdeck/console/internal/domain/tenant"
	"github.com/teamdeck/console/internal/module/tenantctx"
	"github.com/teamdeck/console/internal/port/outbound"
	apperrors "github.com/teamdeck/console/internal/utils/errors"
)

// View is the last confirmed state of one team's settings panel.
type View struct {
	Team         tenant.Team          `json:"team"`
	Members      []tenant.Member      `json:"members"`
	Stats        tenant.OverviewStats `json:"stats"`
	Invitations  []tenant.Invitation  `json:"invitations"`
	Capabilities tenant.Capabilities  `json:"capabilities"`
	Icons        []string             `json:"icons"`
	LoadedAt     time.Time            `json:"loaded_at"`
}

func (v View) clone() View {
	v.Members = append([]tenant.Member{}, v.Members...)
	v.Invitations = append([]tenant.Invitation{}, v.Invitations...)
	return v
}

// Service backs the team settings panel. Capability checks gate the UI
// only; the backend re-validates every mutation.
type Service struct {
	teams   outbound.TeamAPI
	tenants *tenantctx.Registry
	logger  *zap.Logger
	now     func() time.Time

	mu    sync.Mutex
	views *lru.Cache[string, View]
}

// NewService creates the settings service. size bounds the number of
// cached panel views.
func NewService(teams outbound.TeamAPI, tenants *tenantctx.Registry, size int, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size <= 0 {
		size = 10000
	}
	views, err := lru.New[string, View](size)
	if err != nil {
		return nil, err
	}
	return &Service{teams: teams, tenants: tenants, logger: logger, now: time.Now, views: views}, nil
}

func viewKey(user session.User, teamID int64) string {
	return fmt.Sprintf("%s/%d", user.Key(), teamID)
}

// Load fetches the team, its members, stats and pending invitations, and
// derives the caller's capabilities.
func (s *Service) Load(ctx context.Context, user session.User, teamID int64) (View, error) {
	var (
		detail   *tenant.TeamDetail
		overview *tenant.Overview
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.teams.Get(gctx, teamID)
		if err != nil {
			return fmt.Errorf("get team: %w", err)
		}
		detail = d
		return nil
	})
	g.Go(func() error {
		o, err := s.teams.Overview(gctx, teamID)
		if err != nil {
			s.logger.Debug("team overview unavailable", zap.Int64("team_id", teamID), zap.Error(err))
			return nil
		}
		overview = o
		return nil
	})
	if err := g.Wait(); err != nil {
		return View{}, err
	}

	v := View{
		Team:         detail.Team,
		Members:      append([]tenant.Member{}, detail.Members...),
		Invitations:  []tenant.Invitation{},
		Capabilities: tenant.ResolveCapabilities(user.ID.Int64(), detail.Team, detail.Members),
		Icons:        tenant.Icons,
		LoadedAt:     s.now(),
	}
	if overview != nil {
		v.Stats = overview.Stats
	} else {
		v.Stats.MembersCount = len(v.Members)
	}
	if v.Capabilities.IsManager {
		invs, err := s.pendingInvitations(ctx, teamID)
		if err != nil {
			s.logger.Debug("team invitations unavailable", zap.Int64("team_id", teamID), zap.Error(err))
		} else {
			v.Invitations = invs
		}
	}

	s.store(user, teamID, v)
	return v.clone(), nil
}

func (s *Service) pendingInvitations(ctx context.Context, teamID int64) ([]tenant.Invitation, error) {
	all, err := s.teams.ListInvitations(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return tenant.PendingInvitations(all, s.now()), nil
}

func (s *Service) store(user session.User, teamID int64, v View) {
	s.mu.Lock()
	s.views.Add(viewKey(user, teamID), v)
	s.mu.Unlock()
}

// update applies fn to the cached view. Nothing happens when the view was
// never loaded.
func (s *Service) update(user session.User, teamID int64, fn func(*View)) (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views.Get(viewKey(user, teamID))
	if !ok {
		return View{}, false
	}
	v = v.clone()
	fn(&v)
	s.views.Add(viewKey(user, teamID), v)
	return v.clone(), true
}

// view returns the cached view, loading it when absent.
func (s *Service) view(ctx context.Context, user session.User, teamID int64) (View, error) {
	s.mu.Lock()
	v, ok := s.views.Get(viewKey(user, teamID))
	s.mu.Unlock()
	if ok {
		return v.clone(), nil
	}
	return s.Load(ctx, user, teamID)
}

func (s *Service) requireManager(ctx context.Context, user session.User, teamID int64) (View, error) {
	v, err := s.view(ctx, user, teamID)
	if err != nil {
		return View{}, err
	}
	if !v.Capabilities.IsManager {
		return View{}, apperrors.Forbidden("Only team owners and admins can do this")
	}
	return v, nil
}

// Update changes the name, the icon, or both in one backend call. A nil
// field keeps its current value.
func (s *Service) Update(ctx context.Context, user session.User, teamID int64, name, icon *string) (View, error) {
	if name == nil && icon == nil {
		return View{}, apperrors.ValidationError("nothing to update")
	}
	var newName, newIcon string
	if name != nil {
		n, err := tenant.ValidateName(*name)
		if err != nil {
			return View{}, apperrors.ValidationError(err.Error())
		}
		newName = n
	}
	if icon != nil {
		newIcon = strings.TrimSpace(*icon)
		if !tenant.ValidIcon(newIcon) {
			return View{}, apperrors.ValidationError(tenant.ErrInvalidIcon.Error())
		}
	}

	v, err := s.requireManager(ctx, user, teamID)
	if err != nil {
		return View{}, err
	}
	if name == nil {
		newName = v.Team.Name
	}
	if icon == nil {
		newIcon = v.Team.Icon
	}
	return s.save(ctx, user, teamID, newName, newIcon)
}

func (s *Service) save(ctx context.Context, user session.User, teamID int64, name, icon string) (View, error) {
	if err := s.teams.Update(ctx, teamID, name, icon); err != nil {
		return View{}, fmt.Errorf("update team: %w", err)
	}
	v, _ := s.update(user, teamID, func(v *View) {
		v.Team.Name = name
		v.Team.Icon = icon
	})
	// The switcher shows team names, so the tenant list is refreshed too.
	if _, err := s.tenants.For(ctx, user.Key()).Refresh(ctx); err != nil {
		s.logger.Warn("refresh tenants after update", zap.Int64("team_id", teamID), zap.Error(err))
	}
	return v, nil
}

// Invite sends an invitation and reloads the pending list.
func (s *Service) Invite(ctx context.Context, user session.User, teamID int64, email, role string) (View, error) {
	if msg := auth.ValidateEmail(email); msg != "" {
		return View{}, apperrors.ValidationError(msg)
	}
	r, err := tenant.ParseRole(role)
	if err != nil || !r.Assignable() {
		return View{}, apperrors.ValidationError(tenant.ErrInvalidRole.Error())
	}
	if _, err := s.requireManager(ctx, user, teamID); err != nil {
		return View{}, err
	}

	if _, err := s.teams.CreateInvitation(ctx, teamID, auth.NormalizeEmail(email), r); err != nil {
		return View{}, fmt.Errorf("create invitation: %w", err)
	}
	invs, err := s.pendingInvitations(ctx, teamID)
	if err != nil {
		return View{}, fmt.Errorf("list invitations: %w", err)
	}
	v, _ := s.update(user, teamID, func(v *View) { v.Invitations = invs })
	return v, nil
}

// RevokeInvitation withdraws a pending invitation.
func (s *Service) RevokeInvitation(ctx context.Context, user session.User, teamID, invitationID int64) (View, error) {
	if _, err := s.requireManager(ctx, user, teamID); err != nil {
		return View{}, err
	}
	if err := s.teams.RevokeInvitation(ctx, teamID, invitationID); err != nil {
		return View{}, fmt.Errorf("revoke invitation: %w", err)
	}
	v, _ := s.update(user, teamID, func(v *View) {
		kept := v.Invitations[:0]
		for _, inv := range v.Invitations {
			if inv.ID != invitationID {
				kept = append(kept, inv)
			}
		}
		v.Invitations = kept
	})
	return v, nil
}

// RemoveMember removes a member. The owner cannot be removed.
func (s *Service) RemoveMember(ctx context.Context, user session.User, teamID, memberID int64, confirm bool) (View, error) {
	if !confirm {
		return View{}, apperrors.ConfirmationRequired("removing a member")
	}
	v, err := s.requireManager(ctx, user, teamID)
	if err != nil {
		return View{}, err
	}
	if memberID == v.Team.OwnerID {
		return View{}, apperrors.Forbidden(tenant.ErrOwnerImmutable.Error())
	}
	if err := s.teams.RemoveMember(ctx, teamID, memberID); err != nil {
		return View{}, fmt.Errorf("remove member: %w", err)
	}
	v, _ = s.update(user, teamID, func(v *View) {
		kept := v.Members[:0]
		for _, m := range v.Members {
			if m.ID != memberID {
				kept = append(kept, m)
			}
		}
		v.Members = kept
		if v.Stats.MembersCount > 0 {
			v.Stats.MembersCount--
		}
	})
	return v, nil
}

// ChangeRole grants admin or regular to a member. The owner's role is fixed.
func (s *Service) ChangeRole(ctx context.Context, user session.User, teamID, memberID int64, role string) (View, error) {
	r, err := tenant.ParseRole(role)
	if err != nil || !r.Assignable() {
		return View{}, apperrors.ValidationError(tenant.ErrInvalidRole.Error())
	}
	v, err := s.requireManager(ctx, user, teamID)
	if err != nil {
		return View{}, err
	}
	if memberID == v.Team.OwnerID {
		return View{}, apperrors.Forbidden(tenant.ErrOwnerImmutable.Error())
	}
	if err := s.teams.UpdateMemberRole(ctx, teamID, memberID, r); err != nil {
		return View{}, fmt.Errorf("update member role: %w", err)
	}
	v, _ = s.update(user, teamID, func(v *View) {
		for i := range v.Members {
			if v.Members[i].ID == memberID {
				v.Members[i].Role = r
			}
		}
	})
	return v, nil
}

// Delete removes the team. confirmation must repeat the team name exactly.
// Afterwards the first remaining team becomes current, or the selection is
// cleared.
func (s *Service) Delete(ctx context.Context, user session.User, teamID int64, confirmation string) (tenantctx.Snapshot, error) {
	v, err := s.view(ctx, user, teamID)
	if err != nil {
		return tenantctx.Snapshot{}, err
	}
	if !v.Capabilities.IsOwner {
		return tenantctx.Snapshot{}, apperrors.Forbidden("Only the team owner can delete the team")
	}
	if strings.TrimSpace(confirmation) != v.Team.Name {
		return tenantctx.Snapshot{}, apperrors.ConfirmationRequired("deleting the team")
	}

	tc := s.tenants.For(ctx, user.Key())
	snap, err := tc.Delete(ctx, teamID)
	if errors.Is(err, tenantctx.ErrListStale) {
		s.logger.Warn("refresh tenants after delete", zap.Int64("team_id", teamID), zap.Error(err))
	} else if err != nil {
		return snap, err
	}
	s.mu.Lock()
	s.views.Remove(viewKey(user, teamID))
	s.mu.Unlock()

	snap, err = tc.Select(ctx, tenant.FirstRemaining(snap.All, teamID))
	if errors.Is(err, tenant.ErrTeamNotFound) {
		// Another refresh replaced the list in between; keep its reconciled
		// current rather than failing the delete.
		return tc.Snapshot(), nil
	}
	return snap, err
}
