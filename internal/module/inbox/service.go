package inbox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teamdeck/console/internal/domain/notification"
	"github.com/teamdeck/console/internal/domain/tenant"
	"github.com/teamdeck/console/internal/module/tenantctx"
	"github.com/teamdeck/console/internal/port/outbound"
	"github.com/teamdeck/console/internal/shared/config"
	apperrors "github.com/teamdeck/console/internal/utils/errors"
	"github.com/teamdeck/console/internal/utils/metrics"
)

// ErrNotificationNotFound is returned when the notification is not in the
// user's inbox.
var ErrNotificationNotFound = errors.New("notification not found")

// ErrNotInvite is returned when accepting a notification that carries no
// invitation.
var ErrNotInvite = errors.New("notification is not an invitation")

// AcceptOutcome is the result of an accept action.
type AcceptOutcome struct {
	Status   notification.InviteStatus `json:"status"`
	Badge    string                    `json:"badge,omitempty"`
	TeamID   int64                     `json:"team_id,omitempty"`
	TeamName string                    `json:"team_name,omitempty"`
	Redirect string                    `json:"redirect,omitempty"`
}

// userInbox is the last confirmed inbox state of one user.
type userInbox struct {
	mu       sync.Mutex
	gen      uint64
	list     []notification.Notification
	statuses map[int64]notification.InviteStatus
}

// Service reconciles invite notifications with live invitation state.
type Service struct {
	notifications outbound.NotificationAPI
	teams         outbound.TeamAPI
	tenants       *tenantctx.Registry
	concurrency   int
	markTimeout   time.Duration
	settingsPath  string
	metrics       *metrics.Metrics
	logger        *zap.Logger
	now           func() time.Time

	mu     sync.Mutex
	inbox  *lru.Cache[string, *userInbox]
	marked *lru.Cache[int64, struct{}]
	wg     sync.WaitGroup
}

// NewService creates the inbox service.
func NewService(
	notifications outbound.NotificationAPI,
	teams outbound.TeamAPI,
	tenants *tenantctx.Registry,
	cfg config.InboxConfig,
	tenantCfg config.TenantConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	memo := cfg.MarkedMemo
	if memo <= 0 {
		memo = 4096
	}
	sessions := tenantCfg.MaxSessions
	if sessions <= 0 {
		sessions = 10000
	}
	marked, err := lru.New[int64, struct{}](memo)
	if err != nil {
		return nil, err
	}
	inbox, err := lru.New[string, *userInbox](sessions)
	if err != nil {
		return nil, err
	}
	settingsPath := tenantCfg.SettingsPath
	if settingsPath == "" {
		settingsPath = "/dashboard/settings"
	}
	concurrency := cfg.CheckConcurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Service{
		notifications: notifications,
		teams:         teams,
		tenants:       tenants,
		concurrency:   concurrency,
		markTimeout:   cfg.MarkReadTimeout,
		settingsPath:  settingsPath,
		metrics:       m,
		logger:        logger,
		now:           time.Now,
		inbox:         inbox,
		marked:        marked,
	}, nil
}

func (s *Service) userInbox(userKey string) *userInbox {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.inbox.Get(userKey)
	if !ok {
		u = &userInbox{statuses: map[int64]notification.InviteStatus{}}
		s.inbox.Add(userKey, u)
	}
	return u
}

// Load fetches the inbox and reconciles every invite. A load that finishes
// after a newer load of the same user began is returned as stale and not
// kept. A load whose request was cancelled keeps nothing and marks nothing.
func (s *Service) Load(ctx context.Context, userKey string) (View, error) {
	u := s.userInbox(userKey)
	u.mu.Lock()
	u.gen++
	gen := u.gen
	u.mu.Unlock()

	list, err := s.notifications.List(ctx)
	if err != nil {
		return View{}, fmt.Errorf("list notifications: %w", err)
	}
	statuses := s.reconcile(ctx, list)
	if err := ctx.Err(); err != nil {
		return View{}, err
	}

	u.mu.Lock()
	if gen != u.gen {
		u.mu.Unlock()
		s.logger.Debug("discarding stale inbox load", zap.String("user", userKey))
		v := buildView(list, statuses)
		v.Stale = true
		return v, nil
	}
	u.list = list
	u.statuses = statuses
	v := buildView(list, statuses)
	u.mu.Unlock()

	s.autoMarkRead(ctx, list, statuses)
	return v, nil
}

// View returns the last kept inbox state without calling the backend.
func (s *Service) View(userKey string) View {
	u := s.userInbox(userKey)
	u.mu.Lock()
	defer u.mu.Unlock()
	return buildView(u.list, u.statuses)
}

// reconcile checks each distinct invite token once, concurrently, and
// waits for all checks. A failing check only affects its own token.
func (s *Service) reconcile(ctx context.Context, list []notification.Notification) map[int64]notification.InviteStatus {
	statuses := make(map[int64]notification.InviteStatus, len(list))
	tokens := make(map[string][]int64)
	for _, n := range list {
		if !n.IsInvite() {
			continue
		}
		p := notification.ParseInvite(n.Data)
		if p.Token == "" {
			statuses[n.ID] = notification.InviteInvalid
			continue
		}
		tokens[p.Token] = append(tokens[p.Token], n.ID)
	}

	var (
		mu      sync.Mutex
		byToken = make(map[string]notification.InviteStatus, len(tokens))
		g       errgroup.Group
	)
	g.SetLimit(s.concurrency)
	for token := range tokens {
		g.Go(func() error {
			st := s.check(ctx, token)
			mu.Lock()
			byToken[token] = st
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for token, ids := range tokens {
		for _, id := range ids {
			statuses[id] = byToken[token]
		}
	}
	return statuses
}

// check resolves one token. Not found means revoked. A cancelled request
// leaves the token unchecked; any other failure means invalid.
func (s *Service) check(ctx context.Context, token string) notification.InviteStatus {
	res, err := s.teams.CheckInvitation(ctx, token)
	var st notification.InviteStatus
	switch {
	case err == nil:
		st = notification.FromInvitation(res.Status)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return notification.InviteUnchecked
	case outbound.IsNotFound(err):
		st = notification.InviteRevoked
	default:
		s.logger.Debug("invitation check failed", zap.Error(err))
		st = notification.InviteInvalid
	}
	if s.metrics != nil {
		s.metrics.RecordInviteCheck(string(st))
	}
	return st
}

// autoMarkRead marks resolved, non-pending invites read in the background.
// Failures are swallowed; ConsideredRead already hides them. Each id is
// attempted at most once per process.
func (s *Service) autoMarkRead(ctx context.Context, list []notification.Notification, statuses map[int64]notification.InviteStatus) {
	var ids []int64
	for _, n := range list {
		st := statuses[n.ID]
		if !n.IsInvite() || n.Read() || !st.Known() || st == notification.InvitePending {
			continue
		}
		if found, _ := s.marked.ContainsOrAdd(n.ID, struct{}{}); found {
			continue
		}
		ids = append(ids, n.ID)
	}
	if len(ids) == 0 {
		return
	}

	// Detach from the request but keep its credentials.
	bg := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(bg, s.markTimeoutOrDefault())
		defer cancel()
		for _, id := range ids {
			err := s.notifications.MarkRead(ctx, id)
			if err != nil {
				s.logger.Debug("auto mark read failed", zap.Int64("notification_id", id), zap.Error(err))
			}
			if s.metrics != nil {
				s.metrics.RecordAutoMarkRead(err)
			}
		}
	}()
}

func (s *Service) markTimeoutOrDefault() time.Duration {
	if s.markTimeout <= 0 {
		return 5 * time.Second
	}
	return s.markTimeout
}

// Wait blocks until background mark-read calls finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

// MarkRead marks one notification read.
func (s *Service) MarkRead(ctx context.Context, userKey string, id int64) error {
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	s.setRead(userKey, id)
	return nil
}

func (s *Service) setRead(userKey string, id int64) {
	ts := s.now().UTC().Format(time.RFC3339)
	u := s.userInbox(userKey)
	u.mu.Lock()
	defer u.mu.Unlock()
	for i := range u.list {
		if u.list[i].ID == id {
			u.list[i].ReadAt = &ts
		}
	}
}

func (s *Service) setStatus(userKey string, id int64, st notification.InviteStatus) {
	u := s.userInbox(userKey)
	u.mu.Lock()
	u.statuses[id] = st
	u.mu.Unlock()
}

// find returns the notification from the kept state, refetching the inbox
// when it is not there.
func (s *Service) find(ctx context.Context, userKey string, id int64) (notification.Notification, error) {
	u := s.userInbox(userKey)
	u.mu.Lock()
	for _, n := range u.list {
		if n.ID == id {
			u.mu.Unlock()
			return n, nil
		}
	}
	u.mu.Unlock()

	list, err := s.notifications.List(ctx)
	if err != nil {
		return notification.Notification{}, fmt.Errorf("list notifications: %w", err)
	}
	for _, n := range list {
		if n.ID == id {
			return n, nil
		}
	}
	return notification.Notification{}, ErrNotificationNotFound
}

// Accept re-validates an invite and accepts it only while still pending.
// Otherwise the local status is updated and nothing else happens.
func (s *Service) Accept(ctx context.Context, userKey string, notificationID int64) (*AcceptOutcome, error) {
	n, err := s.find(ctx, userKey, notificationID)
	if err != nil {
		return nil, err
	}
	if !n.IsInvite() {
		return nil, ErrNotInvite
	}
	payload := notification.ParseInvite(n.Data)
	if payload.Token == "" {
		s.setStatus(userKey, n.ID, notification.InviteInvalid)
		return &AcceptOutcome{Status: notification.InviteInvalid, Badge: notification.InviteInvalid.Badge()}, nil
	}

	check, err := s.teams.CheckInvitation(ctx, payload.Token)
	st := notification.InviteRevoked
	if err == nil {
		st = notification.FromInvitation(check.Status)
	} else {
		s.logger.Debug("invitation re-check failed", zap.Error(err))
	}
	if st != notification.InvitePending {
		s.setStatus(userKey, n.ID, st)
		return &AcceptOutcome{Status: st, Badge: st.Badge()}, nil
	}

	res, err := s.teams.AcceptInvitation(ctx, payload.Token)
	if err != nil {
		return nil, fmt.Errorf("accept invitation: %w", err)
	}
	if err := s.MarkRead(ctx, userKey, n.ID); err != nil {
		s.logger.Debug("mark accepted invite read", zap.Error(err))
	}
	s.setStatus(userKey, n.ID, notification.InviteAccepted)

	teamID := res.TeamID
	if teamID == 0 {
		teamID = payload.TeamID.Int64()
	}
	out := &AcceptOutcome{
		Status:   notification.InviteAccepted,
		Badge:    notification.InviteAccepted.Badge(),
		TeamID:   teamID,
		TeamName: firstNonEmpty(res.TeamName, payload.TeamName),
	}
	if teamID != 0 {
		s.joinTeam(ctx, userKey, teamID)
		out.Redirect = s.settingsPath
	}
	return out, nil
}

// AcceptToken accepts an invitation from an emailed link. Tokens the backend
// rejects as unknown or used are terminal.
func (s *Service) AcceptToken(ctx context.Context, userKey, token string) (*AcceptOutcome, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.InvitationInvalid("Invalid invitation link")
	}
	res, err := s.teams.AcceptInvitation(ctx, token)
	if err != nil {
		msg := outbound.MessageOf(err, "Failed to accept invitation")
		if InvalidToken(err) {
			return nil, apperrors.InvitationInvalid(msg)
		}
		return nil, fmt.Errorf("accept invitation: %w", err)
	}
	out := &AcceptOutcome{
		Status:   notification.InviteAccepted,
		Badge:    notification.InviteAccepted.Badge(),
		TeamID:   res.TeamID,
		TeamName: res.TeamName,
		Redirect: "/dashboard",
	}
	if res.TeamID != 0 {
		s.joinTeam(ctx, userKey, res.TeamID)
	}
	return out, nil
}

// InvalidToken reports backend answers that mean the token can never be
// accepted.
func InvalidToken(err error) bool {
	switch outbound.StatusOf(err) {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusGone:
		return true
	}
	return false
}

// joinTeam refreshes the tenant list and switches to the joined team.
func (s *Service) joinTeam(ctx context.Context, userKey string, teamID int64) {
	tc := s.tenants.For(ctx, userKey)
	if _, err := tc.Refresh(ctx); err != nil {
		s.logger.Warn("refresh tenants after accept", zap.Error(err))
		return
	}
	if _, err := tc.SwitchTo(ctx, teamID); err != nil && !errors.Is(err, tenant.ErrTeamNotFound) {
		s.logger.Warn("switch to joined team", zap.Error(err))
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
