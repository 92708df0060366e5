package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/teamdeck/console/internal/domain/notification"
	"github.com/teamdeck/console/internal/port/outbound"
)

// Notifications wraps the /notifications endpoints.
type Notifications struct {
	c *Client
}

// NewNotifications returns the notification wrapper.
func NewNotifications(c *Client) *Notifications {
	return &Notifications{c: c}
}

func (n *Notifications) List(ctx context.Context) ([]notification.Notification, error) {
	const op = "notifications.list"
	raw, err := n.c.send(ctx, call{op: op, method: http.MethodGet, path: "/notifications"})
	if err != nil {
		return nil, err
	}
	list, err := notification.Normalize(raw.body)
	if err != nil {
		return nil, fmt.Errorf("backend %s: decode response: %w", op, err)
	}
	return list, nil
}

func (n *Notifications) MarkRead(ctx context.Context, id int64) error {
	return n.c.do(ctx, call{op: "notifications.mark_read", method: http.MethodPatch, path: pathf("/notifications/%d/read", id)}, nil)
}

var _ outbound.NotificationAPI = (*Notifications)(nil)
