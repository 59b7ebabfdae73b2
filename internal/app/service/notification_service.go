package service

import (
	"context"
	"sync"

	"github.com/ikkim/storefront/internal/app/model"
)

// Notifications collects the notifications of one request.
type Notifications struct {
	mu    sync.Mutex
	items []model.Notification
}

func (n *Notifications) add(item model.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, item)
}

// List returns the collected notifications in emission order.
func (n *Notifications) List() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.Notification, len(n.items))
	copy(out, n.items)
	return out
}

type notificationsKey struct{}

// WithNotifications attaches a fresh collector to ctx.
func WithNotifications(ctx context.Context) (context.Context, *Notifications) {
	n := &Notifications{}
	return context.WithValue(ctx, notificationsKey{}, n), n
}

func NotificationsFromContext(ctx context.Context) *Notifications {
	n, _ := ctx.Value(notificationsKey{}).(*Notifications)
	return n
}

// Notify records a notification if ctx carries a collector.
func Notify(ctx context.Context, title, description string) {
	emit(ctx, model.Notification{Title: title, Description: description, Variant: model.NotificationDefault})
}

// NotifyError records a destructive notification.
func NotifyError(ctx context.Context, title, description string) {
	emit(ctx, model.Notification{Title: title, Description: description, Variant: model.NotificationDestructive})
}

func emit(ctx context.Context, n model.Notification) {
	if c := NotificationsFromContext(ctx); c != nil {
		c.add(n)
	}
}
