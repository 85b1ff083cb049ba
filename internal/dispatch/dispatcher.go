package dispatch

import (
	"context"
	"time"
)

// ApprovalEvent is emitted when an editor approves an article. The
// fan-out engine turns it into notifications and emails.
type ApprovalEvent struct {
	ArticleID  string    `json:"article_id"`
	ApprovedBy string    `json:"approved_by"`
	ApprovedAt time.Time `json:"approved_at"`
}

// FanoutFunc performs the notification fan-out for an approval event.
type FanoutFunc func(ctx context.Context, event ApprovalEvent) error

// NotificationDispatcher routes approval events to the fan-out engine.
// The inline dispatcher runs fan-out in-process; the kafka dispatcher
// hands the event to the email worker.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, event ApprovalEvent) error
	Close() error
}
