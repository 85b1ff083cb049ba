package dispatch

import (
	"context"

	"newsroom_backend/internal/logger"
)

// InlineDispatcher runs the fan-out synchronously in the calling
// goroutine. A fan-out failure is logged but never propagated, so the
// approval itself is not rolled back.
type InlineDispatcher struct {
	fanout FanoutFunc
}

func NewInlineDispatcher(fanout FanoutFunc) *InlineDispatcher {
	return &InlineDispatcher{fanout: fanout}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, event ApprovalEvent) error {
	if err := d.fanout(ctx, event); err != nil {
		logger.CtxWithError(ctx, "notification fan-out failed", err, "article_id", event.ArticleID)
	}
	return nil
}

func (d *InlineDispatcher) Close() error {
	return nil
}
