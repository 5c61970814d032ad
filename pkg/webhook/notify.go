package webhook

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/srtfix/pkg/config"
	"github.com/ccollicutt/srtfix/pkg/output"
)

// maxConcurrentSends bounds how many hooks are delivered at once.
const maxConcurrentSends = 4

// ShouldFire reports whether a webhook with the given trigger fires for a
// report. An unknown trigger behaves like on_issues.
func ShouldFire(trigger config.WebhookTrigger, hasIssues bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasIssues
	}
}

// Notify sends report to every hook whose trigger fires. Deliveries run in
// parallel; results are logged and returned in hook order, and skipped hooks
// have no entry. A failed delivery never stops the others.
func (c *Client) Notify(ctx context.Context, hooks []config.WebhookConfig, event Event, report *output.Report) []*Response {
	slots := make([]*Response, len(hooks))

	var g errgroup.Group
	g.SetLimit(maxConcurrentSends)

	for i, wh := range hooks {
		if !ShouldFire(wh.Trigger, report.HasIssues()) {
			continue
		}

		g.Go(func() error {
			resp := c.Send(ctx, report, SendOptions{
				URL:     wh.URL,
				Token:   wh.Token,
				Timeout: wh.Timeout,
				Event:   event,
			})
			slots[i] = resp
			logDelivery(wh, resp)
			return nil
		})
	}
	_ = g.Wait()

	var responses []*Response
	for _, resp := range slots {
		if resp != nil {
			responses = append(responses, resp)
		}
	}
	return responses
}

func logDelivery(wh config.WebhookConfig, resp *Response) {
	name := wh.Name
	if name == "" {
		name = wh.URL
	}

	if resp.Success() {
		slog.Info("webhook sent", "webhook", name, "status", resp.StatusCode,
			"duration", resp.Duration, "delivery", resp.DeliveryID)
	} else {
		slog.Warn("webhook failed", "webhook", name, "err", resp.Error, "delivery", resp.DeliveryID)
	}
}
