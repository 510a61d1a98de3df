package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/youruser/mockupapp/internal/util"
)

// Callback is the body posted to a caller's webhook when a job finishes.
type Callback struct {
	Status   string          `json:"status"`
	ImageURL string          `json:"image_url"`
	Metadata json.RawMessage `json:"metadata"`
}

// Notifier posts job results to webhooks. Failures are logged and reported
// back as false, never as an error: a dead webhook must not fail the job.
type Notifier struct {
	client *http.Client
	log    zerolog.Logger
}

// NewNotifier posts with the given timeout. With blockPrivate set, webhooks
// pointing at internal addresses are refused.
func NewNotifier(timeout time.Duration, blockPrivate bool, log zerolog.Logger) *Notifier {
	client := util.NewClient(timeout)
	if blockPrivate {
		client = util.NewGuardedClient(timeout)
	}
	return &Notifier{client: client, log: log}
}

func (n *Notifier) Notify(ctx context.Context, url string, cb Callback) bool {
	if len(cb.Metadata) == 0 {
		cb.Metadata = json.RawMessage("null")
	}
	// The caller's request may already be finishing; the callback still goes
	// out under the client timeout.
	ctx = context.WithoutCancel(ctx)
	if _, err := util.PostJSON(ctx, n.client, url, cb); err != nil {
		n.log.Warn().Err(err).Str("webhook", url).Msg("webhook delivery failed")
		return false
	}
	n.log.Debug().Str("webhook", url).Msg("webhook delivered")
	return true
}
