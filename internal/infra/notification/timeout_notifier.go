package notification

import (
	"context"
	"time"

	"identity/internal/domain/service"
)

const defaultSendTimeout = 10 * time.Second

// timeoutNotifier enforces a hard per-send timeout on an inner Notifier.
// A provider that hangs is indistinguishable from one that fails: the caller
// sees an error either way and can invalidate whatever the message carried.
type timeoutNotifier struct {
	inner   service.Notifier
	timeout time.Duration
}

// WithTimeout wraps a Notifier with a bounded delivery window.
// A non-positive timeout falls back to defaultSendTimeout.
func WithTimeout(inner service.Notifier, timeout time.Duration) service.Notifier {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}

	return &timeoutNotifier{inner: inner, timeout: timeout}
}

func (n *timeoutNotifier) Send(ctx context.Context, msg service.Message) error {
	sendCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- n.inner.Send(sendCtx, msg)
	}()

	select {
	case err := <-done:
		return err
	case <-sendCtx.Done():
		return sendCtx.Err()
	}
}
