package notification

import (
	"context"
	"testing"
	"time"

	"identity/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// stubNotifier lets tests control how the inner notifier behaves.
type stubNotifier struct {
	delay time.Duration
	err   error
	sent  []service.Message
}

func (s *stubNotifier) Send(ctx context.Context, msg service.Message) error {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.sent = append(s.sent, msg)

	return s.err
}

func TestTimeoutNotifier_PassesThrough(t *testing.T) {
	inner := &stubNotifier{}
	notifier := WithTimeout(inner, time.Second)

	msg := service.Message{To: "user@example.com", Subject: "Hello", Body: "<p>Hi</p>"}
	err := notifier.Send(context.Background(), msg)

	assert.NoError(t, err)
	assert.Equal(t, []service.Message{msg}, inner.sent)
}

func TestTimeoutNotifier_PropagatesInnerError(t *testing.T) {
	innerErr := errors.New("smtp handshake failed")
	inner := &stubNotifier{err: innerErr}
	notifier := WithTimeout(inner, time.Second)

	err := notifier.Send(context.Background(), service.Message{To: "user@example.com"})
	assert.ErrorIs(t, err, innerErr)
}

func TestTimeoutNotifier_EnforcesTimeout(t *testing.T) {
	inner := &stubNotifier{delay: time.Second}
	notifier := WithTimeout(inner, 20*time.Millisecond)

	start := time.Now()
	err := notifier.Send(context.Background(), service.Message{To: "user@example.com"})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestTimeoutNotifier_RespectsCallerCancellation(t *testing.T) {
	inner := &stubNotifier{delay: time.Second}
	notifier := WithTimeout(inner, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := notifier.Send(ctx, service.Message{To: "user@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithTimeout_DefaultsNonPositiveTimeout(t *testing.T) {
	notifier := WithTimeout(&stubNotifier{}, 0)
	impl, ok := notifier.(*timeoutNotifier)
	assert.True(t, ok)
	assert.Equal(t, defaultSendTimeout, impl.timeout)
}
