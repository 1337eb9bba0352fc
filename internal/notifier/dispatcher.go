package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/scriptink/writofest-api/internal/logging"
	"github.com/scriptink/writofest-api/internal/models"
)

// Recorder counts delivery attempts per channel.
type Recorder interface {
	RecordNotification(channel string, err error)
}

// Dispatcher runs every notifier in its own goroutine. Delivery is best
// effort: there is no retry and failures are only logged.
type Dispatcher struct {
	notifiers []Notifier
	recorder  Recorder
	wg        sync.WaitGroup
}

// NewDispatcher returns a dispatcher over notifiers. recorder may be nil.
func NewDispatcher(recorder Recorder, notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{notifiers: notifiers, recorder: recorder}
}

// Dispatch returns immediately. The notifications outlive the request context.
func (d *Dispatcher) Dispatch(ctx context.Context, reg models.Registration) {
	ctx = context.WithoutCancel(ctx)
	logger := logging.FromContext(ctx).With(slog.Uint64("registration_id", uint64(reg.ID)))

	for _, n := range d.notifiers {
		d.wg.Go(func() {
			err := deliver(ctx, n, reg)
			if d.recorder != nil {
				d.recorder.RecordNotification(n.Channel(), err)
			}
			if err != nil {
				logger.Warn("notification failed",
					slog.String("channel", n.Channel()),
					slog.Any("error", err),
				)
				return
			}
			logger.Info("notification sent", slog.String("channel", n.Channel()))
		})
	}
}

func deliver(ctx context.Context, n Notifier, reg models.Registration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panicked: %v", r)
		}
	}()
	return n.NotifyRegistration(ctx, reg)
}

// Wait blocks until in-flight notifications finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
