package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	merr "github.com/next-trace/scg-mediator/contract/errors"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
)

// Publish delivers n to every handler bound to its concrete type. Every started handler
// runs to completion; failures are collected into a *errors.AggregateError in
// registration order. Handlers not started because ctx was done are reported by an
// ErrCanceled error, alone or joined with the aggregate. With no handlers Publish
// returns nil.
func (m *Mediator) Publish(ctx context.Context, n cmed.Notification) error {
	if isNil(n) {
		return fmt.Errorf("publish %T: %w", n, merr.ErrNilMessage)
	}

	t := reflect.TypeOf(n)
	if err := ctx.Err(); err != nil {
		return canceled("publish", t, err)
	}

	fs := m.loc.Factories(cmed.NotificationKey(t))
	if len(fs) == 0 {
		m.logger.DebugContext(ctx, "mediator publish without handlers", slogNotification(t))
		return nil
	}

	ctx, id := m.dispatchContext(ctx)
	m.logger.DebugContext(ctx, "mediator publish",
		slogNotification(t), slog.Int("handlers", len(fs)), slog.String("strategy", m.strategy.String()), slogDispatchID(id))

	var (
		errs    []error
		stopped error
	)

	if m.strategy == Concurrent {
		errs, stopped = m.publishConcurrent(ctx, n, t, fs)
	} else {
		errs, stopped = m.publishSequential(ctx, n, t, fs)
	}

	if len(errs) == 0 {
		if stopped != nil {
			m.logger.DebugContext(ctx, "mediator publish canceled", slogNotification(t), slogDispatchID(id))
		}

		return stopped
	}

	agg := &merr.AggregateError{Op: "publish " + t.String(), Errs: errs}
	m.logger.WarnContext(ctx, "mediator publish failed",
		slogNotification(t), slog.Int("failed", agg.Len()), slog.Int("handlers", len(fs)), slogDispatchID(id))

	if stopped != nil {
		return errors.Join(agg, stopped)
	}

	return agg
}

// publishSequential runs handlers in order. Once ctx is done the remaining handlers
// are not started and the cancellation is returned apart from handler failures.
func (m *Mediator) publishSequential(ctx context.Context, n any, t reflect.Type, fs []cmed.Factory) ([]error, error) {
	var errs []error

	for i, f := range fs {
		if err := ctx.Err(); err != nil {
			return errs, notStarted(t, len(fs)-i, len(fs), err)
		}

		if err := m.notify(ctx, n, t, i, f); err != nil {
			errs = append(errs, err)
		}
	}

	return errs, nil
}

func (m *Mediator) publishConcurrent(ctx context.Context, n any, t reflect.Type, fs []cmed.Factory) ([]error, error) {
	results := make([]error, len(fs))
	skipped := make([]bool, len(fs))

	var wg sync.WaitGroup
	for i, f := range fs {
		wg.Go(func() {
			if ctx.Err() != nil {
				skipped[i] = true
				return
			}

			results[i] = m.notify(ctx, n, t, i, f)
		})
	}

	wg.Wait()

	var (
		errs []error
		idle int
	)

	for i, err := range results {
		if skipped[i] {
			idle++
			continue
		}

		if err != nil {
			errs = append(errs, err)
		}
	}

	if idle > 0 {
		return errs, notStarted(t, idle, len(fs), ctx.Err())
	}

	return errs, nil
}

func notStarted(t reflect.Type, idle, total int, cause error) error {
	return fmt.Errorf("%d of %d handler(s) not started: %w", idle, total, canceled("publish", t, cause))
}

func (m *Mediator) notify(ctx context.Context, n any, t reflect.Type, idx int, f cmed.Factory) (err error) {
	name := fmt.Sprintf("handler #%d", idx)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s for %s: %w: %v", name, t, merr.ErrHandlerPanicked, r)
		}
	}()

	inst, err := f(m.loc)
	if err != nil {
		return fmt.Errorf("%s for %s: %w", name, t, errors.Join(merr.ErrResolveFailed, err))
	}

	h, ok := inst.(cmed.AnyNotificationHandler)
	if !ok {
		return fmt.Errorf("%s for %s: resolved %T: %w", name, t, inst, merr.ErrHandlerTypeMismatch)
	}

	name = implName(h)

	next := cmed.NotificationFunc(h.HandleNotification)
	for i := len(m.notMW) - 1; i >= 0; i-- {
		next = m.notMW[i](next)
	}

	if err := next(ctx, n); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}
