package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	merr "github.com/next-trace/scg-mediator/contract/errors"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
)

// Send dispatches req and asserts the response to R.
func Send[R any](ctx context.Context, s cmed.Sender, req cmed.Request[R]) (R, error) {
	var zero R

	res, err := s.Send(ctx, req)
	if err != nil {
		return zero, err
	}

	if res == nil {
		return zero, nil
	}

	r, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("send %T: handler returned %T: %w", req, res, merr.ErrHandlerTypeMismatch)
	}

	return r, nil
}

// Send resolves the single handler bound to the concrete type of req and invokes it.
// Handler errors are returned unmodified. Requests that fail before a handler runs
// are reported to the RequestObservers instead of the middleware chain.
func (m *Mediator) Send(ctx context.Context, req any) (any, error) {
	if isNil(req) {
		return nil, fmt.Errorf("send %T: %w", req, merr.ErrNilMessage)
	}

	r, ok := req.(cmed.Responder)
	if !ok {
		return nil, fmt.Errorf("send %T: not a request: %w", req, merr.ErrHandlerTypeMismatch)
	}

	t := reflect.TypeOf(req)
	if err := ctx.Err(); err != nil {
		return nil, m.reject(ctx, req, canceled("send", t, err))
	}

	key := cmed.RequestKey(t, r.ResponseType())

	fs := m.loc.Factories(key)
	switch {
	case len(fs) == 0:
		return nil, m.reject(ctx, req, fmt.Errorf("send %s: no %s registered: %w", t, key, merr.ErrHandlerNotFound))
	case len(fs) > 1:
		return nil, m.reject(ctx, req, fmt.Errorf("send %s: %d handlers registered for %s: %w", t, len(fs), key, merr.ErrAmbiguousHandler))
	}

	inst, err := fs[0](m.loc)
	if err != nil {
		return nil, m.reject(ctx, req, fmt.Errorf("send %s: %w", t, errors.Join(merr.ErrResolveFailed, err)))
	}

	h, ok := inst.(cmed.AnyRequestHandler)
	if !ok {
		return nil, m.reject(ctx, req, fmt.Errorf("send %s: resolved %T: %w", t, inst, merr.ErrHandlerTypeMismatch))
	}

	ctx, id := m.dispatchContext(ctx)
	m.logger.DebugContext(ctx, "mediator send",
		slogRequest(t), slogHandler(h), slogDispatchID(id))

	next := cmed.RequestFunc(h.HandleRequest)
	for i := len(m.reqMW) - 1; i >= 0; i-- {
		next = m.reqMW[i](next)
	}

	return next(ctx, req)
}

func (m *Mediator) reject(ctx context.Context, req any, err error) error {
	for _, obs := range m.reqObs {
		obs(ctx, req, err)
	}

	return err
}
