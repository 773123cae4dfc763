package dispatcher_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	cmed "github.com/next-trace/scg-mediator/contract/mediator"
	"github.com/next-trace/scg-mediator/dispatcher"
	"github.com/next-trace/scg-mediator/locator"
	"github.com/next-trace/scg-mediator/modules"
	"github.com/next-trace/scg-mediator/registry"
)

type Echo struct {
	cmed.Returns[string]
	Text string
}

type EchoHandler struct{}

func (EchoHandler) Handle(_ context.Context, e Echo) (string, error) { return e.Text, nil }

func newEchoHandler() EchoHandler { return EchoHandler{} }

type Ping struct {
	cmed.Returns[int]
}

type OrderPlaced struct {
	cmed.Notice
	ID string
}

var errInventory = errors.New("inventory unavailable")

type InventoryListener struct{}

func (InventoryListener) Handle(context.Context, OrderPlaced) error { return errInventory }

type recorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, s)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

// EmailListener records into the recorder resolved from the locator.
type EmailListener struct{ rec *recorder }

func (l EmailListener) Handle(_ context.Context, e OrderPlaced) error {
	l.rec.add("email:" + e.ID)
	return nil
}

var (
	echoModule   = modules.New("dispatcher_test/echo", registry.Handler[Echo, string](newEchoHandler))
	ordersModule = modules.New("dispatcher_test/orders", registry.Listener[OrderPlaced](func() InventoryListener {
		return InventoryListener{}
	}))
)

func init() {
	modules.MustLoad(echoModule)
	modules.MustLoad(ordersModule)
}

// build registers a mediator over the selected modules and returns it.
func build(t *testing.T, reg dispatcher.Registrar, args ...any) (*dispatcher.Mediator, *locator.Provider) {
	t.Helper()

	c := locator.NewCollection()
	if err := reg.AddMediator(c, args...); err != nil {
		t.Fatalf("add mediator: %v", err)
	}

	p := c.Build()

	m, err := locator.Get[*dispatcher.Mediator](p)
	if err != nil {
		t.Fatalf("get mediator: %v", err)
	}

	return m, p
}

// over builds a mediator directly over components, bypassing the container.
func over(comps []registry.Component, opts ...dispatcher.Option) *dispatcher.Mediator {
	mods := []*modules.Module{modules.NewSynthetic("inline", comps...)}
	bs := registry.Scan(mods, cmed.ShapeNotificationHandler)
	bs = append(bs, registry.Scan(mods, cmed.ShapeRequestHandler)...)

	return dispatcher.New(registry.New(bs...), opts...)
}

type fakeLocator map[cmed.Key][]cmed.Factory

func (f fakeLocator) Factories(key cmed.Key) []cmed.Factory { return f[key] }

type hiddenEcho struct{}

func (hiddenEcho) Handle(_ context.Context, e Echo) (string, error) { return e.Text, nil }
