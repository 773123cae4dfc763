package registry_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	merr "github.com/next-trace/scg-mediator/contract/errors"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
	"github.com/next-trace/scg-mediator/registry"
)

type Echo struct {
	cmed.Returns[string]
	Text string
}

type GetUser struct {
	cmed.Returns[User]
	ID string
}

type User struct{ ID, Name string }

type UserCreated struct {
	cmed.Notice
	ID int
}

type EchoHandler struct{}

func (EchoHandler) Handle(_ context.Context, e Echo) (string, error) { return e.Text, nil }

type UserService struct{ created []int }

func (s *UserService) GetUser(_ context.Context, q GetUser) (User, error) {
	return User{ID: q.ID, Name: "Jane"}, nil
}

func (s *UserService) OnUserCreated(_ context.Context, e UserCreated) error {
	s.created = append(s.created, e.ID)
	return nil
}

type hiddenHandler struct{}

func (hiddenHandler) Handle(_ context.Context, e Echo) (string, error) { return "hidden", nil }

type source struct {
	name  string
	comps []registry.Component
}

func (s source) Name() string                     { return s.name }
func (s source) Components() []registry.Component { return s.comps }

func newUserService(cmed.Locator) (*UserService, error) { return &UserService{}, nil }

func fixture() []source {
	return []source{
		{name: "acme/echo", comps: []registry.Component{
			registry.Handler[Echo, string](func() EchoHandler { return EchoHandler{} }),
			registry.Handler[Echo, string](func() hiddenHandler { return hiddenHandler{} }),
		}},
		{name: "acme/users", comps: []registry.Component{
			registry.Type(newUserService,
				registry.Handles[GetUser, User]((*UserService).GetUser),
				registry.Observes[UserCreated]((*UserService).OnUserCreated),
			),
			registry.ListenerFunc(func(context.Context, UserCreated) error { return nil }),
		}},
	}
}

func Test_Scan_FiltersByShapeInOrder(t *testing.T) {
	reqs := registry.Scan(fixture(), cmed.ShapeRequestHandler)
	if len(reqs) != 2 {
		t.Fatalf("want 2 request bindings, got %d: %v", len(reqs), reqs)
	}

	if reqs[0].Impl != reflect.TypeFor[EchoHandler]() || reqs[0].Module != "acme/echo" {
		t.Fatalf("first binding=%v", reqs[0])
	}

	if reqs[1].Impl != reflect.TypeFor[*UserService]() {
		t.Fatalf("second binding=%v", reqs[1])
	}

	wantKey := cmed.RequestKey(reflect.TypeFor[GetUser](), reflect.TypeFor[User]())
	if reqs[1].Key != wantKey {
		t.Fatalf("key=%s want %s", reqs[1].Key, wantKey)
	}

	nots := registry.Scan(fixture(), cmed.ShapeNotificationHandler)
	if len(nots) != 2 {
		t.Fatalf("want 2 notification bindings, got %d", len(nots))
	}

	if nots[0].Key != nots[1].Key {
		t.Fatalf("both listeners must share the contract key")
	}

	if nots[1].Impl != reflect.TypeFor[registry.FuncListener[UserCreated]]() {
		t.Fatalf("func listener impl=%v", nots[1].Impl)
	}
}

func Test_Scan_SkipsAbstractAndUnexported(t *testing.T) {
	var nilCtor func() EchoHandler

	src := []source{{name: "m", comps: []registry.Component{
		registry.Handler[Echo, string](func() cmed.RequestHandler[Echo, string] { return EchoHandler{} }),
		registry.Handler[Echo, string](nilCtor),
		registry.Handler[Echo, string](func() hiddenHandler { return hiddenHandler{} }),
		registry.HandlerFunc[Echo, string](nil),
		{},
	}}}

	if got := registry.Scan(src, cmed.ShapeRequestHandler); len(got) != 0 {
		t.Fatalf("want no bindings, got %v", got)
	}

	comps := src[0].comps
	if comps[0].Concrete() {
		t.Fatalf("interface-typed component must be abstract")
	}

	if comps[1].Concrete() {
		t.Fatalf("component without constructor must be abstract")
	}

	if comps[2].Exported() {
		t.Fatalf("unexported type must not be visible")
	}
}

func Test_Scan_IsDeterministic(t *testing.T) {
	a := registry.Scan(fixture(), cmed.ShapeRequestHandler)
	b := registry.Scan(fixture(), cmed.ShapeRequestHandler)

	if len(a) != len(b) {
		t.Fatalf("len %d != %d", len(a), len(b))
	}

	for i := range a {
		if a[i].Key != b[i].Key || a[i].Impl != b[i].Impl || a[i].Module != b[i].Module {
			t.Fatalf("binding %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func Test_Registry_LookupAndFactories(t *testing.T) {
	src := fixture()
	reg := registry.New(append(
		registry.Scan(src, cmed.ShapeNotificationHandler),
		registry.Scan(src, cmed.ShapeRequestHandler)...,
	)...)

	if reg.Len() != 4 {
		t.Fatalf("len=%d", reg.Len())
	}

	echoKey := cmed.RequestKey(reflect.TypeFor[Echo](), reflect.TypeFor[string]())
	if reg.Count(echoKey) != 1 {
		t.Fatalf("echo count=%d", reg.Count(echoKey))
	}

	created := cmed.NotificationKey(reflect.TypeFor[UserCreated]())
	if reg.Count(created) != 2 {
		t.Fatalf("user created count=%d", reg.Count(created))
	}

	if keys := reg.Keys(); len(keys) != 3 || keys[0] != created {
		t.Fatalf("keys=%v", keys)
	}

	inst, err := reg.Factories(echoKey)[0](reg)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}

	h, ok := inst.(cmed.AnyRequestHandler)
	if !ok {
		t.Fatalf("instance %T is not a request handler", inst)
	}

	res, err := h.HandleRequest(t.Context(), Echo{Text: "hi"})
	if err != nil || res != "hi" {
		t.Fatalf("handle: res=%v err=%v", res, err)
	}

	if _, err := h.HandleRequest(t.Context(), GetUser{}); !errors.Is(err, merr.ErrHandlerTypeMismatch) {
		t.Fatalf("want ErrHandlerTypeMismatch, got %v", err)
	}

	missing := cmed.RequestKey(reflect.TypeFor[Echo](), reflect.TypeFor[int]())
	if len(reg.Factories(missing)) != 0 || reg.Lookup(missing) != nil {
		t.Fatalf("unknown key must resolve to nothing")
	}
}

func Test_Component_MultipleContracts(t *testing.T) {
	c := registry.Type(newUserService,
		registry.Handles[GetUser, User]((*UserService).GetUser),
		registry.Observes[UserCreated]((*UserService).OnUserCreated),
	)

	keys := c.Keys()
	if len(keys) != 2 || keys[0].Shape != cmed.ShapeRequestHandler || keys[1].Shape != cmed.ShapeNotificationHandler {
		t.Fatalf("keys=%v", keys)
	}

	reg := registry.New(registry.Scan([]source{{name: "u", comps: []registry.Component{c}}}, cmed.ShapeNotificationHandler)...)

	inst, err := reg.Factories(keys[1])[0](reg)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}

	if err := inst.(cmed.AnyNotificationHandler).HandleNotification(t.Context(), UserCreated{ID: 7}); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if impl := inst.(cmed.Implementer).Implementation(); impl != reflect.TypeFor[*UserService]() {
		t.Fatalf("implementation=%v", impl)
	}
}

func Test_Factory_PropagatesConstructorError(t *testing.T) {
	boom := errors.New("no database")
	c := registry.Type(func(cmed.Locator) (*UserService, error) { return nil, boom },
		registry.Handles[GetUser, User]((*UserService).GetUser),
	)

	bs := registry.Scan([]source{{name: "u", comps: []registry.Component{c}}}, cmed.ShapeRequestHandler)
	if len(bs) != 1 {
		t.Fatalf("bindings=%v", bs)
	}

	if _, err := bs[0].Factory(nil); !errors.Is(err, boom) {
		t.Fatalf("want constructor error, got %v", err)
	}
}

func Test_NilRegistry(t *testing.T) {
	var reg *registry.Registry
	if reg.Len() != 0 || reg.Count(cmed.Key{}) != 0 || reg.Factories(cmed.Key{}) != nil {
		t.Fatalf("nil registry must be empty")
	}
}
