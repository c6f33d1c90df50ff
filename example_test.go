package decor_test

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"reflect"

	"github.com/hupe1980/decor"
	"github.com/hupe1980/decor/accessor"
	"github.com/hupe1980/decor/dump"
	"github.com/hupe1980/decor/param"
	"github.com/hupe1980/decor/registry"
	"github.com/hupe1980/decor/wrap"
)

type Session struct {
	User string
}

type UserController struct{}

type OrderController struct{}

type Mailer struct{}

func (m *Mailer) Send(to any, subject any, body any) error { return nil }

// Example_instanceAnnotations attaches per-instance state to objects the
// store does not own. Entries expire with their keys.
func Example_instanceAnnotations() {
	store := decor.NewStore[Session, string]()

	s := &Session{User: "alice"}
	if err := store.Set(s, "admin"); err != nil {
		log.Fatal(err)
	}

	role, ok := store.Get(s)
	fmt.Println(role, ok)

	// A structurally identical session has its own identity.
	twin := &Session{User: "alice"}
	_, ok = store.Get(twin)
	fmt.Println(ok)
	// Output:
	// admin true
	// false
}

// Example_typeRegistry registers metadata per type, the way an HTTP layer
// maps controllers to route prefixes.
func Example_typeRegistry() {
	routes := registry.NewTypes[string]()

	if err := registry.SetOf[UserController](routes, "/users"); err != nil {
		log.Fatal(err)
	}
	if err := registry.SetOf[OrderController](routes, "/orders"); err != nil {
		log.Fatal(err)
	}

	path, _ := registry.GetOf[UserController](routes)
	fmt.Println(path)
	fmt.Println(routes.Len())
	// Output:
	// /users
	// 2
}

// Example_readonlyAccessor rejects writes while keeping reads open.
func Example_readonlyAccessor() {
	v := accessor.NewVar("limit", 100)
	ro := accessor.Readonly[int](v)

	fmt.Println(ro.Get())

	if err := ro.Set(200); err != nil {
		fmt.Println(err)
	}
	fmt.Println(ro.Get())
	// Output:
	// 100
	// immutable write rejected: limit
	// 100
}

// Example_memoize caches one result per argument identity. The cache never
// keeps an argument alive.
func Example_memoize() {
	calls := 0
	score := wrap.Memo(func(s *Session) (int, error) {
		calls++
		return len(s.User) * 10, nil
	})

	s := &Session{User: "alice"}
	first, _ := score(s)
	second, _ := score(s)

	fmt.Println(first, second, calls)
	// Output: 50 50 1
}

// Example_wrappedFunc decorates a function with hooks at construction time
// instead of patching it afterwards.
func Example_wrappedFunc() {
	double := wrap.New("double", func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	})

	out, err := double.Call(context.Background(), 21)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)
	// Output: 42
}

// Example_requiredParameters validates call arguments against marked
// positions before dispatch.
func Example_requiredParameters() {
	reg := param.NewRegistry()

	mailer := reflect.TypeFor[Mailer]()
	if err := reg.Require(mailer, "Send", 0, 1); err != nil {
		log.Fatal(err)
	}

	err := reg.Check(mailer, "Send", "alice@example.com", nil, "hello")
	fmt.Println(err)
	// Output: method decor_test.Mailer.Send: missing required arguments at positions [1]
}

// Example_dump snapshots a type registry to a portable byte stream and loads
// it back.
func Example_dump() {
	routes := registry.NewTypes[string]()
	if err := registry.SetOf[UserController](routes, "/users"); err != nil {
		log.Fatal(err)
	}

	var buf bytes.Buffer
	if err := dump.Write(&buf, routes.Export()); err != nil {
		log.Fatal(err)
	}

	entries, err := dump.Read[string](&buf)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(len(entries))
	// Output: 1
}
