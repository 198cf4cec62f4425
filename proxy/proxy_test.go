package proxy

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter interface {
	Greet(name string) (string, error)
	Count(words ...string) int
}

type englishGreeter struct {
	err error
}

func (g englishGreeter) Greet(name string) (string, error) {
	return "hello " + name, g.err
}

func (englishGreeter) Count(words ...string) int {
	return len(words)
}

var (
	greeterGreetMethod = NewMethod("Greet", func(target any, args []any) ([]any, error) {
		r0, err := target.(greeter).Greet(Arg[string](args, 0))
		return []any{r0}, err
	})
	greeterCountMethod = NewMethod("Count", func(target any, args []any) ([]any, error) {
		r0 := target.(greeter).Count(Arg[[]string](args, 0)...)
		return []any{r0}, nil
	})
	greeterDescriptor = MustDescribe[greeter](greeterCountMethod, greeterGreetMethod)
)

type greeterProxy struct {
	Base
}

func (p greeterProxy) Greet(name string) (string, error) {
	out, err := Dispatch(p.Base, p, greeterGreetMethod, name)
	return Result[string](out, 0), err
}

func (p greeterProxy) Count(words ...string) int {
	out, err := Dispatch(p.Base, p, greeterCountMethod, words)
	if err != nil {
		panic(err)
	}
	return Result[int](out, 0)
}

// forward is an interceptor that dispatches every call to target.
func forward(target any) Interceptor {
	return InterceptorFunc(func(_ any, method *Method, args []any) ([]any, error) {
		return method.Call(target, args)
	})
}

func newGreeterRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	err := Register[greeter](r, greeterDescriptor, func(base Base) greeter {
		return greeterProxy{Base: base}
	})
	require.NoError(t, err)
	return r
}

func TestDescriptorOrdersMethodsByInterface(t *testing.T) {
	methods := greeterDescriptor.Methods()
	require.Len(t, methods, 2)
	assert.Equal(t, "Count", methods[0].Name())
	assert.Equal(t, "Greet", methods[1].Name())
	assert.Equal(t, InterfaceOf[greeter](), greeterDescriptor.Type())

	m, found := greeterDescriptor.Method("Greet")
	require.True(t, found)
	assert.Same(t, greeterGreetMethod, m)
	assert.Equal(t, "proxy.greeter.Greet(string) (string, error)", m.String())
	assert.Equal(t, "proxy.greeter.Count(...string) int", greeterCountMethod.String())

	_, found = greeterDescriptor.Method("Wave")
	assert.False(t, found)
}

func TestDescribeValidation(t *testing.T) {
	noop := func(any, []any) ([]any, error) { return nil, nil }

	_, err := Describe[int]()
	assert.True(t, errors.Is(err, ErrNotInterface))

	_, err = Describe[greeter](NewMethod("Greet", noop))
	assert.ErrorContains(t, err, "Count has no dispatch entry")

	_, err = Describe[greeter](NewMethod("Greet", noop), NewMethod("Count", noop), NewMethod("Wave", noop))
	assert.True(t, errors.Is(err, ErrUnknownMethod))

	_, err = Describe[greeter](NewMethod("Greet", noop), NewMethod("Greet", noop), NewMethod("Count", noop))
	assert.ErrorContains(t, err, "described twice")

	_, err = Describe[greeter](greeterGreetMethod, NewMethod("Count", noop))
	assert.ErrorContains(t, err, "already bound")

	assert.Panics(t, func() {
		MustDescribe[greeter]()
	})
}

func TestMethodCall(t *testing.T) {
	out, err := greeterGreetMethod.Call(englishGreeter{}, []any{"gopher"})
	require.NoError(t, err)
	assert.Equal(t, []any{"hello gopher"}, out)

	out, err = greeterCountMethod.Call(englishGreeter{}, []any{[]string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []any{2}, out)

	out, err = greeterCountMethod.Call(englishGreeter{}, []any{nil})
	require.NoError(t, err)
	assert.Equal(t, []any{0}, out)

	want := errors.New("boom")
	_, err = greeterGreetMethod.Call(englishGreeter{err: want}, []any{"gopher"})
	assert.Equal(t, want, err)
}

func TestMethodCallValidation(t *testing.T) {
	tests := []struct {
		name   string
		method *Method
		target any
		args   []any
		want   error
	}{
		{name: "unbound", method: NewMethod("Greet", nil), target: englishGreeter{}, args: []any{"x"}, want: ErrUnknownMethod},
		{name: "nil target", method: greeterGreetMethod, target: nil, args: []any{"x"}, want: ErrNilTarget},
		{name: "mismatch", method: greeterGreetMethod, target: 42, args: []any{"x"}, want: ErrTargetMismatch},
		{name: "too few", method: greeterGreetMethod, target: englishGreeter{}, args: nil, want: ErrArity},
		{name: "too many", method: greeterGreetMethod, target: englishGreeter{}, args: []any{"x", "y"}, want: ErrArity},
		{name: "wrong type", method: greeterGreetMethod, target: englishGreeter{}, args: []any{42}, want: ErrArgumentType},
		{name: "nil string", method: greeterGreetMethod, target: englishGreeter{}, args: []any{nil}, want: ErrArgumentType},
		{name: "variadic element", method: greeterCountMethod, target: englishGreeter{}, args: []any{"a"}, want: ErrArgumentType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.method.Call(tt.target, tt.args)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestReflectDescriptor(t *testing.T) {
	desc, err := Reflect(InterfaceOf[greeter]())
	require.NoError(t, err)
	assert.Equal(t, InterfaceOf[greeter](), desc.Type())

	greet, found := desc.Method("Greet")
	require.True(t, found)
	out, err := greet.Call(englishGreeter{}, []any{"gopher"})
	require.NoError(t, err)
	assert.Equal(t, []any{"hello gopher"}, out)

	want := errors.New("boom")
	_, err = greet.Call(englishGreeter{err: want}, []any{"gopher"})
	assert.Equal(t, want, err)

	count, found := desc.Method("Count")
	require.True(t, found)
	out, err = count.Call(englishGreeter{}, []any{[]string{"a", "b", "c"}})
	require.NoError(t, err)
	assert.Equal(t, []any{3}, out)

	out, err = count.Call(englishGreeter{}, []any{nil})
	require.NoError(t, err)
	assert.Equal(t, []any{0}, out)

	_, err = Reflect(InterfaceOf[string]())
	assert.True(t, errors.Is(err, ErrNotInterface))
}

func TestReflectDescriptorPassesNilError(t *testing.T) {
	desc, err := Reflect(InterfaceOf[fmt.Stringer]())
	require.NoError(t, err)
	m, found := desc.Method("String")
	require.True(t, found)

	out, err := m.Call(englishStringer{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"english"}, out)
}

type englishStringer struct{}

func (englishStringer) String() string { return "english" }

func TestRegistryNew(t *testing.T) {
	r := newGreeterRegistry(t)
	interceptor := forward(englishGreeter{})

	g, err := New[greeter](r, interceptor)
	require.NoError(t, err)

	msg, err := g.Greet("gopher")
	require.NoError(t, err)
	assert.Equal(t, "hello gopher", msg)
	assert.Equal(t, 2, g.Count("a", "b"))

	assert.True(t, r.IsProxy(g))
	assert.False(t, r.IsProxy(englishGreeter{}))
	assert.False(t, r.IsProxy(nil))
	proxyType, err := r.ProxyType(InterfaceOf[greeter]())
	require.NoError(t, err)
	assert.True(t, r.IsProxyType(proxyType))

	desc, err := r.Descriptor(InterfaceOf[greeter]())
	require.NoError(t, err)
	assert.Same(t, greeterDescriptor, desc)
}

func TestRegistryInterceptorOf(t *testing.T) {
	r := newGreeterRegistry(t)
	interceptor := &countingInterceptor{}

	g, err := New[greeter](r, interceptor)
	require.NoError(t, err)
	got, err := r.InterceptorOf(g)
	require.NoError(t, err)
	assert.Same(t, interceptor, got)

	_, err = r.InterceptorOf(englishGreeter{})
	assert.True(t, errors.Is(err, ErrNotProxy))

	_, err = r.InterceptorOf(greeterProxy{})
	assert.True(t, errors.Is(err, ErrNoInterceptor))
}

func TestRegistryIdentityIsStableAcrossNew(t *testing.T) {
	r := newGreeterRegistry(t)
	first := &countingInterceptor{}
	g1, err := New[greeter](r, first)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = New[greeter](r, &countingInterceptor{})
		require.NoError(t, err)
	}

	assert.True(t, r.IsProxy(g1))
	got, err := r.InterceptorOf(g1)
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestRegistryRegister(t *testing.T) {
	r := newGreeterRegistry(t)
	construct := func(base Base) greeter {
		return greeterProxy{Base: base}
	}

	err := Register[greeter](r, greeterDescriptor, construct)
	assert.NoError(t, err)

	other, err := Reflect(InterfaceOf[greeter]())
	require.NoError(t, err)
	err = Register[greeter](r, other, construct)
	assert.True(t, errors.Is(err, ErrAlreadyRegistered))

	err = Register[fmt.Stringer](r, greeterDescriptor, nil)
	assert.ErrorContains(t, err, "not fmt.Stringer")

	err = NewRegistry().Register(greeterDescriptor, func(Base) any {
		return englishGreeter{}
	})
	assert.ErrorContains(t, err, "does not embed proxy.Base")

	err = NewRegistry().Register(greeterDescriptor, func(Base) any {
		return nil
	})
	assert.ErrorContains(t, err, "returned nil")

	err = NewRegistry().Register(greeterDescriptor, func(base Base) any {
		return base
	})
	assert.True(t, errors.Is(err, ErrTargetMismatch))
}

func TestRegistryNewErrors(t *testing.T) {
	r := NewRegistry()

	_, err := New[greeter](r, forward(englishGreeter{}))
	assert.True(t, errors.Is(err, ErrNotRegistered))

	_, err = r.ProxyType(InterfaceOf[greeter]())
	assert.True(t, errors.Is(err, ErrNotRegistered))

	r = newGreeterRegistry(t)
	_, err = New[greeter](r, nil)
	assert.True(t, errors.Is(err, ErrNoInterceptor))
}

func TestDispatchWithoutInterceptor(t *testing.T) {
	_, err := greeterProxy{}.Greet("gopher")
	assert.True(t, errors.Is(err, ErrNoInterceptor))
}

type countingInterceptor struct {
	calls int
}

func (c *countingInterceptor) Invoke(_ any, _ *Method, _ []any) ([]any, error) {
	c.calls++
	return nil, nil
}

func TestResult(t *testing.T) {
	assert.Equal(t, "", Result[string](nil, 0))
	assert.Equal(t, 7, Result[int]([]any{7}, 0))
	assert.Nil(t, Result[error]([]any{nil}, 0))
}
