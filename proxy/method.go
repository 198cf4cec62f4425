package proxy

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// CallFunc invokes one interface method on target. The trailing error result
// of the method, if any, is returned as the error; the remaining results are
// returned in order.
type CallFunc func(target any, args []any) ([]any, error)

// Method is one entry of a Descriptor dispatch table.
type Method struct {
	name   string
	call   CallFunc
	iface  reflect.Type
	method reflect.Method
}

// NewMethod creates an unbound dispatch entry. It becomes usable once it is
// passed to Describe.
func NewMethod(name string, call CallFunc) *Method {
	return &Method{name: name, call: call}
}

func (m *Method) Name() string {
	return m.name
}

// Interface returns the interface type the method belongs to.
func (m *Method) Interface() reflect.Type {
	return m.iface
}

// Type returns the method signature without receiver.
func (m *Method) Type() reflect.Type {
	return m.method.Type
}

func (m *Method) String() string {
	if m.iface == nil {
		return m.name
	}
	return m.iface.String() + "." + m.name + strings.TrimPrefix(m.method.Type.String(), "func")
}

// Call validates target and args against the method signature and dispatches
// the call. Errors returned by the target are passed through untouched.
func (m *Method) Call(target any, args []any) ([]any, error) {
	if m.iface == nil {
		return nil, errors.Wrapf(ErrUnknownMethod, "method %s is not bound to a descriptor", m.name)
	}
	if target == nil {
		return nil, errors.Wrapf(ErrNilTarget, "call %s", m)
	}
	if !reflect.TypeOf(target).Implements(m.iface) {
		return nil, errors.Wrapf(ErrTargetMismatch, "%T does not implement %s", target, m.iface)
	}
	err := m.check(args)
	if err != nil {
		return nil, err
	}
	return m.call(target, args)
}

func (m *Method) check(args []any) error {
	ft := m.method.Type
	if len(args) != ft.NumIn() {
		return errors.Wrapf(ErrArity, "%s: want %d, got %d", m, ft.NumIn(), len(args))
	}
	for i, arg := range args {
		in := ft.In(i)
		if arg == nil {
			if !nillable(in.Kind()) {
				return errors.Wrapf(ErrArgumentType, "%s: argument %d: nil is not %s", m, i, in)
			}
			continue
		}
		if t := reflect.TypeOf(arg); !t.AssignableTo(in) {
			return errors.Wrapf(ErrArgumentType, "%s: argument %d: %s is not %s", m, i, t, in)
		}
	}
	return nil
}

func nillable(kind reflect.Kind) bool {
	switch kind {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// Arg returns args[i] as T, or the zero T when the argument is nil.
func Arg[T any](args []any, i int) T {
	v, _ := args[i].(T)
	return v
}

// Result returns out[i] as T, or the zero T when the result is missing or nil.
func Result[T any](out []any, i int) T {
	if i >= len(out) {
		var zero T
		return zero
	}
	v, _ := out[i].(T)
	return v
}
