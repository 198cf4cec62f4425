package proxy

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

// Constructor creates a proxy value bound to the given Base.
type Constructor func(base Base) any

type registration struct {
	desc      *Descriptor
	proxyType reflect.Type
	construct Constructor
}

// Registry maps interfaces to their proxy types. Generated code registers in
// Default.
type Registry struct {
	mu      sync.RWMutex
	byIface map[reflect.Type]*registration
	byProxy map[reflect.Type]*registration
}

var Default = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{
		byIface: map[reflect.Type]*registration{},
		byProxy: map[reflect.Type]*registration{},
	}
}

// Register associates the interface described by desc with the proxy type
// produced by construct. Registering the same pair again is a no-op.
func (r *Registry) Register(desc *Descriptor, construct Constructor) error {
	sample := construct(Base{})
	if sample == nil {
		return errors.Errorf("constructor for %s returned nil", desc.Type())
	}
	proxyType := reflect.TypeOf(sample)
	if !proxyType.Implements(desc.Type()) {
		return errors.Wrapf(ErrTargetMismatch, "proxy type %s does not implement %s", proxyType, desc.Type())
	}
	if _, ok := sample.(bound); !ok {
		return errors.Errorf("proxy type %s does not embed proxy.Base", proxyType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, found := r.byIface[desc.Type()]; found {
		if prev.desc == desc && prev.proxyType == proxyType {
			return nil
		}
		return errors.Wrapf(ErrAlreadyRegistered, "%s", desc.Type())
	}
	if prev, found := r.byProxy[proxyType]; found {
		return errors.Wrapf(ErrAlreadyRegistered, "proxy type %s serves %s", proxyType, prev.desc.Type())
	}
	reg := &registration{
		desc:      desc,
		proxyType: proxyType,
		construct: construct,
	}
	r.byIface[desc.Type()] = reg
	r.byProxy[proxyType] = reg
	return nil
}

// Register is the typed form of Registry.Register.
func Register[T any](r *Registry, desc *Descriptor, construct func(base Base) T) error {
	if want := InterfaceOf[T](); desc.Type() != want {
		return errors.Errorf("descriptor describes %s, not %s", desc.Type(), want)
	}
	return r.Register(desc, func(base Base) any {
		return construct(base)
	})
}

// MustRegister registers in Default and panics on error.
func MustRegister[T any](desc *Descriptor, construct func(base Base) T) {
	err := Register[T](Default, desc, construct)
	if err != nil {
		panic(err)
	}
}

// New creates a proxy implementing iface whose calls are routed to interceptor.
func (r *Registry) New(iface reflect.Type, interceptor Interceptor) (any, error) {
	if interceptor == nil {
		return nil, errors.Wrapf(ErrNoInterceptor, "new %s proxy", iface)
	}
	reg, err := r.lookup(iface)
	if err != nil {
		return nil, err
	}
	return reg.construct(Bind(interceptor)), nil
}

// New is the typed form of Registry.New.
func New[T any](r *Registry, interceptor Interceptor) (T, error) {
	v, err := r.New(InterfaceOf[T](), interceptor)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// ProxyType returns the proxy type registered for iface.
func (r *Registry) ProxyType(iface reflect.Type) (reflect.Type, error) {
	reg, err := r.lookup(iface)
	if err != nil {
		return nil, err
	}
	return reg.proxyType, nil
}

func (r *Registry) Descriptor(iface reflect.Type) (*Descriptor, error) {
	reg, err := r.lookup(iface)
	if err != nil {
		return nil, err
	}
	return reg.desc, nil
}

func (r *Registry) IsProxyType(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, found := r.byProxy[t]
	return found
}

func (r *Registry) IsProxy(v any) bool {
	return v != nil && r.IsProxyType(reflect.TypeOf(v))
}

// InterceptorOf returns the interceptor v was created with.
func (r *Registry) InterceptorOf(v any) (Interceptor, error) {
	if !r.IsProxy(v) {
		return nil, errors.Wrapf(ErrNotProxy, "%T", v)
	}
	interceptor := v.(bound).boundInterceptor()
	if interceptor == nil {
		return nil, errors.Wrapf(ErrNoInterceptor, "%T", v)
	}
	return interceptor, nil
}

func (r *Registry) lookup(iface reflect.Type) (*registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, found := r.byIface[iface]
	if !found {
		return nil, errors.Wrapf(ErrNotRegistered, "%s", iface)
	}
	return reg, nil
}

func IsProxy(v any) bool {
	return Default.IsProxy(v)
}

func InterceptorOf(v any) (Interceptor, error) {
	return Default.InterceptorOf(v)
}

func ProxyType(iface reflect.Type) (reflect.Type, error) {
	return Default.ProxyType(iface)
}
