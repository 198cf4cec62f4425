package proxy

import (
	"reflect"
	"sort"

	"github.com/pkg/errors"
)

// Descriptor is the dispatch table of one interface.
type Descriptor struct {
	iface   reflect.Type
	methods []*Method
	byName  map[string]*Method
}

// Describe binds methods to interface T. Every method of T must be described
// exactly once.
func Describe[T any](methods ...*Method) (*Descriptor, error) {
	return newDescriptor(InterfaceOf[T](), methods)
}

func MustDescribe[T any](methods ...*Method) *Descriptor {
	desc, err := Describe[T](methods...)
	if err != nil {
		panic(err)
	}
	return desc
}

// InterfaceOf returns the reflect.Type of T without requiring a value.
func InterfaceOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func newDescriptor(iface reflect.Type, methods []*Method) (*Descriptor, error) {
	if iface.Kind() != reflect.Interface {
		return nil, errors.Wrapf(ErrNotInterface, "%s", iface)
	}
	signatures := make(map[string]reflect.Method, len(methods))
	for _, m := range methods {
		rm, found := iface.MethodByName(m.name)
		if !found {
			return nil, errors.Wrapf(ErrUnknownMethod, "%s has no method %s", iface, m.name)
		}
		if _, dup := signatures[m.name]; dup {
			return nil, errors.Errorf("method %s.%s described twice", iface, m.name)
		}
		if m.iface != nil {
			return nil, errors.Errorf("method %s is already bound to %s", m.name, m.iface)
		}
		signatures[m.name] = rm
	}
	for i := 0; i < iface.NumMethod(); i++ {
		name := iface.Method(i).Name
		if _, found := signatures[name]; !found {
			return nil, errors.Errorf("method %s.%s has no dispatch entry", iface, name)
		}
	}

	desc := &Descriptor{
		iface:   iface,
		methods: make([]*Method, 0, len(methods)),
		byName:  make(map[string]*Method, len(methods)),
	}
	for _, m := range methods {
		m.iface = iface
		m.method = signatures[m.name]
		desc.methods = append(desc.methods, m)
		desc.byName[m.name] = m
	}
	sort.Slice(desc.methods, func(i, j int) bool {
		return desc.methods[i].method.Index < desc.methods[j].method.Index
	})
	return desc, nil
}

// Type returns the described interface type.
func (d *Descriptor) Type() reflect.Type {
	return d.iface
}

func (d *Descriptor) Method(name string) (*Method, bool) {
	m, found := d.byName[name]
	return m, found
}

// Methods returns the dispatch entries in interface method order.
func (d *Descriptor) Methods() []*Method {
	methods := make([]*Method, len(d.methods))
	copy(methods, d.methods)
	return methods
}
