package proxy

import (
	"reflect"

	"github.com/pkg/errors"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Reflect builds a dispatch table for iface whose entries look the method up
// on the target at call time. Use it for interfaces without a generated
// descriptor.
func Reflect(iface reflect.Type) (*Descriptor, error) {
	if iface.Kind() != reflect.Interface {
		return nil, errors.Wrapf(ErrNotInterface, "%s", iface)
	}
	methods := make([]*Method, 0, iface.NumMethod())
	for i := 0; i < iface.NumMethod(); i++ {
		rm := iface.Method(i)
		if !rm.IsExported() {
			return nil, errors.Errorf("%s: unexported method %s can not be dispatched", iface, rm.Name)
		}
		methods = append(methods, NewMethod(rm.Name, reflectCall(rm.Name)))
	}
	return newDescriptor(iface, methods)
}

func reflectCall(name string) CallFunc {
	return func(target any, args []any) ([]any, error) {
		fn := reflect.ValueOf(target).MethodByName(name)
		ft := fn.Type()
		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			if arg == nil {
				in[i] = reflect.Zero(ft.In(i))
				continue
			}
			in[i] = reflect.ValueOf(arg)
		}
		var out []reflect.Value
		if ft.IsVariadic() {
			out = fn.CallSlice(in)
		} else {
			out = fn.Call(in)
		}
		return unpack(ft, out)
	}
}

func unpack(ft reflect.Type, out []reflect.Value) ([]any, error) {
	var err error
	if n := len(out); n > 0 && ft.Out(n-1) == errorType {
		if last := out[n-1]; !last.IsNil() {
			err = last.Interface().(error)
		}
		out = out[:n-1]
	}
	if len(out) == 0 {
		return nil, err
	}
	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, err
}
