package proxy

import "github.com/pkg/errors"

// Base is embedded by generated proxy types and holds the interceptor the
// proxy was created with. The binding can not be changed afterwards.
type Base struct {
	interceptor Interceptor
}

func Bind(interceptor Interceptor) Base {
	return Base{interceptor: interceptor}
}

func (b Base) boundInterceptor() Interceptor {
	return b.interceptor
}

type bound interface {
	boundInterceptor() Interceptor
}

// Dispatch routes a call made on self to the interceptor bound in b.
func Dispatch(b Base, self any, method *Method, args ...any) ([]any, error) {
	if b.interceptor == nil {
		return nil, errors.Wrapf(ErrNoInterceptor, "call %s", method)
	}
	return b.interceptor.Invoke(self, method, args)
}
