package proxy

// Interceptor receives every call made on a proxy. self is the proxy the call
// was made on, method is the dispatch table entry and args are the call
// arguments in declaration order.
type Interceptor interface {
	Invoke(self any, method *Method, args []any) ([]any, error)
}

type InterceptorFunc func(self any, method *Method, args []any) ([]any, error)

func (f InterceptorFunc) Invoke(self any, method *Method, args []any) ([]any, error) {
	return f(self, method, args)
}
