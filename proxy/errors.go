package proxy

import "github.com/pkg/errors"

var (
	ErrNotInterface      = errors.New("type is not an interface")
	ErrUnknownMethod     = errors.New("unknown method")
	ErrNilTarget         = errors.New("nil target")
	ErrTargetMismatch    = errors.New("target does not implement interface")
	ErrArity             = errors.New("wrong number of arguments")
	ErrArgumentType      = errors.New("wrong argument type")
	ErrNotRegistered     = errors.New("interface is not registered")
	ErrAlreadyRegistered = errors.New("interface is already registered")
	ErrNotProxy          = errors.New("value is not a proxy")
	ErrNoInterceptor     = errors.New("proxy has no interceptor")
)
