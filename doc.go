// Package goproxy times calls to a Handler in two ways: TimingHandler wraps a
// delegate by hand, while HandlerProxy routes every call through a
// proxy.Interceptor such as Invocation.
package goproxy

//go:generate go run ./cmd/goproxy gen --file handler_proxy.go . Handler
