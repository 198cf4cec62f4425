package goproxy

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

type Handler interface {
	Handle(ctx context.Context, data string) error
}

var ErrInterrupted = errors.New("handle interrupted")

// InterruptedError is returned when the context is done before the handler
// finished its work. It matches both ErrInterrupted and the context error.
type InterruptedError struct {
	Data string
	Err  error
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("handle '%s' interrupted: %v", e.Data, e.Err)
}

func (e *InterruptedError) Unwrap() error {
	return e.Err
}

func (e *InterruptedError) Is(target error) bool {
	return target == ErrInterrupted
}
