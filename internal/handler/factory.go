package handler

import "context"

// RuntimeAdapter hosts a Handler on a concrete transport.
type RuntimeAdapter interface {
	Start() error
	Stop(ctx context.Context) error
}
