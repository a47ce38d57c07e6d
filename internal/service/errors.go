package service

import (
	"errors"
	"fmt"
)

var (
	ErrServiceNotConfigured = errors.New("chat service not configured")
	ErrEmptyMessages        = errors.New("messages must not be empty")
	ErrEmptyContent         = errors.New("last message has no content")
	ErrRateLimited          = errors.New("too many messages for this session")
)

// ServiceError envuelve cualquier fallo de store, proveedor o input en una operacion del chat.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
