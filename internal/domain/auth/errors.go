package auth

import "errors"

var (
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrWorkerRoleRequired   = errors.New("worker role required")
	ErrBusinessRoleRequired = errors.New("business role required")
)
