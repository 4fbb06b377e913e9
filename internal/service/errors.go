package service

import "errors"

// Sentinel errors for service layer
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict error")
	ErrTokenMissing = errors.New("instance token not found")
)
