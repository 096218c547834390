package domain

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidScore = errors.New("score out of range")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)
