package service

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrTripOverlap  = errors.New("trip overlaps an existing trip")
)
