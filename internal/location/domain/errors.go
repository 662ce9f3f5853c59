package domain

import "errors"

var (
	ErrLocationKeyRequired = errors.New("location key is required")
	ErrLocationNotFound    = errors.New("location not found")
)
