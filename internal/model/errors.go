package model

import "errors"

var (
	// ErrNotFound is returned by stores when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCoordinate is returned for a latitude/longitude pair that is
	// partially supplied, out of geographic range, or non-finite.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)
