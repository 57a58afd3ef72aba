package ug

import (
	"errors"
	"fmt"
)

// Sentinel errors for the drawing core.
var (
	// ErrUnsupportedShape is returned when a driver does not cover a shape kind.
	ErrUnsupportedShape = errors.New("ug: unsupported shape")

	// ErrUnbalancedURL is reported when StartURL and CloseAction do not pair up.
	ErrUnbalancedURL = errors.New("ug: unbalanced StartURL/CloseAction")

	// ErrNegativeSize is the panic value for shapes built with negative
	// dimensions or radii.
	ErrNegativeSize = errors.New("ug: negative size or radius")

	// ErrUnknownColor is returned by ParseColor for unrecognized names.
	ErrUnknownColor = errors.New("ug: unknown color")
)

// UnsupportedShapeError records which driver rejected which shape kind.
type UnsupportedShapeError struct {
	Driver string
	Kind   ShapeKind
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("ug: driver %s cannot draw %s", e.Driver, e.Kind)
}

// Unwrap lets errors.Is match ErrUnsupportedShape.
func (e *UnsupportedShapeError) Unwrap() error {
	return ErrUnsupportedShape
}
