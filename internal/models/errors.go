package models

import "errors"

var (
	// ErrProductNotFound is returned by repositories when no product has the requested id
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidProduct wraps product validation failures
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInvalidQuery wraps search/filter argument validation failures
	ErrInvalidQuery = errors.New("invalid query")
)
