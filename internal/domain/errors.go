package domain

import "errors"

var (
	// ErrCatalogEmpty indicates no usable questions could be loaded.
	ErrCatalogEmpty = errors.New("question catalog is empty")
	// ErrSessionNotFound is returned when an intake session has not been opened.
	ErrSessionNotFound = errors.New("intake session not found")
	// ErrNotConfigured indicates a required downstream endpoint is missing.
	ErrNotConfigured = errors.New("endpoint not configured")
	// ErrCustomerRejected indicates the commerce backend refused the customer write.
	ErrCustomerRejected = errors.New("customer write rejected")
)
