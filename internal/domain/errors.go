package domain

import "errors"

var (
	// ErrDivision is returned by the valuation engine when the useful life is not positive
	ErrDivision = errors.New("useful life must be positive")

	ErrValidation          = errors.New("invalid asset description")
	ErrNotFound            = errors.New("not found")
	ErrAlreadyInComparison = errors.New("asset already in comparison")
	ErrComparisonFull      = errors.New("comparison set is full")
	ErrComparisonEmpty     = errors.New("comparison set is empty")
	ErrUnsupportedFormat   = errors.New("unsupported report format")
)
