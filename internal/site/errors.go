package site

import (
	"errors"
	"fmt"
)

var (
	ErrSiteRequired       = errors.New("site: site id required")
	ErrItemRequired       = errors.New("site: item id required")
	ErrCategoryRequired   = errors.New("site: category id required")
	ErrPriceNegative      = errors.New("site: override price must not be negative")
	ErrWindowInvalid      = errors.New("site: availability window bounds invalid")
	ErrWindowNotFound     = errors.New("site: availability window not found")
	ErrOverrideNotFound   = errors.New("site: price override not found")
	ErrSnoozeExpiryPassed = errors.New("site: snooze expiry is in the past")
)

// NotFoundError reports missing override state from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
