/*
errors.go - Centralized error types for the ledger engine

ERROR CATEGORIES:
  1. Input errors   - bad transaction kind, unparseable date
  2. Lookup errors  - item absent from the catalog
  3. Store errors   - connectivity / IO failures

PROPAGATION:
  Store implementations wrap IO failures as

    fmt.Errorf("%w: %w", ErrStoreUnavailable, cause)

  so callers can test for the condition with errors.Is and still reach the
  driver error unmodified. Nothing in this package retries.

SEE ALSO:
  - store.go: Interfaces whose implementations return these errors
  - store/sqlite/sqlite.go: Wraps database/sql failures
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidKind is returned when a transaction kind is neither intake
	// nor sale.
	ErrInvalidKind = errors.New("invalid transaction kind")

	// ErrInvalidDate is returned when a date string cannot be normalized.
	ErrInvalidDate = errors.New("invalid date")

	// ErrStoreUnavailable marks connectivity or IO failures of the backing
	// store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNotFound is returned where presence is required, e.g. price lookups
	// over HTTP. Engine lookups report absence with a bool instead.
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// KindError reports the rejected kind value.
type KindError struct {
	Kind string
}

func (e *KindError) Error() string {
	return fmt.Sprintf("invalid transaction kind %q: must be %q or %q", e.Kind, KindIntake, KindSale)
}

func (e *KindError) Unwrap() error {
	return ErrInvalidKind
}

// DateError reports the rejected date input.
type DateError struct {
	Input string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %q: expected YYYY-MM-DD or an ISO timestamp", e.Input)
}

func (e *DateError) Unwrap() error {
	return ErrInvalidDate
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// Unavailable wraps a store failure. Already wrapped errors pass through.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidKind) || errors.Is(err, ErrInvalidDate)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
