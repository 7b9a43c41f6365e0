// Package pipeline defines the error taxonomy shared by the loading and
// aggregation components.
//
// Three categories with different blast radii:
//
//   - ValidationError: one bad row. Skipped and counted, never fatal.
//   - ConfigurationError: the run cannot produce meaningful results
//     (empty region set, unreachable store). Surfaces immediately.
//   - StorageError: transient store failure mid-chunk. Aborts the current
//     chunk only; committed chunks stay committed and a re-run is safe
//     because inserts are conflict-ignore and merges are additive.
package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks row-scoped input problems
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks fatal setup problems
	ErrConfiguration = errors.New("configuration error")
	// ErrStorage marks chunk-scoped store failures
	ErrStorage = errors.New("storage error")
)

// Validationf wraps a row-scoped error
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Configurationf wraps a fatal setup error
func Configurationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// Storagef wraps a store failure, keeping the cause chain
func Storagef(err error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, fmt.Sprintf(format, args...), err)
}

// IsValidation reports whether err is row-scoped
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsConfiguration reports whether err is fatal
func IsConfiguration(err error) bool { return errors.Is(err, ErrConfiguration) }

// IsStorage reports whether err is chunk-scoped
func IsStorage(err error) bool { return errors.Is(err, ErrStorage) }
