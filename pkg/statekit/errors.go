package statekit

import (
	"errors"
	"fmt"
)

// ErrDuplicateModel is returned by CreateModel when the id is already
// registered.
var ErrDuplicateModel = errors.New("statekit: duplicate model id")

// ErrUnknownModel is returned by Update, UpdateAt, Read, ReadAt, and Version
// for an id that is not registered. Destroy of an unknown id is a no-op.
var ErrUnknownModel = errors.New("statekit: unknown model id")

// ErrContextEscaped is the panic value used when a Ctx is used after its
// update callback has returned. A Ctx is valid only for the duration of the
// lease it was created for.
var ErrContextEscaped = errors.New("statekit: model context used outside its lease")

// UpdateError wraps the error returned by an update or transaction callback.
// The model's state was rolled back before this error was produced; PreState
// carries the restored value for diagnostics.
type UpdateError struct {
	// Model is the id of the model the failed update targeted.
	// Empty for multi-model transactions.
	Model string

	// PreState is the state the model was rolled back to.
	// Nil for multi-model transactions.
	PreState any

	// Err is the error the callback returned.
	Err error
}

// Error implements the error interface.
func (e *UpdateError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("statekit: update of %q failed: %v", e.Model, e.Err)
	}
	return fmt.Sprintf("statekit: transaction failed: %v", e.Err)
}

// Unwrap returns the callback's error for errors.Is/As support.
func (e *UpdateError) Unwrap() error {
	return e.Err
}
