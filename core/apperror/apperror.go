// Package apperror defines the error taxonomy shared by the ledger, catalog,
// directory and issuance engine.
//
// MissingInputError and StoreUnavailableError are returned to callers.
// UnresolvedCodeError and MalformedRecordError are soft: they are handled where
// they are detected and only ever reach logs and result warnings.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a keyed lookup has no match.
var ErrNotFound = errors.New("record not found")

// MissingInputError reports required fields absent at a transaction boundary.
type MissingInputError struct {
	Fields []string
}

func (e *MissingInputError) Error() string {
	return "missing required input: " + strings.Join(e.Fields, ", ")
}

// UnresolvedCodeError reports an item code with no catalog entry.
type UnresolvedCodeError struct {
	Code string
}

func (e *UnresolvedCodeError) Error() string {
	return fmt.Sprintf("item code %q not found in catalog", e.Code)
}

// Is lets errors.Is(err, ErrNotFound) match an unresolved code.
func (e *UnresolvedCodeError) Is(target error) bool {
	return target == ErrNotFound
}

// MalformedRecordError reports a stored row whose field could not be parsed.
type MalformedRecordError struct {
	Row   int
	Field string
	Value string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("row %d: malformed %s %q", e.Row, e.Field, e.Value)
}

// StoreUnavailableError wraps a failure of the underlying store.
type StoreUnavailableError struct {
	Store string
	Op    string
	Err   error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("%s store unavailable (%s): %v", e.Store, e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// Unavailable wraps err as a StoreUnavailableError unless it is nil or already one.
func Unavailable(store, op string, err error) error {
	if err == nil {
		return nil
	}
	var su *StoreUnavailableError
	if errors.As(err, &su) {
		return err
	}
	return &StoreUnavailableError{Store: store, Op: op, Err: err}
}

// IsMissingInput reports whether err is a MissingInputError.
func IsMissingInput(err error) bool {
	var mi *MissingInputError
	return errors.As(err, &mi)
}

// IsStoreUnavailable reports whether err is a StoreUnavailableError.
func IsStoreUnavailable(err error) bool {
	var su *StoreUnavailableError
	return errors.As(err, &su)
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
