package model

import "github.com/cockroachdb/errors"

// SchemaError is raised when a schema spec is invalid: a missing top or text
// node type, a duplicate name shared between a node and a mark, an unknown
// attribute validator, or more than one linebreak-replacement node.
type SchemaError struct{ error }

func newSchemaError(format string, args ...interface{}) error {
	return SchemaError{errors.Newf(format, args...)}
}

// AttributeError is raised by node/mark construction when a required
// attribute is missing.
type AttributeError struct{ error }

func newAttributeError(format string, args ...interface{}) error {
	return AttributeError{errors.Newf(format, args...)}
}

// RangeError is raised when a position, index, or JSON payload is
// structurally invalid: out of document bounds, an unknown selection JSON
// id, and so on. Callers can recover from it.
type RangeError struct{ error }

func newRangeError(format string, args ...interface{}) error {
	return RangeError{errors.Newf(format, args...)}
}

// ContentError is raised when proposed content violates a node type's
// content match or mark set.
type ContentError struct{ error }

func newContentError(format string, args ...interface{}) error {
	return ContentError{errors.Newf(format, args...)}
}

// ReplaceError is raised when a Slice cannot fit at the positions it is
// asked to replace: an open-depth mismatch, or boundaries that can't join.
type ReplaceError struct{ error }

func newReplaceError(format string, args ...interface{}) error {
	return ReplaceError{errors.Newf(format, args...)}
}

// Unwrap lets errors.Is/As see the error each kind above wraps, even
// though each is a distinct struct type.
func (e SchemaError) Unwrap() error    { return e.error }
func (e AttributeError) Unwrap() error { return e.error }
func (e RangeError) Unwrap() error     { return e.error }
func (e ContentError) Unwrap() error   { return e.error }
func (e ReplaceError) Unwrap() error   { return e.error }
