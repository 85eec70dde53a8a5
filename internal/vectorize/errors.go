// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package vectorize

import (
	"errors"
	"fmt"
)

// SchemaViolationError indicates a categorical field carries a value outside
// the scheme's enumerated vocabulary.
type SchemaViolationError struct {
	Field string
	Value string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("schema violation: field %q has unknown value %q", e.Field, e.Value)
}

// IncompleteProfileError indicates a required field is missing and the scheme
// configures no default for it.
type IncompleteProfileError struct {
	Field string
}

func (e *IncompleteProfileError) Error() string {
	return fmt.Sprintf("incomplete profile: required field %q is missing", e.Field)
}

// ErrSchemeMismatch indicates vectors tagged with different scheme versions
// were combined in a single computation.
var ErrSchemeMismatch = errors.New("feature vectors from different scheme versions are not comparable")

// IsSchemaViolation reports whether err is a SchemaViolationError.
func IsSchemaViolation(err error) bool {
	var sv *SchemaViolationError
	return errors.As(err, &sv)
}

// IsIncompleteProfile reports whether err is an IncompleteProfileError.
func IsIncompleteProfile(err error) bool {
	var ip *IncompleteProfileError
	return errors.As(err, &ip)
}
