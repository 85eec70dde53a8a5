// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package matching

import (
	"errors"
	"fmt"
)

// InvalidFilterError reports a filter value outside the scheme's enumerated
// vocabulary.
type InvalidFilterError struct {
	Field string
	Value string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter %s: unknown value %q", e.Field, e.Value)
}

// IsInvalidFilter reports whether err is an InvalidFilterError.
func IsInvalidFilter(err error) bool {
	var target *InvalidFilterError
	return errors.As(err, &target)
}

// ErrModelUnavailable is returned when no production model is loaded. The
// caller receives this typed error rather than a ranking from a stale or
// default model.
var ErrModelUnavailable = errors.New("matching: no production model loaded")
