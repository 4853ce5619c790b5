// Package repository defines error values that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure scenarios
// without inspecting driver-specific errors. Missing rows are reported
// with sql.ErrNoRows; scoped queries already filter by owner, so a row
// the caller may not see is indistinguishable from an absent one.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when an insert or update violates a
// uniqueness constraint, such as creating a second reservation for the
// same passenger and flight. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrUsernameExists is returned when registering a principal whose
// username is already taken.
var ErrUsernameExists = errors.New("username already exists")

// isDuplicate reports whether err is a MySQL duplicate-entry error
// (code 1062). The driver does not expose a typed error for it.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
