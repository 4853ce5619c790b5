// Package validation implements the field rules for reservation
// payloads.  All rules are evaluated before any data access: a request
// that fails validation performs no mutation.  Failures are collected
// into a FieldErrors map keyed by the dotted field path so callers get
// every offending field in one response.
package validation

import (
    "fmt"
    "net/mail"
    "regexp"
    "strings"
    "time"
    "unicode/utf8"

    "github.com/iliyamo/flight-reservation-api/internal/model"
)

var (
    fullNameRe = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
    phoneRe    = regexp.MustCompile(`^\+?[0-9]{9,15}$`)
    seatRe     = regexp.MustCompile(`^[0-9]{1,2}[A-Z]{1}$`)
)

var travelClasses = map[string]bool{
    model.TravelClassEconomy:  true,
    model.TravelClassBusiness: true,
    model.TravelClassFirst:    true,
}

var reservationStatuses = map[string]bool{
    model.StatusConfirmed: true,
    model.StatusPending:   true,
    model.StatusCancelled: true,
}

// FieldErrors maps a field path (e.g. "passenger_info.email") to a
// human-readable message.  It implements error so validation failures
// can travel through normal error returns.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
    if len(e) == 0 {
        return "validation failed"
    }
    fields := make([]string, 0, len(e))
    for f := range e {
        fields = append(fields, f)
    }
    return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// add records a message for the field unless one is already present.
func (e FieldErrors) add(field, msg string) {
    if _, ok := e[field]; !ok {
        e[field] = msg
    }
}

// FullName checks the passenger name rule: 3-100 characters, letters,
// spaces, hyphens and apostrophes only, and at least two
// whitespace-separated words.
func (e FieldErrors) FullName(field, v string) {
    if n := utf8.RuneCountInString(v); n < 3 || n > 100 {
        e.add(field, "must be between 3 and 100 characters")
        return
    }
    if !fullNameRe.MatchString(v) {
        e.add(field, "must contain only letters, spaces, hyphens, or apostrophes")
        return
    }
    if len(strings.Fields(v)) < 2 {
        e.add(field, "must include at least a first and last name")
    }
}

// Email checks address syntax.  Uniqueness is enforced by the store.
func (e FieldErrors) Email(field, v string) {
    addr, err := mail.ParseAddress(v)
    if err != nil || addr.Address != v {
        e.add(field, "must be a valid email address")
    }
}

// Phone checks the phone number rule: optional '+' prefix followed by
// 9 to 15 digits.
func (e FieldErrors) Phone(field, v string) {
    if !phoneRe.MatchString(v) {
        e.add(field, "must contain only digits and may include an optional '+' prefix")
    }
}

// Length checks a min/max bound counted in characters, not bytes, so
// multibyte names are not over-counted.
func (e FieldErrors) Length(field, v string, min, max int) {
    if n := utf8.RuneCountInString(v); n < min || n > max {
        e.add(field, fmt.Sprintf("must be between %d and %d characters", min, max))
    }
}

// Seat checks the seat designator rule: one or two digits followed by
// a single uppercase letter, e.g. "22F".
func (e FieldErrors) Seat(field, v string) {
    if !seatRe.MatchString(v) {
        e.add(field, "must be a row number followed by a seat letter, e.g. 22F")
    }
}

// TravelClass checks membership in {economy, business, first}.
func (e FieldErrors) TravelClass(field, v string) {
    if !travelClasses[v] {
        e.add(field, "must be one of economy, business, first")
    }
}

// Price checks that the total price is strictly positive.
func (e FieldErrors) Price(field string, v float64) {
    if v <= 0 {
        e.add(field, "must be greater than 0")
    }
}

// Status checks membership in {confirmed, pending, cancelled}.
func (e FieldErrors) Status(field, v string) {
    if !reservationStatuses[v] {
        e.add(field, "must be one of confirmed, pending, cancelled")
    }
}

// Datetime parses a timestamp field.  RFC3339 is accepted, as is the
// zone-less form "2006-01-02T15:04:05" which is interpreted as UTC.
// On failure the field error is recorded and the zero time returned.
func (e FieldErrors) Datetime(field, v string) time.Time {
    if t, err := time.Parse(time.RFC3339, v); err == nil {
        return t.UTC()
    }
    if t, err := time.Parse("2006-01-02T15:04:05", v); err == nil {
        return t.UTC()
    }
    e.add(field, "must be a valid timestamp, e.g. 2024-12-15T09:00:00")
    return time.Time{}
}

// RejectClientTimestamp flags timestamp fields the server manages
// itself.  Clients may never supply creation or last-update times.
func (e FieldErrors) RejectClientTimestamp(field string, present bool) {
    if present {
        e.add(field, "is set by the server and cannot be supplied")
    }
}
