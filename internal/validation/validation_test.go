package validation

import (
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestFullName_Valid(t *testing.T) {
    for _, v := range []string{"Kirill Rass", "Anna-Maria O'Neil", "John Ronald Reuel Tolkien"} {
        errs := FieldErrors{}
        errs.FullName("full_name", v)
        assert.Empty(t, errs, "expected %q to be valid", v)
    }
}

func TestFullName_Invalid(t *testing.T) {
    cases := map[string]string{
        "too short":       "ab",
        "single word":     "Kirill",
        "digits":          "Kirill Rass 3rd",
        "symbols":         "Kirill R@ss",
        "over max length": "Ki " + strings.Repeat("a", 120),
    }
    for name, v := range cases {
        errs := FieldErrors{}
        errs.FullName("full_name", v)
        assert.Contains(t, errs, "full_name", "case %q should fail", name)
    }
}

func TestEmail(t *testing.T) {
    errs := FieldErrors{}
    errs.Email("email", "kirill@example.com")
    assert.Empty(t, errs)

    for _, v := range []string{"not-an-email", "a@", "@example.com", "Kirill <kirill@example.com>"} {
        errs := FieldErrors{}
        errs.Email("email", v)
        assert.Contains(t, errs, "email", "expected %q to be rejected", v)
    }
}

func TestPhone(t *testing.T) {
    for _, v := range []string{"+12123334455", "12123334455", "123456789"} {
        errs := FieldErrors{}
        errs.Phone("phone_number", v)
        assert.Empty(t, errs, "expected %q to be valid", v)
    }
    for _, v := range []string{"12345678", "+1234567890123456", "12-12333-4455", "+1 212 333 4455"} {
        errs := FieldErrors{}
        errs.Phone("phone_number", v)
        assert.Contains(t, errs, "phone_number", "expected %q to be rejected", v)
    }
}

func TestLength(t *testing.T) {
    errs := FieldErrors{}
    errs.Length("flight_number", "UA789", 3, 10)
    assert.Empty(t, errs)

    errs = FieldErrors{}
    errs.Length("flight_number", "UA", 3, 10)
    assert.Contains(t, errs, "flight_number")

    errs = FieldErrors{}
    errs.Length("flight_number", "UA789UA789X", 3, 10)
    assert.Contains(t, errs, "flight_number")
}

func TestLength_CountsCharactersNotBytes(t *testing.T) {
    // 20 CJK characters are 60 bytes but must pass a 50-character max.
    errs := FieldErrors{}
    errs.Length("airline", strings.Repeat("航", 20), 3, 50)
    assert.Empty(t, errs)

    errs = FieldErrors{}
    errs.Length("airline", strings.Repeat("航", 51), 3, 50)
    assert.Contains(t, errs, "airline")
}

func TestSeat(t *testing.T) {
    for _, v := range []string{"1A", "22F", "99Z"} {
        errs := FieldErrors{}
        errs.Seat("seat_information", v)
        assert.Empty(t, errs, "expected %q to be valid", v)
    }
    for _, v := range []string{"A22", "123F", "22f", "22", "F", "22FF"} {
        errs := FieldErrors{}
        errs.Seat("seat_information", v)
        assert.Contains(t, errs, "seat_information", "expected %q to be rejected", v)
    }
}

func TestTravelClassAndStatus(t *testing.T) {
    for _, v := range []string{"economy", "business", "first"} {
        errs := FieldErrors{}
        errs.TravelClass("travel_class", v)
        assert.Empty(t, errs)
    }
    errs := FieldErrors{}
    errs.TravelClass("travel_class", "Economy")
    assert.Contains(t, errs, "travel_class")

    for _, v := range []string{"confirmed", "pending", "cancelled"} {
        errs := FieldErrors{}
        errs.Status("reservation_status", v)
        assert.Empty(t, errs)
    }
    errs = FieldErrors{}
    errs.Status("reservation_status", "canceled")
    assert.Contains(t, errs, "reservation_status")
}

func TestPrice(t *testing.T) {
    errs := FieldErrors{}
    errs.Price("total_price", 499.99)
    assert.Empty(t, errs)

    for _, v := range []float64{0, -1} {
        errs := FieldErrors{}
        errs.Price("total_price", v)
        assert.Contains(t, errs, "total_price")
    }
}

func TestDatetime_ZonelessIsUTC(t *testing.T) {
    errs := FieldErrors{}
    got := errs.Datetime("departure_datetime", "2024-12-15T09:00:00")
    require.Empty(t, errs)
    assert.Equal(t, time.Date(2024, 12, 15, 9, 0, 0, 0, time.UTC), got)
}

func TestDatetime_RFC3339(t *testing.T) {
    errs := FieldErrors{}
    got := errs.Datetime("arrival_datetime", "2024-12-15T12:30:00+02:00")
    require.Empty(t, errs)
    assert.Equal(t, time.Date(2024, 12, 15, 10, 30, 0, 0, time.UTC), got)
}

func TestDatetime_Invalid(t *testing.T) {
    errs := FieldErrors{}
    got := errs.Datetime("departure_datetime", "15/12/2024 09:00")
    assert.Contains(t, errs, "departure_datetime")
    assert.True(t, got.IsZero())
}

func TestRejectClientTimestamp(t *testing.T) {
    errs := FieldErrors{}
    errs.RejectClientTimestamp("creation_timestamp", false)
    assert.Empty(t, errs)

    errs.RejectClientTimestamp("creation_timestamp", true)
    assert.Contains(t, errs, "creation_timestamp")
}

func TestFieldErrors_FirstMessageWins(t *testing.T) {
    errs := FieldErrors{}
    errs.add("f", "first")
    errs.add("f", "second")
    assert.Equal(t, "first", errs["f"])
}

func TestFieldErrors_Error(t *testing.T) {
    errs := FieldErrors{"total_price": "must be greater than 0"}
    assert.Contains(t, errs.Error(), "total_price")
}
