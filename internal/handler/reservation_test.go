package handler

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/flight-reservation-api/internal/validation"
)

func validPassengerPayload() *passengerPayload {
    return &passengerPayload{
        ID:          1,
        FullName:    "Kirill Rass",
        Email:       "kirill@example.com",
        PhoneNumber: "+12123334455",
    }
}

func validFlightPayload() *flightPayload {
    return &flightPayload{
        FlightNumber:       "UA789",
        Airline:            "United Airlines",
        OriginAirport:      "SFO International",
        DestinationAirport: "JFK International",
        DepartureDatetime:  "2024-12-15T09:00:00",
        ArrivalDatetime:    "2024-12-15T17:30:00",
        SeatInformation:    "22F",
        TravelClass:        "economy",
    }
}

func TestValidatePassengerPayload_OK(t *testing.T) {
    errs := validation.FieldErrors{}
    validatePassengerPayload(errs, validPassengerPayload())
    assert.Empty(t, errs)
}

func TestValidatePassengerPayload_CollectsAllFailures(t *testing.T) {
    errs := validation.FieldErrors{}
    validatePassengerPayload(errs, &passengerPayload{
        ID:          0,
        FullName:    "Kirill",
        Email:       "not-an-email",
        PhoneNumber: "123",
    })
    assert.Contains(t, errs, "passenger_info.id")
    assert.Contains(t, errs, "passenger_info.full_name")
    assert.Contains(t, errs, "passenger_info.email")
    assert.Contains(t, errs, "passenger_info.phone_number")
}

func TestValidateFlightPayload_OK(t *testing.T) {
    errs := validation.FieldErrors{}
    dep, arr := validateFlightPayload(errs, validFlightPayload())
    require.Empty(t, errs)
    assert.Equal(t, time.Date(2024, 12, 15, 9, 0, 0, 0, time.UTC), dep)
    assert.Equal(t, time.Date(2024, 12, 15, 17, 30, 0, 0, time.UTC), arr)
}

func TestValidateFlightPayload_BadFields(t *testing.T) {
    f := validFlightPayload()
    f.FlightNumber = "UA"
    f.SeatInformation = "F22"
    f.TravelClass = "premium"
    f.DepartureDatetime = "yesterday"

    errs := validation.FieldErrors{}
    validateFlightPayload(errs, f)
    assert.Contains(t, errs, "flight_details.flight_number")
    assert.Contains(t, errs, "flight_details.seat_information")
    assert.Contains(t, errs, "flight_details.travel_class")
    assert.Contains(t, errs, "flight_details.departure_datetime")
}
