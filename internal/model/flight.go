package model

import "time"

// Flight describes a flight that reservations can reference.  Flights
// are canonicalized by flight number: the first reservation that
// mentions a number inserts the row, later reservations for the same
// number link to the existing one.  This struct corresponds to a row
// in the `flights` table.
//
// Fields:
//  ID                 – generated primary key.
//  FlightNumber       – unique natural key (e.g. "UA789").
//  Airline            – operating airline name.
//  OriginAirport      – origin airport code or name.
//  DestinationAirport – destination airport code or name.
//  DepartureDatetime  – scheduled departure in UTC.
//  ArrivalDatetime    – scheduled arrival in UTC.
//  SeatInformation    – seat assignment like "22F".
//  TravelClass        – one of economy, business, first.
type Flight struct {
    ID                 uint64    // flights.id
    FlightNumber       string    // flights.flight_number
    Airline            string    // flights.airline
    OriginAirport      string    // flights.origin_airport
    DestinationAirport string    // flights.destination_airport
    DepartureDatetime  time.Time // flights.departure_datetime
    ArrivalDatetime    time.Time // flights.arrival_datetime
    SeatInformation    string    // flights.seat_information
    TravelClass        string    // flights.travel_class
}

// Travel classes accepted on a flight.
const (
    TravelClassEconomy  = "economy"
    TravelClassBusiness = "business"
    TravelClassFirst    = "first"
)
