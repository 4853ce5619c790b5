package model

import "time"

// Reservation links a passenger to a flight under an owning principal.
// It tracks the price, the lifecycle status and both timestamps.  No
// two reservations may reference the same (passenger, flight) pair.
// This struct corresponds to a row in the `reservations` table.
//
// Fields:
//  ID                  – generated primary key.
//  OwnerPrincipalID    – principal that created the reservation; every
//                        scoped operation filters on this column.
//  PassengerID         – reference to the passenger row.
//  FlightID            – reference to the canonical flight row.
//  TotalPrice          – total price, strictly positive.
//  ReservationStatus   – one of pending, confirmed, cancelled.
//  CreationTimestamp   – stamped once at insert, immutable afterwards.
//  LastUpdateTimestamp – refreshed on every mutation.
type Reservation struct {
    ID                  uint64    // reservations.id
    OwnerPrincipalID    uint64    // reservations.owner_principal_id
    PassengerID         uint64    // reservations.passenger_id
    FlightID            uint64    // reservations.flight_id
    TotalPrice          float64   // reservations.total_price
    ReservationStatus   string    // reservations.reservation_status
    CreationTimestamp   time.Time // reservations.creation_timestamp
    LastUpdateTimestamp time.Time // reservations.last_update_timestamp
}

// Reservation lifecycle states.
const (
    StatusPending   = "pending"
    StatusConfirmed = "confirmed"
    StatusCancelled = "cancelled"
)
