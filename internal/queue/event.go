// Package queue defines the broker message payloads and the background
// consumer that mirrors them into a local audit log.
package queue

// ReservationNotifiedEvent is published whenever the notification
// trigger fires for a reservation.  It contains enough information for
// downstream consumers to log, audit, or re-deliver without querying
// the primary database.
type ReservationNotifiedEvent struct {
    ReservationID     uint64  `json:"reservation_id"`
    OwnerPrincipalID  uint64  `json:"owner_principal_id"`
    Action            string  `json:"action"`
    PassengerEmail    string  `json:"passenger_email"`
    PassengerName     string  `json:"passenger_name"`
    FlightNumber      string  `json:"flight_number"`
    ReservationStatus string  `json:"reservation_status"`
    TotalPrice        float64 `json:"total_price"`
    OccurredAt        string  `json:"occurred_at"`
}
