package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/flight-reservation-api/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  A
// reservation references one passenger and one canonical flight and is
// owned by the principal that created it.  Every read or mutation that
// acts on behalf of a caller is scoped by owner_principal_id, so a
// reservation the caller does not own behaves exactly like one that
// does not exist.  All timestamp fields are stored in UTC.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// PassengerPart is the nested passenger object in a hydrated
// reservation response.
type PassengerPart struct {
    ID          uint64 `json:"id"`
    FullName    string `json:"full_name"`
    Email       string `json:"email"`
    PhoneNumber string `json:"phone_number"`
}

// FlightPart is the nested flight object in a hydrated reservation
// response.
type FlightPart struct {
    FlightNumber       string    `json:"flight_number"`
    Airline            string    `json:"airline"`
    OriginAirport      string    `json:"origin_airport"`
    DestinationAirport string    `json:"destination_airport"`
    DepartureDatetime  time.Time `json:"departure_datetime"`
    ArrivalDatetime    time.Time `json:"arrival_datetime"`
    SeatInformation    string    `json:"seat_information"`
    TravelClass        string    `json:"travel_class"`
}

// ReservationDetail is a reservation hydrated with its passenger and
// flight sub-records, as returned to API callers.
type ReservationDetail struct {
    ID                  uint64        `json:"id"`
    PassengerInfoID     uint64        `json:"passenger_info_id"`
    FlightDetailsID     uint64        `json:"flight_details_id"`
    PassengerInfo       PassengerPart `json:"passenger_info"`
    FlightDetails       FlightPart    `json:"flight_details"`
    TotalPrice          float64       `json:"total_price"`
    ReservationStatus   string        `json:"reservation_status"`
    CreationTimestamp   time.Time     `json:"creation_timestamp"`
    LastUpdateTimestamp time.Time     `json:"last_update_timestamp"`
}

const detailColumns = `r.id, r.passenger_id, r.flight_id,
           p.id, p.full_name, p.email, p.phone_number,
           f.flight_number, f.airline, f.origin_airport, f.destination_airport,
           f.departure_datetime, f.arrival_datetime, f.seat_information, f.travel_class,
           r.total_price, r.reservation_status, r.creation_timestamp, r.last_update_timestamp`

func scanDetail(row *sql.Row) (*ReservationDetail, error) {
    var d ReservationDetail
    err := row.Scan(
        &d.ID, &d.PassengerInfoID, &d.FlightDetailsID,
        &d.PassengerInfo.ID, &d.PassengerInfo.FullName, &d.PassengerInfo.Email, &d.PassengerInfo.PhoneNumber,
        &d.FlightDetails.FlightNumber, &d.FlightDetails.Airline, &d.FlightDetails.OriginAirport,
        &d.FlightDetails.DestinationAirport, &d.FlightDetails.DepartureDatetime, &d.FlightDetails.ArrivalDatetime,
        &d.FlightDetails.SeatInformation, &d.FlightDetails.TravelClass,
        &d.TotalPrice, &d.ReservationStatus, &d.CreationTimestamp, &d.LastUpdateTimestamp,
    )
    if err != nil {
        return nil, err
    }
    return &d, nil
}

// ExistsForPassengerAndFlightTx reports whether any reservation already
// pairs the given passenger natural key with the given flight number.
// The check joins through flights so it matches the number, not the
// surrogate id, exactly as the uniqueness rule is defined.
func (r *ReservationRepo) ExistsForPassengerAndFlightTx(ctx context.Context, tx *sql.Tx, passengerID uint64, flightNumber string) (bool, error) {
    const q = `SELECT EXISTS (
                 SELECT 1 FROM reservations res
                 JOIN flights f ON f.id = res.flight_id
                 WHERE res.passenger_id = ? AND f.flight_number = ?)`
    var exists bool
    if err := tx.QueryRowContext(ctx, q, passengerID, flightNumber).Scan(&exists); err != nil {
        return false, err
    }
    return exists, nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction and populates the generated id and the server-stamped
// timestamps on the provided record.  Both timestamps come from the
// same CURRENT_TIMESTAMP default, so creation and last-update are
// equal on a fresh row.  A violation of the unique
// (passenger_id, flight_id) key returns ErrConflict.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
    const q = `INSERT INTO reservations
        (owner_principal_id, passenger_id, flight_id, total_price, reservation_status)
        VALUES (?, ?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, q,
        res.OwnerPrincipalID, res.PassengerID, res.FlightID, res.TotalPrice, res.ReservationStatus)
    if err != nil {
        if isDuplicate(err) {
            return ErrConflict
        }
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    // Query back the full row to populate the stamped timestamps.
    const sel = `SELECT creation_timestamp, last_update_timestamp FROM reservations WHERE id = ?`
    return tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreationTimestamp, &res.LastUpdateTimestamp)
}

// GetForUpdateTx loads a reservation row for mutation, scoped to its
// owner and locked for the duration of the transaction.  A reservation
// owned by someone else yields sql.ErrNoRows, the same as one that
// does not exist.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, reservationID, ownerID uint64) (*model.Reservation, error) {
    const q = `SELECT id, owner_principal_id, passenger_id, flight_id,
                      total_price, reservation_status, creation_timestamp, last_update_timestamp
               FROM reservations WHERE id = ? AND owner_principal_id = ? FOR UPDATE`
    var rec model.Reservation
    err := tx.QueryRowContext(ctx, q, reservationID, ownerID).Scan(
        &rec.ID, &rec.OwnerPrincipalID, &rec.PassengerID, &rec.FlightID,
        &rec.TotalPrice, &rec.ReservationStatus, &rec.CreationTimestamp, &rec.LastUpdateTimestamp,
    )
    if err != nil {
        return nil, err
    }
    return &rec, nil
}

// UpdateScalarsTx overwrites the mutable scalar fields and refreshes
// last_update_timestamp.  The creation timestamp is never touched.
func (r *ReservationRepo) UpdateScalarsTx(ctx context.Context, tx *sql.Tx, reservationID uint64, totalPrice float64, status string) error {
    const q = `UPDATE reservations
               SET total_price = ?, reservation_status = ?, last_update_timestamp = NOW(6)
               WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, totalPrice, status, reservationID)
    if isDuplicate(err) {
        return ErrConflict
    }
    return err
}

// GetDetailTx returns the hydrated detail of a reservation inside a
// transaction, without owner scoping.  Callers use it right after a
// scoped load or insert within the same transaction.
func (r *ReservationRepo) GetDetailTx(ctx context.Context, tx *sql.Tx, reservationID uint64) (*ReservationDetail, error) {
    const q = `SELECT ` + detailColumns + `
               FROM reservations r
               JOIN passengers p ON p.id = r.passenger_id
               JOIN flights f ON f.id = r.flight_id
               WHERE r.id = ?`
    return scanDetail(tx.QueryRowContext(ctx, q, reservationID))
}

// GetByIDForOwner returns a single hydrated reservation scoped to its
// owner.  When the reservation does not exist, or exists but belongs
// to a different principal, sql.ErrNoRows is returned.
func (r *ReservationRepo) GetByIDForOwner(ctx context.Context, reservationID, ownerID uint64) (*ReservationDetail, error) {
    const q = `SELECT ` + detailColumns + `
               FROM reservations r
               JOIN passengers p ON p.id = r.passenger_id
               JOIN flights f ON f.id = r.flight_id
               WHERE r.id = ? AND r.owner_principal_id = ?`
    return scanDetail(r.db.QueryRowContext(ctx, q, reservationID, ownerID))
}

// ListByOwner returns all reservations owned by the given principal,
// hydrated with passenger and flight details and ordered by creation
// time descending (newest first).  When none exist, an empty slice is
// returned.
func (r *ReservationRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]ReservationDetail, error) {
    const q = `SELECT ` + detailColumns + `
               FROM reservations r
               JOIN passengers p ON p.id = r.passenger_id
               JOIN flights f ON f.id = r.flight_id
               WHERE r.owner_principal_id = ?
               ORDER BY r.creation_timestamp DESC, r.id DESC`
    rows, err := r.db.QueryContext(ctx, q, ownerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]ReservationDetail, 0)
    for rows.Next() {
        var d ReservationDetail
        if err := rows.Scan(
            &d.ID, &d.PassengerInfoID, &d.FlightDetailsID,
            &d.PassengerInfo.ID, &d.PassengerInfo.FullName, &d.PassengerInfo.Email, &d.PassengerInfo.PhoneNumber,
            &d.FlightDetails.FlightNumber, &d.FlightDetails.Airline, &d.FlightDetails.OriginAirport,
            &d.FlightDetails.DestinationAirport, &d.FlightDetails.DepartureDatetime, &d.FlightDetails.ArrivalDatetime,
            &d.FlightDetails.SeatInformation, &d.FlightDetails.TravelClass,
            &d.TotalPrice, &d.ReservationStatus, &d.CreationTimestamp, &d.LastUpdateTimestamp,
        ); err != nil {
            return nil, err
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}

// DeleteByIDForOwner deletes a reservation scoped to its owner.  The
// linked passenger and flight rows are never cascaded.  It returns
// sql.ErrNoRows when nothing was deleted, which covers both a missing
// reservation and one owned by a different principal.
func (r *ReservationRepo) DeleteByIDForOwner(ctx context.Context, reservationID, ownerID uint64) error {
    const q = `DELETE FROM reservations WHERE id = ? AND owner_principal_id = ?`
    result, err := r.db.ExecContext(ctx, q, reservationID, ownerID)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}
