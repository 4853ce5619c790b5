package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/flight-reservation-api/internal/model"
)

// FlightRepo provides access to the flights table.  Flights are
// canonicalized by flight number: at most one row exists per number and
// the create path never mutates an existing row.  All timestamps are
// stored in UTC.
type FlightRepo struct {
    db *sql.DB
}

// NewFlightRepo returns a new FlightRepo bound to the given database.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

// FindOrCreateTx resolves the canonical flight row for f.FlightNumber
// within the given transaction.  Like the passenger resolver it is an
// INSERT IGNORE keyed on the unique flight_number index followed by a
// re-read, closing the find-then-create race.  An existing row is
// returned unchanged regardless of the submitted field values.
func (r *FlightRepo) FindOrCreateTx(ctx context.Context, tx *sql.Tx, f *model.Flight) (*model.Flight, error) {
    const ins = `INSERT IGNORE INTO flights
        (flight_number, airline, origin_airport, destination_airport,
         departure_datetime, arrival_datetime, seat_information, travel_class)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    if _, err := tx.ExecContext(ctx, ins,
        f.FlightNumber, f.Airline, f.OriginAirport, f.DestinationAirport,
        f.DepartureDatetime.UTC(), f.ArrivalDatetime.UTC(), f.SeatInformation, f.TravelClass,
    ); err != nil {
        return nil, err
    }
    return r.getByNumberTx(ctx, tx, f.FlightNumber)
}

func (r *FlightRepo) getByNumberTx(ctx context.Context, tx *sql.Tx, number string) (*model.Flight, error) {
    const q = `SELECT id, flight_number, airline, origin_airport, destination_airport,
                      departure_datetime, arrival_datetime, seat_information, travel_class
               FROM flights WHERE flight_number = ?`
    var f model.Flight
    err := tx.QueryRowContext(ctx, q, number).Scan(
        &f.ID, &f.FlightNumber, &f.Airline, &f.OriginAirport, &f.DestinationAirport,
        &f.DepartureDatetime, &f.ArrivalDatetime, &f.SeatInformation, &f.TravelClass,
    )
    if err != nil {
        return nil, err
    }
    return &f, nil
}

func (r *FlightRepo) getByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Flight, error) {
    const q = `SELECT id, flight_number, airline, origin_airport, destination_airport,
                      departure_datetime, arrival_datetime, seat_information, travel_class
               FROM flights WHERE id = ?`
    var f model.Flight
    err := tx.QueryRowContext(ctx, q, id).Scan(
        &f.ID, &f.FlightNumber, &f.Airline, &f.OriginAirport, &f.DestinationAirport,
        &f.DepartureDatetime, &f.ArrivalDatetime, &f.SeatInformation, &f.TravelClass,
    )
    if err != nil {
        return nil, err
    }
    return &f, nil
}

// UpdateInPlaceTx overwrites the mutable fields of an already-linked
// flight row.  It deliberately does NOT re-resolve by flight number:
// changing the number here renames the linked row rather than pointing
// the reservation at a different canonical flight.  The row must
// exist; sql.ErrNoRows signals a data-integrity fault.  Renaming to a
// number held by another flight row returns ErrConflict.
func (r *FlightRepo) UpdateInPlaceTx(ctx context.Context, tx *sql.Tx, id uint64, f *model.Flight) (*model.Flight, error) {
    if _, err := r.getByIDTx(ctx, tx, id); err != nil {
        return nil, err
    }
    const up = `UPDATE flights SET flight_number = ?, airline = ?, origin_airport = ?,
                destination_airport = ?, departure_datetime = ?, arrival_datetime = ?,
                seat_information = ?, travel_class = ? WHERE id = ?`
    if _, err := tx.ExecContext(ctx, up,
        f.FlightNumber, f.Airline, f.OriginAirport, f.DestinationAirport,
        f.DepartureDatetime.UTC(), f.ArrivalDatetime.UTC(), f.SeatInformation, f.TravelClass, id,
    ); err != nil {
        if isDuplicate(err) {
            return nil, ErrConflict
        }
        return nil, err
    }
    return r.getByIDTx(ctx, tx, id)
}
