package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/flight-reservation-api/internal/model"
)

// PassengerRepo provides access to the passengers table.  Passengers
// are keyed by a client-supplied id and deduplicated on it: the create
// path inserts at most one row per id and never mutates an existing
// row.  Updates happen only through the reservation update flow, which
// overwrites the already-linked row in place.
type PassengerRepo struct {
    db *sql.DB
}

// NewPassengerRepo returns a new PassengerRepo bound to the given database.
func NewPassengerRepo(db *sql.DB) *PassengerRepo { return &PassengerRepo{db: db} }

// FindOrCreateTx resolves the canonical passenger row for p.ID within
// the given transaction.  The insert is INSERT IGNORE followed by a
// re-read, so two concurrent identical creates cannot produce
// duplicate rows; the loser of the race simply reads the winner's row.
// When the row already exists it is returned unchanged regardless of
// the submitted field values.  Inserting a new id with an email that
// already belongs to a different passenger violates the unique email
// index and returns ErrConflict.
func (r *PassengerRepo) FindOrCreateTx(ctx context.Context, tx *sql.Tx, p *model.Passenger) (*model.Passenger, error) {
    const ins = `INSERT IGNORE INTO passengers (id, full_name, email, phone_number) VALUES (?, ?, ?, ?)`
    if _, err := tx.ExecContext(ctx, ins, p.ID, p.FullName, p.Email, p.PhoneNumber); err != nil {
        if isDuplicate(err) {
            return nil, ErrConflict
        }
        return nil, err
    }
    return r.getByIDTx(ctx, tx, p.ID)
}

// getByIDTx loads a passenger by id within a transaction.  Returns
// sql.ErrNoRows when the row is absent.
func (r *PassengerRepo) getByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Passenger, error) {
    const q = `SELECT id, full_name, email, phone_number FROM passengers WHERE id = ?`
    var p model.Passenger
    err := tx.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.FullName, &p.Email, &p.PhoneNumber)
    if err != nil {
        return nil, err
    }
    return &p, nil
}

// UpdateInPlaceTx overwrites the mutable fields of an existing
// passenger row.  The row must exist; sql.ErrNoRows is returned when it
// does not, which callers treat as a data-integrity fault.  Changing
// the email to one held by another passenger returns ErrConflict.
func (r *PassengerRepo) UpdateInPlaceTx(ctx context.Context, tx *sql.Tx, id uint64, fullName, email, phone string) (*model.Passenger, error) {
    if _, err := r.getByIDTx(ctx, tx, id); err != nil {
        return nil, err
    }
    const up = `UPDATE passengers SET full_name = ?, email = ?, phone_number = ? WHERE id = ?`
    if _, err := tx.ExecContext(ctx, up, fullName, email, phone, id); err != nil {
        if isDuplicate(err) {
            return nil, ErrConflict
        }
        return nil, err
    }
    return r.getByIDTx(ctx, tx, id)
}
