package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/flight-reservation-api/internal/model"
	"github.com/iliyamo/flight-reservation-api/internal/utils"
)

type PrincipalRepo struct{ DB *sql.DB }

func NewPrincipalRepo(db *sql.DB) *PrincipalRepo { return &PrincipalRepo{DB: db} }

// Create inserts a principal and returns its ID.
func (r *PrincipalRepo) Create(ctx context.Context, username, password string, cost int) (uint64, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO principals (username, password_hash) VALUES (?,?)",
		username, hash)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a principal by normalized username.
func (r *PrincipalRepo) GetByUsername(ctx context.Context, username string) (model.Principal, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var p model.Principal
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,created_at FROM principals WHERE username=? LIMIT 1",
		username).Scan(&p.ID, &p.Username, &p.PasswordHash, &p.CreatedAt)
	return p, err
}

// GetByID fetches a principal by id.
func (r *PrincipalRepo) GetByID(ctx context.Context, id uint64) (model.Principal, error) {
	var p model.Principal
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,created_at FROM principals WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.Username, &p.PasswordHash, &p.CreatedAt)
	return p, err
}
