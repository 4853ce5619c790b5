package handler

import (
    "net/http"
    "net/http/httptest"
    "testing"

    sqlmock "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/flight-reservation-api/internal/config"
    "github.com/iliyamo/flight-reservation-api/internal/repository"
)

func newAuthFixture(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })

    h := NewAuthHandler(repository.NewPrincipalRepo(db), repository.NewTokenRepo(db), config.Config{})
    return h, mock
}

func TestLogoutAll_RevokesEveryActiveSession(t *testing.T) {
    h, mock := newAuthFixture(t)

    mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at=NOW\(\) WHERE principal_id=\? AND revoked_at IS NULL`).
        WithArgs(int64(2)).
        WillReturnResult(sqlmock.NewResult(0, 3))

    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout_all", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set("principal_id", uint64(2))

    require.NoError(t, h.LogoutAll(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogoutAll_Unauthenticated(t *testing.T) {
    h, mock := newAuthFixture(t)

    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout_all", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    require.NoError(t, h.LogoutAll(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    require.NoError(t, mock.ExpectationsWereMet())
}
