package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewAccessToken_RoundTrip(t *testing.T) {
    const secret = "test-secret"
    at, err := NewAccessToken(secret, 42, 15)
    require.NoError(t, err)
    require.NotEmpty(t, at.Token)
    assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 5*time.Second)

    tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    })
    require.NoError(t, err)
    require.True(t, tok.Valid)

    claims, ok := tok.Claims.(jwt.MapClaims)
    require.True(t, ok)
    assert.EqualValues(t, 42, claims["sub"])
}

func TestNewAccessToken_WrongSecretRejected(t *testing.T) {
    at, err := NewAccessToken("right-secret", 1, 5)
    require.NoError(t, err)

    _, err = jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
        return []byte("wrong-secret"), nil
    })
    assert.Error(t, err)
}

func TestNewRefreshToken(t *testing.T) {
    rt, err := NewRefreshToken(7)
    require.NoError(t, err)
    assert.Len(t, rt.Raw, 96) // 48 random bytes, hex-encoded
    assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), rt.Exp, 5*time.Second)

    other, err := NewRefreshToken(7)
    require.NoError(t, err)
    assert.NotEqual(t, rt.Raw, other.Raw)
}

func TestHashRefreshRaw_Deterministic(t *testing.T) {
    a := HashRefreshRaw("some-raw-token")
    b := HashRefreshRaw("some-raw-token")
    c := HashRefreshRaw("another-token")
    assert.Equal(t, a, b)
    assert.NotEqual(t, a, c)
    assert.Len(t, a, 64) // sha256 hex
}
