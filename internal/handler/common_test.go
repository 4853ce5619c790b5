package handler

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func ctxWithPrincipal(v interface{}) echo.Context {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    c := e.NewContext(req, httptest.NewRecorder())
    if v != nil {
        c.Set("principal_id", v)
    }
    return c
}

func TestGetPrincipalID_NumericTypes(t *testing.T) {
    for _, v := range []interface{}{uint64(9), int(9), int64(9), float64(9), "9"} {
        got, err := getPrincipalID(ctxWithPrincipal(v))
        require.NoError(t, err, "value %#v", v)
        assert.Equal(t, uint64(9), got)
    }
}

func TestGetPrincipalID_Invalid(t *testing.T) {
    _, err := getPrincipalID(ctxWithPrincipal(nil))
    assert.Error(t, err)

    _, err = getPrincipalID(ctxWithPrincipal("not-a-number"))
    assert.Error(t, err)
}
