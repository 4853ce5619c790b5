package handler // handler defines http handlers

import (
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"
)

// getPrincipalID extracts the principal_id from echo.Context and
// converts it to uint64.  The JWT middleware stores the raw claim, so
// numeric values usually arrive as float64.
func getPrincipalID(c echo.Context) (uint64, error) {
    v := c.Get("principal_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid principal_id in context")
}
