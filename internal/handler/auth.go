package handler

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/flight-reservation-api/internal/config"
    "github.com/iliyamo/flight-reservation-api/internal/repository"
    "github.com/iliyamo/flight-reservation-api/internal/utils"
)

// AuthHandler issues and refreshes the tokens that gate every
// reservation endpoint.  Principals are plain username/password
// accounts; passwords are stored bcrypt-hashed and refresh tokens are
// stored as SHA-256 hashes only.
type AuthHandler struct {
    Principals *repository.PrincipalRepo
    Tokens     *repository.TokenRepo
    Cfg        config.Config
}

func NewAuthHandler(p *repository.PrincipalRepo, t *repository.TokenRepo, cfg config.Config) *AuthHandler {
    return &AuthHandler{Principals: p, Tokens: t, Cfg: cfg}
}

type registerReq struct {
    Username string `json:"username"`
    Password string `json:"password"`
}

type loginReq struct {
    Username string `json:"username"`
    Password string `json:"password"`
}

type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}

// authResp is returned by Login and Refresh.
type authResp struct {
    AccessToken  string `json:"access_token"`
    RefreshToken string `json:"refresh_token"`
    ExpiresAt    string `json:"expires_at"`
}

// Register handles POST /v1/auth/register.  Usernames are normalized
// to lower case, so "Kirill" and "kirill" are the same account.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    req.Username = strings.TrimSpace(req.Username)
    if len(req.Username) < 3 || len(req.Username) > 50 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "username must be 3-50 characters"})
    }
    if len(req.Password) < 8 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    id, err := h.Principals.Create(ctx, req.Username, req.Password, h.Cfg.BcryptCost)
    if err != nil {
        if errors.Is(err, repository.ErrUsernameExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to register"})
    }
    tokens, err := h.issueTokens(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue tokens"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "id":            id,
        "username":      strings.ToLower(req.Username),
        "access_token":  tokens.AccessToken,
        "refresh_token": tokens.RefreshToken,
        "expires_at":    tokens.ExpiresAt,
    })
}

// Login handles POST /v1/auth/login.  A successful login returns a
// fresh access/refresh token pair; the refresh token hash is persisted
// so it can later be rotated or revoked.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    p, err := h.Principals.GetByUsername(ctx, req.Username)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to log in"})
    }
    if !utils.VerifyPassword(p.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }
    resp, err := h.issueTokens(ctx, p.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue tokens"})
    }
    return c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /v1/auth/refresh.  The presented refresh token
// is validated, revoked, and replaced, so each raw token is usable at
// most once.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    hash := utils.HashRefreshRaw(req.RefreshToken)
    principalID, err := h.Tokens.ValidateRefresh(ctx, hash)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired refresh token"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to refresh"})
    }
    if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to refresh"})
    }
    resp, err := h.issueTokens(ctx, principalID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue tokens"})
    }
    return c.JSON(http.StatusOK, resp)
}

// Logout handles POST /v1/auth/logout.  It revokes the presented
// refresh token; the short-lived access token simply expires.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(req.RefreshToken)); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to log out"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// LogoutAll handles POST /v1/auth/logout_all.  It revokes every active
// refresh token of the authenticated principal, ending all of their
// sessions at once.  Outstanding access tokens simply age out.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
    principalID, err := getPrincipalID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Tokens.RevokeAllForPrincipal(ctx, principalID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to log out"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "all sessions logged out"})
}

// Me handles GET /v1/me and returns the authenticated principal.
func (h *AuthHandler) Me(c echo.Context) error {
    principalID, err := getPrincipalID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    p, err := h.Principals.GetByID(c.Request().Context(), principalID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "principal not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch principal"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "id":         p.ID,
        "username":   p.Username,
        "created_at": p.CreatedAt,
    })
}

// issueTokens creates an access/refresh pair and stores the refresh hash.
func (h *AuthHandler) issueTokens(ctx context.Context, principalID uint64) (authResp, error) {
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, principalID, h.Cfg.AccessTTLMin)
    if err != nil {
        return authResp{}, err
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return authResp{}, err
    }
    if err := h.Tokens.StoreRefresh(ctx, principalID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return authResp{}, err
    }
    return authResp{
        AccessToken:  access.Token,
        RefreshToken: refresh.Raw,
        ExpiresAt:    access.Exp.Format(time.RFC3339),
    }, nil
}
