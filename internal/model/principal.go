package model

import "time"

// Principal represents an authenticated API caller as stored in the
// `principals` table.  A reservation is owned by the principal that
// created it (reservations.owner_principal_id); the passenger record a
// reservation references is deliberately a separate identity.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name.
//  PasswordHash – bcrypt hash of the secret.
//  CreatedAt    – timestamp of registration.
type Principal struct {
    ID           uint64    // principals.id
    Username     string    // principals.username
    PasswordHash string    // principals.password_hash
    CreatedAt    time.Time // principals.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a principal and carries expiry and
// revocation metadata.  The plain token is never stored; only its
// SHA-256 hash.
//
// Fields:
//  ID          – primary key identifier.
//  PrincipalID – owner of the token.
//  TokenHash   – SHA-256 hex digest of the token value.
//  ExpiresAt   – expiration timestamp.
//  RevokedAt   – when the token was revoked (null if still active).
//  CreatedAt   – timestamp of creation.
type RefreshToken struct {
    ID          uint64     // refresh_tokens.id
    PrincipalID uint64     // refresh_tokens.principal_id
    TokenHash   string     // refresh_tokens.token_hash
    ExpiresAt   time.Time  // refresh_tokens.expires_at
    RevokedAt   *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt   time.Time  // refresh_tokens.created_at
}
