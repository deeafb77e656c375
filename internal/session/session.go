// Package session carries the caller's credential explicitly through every
// network-calling operation. Nothing in this module reads a credential from
// global state; the composition root builds one Credential and hands it down.
package session

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Credential is a bearer token plus the identity it belongs to. The zero
// value is an anonymous session.
type Credential struct {
	Token  string
	UserID string
}

// New builds a Credential. When userID is blank it is taken from the token's
// claims ("userId", then "sub") without verifying the signature: the server
// verifies the token, the client only needs a stable key for per-user data.
func New(token, userID string) Credential {
	token = strings.TrimSpace(token)
	userID = strings.TrimSpace(userID)
	if userID == "" && token != "" {
		if id, err := UserIDFromToken(token); err == nil {
			userID = id
		}
	}
	return Credential{Token: token, UserID: userID}
}

// Anonymous reports whether no token is present.
func (c Credential) Anonymous() bool {
	return c.Token == ""
}

// SignedIn reports whether the session has a known user identity. Per-user
// storage is only touched for signed-in sessions.
func (c Credential) SignedIn() bool {
	return c.UserID != ""
}

// Authorization returns the value for the Authorization header.
func (c Credential) Authorization() string {
	if c.Token == "" {
		return ""
	}
	return "Bearer " + c.Token
}

// UserIDFromToken extracts the user id from an unverified JWT.
func UserIDFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if raw, ok := claims["userId"]; ok {
		if id := strings.TrimSpace(fmt.Sprint(raw)); id != "" {
			return id, nil
		}
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("read subject: %w", err)
	}
	if strings.TrimSpace(sub) == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}
