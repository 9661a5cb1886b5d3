package auth

import (
	"net/http"
	"strings"
)

const CookieName = "jwt"

// Stage tracks how far a request has progressed through authentication.
type Stage int

const (
	Unauthenticated Stage = iota
	TokenPresent
	Verified
	Loaded
)

func (s Stage) String() string {
	switch s {
	case TokenPresent:
		return "token_present"
	case Verified:
		return "verified"
	case Loaded:
		return "loaded"
	default:
		return "unauthenticated"
	}
}

// TokenFromRequest prefers a Bearer header and falls back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			if token = strings.TrimSpace(token); token != "" {
				return token
			}
		}
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" && c.Value != LoggedOutValue {
		return c.Value
	}
	return ""
}

// LoggedOutValue replaces the token in the cookie written on logout.
const LoggedOutValue = "loggedout"
