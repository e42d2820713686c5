package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie the client web app sends back on every
// request.
const SessionCookieName = "token"

// sessionCookie builds the cookie with the attribute set shared by set
// and clear. In production the client is served from another origin, so
// the cookie must be Secure with SameSite=None; in development it stays
// Strict. Clearing must reuse the exact same attributes or browsers keep
// the cookie.
func sessionCookie(value string, maxAge int, production bool) *http.Cookie {
	sameSite := http.SameSiteStrictMode
	if production {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   production,
		SameSite: sameSite,
	}
}

func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, production bool) {
	http.SetCookie(w, sessionCookie(token, int(ttl.Seconds()), production))
}

func ClearSessionCookie(w http.ResponseWriter, production bool) {
	http.SetCookie(w, sessionCookie("", -1, production))
}
