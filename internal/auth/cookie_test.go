package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setCookie(t *testing.T, production bool) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "tok", 7*24*time.Hour, production)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestSetSessionCookieDevelopment(t *testing.T) {
	t.Parallel()

	c := setCookie(t, false)
	require.Equal(t, SessionCookieName, c.Name)
	require.Equal(t, "tok", c.Value)
	require.Equal(t, "/", c.Path)
	require.True(t, c.HttpOnly)
	require.False(t, c.Secure)
	require.Equal(t, http.SameSiteStrictMode, c.SameSite)
	require.Equal(t, int((7 * 24 * time.Hour).Seconds()), c.MaxAge)
}

func TestSetSessionCookieProduction(t *testing.T) {
	t.Parallel()

	c := setCookie(t, true)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteNoneMode, c.SameSite)
}

func TestClearSessionCookieMatchesAttributes(t *testing.T) {
	t.Parallel()

	for _, production := range []bool{false, true} {
		rec := httptest.NewRecorder()
		ClearSessionCookie(rec, production)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)

		set := setCookie(t, production)
		cleared := cookies[0]

		// Browsers only remove a cookie when the clearing attributes match
		// the ones it was set with.
		require.Equal(t, set.Name, cleared.Name)
		require.Equal(t, set.Path, cleared.Path)
		require.Equal(t, set.HttpOnly, cleared.HttpOnly)
		require.Equal(t, set.Secure, cleared.Secure)
		require.Equal(t, set.SameSite, cleared.SameSite)
		require.Empty(t, cleared.Value)
		require.Equal(t, -1, cleared.MaxAge)
	}
}
