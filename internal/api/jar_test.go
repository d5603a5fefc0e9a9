package api

import (
	"net/http"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJar_round_trips_through_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")

	jar, err := OpenJar(path)
	require.NoError(t, err)
	jar.Set(SessionCookie, "abc123", time.Hour)
	jar.Set(CSRFCookie, "csrf-1", 0)

	reopened, err := OpenJar(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", reopened.Value(SessionCookie))
	assert.Equal(t, "csrf-1", reopened.Value(CSRFCookie))
}

func TestJar_expired_cookies_are_invisible(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")

	jar, err := OpenJar(path)
	require.NoError(t, err)
	jar.Set(SessionCookie, "abc123", -time.Minute)

	assert.Empty(t, jar.Value(SessionCookie))

	reopened, err := OpenJar(path)
	require.NoError(t, err)
	assert.Empty(t, reopened.Value(SessionCookie))
}

func TestJar_expire_removes_cookie(t *testing.T) {
	jar, err := OpenJar(filepath.Join(t.TempDir(), "cookies.json"))
	require.NoError(t, err)

	jar.Set(SessionCookie, "abc123", time.Hour)
	jar.Expire(SessionCookie)

	assert.Empty(t, jar.Value(SessionCookie))
}

func TestJar_ingests_set_cookie_responses(t *testing.T) {
	jar, err := OpenJar(filepath.Join(t.TempDir(), "cookies.json"))
	require.NoError(t, err)

	u, _ := url.Parse("http://localhost:8000/api/auth/login")
	jar.SetCookies(u, []*http.Cookie{
		{Name: CSRFCookie, Value: "fresh-token", MaxAge: 900},
	})

	assert.Equal(t, "fresh-token", jar.Value(CSRFCookie))
}

func TestJar_past_dated_set_cookie_deletes(t *testing.T) {
	jar, err := OpenJar(filepath.Join(t.TempDir(), "cookies.json"))
	require.NoError(t, err)
	jar.Set(SessionCookie, "abc123", time.Hour)

	u, _ := url.Parse("http://localhost:8000/api/auth/logout")
	jar.SetCookies(u, []*http.Cookie{
		{Name: SessionCookie, Value: "", Expires: time.Unix(0, 0)},
	})

	assert.Empty(t, jar.Value(SessionCookie))
}

func TestOpenJar_missing_file_is_empty(t *testing.T) {
	jar, err := OpenJar(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, jar.Cookies(nil))
}
