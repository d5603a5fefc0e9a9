package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_sends_form_and_stores_session_cookie(t *testing.T) {
	var gotContentType, gotUsername, gotPassword string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotUsername = r.PostForm.Get("username")
		gotPassword = r.PostForm.Get("password")

		http.SetCookie(w, &http.Cookie{Name: CSRFCookie, Value: "server-csrf"})
		_, _ = w.Write([]byte(`{"access_token": "jwt-token"}`))
	}))

	err := client.Login(context.Background(), "a@b.com", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "a@b.com", gotUsername)
	assert.Equal(t, "hunter2", gotPassword)

	assert.True(t, client.IsLoggedIn())
	assert.Equal(t, "jwt-token", client.jar.Value(SessionCookie))
	assert.Equal(t, "server-csrf", client.jar.Value(CSRFCookie))
}

func TestLogin_without_token_fails(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	err := client.Login(context.Background(), "a@b.com", "hunter2")
	require.Error(t, err)
	assert.False(t, client.IsLoggedIn())
}

func TestLogout_clears_both_cookies(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message": "Successfully logged out"}`))
	}))
	client.jar.Set(SessionCookie, "abc", 0)
	client.jar.Set(CSRFCookie, "def", 0)

	require.NoError(t, client.Logout(context.Background()))

	assert.False(t, client.IsLoggedIn())
	assert.Empty(t, client.jar.Value(CSRFCookie))
}

func TestIsLoggedIn_reflects_cookie_state(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	assert.False(t, client.IsLoggedIn())
	client.jar.Set(SessionCookie, "abc", 0)
	assert.True(t, client.IsLoggedIn())
	client.jar.Expire(SessionCookie)
	assert.False(t, client.IsLoggedIn())
}

func TestMe_decodes_profile(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": 7, "full_name": "Ada", "email": "ada@b.com", "is_verified": true}`))
	}))

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "Ada", user.FullName)
	assert.True(t, user.IsVerified)
}

func TestVerifyEmail_uses_query_parameters(t *testing.T) {
	var gotEmail, gotToken string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail = r.URL.Query().Get("email")
		gotToken = r.URL.Query().Get("token")
		_, _ = w.Write([]byte(`{"message": "Email verified"}`))
	}))

	require.NoError(t, client.VerifyEmail(context.Background(), "a@b.com", "tok"))
	assert.Equal(t, "a@b.com", gotEmail)
	assert.Equal(t, "tok", gotToken)
}
