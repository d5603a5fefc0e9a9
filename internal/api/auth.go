package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// User is the server's view of the authenticated account.
type User struct {
	ID         int64  `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
}

// sessionTTL matches the max-age the web client sets on its session cookie.
const sessionTTL = time.Hour

// Login exchanges credentials for a session token. The server expects an
// OAuth2 password form (username field carries the email). On success the
// access token is stored as the session cookie, mirroring the browser
// client; the anti-forgery cookie arrives via Set-Cookie and lands in the
// jar on its own.
func (c *Client) Login(ctx context.Context, email, password string) error {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	body, err := c.Call(ctx, MethodPost, "/api/auth/login", []byte(form.Encode()), &CallOptions{
		ContentType: "application/x-www-form-urlencoded",
	})
	if err != nil {
		return err
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("login failed: no token received")
	}

	c.jar.Set(SessionCookie, resp.AccessToken, sessionTTL)
	return nil
}

// Register creates an account. Email verification happens out of band.
func (c *Client) Register(ctx context.Context, fullName, email, password string) error {
	payload, err := json.Marshal(map[string]string{
		"full_name": fullName,
		"email":     email,
		"password":  password,
	})
	if err != nil {
		return err
	}

	_, err = c.Call(ctx, MethodPost, "/api/auth/register", payload, nil)
	return err
}

// Logout invalidates the session server-side and past-dates both the
// session and anti-forgery cookies locally, as the browser client does.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.Call(ctx, MethodPost, "/api/auth/logout", nil, nil)

	c.jar.Expire(SessionCookie)
	c.jar.Expire(CSRFCookie)

	return err
}

// Me fetches the current user profile.
func (c *Client) Me(ctx context.Context) (User, error) {
	body, err := c.Call(ctx, MethodGet, "/api/auth/me", nil, nil)
	if err != nil {
		return User{}, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return User{}, fmt.Errorf("decode profile: %w", err)
	}
	return user, nil
}

// VerifyEmail confirms an address using the token from the verification
// mail's link.
func (c *Client) VerifyEmail(ctx context.Context, email, token string) error {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)

	_, err := c.Call(ctx, MethodGet, "/api/auth/verify-email", nil, &CallOptions{Query: q})
	return err
}

// RequestVerificationToken asks the server to resend the verification mail.
func (c *Client) RequestVerificationToken(ctx context.Context, email string) error {
	payload, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return err
	}

	_, err = c.Call(ctx, MethodPost, "/api/auth/request-verification-token", payload, nil)
	return err
}
