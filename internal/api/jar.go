package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Cookie names mirrored with the server.
const (
	// SessionCookie is the opaque session token. Its presence, not its
	// content, drives logged-in behavior; the payload is never decoded.
	SessionCookie = "sessionId"

	// CSRFCookie holds the anti-forgery token mirrored into the
	// X-CSRF-TOKEN header on mutating requests.
	CSRFCookie = "csrf_access_token"
)

// Jar is a file-backed cookie jar standing in for browser cookie storage.
// The client only ever talks to one origin, so cookies are keyed by name
// alone; domain and path scoping are left to the server's Set-Cookie values
// being well-behaved. It implements http.CookieJar.
type Jar struct {
	mu      sync.Mutex
	path    string
	cookies map[string]storedCookie
}

type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

func (c storedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

// OpenJar loads the jar at path, creating an empty one if the file does
// not exist yet.
func OpenJar(path string) (*Jar, error) {
	j := &Jar{path: path, cookies: map[string]storedCookie{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return j, nil
		}
		return nil, fmt.Errorf("read cookie jar: %w", err)
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parse cookie jar %s: %w", path, err)
	}

	now := time.Now()
	for _, c := range stored {
		if !c.expired(now) {
			j.cookies[c.Name] = c
		}
	}

	return j, nil
}

// SetCookies records cookies from a server response. Past-dated cookies
// (the server's logout mechanism) are removed.
func (j *Jar) SetCookies(_ *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	for _, c := range cookies {
		sc := storedCookie{Name: c.Name, Value: c.Value, Expires: c.Expires}
		if c.MaxAge > 0 {
			sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if c.MaxAge < 0 || c.Value == "" || sc.expired(now) {
			delete(j.cookies, c.Name)
			continue
		}
		j.cookies[c.Name] = sc
	}

	j.saveLocked()
}

// Cookies returns all live cookies for attachment to a request.
func (j *Jar) Cookies(_ *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	var out []*http.Cookie
	for _, c := range j.cookies {
		if c.expired(now) {
			continue
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// Value returns the named cookie's value, or "" if absent or expired.
func (j *Jar) Value(name string) string {
	j.mu.Lock()
	defer j.mu.Unlock()

	c, ok := j.cookies[name]
	if !ok || c.expired(time.Now()) {
		return ""
	}
	return c.Value
}

// Set stores a cookie the client minted itself, as the browser client does
// with the session token after login. A zero ttl means no expiry.
func (j *Jar) Set(name, value string, ttl time.Duration) {
	j.mu.Lock()
	defer j.mu.Unlock()

	sc := storedCookie{Name: name, Value: value}
	if ttl > 0 {
		sc.Expires = time.Now().Add(ttl)
	}
	j.cookies[name] = sc
	j.saveLocked()
}

// Expire past-dates and removes the named cookie.
func (j *Jar) Expire(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	delete(j.cookies, name)
	j.saveLocked()
}

// saveLocked persists the jar. Held lock required. Persistence failures are
// swallowed: a read-only config dir degrades to per-process cookies, which
// is how a browser private window behaves.
func (j *Jar) saveLocked() {
	if j.path == "" {
		return
	}

	stored := make([]storedCookie, 0, len(j.cookies))
	for _, c := range j.cookies {
		stored = append(stored, c)
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(j.path, data, 0o600)
}
