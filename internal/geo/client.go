// Package geo looks up countries and cities from the public
// countriesnow.space API, used to scope the doctor directory.
package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// DefaultBaseURL is the public countriesnow.space endpoint.
const DefaultBaseURL = "https://countriesnow.space/api/v0.1"

// Country is a country together with the cities the directory knows about.
type Country struct {
	Country string   `json:"country"`
	Cities  []string `json:"cities"`
}

// Client is a thin typed client for the countries API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the given base URL. Pass an empty
// string to use DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// envelope is the response wrapper every countriesnow endpoint uses.
type envelope struct {
	Error bool            `json:"error"`
	Msg   string          `json:"msg"`
	Data  json.RawMessage `json:"data"`
}

// Countries returns every country with its cities, sorted by name.
func (c *Client) Countries(ctx context.Context) ([]Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/countries", nil)
	if err != nil {
		return nil, err
	}

	var countries []Country
	if err := c.do(req, &countries); err != nil {
		return nil, err
	}

	sort.Slice(countries, func(i, j int) bool {
		return countries[i].Country < countries[j].Country
	})
	return countries, nil
}

// Cities returns the city names of a single country, in the API's
// ascending name order.
func (c *Client) Cities(ctx context.Context, country string) ([]string, error) {
	payload, err := json.Marshal(map[string]any{
		"limit":   1000,
		"order":   "asc",
		"orderBy": "name",
		"country": country,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/countries/population/cities/filter", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var items []struct {
		City string `json:"city"`
	}
	if err := c.do(req, &items); err != nil {
		return nil, err
	}

	cities := make([]string, len(items))
	for i, item := range items {
		cities[i] = item.City
	}
	return cities, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var env envelope
		_ = json.NewDecoder(resp.Body).Decode(&env)
		msg := env.Msg
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("countries service error: %s", msg)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return err
	}
	if env.Error {
		return fmt.Errorf("countries service error: %s", env.Msg)
	}
	return json.Unmarshal(env.Data, out)
}
