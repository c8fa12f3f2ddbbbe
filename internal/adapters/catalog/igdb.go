package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Default endpoints; overridable for tests.
const (
	defaultAPIURL   = "https://api.igdb.com/v4"
	defaultTokenURL = "https://id.twitch.tv/oauth2/token"
)

// IGDBClient talks to the IGDB API using Twitch client-credential tokens.
// Tokens are cached until shortly before expiry and refreshed lazily.
type IGDBClient struct {
	clientID     string
	clientSecret string
	apiURL       string
	tokenURL     string
	httpClient   *http.Client

	mu             sync.Mutex
	accessToken    string
	tokenExpiresAt time.Time
}

// IGDBOption configures an IGDBClient.
type IGDBOption func(*IGDBClient)

// WithEndpoints overrides the API and token URLs.
func WithEndpoints(apiURL, tokenURL string) IGDBOption {
	return func(c *IGDBClient) {
		c.apiURL = apiURL
		c.tokenURL = tokenURL
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) IGDBOption {
	return func(c *IGDBClient) { c.httpClient = hc }
}

// NewIGDBClient creates a client with the given Twitch credentials.
func NewIGDBClient(clientID, clientSecret string, opts ...IGDBOption) *IGDBClient {
	c := &IGDBClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		apiURL:       defaultAPIURL,
		tokenURL:     defaultTokenURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// token returns a cached access token, refreshing when within a minute of expiry.
func (c *IGDBClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiresAt) {
		return c.accessToken, nil
	}

	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"client_credentials"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("catalog token request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("catalog token request returned %d: %s", resp.StatusCode, body)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("catalog token decode failed: %w", err)
	}

	c.accessToken = tok.AccessToken
	c.tokenExpiresAt = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	slog.Info("catalog_event", "event", "token_refreshed", "expires_in", tok.ExpiresIn)
	return c.accessToken, nil
}

type igdbGame struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Cover *struct {
		URL string `json:"url"`
	} `json:"cover"`
	FirstReleaseDate int64 `json:"first_release_date"`
	Platforms        []struct {
		Name string `json:"name"`
	} `json:"platforms"`
	Summary string `json:"summary"`
}

// query posts an APIcalypse query to the games endpoint.
func (c *IGDBClient) query(ctx context.Context, body string) ([]igdbGame, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/games", strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog query returned %d: %s", resp.StatusCode, raw)
	}

	var games []igdbGame
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("catalog response decode failed: %w", err)
	}
	return games, nil
}

func toEntry(g igdbGame) Entry {
	e := Entry{
		ID:          g.ID,
		Name:        g.Name,
		Summary:     g.Summary,
		ReleaseYear: ReleaseYear(g.FirstReleaseDate),
	}
	if g.Cover != nil {
		e.CoverURL = CoverSize(g.Cover.URL)
	}
	for _, p := range g.Platforms {
		e.Platforms = append(e.Platforms, p.Name)
	}
	return e
}

// Search runs a free-text search, excluding game editions (version_parent set).
func (c *IGDBClient) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	escaped := strings.ReplaceAll(query, `"`, ``)
	body := fmt.Sprintf(
		`search "%s"; fields name,cover.url,first_release_date,platforms.name,summary; limit %d; where version_parent = null;`,
		escaped, limit)

	games, err := c.query(ctx, body)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(games))
	for _, g := range games {
		entries = append(entries, toEntry(g))
	}
	return entries, nil
}

// GetByID resolves a single catalog entry.
func (c *IGDBClient) GetByID(ctx context.Context, id int64) (Entry, bool, error) {
	body := fmt.Sprintf(
		`fields name,cover.url,first_release_date,platforms.name,summary; where id = %d;`, id)

	games, err := c.query(ctx, body)
	if err != nil {
		return Entry{}, false, err
	}
	if len(games) == 0 {
		return Entry{}, false, nil
	}
	return toEntry(games[0]), true, nil
}
