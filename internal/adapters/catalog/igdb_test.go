package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeIGDB stands in for both the Twitch token endpoint and the IGDB API.
type fakeIGDB struct {
	tokenCalls int
	queries    []string
	games      []map[string]any
}

func (f *fakeIGDB) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls++
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"expires_in":   3600,
			"token_type":   "bearer",
		})
	})
	mux.HandleFunc("/games", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.queries = append(f.queries, string(body))
		json.NewEncoder(w).Encode(f.games)
	})
	return mux
}

func newTestClient(t *testing.T, fake *fakeIGDB) *IGDBClient {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return NewIGDBClient("client-id", "secret",
		WithEndpoints(srv.URL, srv.URL+"/oauth2/token"),
		WithHTTPClient(srv.Client()))
}

// TestSearchMapsEntries tests search result mapping including cover resizing.
func TestSearchMapsEntries(t *testing.T) {
	fake := &fakeIGDB{games: []map[string]any{
		{
			"id":   1942,
			"name": "Outer Wilds",
			"cover": map[string]any{
				"url": "//images.igdb.com/igdb/image/upload/t_thumb/co1234.jpg",
			},
			"first_release_date": 1559088000, // 2019-05-29
			"platforms":          []map[string]any{{"name": "PC"}, {"name": "Switch"}},
			"summary":            "A space exploration game.",
		},
		{"id": 7, "name": "No Cover Game"},
	}}
	client := newTestClient(t, fake)

	entries, err := client.Search(context.Background(), "outer", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	first := entries[0]
	if first.ID != 1942 || first.Name != "Outer Wilds" {
		t.Errorf("unexpected entry: %+v", first)
	}
	if first.CoverURL != "//images.igdb.com/igdb/image/upload/t_cover_big/co1234.jpg" {
		t.Errorf("expected big cover URL, got %s", first.CoverURL)
	}
	if first.ReleaseYear != 2019 {
		t.Errorf("expected release year 2019, got %d", first.ReleaseYear)
	}
	if len(first.Platforms) != 2 {
		t.Errorf("expected 2 platforms, got %v", first.Platforms)
	}
	second := entries[1]
	if second.CoverURL != "" || second.ReleaseYear != 0 {
		t.Errorf("expected empty cover and year, got %+v", second)
	}
}

// TestTokenCachedAcrossCalls tests that one token serves many queries.
func TestTokenCachedAcrossCalls(t *testing.T) {
	fake := &fakeIGDB{games: []map[string]any{}}
	client := newTestClient(t, fake)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := client.Search(ctx, "q", 5); err != nil {
			t.Fatalf("Search failed: %v", err)
		}
	}
	if fake.tokenCalls != 1 {
		t.Errorf("expected 1 token call, got %d", fake.tokenCalls)
	}
}

// TestGetByIDMissing tests that a missing ID is reported, not an error.
func TestGetByIDMissing(t *testing.T) {
	fake := &fakeIGDB{games: []map[string]any{}}
	client := newTestClient(t, fake)

	_, ok, err := client.GetByID(context.Background(), 99)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if ok {
		t.Error("expected ok=false for a missing entry")
	}
}

// TestSearchStripsQuotes tests that user input cannot break the query syntax.
func TestSearchStripsQuotes(t *testing.T) {
	fake := &fakeIGDB{games: []map[string]any{}}
	client := newTestClient(t, fake)

	if _, err := client.Search(context.Background(), `zelda"; fields *;`, 5); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(fake.queries) != 1 {
		t.Fatalf("expected 1 query, got %d", len(fake.queries))
	}
	q := fake.queries[0]
	if want := `search "zelda; fields *;";`; len(q) == 0 || q[:len(want)] != want {
		t.Errorf("expected stripped quotes in query, got %s", q)
	}
}
