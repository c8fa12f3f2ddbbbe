package web

import (
	"net/http"
	"strconv"

	"gameclub/internal/application/orchestrators"
	"gameclub/internal/application/projections"
)

// handleAddGame handles POST /api/games.
// POST: Game appended to the caller's queue; duplicates are 409.
func handleAddGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req struct {
		IGDBID int64  `json:"igdbId"`
		Title  string `json:"title"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	g, err := orchestrators.ExecuteAddGame(r.Context(), orchestrators.AddGameInput{
		MemberID: sess.MemberID,
		IGDBID:   req.IGDBID,
		Title:    sanitizeText(req.Title),
	}, orchestrators.AddGameDeps{
		GameStore:  stores.GameStore,
		GenerateID: generateID,
		Now:        timeNow,
	})
	if err != nil {
		writeFault(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":              g.ID,
		"igdbId":          g.IGDBID,
		"title":           g.Title,
		"status":          string(g.Status),
		"positionInQueue": g.PositionInQueue,
		"dateAdded":       g.DateAdded,
	})
}

// handleQueue handles GET /api/members/{memberID}/queue. Members can browse
// each other's queues within a club.
func handleQueue(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	targetID := r.PathValue("memberID")
	if targetID == "" || targetID == "me" {
		targetID = sess.MemberID
	}

	result, err := projections.GetQueue(r.Context(), projections.GetQueueQuery{
		ClubID:         sess.ClubID,
		TargetMemberID: targetID,
	}, projections.GetQueueDeps{
		MemberStore: stores.MemberStore,
		GameStore:   stores.GameStore,
		Catalog:     catalogClient,
	})
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleRemoveGame handles DELETE /api/games/{gameID}.
func handleRemoveGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	err := orchestrators.ExecuteRemoveGame(r.Context(), orchestrators.RemoveGameInput{
		MemberID: sess.MemberID,
		GameID:   r.PathValue("gameID"),
	}, orchestrators.RemoveGameDeps{GameStore: stores.GameStore})
	if err != nil {
		writeFault(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReorderGame handles POST /api/games/{gameID}/reorder.
func handleReorderGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Direction string `json:"direction"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	err := orchestrators.ExecuteReorderGame(r.Context(), orchestrators.ReorderGameInput{
		MemberID:  sess.MemberID,
		GameID:    r.PathValue("gameID"),
		Direction: req.Direction,
	}, orchestrators.ReorderGameDeps{GameStore: stores.GameStore})
	if err != nil {
		writeFault(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// defaultSearchLimit bounds catalog searches when the client sends no limit.
const defaultSearchLimit = 10

// handleSearchCatalog handles GET /api/catalog/search?q=...&limit=...
func handleSearchCatalog(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}
	limit := defaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}

	entries, err := catalogClient.Search(r.Context(), query, limit)
	if err != nil {
		internalError(w, err)
		return
	}

	type searchResult struct {
		ID          int64    `json:"id"`
		Name        string   `json:"name"`
		CoverURL    string   `json:"coverUrl,omitempty"`
		Summary     string   `json:"summary,omitempty"`
		Platforms   []string `json:"platforms,omitempty"`
		ReleaseYear int      `json:"releaseYear,omitempty"`
	}
	results := make([]searchResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, searchResult{
			ID:          e.ID,
			Name:        e.Name,
			CoverURL:    e.CoverURL,
			Summary:     e.Summary,
			Platforms:   e.Platforms,
			ReleaseYear: e.ReleaseYear,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
