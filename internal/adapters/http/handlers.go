package web

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"gameclub/internal/adapters/http/middleware"
	"gameclub/internal/application/listutil"
	"gameclub/internal/application/orchestrators"
	"gameclub/internal/application/projections"
	"gameclub/internal/domain/faults"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// spinRand is a variable so tests can fix the wheel.
var spinRand = rand.IntN

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// textPolicy strips all HTML from user-supplied names and descriptions.
var textPolicy = bluemonday.StrictPolicy()

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// sanitizeText removes any HTML and trims whitespace from user input.
func sanitizeText(input string) string {
	return strings.TrimSpace(textPolicy.Sanitize(input))
}

// renderMarkdown converts a club description to HTML. Markdown is rendered
// with raw HTML escaped, so descriptions can carry formatting but no scripts.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return ""
	}
	return buf.String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// writeFault maps a fault kind to an HTTP status. Internal faults never leak
// their message.
func writeFault(w http.ResponseWriter, err error) {
	switch faults.KindOf(err) {
	case faults.KindNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	case faults.KindForbidden:
		http.Error(w, err.Error(), http.StatusForbidden)
	case faults.KindConflict, faults.KindInvalidState:
		http.Error(w, err.Error(), http.StatusConflict)
	case faults.KindInvalidArgument:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		internalError(w, err)
	}
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requireSession extracts the session or writes 401.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
	}
	return sess, ok
}

// handleCreateClub handles POST /api/clubs.
// POST: Club created with a hashed passcode; returns 201 with the public club fields.
func handleCreateClub(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Passcode    string `json:"passcode"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	c, err := orchestrators.ExecuteCreateClub(r.Context(), orchestrators.CreateClubInput{
		Name:        sanitizeText(req.Name),
		Description: sanitizeText(req.Description),
		Passcode:    req.Passcode,
	}, orchestrators.CreateClubDeps{
		ClubStore:  stores.ClubStore,
		GenerateID: generateID,
		Now:        timeNow,
	})
	if err != nil {
		writeFault(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":          c.ID,
		"name":        c.Name,
		"description": c.Description,
		"createdAt":   c.CreatedAt,
	})
}

// handleClubDirectory handles GET /api/clubs. Public: no session required.
// Supports q (name search), sort (name|members), dir, page, and per_page.
func handleClubDirectory(w http.ResponseWriter, r *http.Request) {
	lp := listutil.ParseListParams(r.URL.Query(), []string{"name", "members"})

	views, err := projections.GetClubDirectory(r.Context(), projections.GetClubDirectoryDeps{
		ClubStore: stores.ClubStore,
	})
	if err != nil {
		writeFault(w, err)
		return
	}

	if lp.Search != "" {
		needle := strings.ToLower(lp.Search)
		filtered := views[:0]
		for _, v := range views {
			if strings.Contains(strings.ToLower(v.Name), needle) {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}
	switch lp.Sort {
	case "name":
		sort.Slice(views, func(i, j int) bool {
			if lp.Dir == "desc" {
				return views[i].Name > views[j].Name
			}
			return views[i].Name < views[j].Name
		})
	case "members":
		sort.Slice(views, func(i, j int) bool {
			if lp.Dir == "desc" {
				return views[i].MemberCount > views[j].MemberCount
			}
			return views[i].MemberCount < views[j].MemberCount
		})
	}

	pageInfo := listutil.NewPageInfo(lp.Page, lp.PerPage, len(views))
	start := pageInfo.Offset()
	end := start + pageInfo.PerPage
	if end > len(views) {
		end = len(views)
	}
	views = views[start:end]

	type directoryEntry struct {
		projections.ClubDirectoryView
		DescriptionHTML string `json:"descriptionHtml,omitempty"`
	}
	entries := make([]directoryEntry, 0, len(views))
	for _, v := range views {
		entries = append(entries, directoryEntry{
			ClubDirectoryView: v,
			DescriptionHTML:   renderMarkdown(v.Description),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"clubs": entries, "pageInfo": pageInfo})
}

// handleClubAuth handles POST /api/clubs/auth. Verifying the passcode unlocks
// register and login for that club; it does not create a member session.
func handleClubAuth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Passcode string `json:"passcode"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteAuthenticateClub(r.Context(), orchestrators.AuthenticateClubInput{
		Name:     req.Name,
		Passcode: req.Passcode,
	}, orchestrators.AuthenticateClubDeps{ClubStore: stores.ClubStore})
	if err != nil {
		writeFault(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"clubId":      result.ClubID,
		"name":        result.Name,
		"description": result.Description,
	})
}

// handleRegister handles POST /api/auth/register.
// POST: Member created (first member becomes owner) and a session cookie issued.
func handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClubID   string `json:"clubId"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	m, err := orchestrators.ExecuteRegisterMember(r.Context(), orchestrators.RegisterMemberInput{
		ClubID:   req.ClubID,
		Username: sanitizeText(req.Username),
		Password: req.Password,
	}, orchestrators.RegisterMemberDeps{
		MemberStore: stores.MemberStore,
		ClubStore:   stores.ClubStore,
		GenerateID:  generateID,
		Now:         timeNow,
	})
	if err != nil {
		writeFault(w, err)
		return
	}

	if err := issueSession(w, m.ID, m.ClubID, m.Username, m.IsOwner); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, memberPayload(m.ID, m.ClubID, m.Username, m.IsOwner))
}

// handleLogin handles POST /api/auth/login.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClubID   string `json:"clubId"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	m, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		ClubID:   req.ClubID,
		Username: sanitizeText(req.Username),
		Password: req.Password,
	}, orchestrators.LoginDeps{MemberStore: stores.MemberStore})
	if err != nil {
		writeFault(w, err)
		return
	}

	if err := issueSession(w, m.ID, m.ClubID, m.Username, m.IsOwner); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memberPayload(m.ID, m.ClubID, m.Username, m.IsOwner))
}

// handleLogout handles POST /api/auth/logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleMe handles GET /api/auth/me.
func handleMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, memberPayload(sess.MemberID, sess.ClubID, sess.Username, sess.IsOwner))
}

// handleMemberList handles GET /api/members.
func handleMemberList(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	entries, err := projections.GetMemberList(r.Context(), projections.GetMemberListQuery{
		ClubID: sess.ClubID,
	}, projections.GetMemberListDeps{MemberStore: stores.MemberStore})
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": entries})
}

func issueSession(w http.ResponseWriter, memberID, clubID, username string, isOwner bool) error {
	token, err := sessions.Issue(middleware.Session{
		MemberID: memberID,
		ClubID:   clubID,
		Username: username,
		IsOwner:  isOwner,
	})
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(w, token)
	return nil
}

func memberPayload(memberID, clubID, username string, isOwner bool) map[string]any {
	return map[string]any{
		"id":       memberID,
		"clubId":   clubID,
		"username": username,
		"isOwner":  isOwner,
	}
}
