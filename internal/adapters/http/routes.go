package web

import "net/http"

// registerRoutes wires the JSON API. Method and path parameters use the
// net/http pattern syntax; auth is enforced per handler via the session
// placed in context by the Auth middleware.
func registerRoutes(mux *http.ServeMux) {
	// Clubs (public surface)
	mux.HandleFunc("GET /api/clubs", handleClubDirectory)
	mux.HandleFunc("POST /api/clubs", handleCreateClub)
	mux.HandleFunc("POST /api/clubs/auth", handleClubAuth)

	// Member auth
	mux.HandleFunc("POST /api/auth/register", handleRegister)
	mux.HandleFunc("POST /api/auth/login", handleLogin)
	mux.HandleFunc("POST /api/auth/logout", handleLogout)
	mux.HandleFunc("GET /api/auth/me", handleMe)

	// Members and queues
	mux.HandleFunc("GET /api/members", handleMemberList)
	mux.HandleFunc("GET /api/members/{memberID}/queue", handleQueue)

	// Queue mutations
	mux.HandleFunc("POST /api/games", handleAddGame)
	mux.HandleFunc("DELETE /api/games/{gameID}", handleRemoveGame)
	mux.HandleFunc("POST /api/games/{gameID}/reorder", handleReorderGame)

	// Catalog
	mux.HandleFunc("GET /api/catalog/search", handleSearchCatalog)

	// Rotations
	mux.HandleFunc("GET /api/rotations", handleListRotations)
	mux.HandleFunc("POST /api/rotations", handleCreateRotation)
	mux.HandleFunc("GET /api/rotations/{rotationID}/games", handleRotationGames)
	mux.HandleFunc("POST /api/rotations/{rotationID}/activate", handleActivateRotation)
	mux.HandleFunc("DELETE /api/rotations/{rotationID}", handleDeleteRotation)
	mux.HandleFunc("POST /api/rotations/active/spin", handleSpin)
	mux.HandleFunc("POST /api/rotations/entries/{entryID}/finish", handleFinishGame)

	// Dashboard
	mux.HandleFunc("GET /api/dashboard", handleDashboard)
}
