package web

import (
	"net/http"

	"gameclub/internal/application/orchestrators"
	"gameclub/internal/application/projections"
)

// handleCreateRotation handles POST /api/rotations. Owner only.
// POST: A planned rotation snapshotting each member's head-of-queue game.
func handleCreateRotation(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteBuildRotation(r.Context(), orchestrators.BuildRotationInput{
		ClubID:  sess.ClubID,
		IsOwner: sess.IsOwner,
		Name:    sanitizeText(req.Name),
	}, orchestrators.BuildRotationDeps{
		RotationStore: stores.RotationStore,
		GenerateID:    generateID,
		Now:           timeNow,
	})
	if err != nil {
		writeFault(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":        result.Rotation.ID,
		"name":      result.Rotation.Name,
		"status":    result.Rotation.Status,
		"gameCount": result.GameCount,
		"createdAt": result.Rotation.CreatedAt,
	})
}

// handleListRotations handles GET /api/rotations.
func handleListRotations(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	summaries, err := projections.GetRotations(r.Context(), projections.GetRotationsQuery{
		ClubID: sess.ClubID,
	}, projections.GetRotationsDeps{RotationStore: stores.RotationStore})
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rotations": summaries})
}

// handleRotationGames handles GET /api/rotations/{rotationID}/games.
func handleRotationGames(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	games, err := projections.GetRotationGames(r.Context(), projections.GetRotationGamesQuery{
		ClubID:     sess.ClubID,
		RotationID: r.PathValue("rotationID"),
	}, projections.GetRotationsDeps{RotationStore: stores.RotationStore})
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": games})
}

// handleActivateRotation handles POST /api/rotations/{rotationID}/activate.
// Owner only. Whatever rotation was active before is force-completed.
func handleActivateRotation(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	err := orchestrators.ExecuteActivateRotation(r.Context(), orchestrators.ActivateRotationInput{
		ClubID:     sess.ClubID,
		IsOwner:    sess.IsOwner,
		RotationID: r.PathValue("rotationID"),
	}, orchestrators.ActivateRotationDeps{
		RotationStore: stores.RotationStore,
		Now:           timeNow,
	})
	if err != nil {
		writeFault(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteRotation handles DELETE /api/rotations/{rotationID}. Owner only.
// Completed rotations are history and cannot be deleted.
func handleDeleteRotation(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	err := orchestrators.ExecuteDeleteRotation(r.Context(), orchestrators.DeleteRotationInput{
		ClubID:     sess.ClubID,
		IsOwner:    sess.IsOwner,
		RotationID: r.PathValue("rotationID"),
	}, orchestrators.DeleteRotationDeps{RotationStore: stores.RotationStore})
	if err != nil {
		writeFault(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSpin handles POST /api/rotations/active/spin. Owner only.
// POST: A random unplayed entry of the active rotation is now playing.
func handleSpin(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	result, err := orchestrators.ExecuteSpin(r.Context(), orchestrators.SpinInput{
		ClubID:  sess.ClubID,
		IsOwner: sess.IsOwner,
	}, orchestrators.SpinDeps{
		RotationStore: stores.RotationStore,
		Rand:          spinRand,
		Now:           timeNow,
	})
	if err != nil {
		writeFault(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entryId":       result.EntryID,
		"gameId":        result.GameID,
		"igdbId":        result.IGDBID,
		"title":         result.Title,
		"username":      result.Username,
		"totalOptions":  result.TotalOptions,
		"selectedIndex": result.SelectedIndex,
	})
}

// handleFinishGame handles POST /api/rotations/entries/{entryID}/finish.
// Owner only. Finishing the last entry completes the rotation.
func handleFinishGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	result, err := orchestrators.ExecuteFinishGame(r.Context(), orchestrators.FinishGameInput{
		ClubID:  sess.ClubID,
		IsOwner: sess.IsOwner,
		EntryID: r.PathValue("entryID"),
	}, orchestrators.FinishGameDeps{
		RotationStore: stores.RotationStore,
		Now:           timeNow,
	})
	if err != nil {
		writeFault(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rotationId":        result.RotationID,
		"gameId":            result.GameID,
		"rotationCompleted": result.RotationCompleted,
	})
}

// handleDashboard handles GET /api/dashboard.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	result, err := projections.GetDashboard(r.Context(), projections.GetDashboardQuery{
		ClubID: sess.ClubID,
	}, projections.GetDashboardDeps{
		GameStore:     stores.GameStore,
		RotationStore: stores.RotationStore,
	})
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
