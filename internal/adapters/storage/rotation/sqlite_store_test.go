package rotation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"gameclub/internal/adapters/storage"
	"gameclub/internal/domain/faults"

	gamedomain "gameclub/internal/domain/game"
	domain "gameclub/internal/domain/rotation"

	_ "modernc.org/sqlite"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	if _, err := db.Exec(
		"INSERT INTO club (id, name, passcode_hash, created_at) VALUES ('club-1', 'Test Club', 'hash', '2026-08-01T00:00:00Z')"); err != nil {
		t.Fatalf("failed to seed club: %v", err)
	}
	return NewSQLiteStore(db)
}

var testNow = time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)

// seedMember inserts a member with games at positions 1..n and the given
// statuses (empty slice means no games).
func seedMember(t *testing.T, store *SQLiteStore, memberID string, statuses []string) {
	t.Helper()
	ctx := context.Background()
	if _, err := store.db.ExecContext(ctx,
		"INSERT INTO member (id, club_id, username, created_at) VALUES (?, 'club-1', ?, '2026-08-01T00:00:00Z')",
		memberID, memberID); err != nil {
		t.Fatalf("failed to seed member: %v", err)
	}
	for i, status := range statuses {
		id := fmt.Sprintf("%s-g%d", memberID, i+1)
		if _, err := store.db.ExecContext(ctx,
			"INSERT INTO game (id, member_id, igdb_id, title, status, position_in_queue, date_added) VALUES (?, ?, ?, ?, ?, ?, '2026-08-01T00:00:00Z')",
			id, memberID, i+1, id, status, i+1); err != nil {
			t.Fatalf("failed to seed game: %v", err)
		}
	}
}

func entryIDSequence(rotationID string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-e%d", rotationID, n)
	}
}

func plannedRotation(id string) domain.Rotation {
	return domain.Rotation{
		ID:        id,
		ClubID:    "club-1",
		Name:      "Round " + id,
		Status:    domain.StatusPlanned,
		CreatedAt: testNow,
	}
}

// buildRotation snapshots a planned rotation and fails the test on error.
func buildRotation(t *testing.T, store *SQLiteStore, id string) int {
	t.Helper()
	count, err := store.BuildSnapshot(context.Background(), plannedRotation(id), entryIDSequence(id))
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}
	return count
}

// gameState reads the status and stamp columns of a game row.
func gameState(t *testing.T, store *SQLiteStore, gameID string) (status string, started, finished sql.NullString) {
	t.Helper()
	err := store.db.QueryRowContext(context.Background(),
		"SELECT status, date_started, date_finished FROM game WHERE id = ?", gameID).
		Scan(&status, &started, &finished)
	if err != nil {
		t.Fatalf("failed to read game %s: %v", gameID, err)
	}
	return
}

// TestBuildSnapshotCapturesQueueHeads tests that each member contributes
// their lowest-position unplayed game.
func TestBuildSnapshotCapturesQueueHeads(t *testing.T) {
	store := openTestStore(t)
	// alice's head is played, so her second game is the snapshot head.
	seedMember(t, store, "alice", []string{"played", "unplayed", "unplayed"})
	seedMember(t, store, "bob", []string{"unplayed"})
	// carol has nothing to contribute and is skipped silently.
	seedMember(t, store, "carol", []string{"played"})
	seedMember(t, store, "dave", nil)

	count := buildRotation(t, store, "r1")
	if count != 2 {
		t.Fatalf("expected 2 entries, got %d", count)
	}

	entries, err := store.ListEntries(context.Background(), "r1")
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	gotGames := map[string]bool{}
	for i, e := range entries {
		gotGames[e.GameID] = true
		if e.PlayOrder != i+1 {
			t.Errorf("entry %d: expected play order %d, got %d", i, i+1, e.PlayOrder)
		}
		if e.RotationStatus != gamedomain.StatusUnplayed {
			t.Errorf("entry %d: expected unplayed, got %s", i, e.RotationStatus)
		}
	}
	if !gotGames["alice-g2"] || !gotGames["bob-g1"] {
		t.Errorf("expected alice-g2 and bob-g1, got %v", gotGames)
	}
}

// TestBuildSnapshotRejectedWhileActive tests the Conflict fault when the
// club already has an active rotation.
func TestBuildSnapshotRejectedWhileActive(t *testing.T) {
	store := openTestStore(t)
	seedMember(t, store, "alice", []string{"unplayed"})
	buildRotation(t, store, "r1")
	if err := store.Activate(context.Background(), "club-1", "r1", testNow); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	_, err := store.BuildSnapshot(context.Background(), plannedRotation("r2"), entryIDSequence("r2"))
	if faults.KindOf(err) != faults.KindConflict {
		t.Errorf("expected Conflict fault, got %v", err)
	}
	// The rejected rotation left no row behind.
	if _, err := store.GetByID(context.Background(), "r2"); faults.KindOf(err) != faults.KindNotFound {
		t.Errorf("expected r2 to not exist, got %v", err)
	}
}

// TestBuildSnapshotIgnoresLaterReorder tests that entries keep the games
// captured at build time even after the member reorders their queue.
func TestBuildSnapshotIgnoresLaterReorder(t *testing.T) {
	store := openTestStore(t)
	seedMember(t, store, "alice", []string{"unplayed", "unplayed"})
	buildRotation(t, store, "r1")
	ctx := context.Background()

	// alice swaps her queue after the snapshot.
	mustExec := func(q string, args ...any) {
		t.Helper()
		if _, err := store.db.ExecContext(ctx, q, args...); err != nil {
			t.Fatalf("exec failed: %v", err)
		}
	}
	mustExec("UPDATE game SET position_in_queue = 2 WHERE id = 'alice-g1'")
	mustExec("UPDATE game SET position_in_queue = 1 WHERE id = 'alice-g2'")

	entries, err := store.ListEntries(ctx, "r1")
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].GameID != "alice-g1" {
		t.Errorf("expected snapshot to still hold alice-g1, got %+v", entries)
	}
}

// TestActivateForceCompletesCurrent tests that activating a successor
// completes the club's active rotation in one step.
func TestActivateForceCompletesCurrent(t *testing.T) {
	store := openTestStore(t)
	seedMember(t, store, "alice", []string{"unplayed"})
	// Both rotations are built while nothing is active; snapshots can only
	// be taken between rounds.
	buildRotation(t, store, "r1")
	buildRotation(t, store, "r2")
	ctx := context.Background()

	if err := store.Activate(ctx, "club-1", "r1", testNow); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	active, err := store.GetActiveByClub(ctx, "club-1")
	if err != nil {
		t.Fatalf("GetActiveByClub failed: %v", err)
	}
	if active.ID != "r1" || active.StartedAt.IsZero() {
		t.Errorf("unexpected active rotation: %+v", active)
	}

	later := testNow.Add(time.Hour)
	if err := store.Activate(ctx, "club-1", "r2", later); err != nil {
		t.Fatalf("second Activate failed: %v", err)
	}

	first, err := store.GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if first.Status != domain.StatusCompleted {
		t.Errorf("expected r1 completed, got %s", first.Status)
	}
	if first.CompletedAt.IsZero() {
		t.Error("expected r1 completed_at to be set")
	}
	active, err = store.GetActiveByClub(ctx, "club-1")
	if err != nil {
		t.Fatalf("GetActiveByClub failed: %v", err)
	}
	if active.ID != "r2" {
		t.Errorf("expected r2 active, got %s", active.ID)
	}
}

// TestActivateAlreadyActiveKeepsStartStamp tests that re-activating the
// current rotation is a no-op: the original start time survives.
func TestActivateAlreadyActiveKeepsStartStamp(t *testing.T) {
	store := openTestStore(t)
	seedMember(t, store, "alice", []string{"unplayed"})
	buildRotation(t, store, "r1")
	ctx := context.Background()

	if err := store.Activate(ctx, "club-1", "r1", testNow); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if err := store.Activate(ctx, "club-1", "r1", testNow.Add(time.Hour)); err != nil {
		t.Fatalf("second Activate failed: %v", err)
	}

	active, err := store.GetActiveByClub(ctx, "club-1")
	if err != nil {
		t.Fatalf("GetActiveByClub failed: %v", err)
	}
	if active.ID != "r1" {
		t.Fatalf("expected r1 active, got %s", active.ID)
	}
	if !active.StartedAt.Equal(testNow) {
		t.Errorf("expected original start stamp %v, got %v", testNow, active.StartedAt)
	}
	if !active.CompletedAt.IsZero() {
		t.Errorf("expected no completed_at, got %v", active.CompletedAt)
	}
}

// TestActivateCompletedRotation tests the InvalidState fault on reactivation.
func TestActivateCompletedRotation(t *testing.T) {
	store := openTestStore(t)
	seedMember(t, store, "alice", []string{"unplayed"})
	buildRotation(t, store, "r1")
	ctx := context.Background()

	if _, err := store.db.ExecContext(ctx,
		"UPDATE rotation SET status = 'completed', completed_at = '2026-08-21T00:00:00Z' WHERE id = 'r1'"); err != nil {
		t.Fatalf("failed to complete rotation: %v", err)
	}

	err := store.Activate(ctx, "club-1", "r1", testNow)
	if faults.KindOf(err) != faults.KindInvalidState {
		t.Errorf("expected InvalidState fault, got %v", err)
	}
	if !errors.Is(err, domain.ErrAlreadyCompleted) {
		t.Errorf("expected ErrAlreadyCompleted in chain, got %v", err)
	}
}

// TestActivateScopedToClub tests that another club's rotation is NotFound.
func TestActivateScopedToClub(t *testing.T) {
	store := openTestStore(t)
	seedMember(t, store, "alice", []string{"unplayed"})
	buildRotation(t, store, "r1")

	err := store.Activate(context.Background(), "other-club", "r1", testNow)
	if faults.KindOf(err) != faults.KindNotFound {
		t.Errorf("expected NotFound fault, got %v", err)
	}
}

// TestMarkPlayingMirrorsStatus tests that the entry and the game move to
// playing together with the same stamp.
func TestMarkPlayingMirrorsStatus(t *testing.T) {
	store := openTestStore(t)
	seedMember(t, store, "alice", []string{"unplayed"})
	buildRotation(t, store, "r1")
	ctx := context.Background()

	if err := store.MarkPlaying(ctx, "r1", "r1-e1", gamedomain.StartPlaying(testNow)); err != nil {
		t.Fatalf("MarkPlaying failed: %v", err)
	}

	entries, err := store.ListEntries(ctx, "r1")
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	e := entries[0]
	if e.RotationStatus != gamedomain.StatusPlaying || e.GameStatus != gamedomain.StatusPlaying {
		t.Errorf("expected both statuses playing, got entry=%s game=%s", e.RotationStatus, e.GameStatus)
	}
	if e.DateStarted.IsZero() {
		t.Error("expected entry date_started to be set")
	}
	status, started, _ := gameState(t, store, "alice-g1")
	if status != "playing" || !started.Valid {
		t.Errorf("expected game row playing with stamp, got %s %v", status, started)
	}
}

// TestMarkPlayingWhileAnotherPlays tests the in-transaction re-check of the
// single-playing-entry condition.
func TestMarkPlayingWhileAnotherPlays(t *testing.T) {
	store := openTestStore(t)
	seedMember(t, store, "alice", []string{"unplayed"})
	seedMember(t, store, "bob", []string{"unplayed"})
	buildRotation(t, store, "r1")
	ctx := context.Background()

	if err := store.MarkPlaying(ctx, "r1", "r1-e1", gamedomain.StartPlaying(testNow)); err != nil {
		t.Fatalf("MarkPlaying failed: %v", err)
	}
	err := store.MarkPlaying(ctx, "r1", "r1-e2", gamedomain.StartPlaying(testNow))
	if faults.KindOf(err) != faults.KindConflict {
		t.Errorf("expected Conflict fault, got %v", err)
	}

	// The second entry was not touched.
	unplayed, err := store.ListUnplayedEntries(ctx, "r1")
	if err != nil {
		t.Fatalf("ListUnplayedEntries failed: %v", err)
	}
	if len(unplayed) != 1 || unplayed[0].EntryID != "r1-e2" {
		t.Errorf("expected entry-2 still unplayed, got %+v", unplayed)
	}
}

// TestFinishEntry tests the paired played transition.
func TestFinishEntry(t *testing.T) {
	store := openTestStore(t)
	seedMember(t, store, "alice", []string{"unplayed"})
	seedMember(t, store, "bob", []string{"unplayed"})
	buildRotation(t, store, "r1")
	ctx := context.Background()

	if err := store.MarkPlaying(ctx, "r1", "r1-e1", gamedomain.StartPlaying(testNow)); err != nil {
		t.Fatalf("MarkPlaying failed: %v", err)
	}
	result, err := store.FinishEntry(ctx, "club-1", "r1-e1", gamedomain.FinishPlaying(testNow.Add(time.Hour)))
	if err != nil {
		t.Fatalf("FinishEntry failed: %v", err)
	}
	if result.RotationID != "r1" || result.GameID != "alice-g1" {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.RotationCompleted {
		t.Error("expected rotation to stay open with an entry remaining")
	}

	status, _, finished := gameState(t, store, "alice-g1")
	if status != "played" || !finished.Valid {
		t.Errorf("expected game played with finish stamp, got %s %v", status, finished)
	}
}

// TestFinishLastEntryCompletesRotation tests auto-completion.
func TestFinishLastEntryCompletesRotation(t *testing.T) {
	store := openTestStore(t)
	seedMember(t, store, "alice", []string{"unplayed"})
	buildRotation(t, store, "r1")
	ctx := context.Background()

	if err := store.Activate(ctx, "club-1", "r1", testNow); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if err := store.MarkPlaying(ctx, "r1", "r1-e1", gamedomain.StartPlaying(testNow)); err != nil {
		t.Fatalf("MarkPlaying failed: %v", err)
	}

	finishedAt := testNow.Add(2 * time.Hour)
	result, err := store.FinishEntry(ctx, "club-1", "r1-e1", gamedomain.FinishPlaying(finishedAt))
	if err != nil {
		t.Fatalf("FinishEntry failed: %v", err)
	}
	if !result.RotationCompleted {
		t.Fatal("expected rotation to complete with its last entry")
	}

	r, err := store.GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if r.Status != domain.StatusCompleted {
		t.Errorf("expected completed, got %s", r.Status)
	}
	if !r.CompletedAt.Equal(finishedAt) {
		t.Errorf("expected completed_at %v, got %v", finishedAt, r.CompletedAt)
	}
}

// TestFinishEntryNotPlaying tests the InvalidState fault on an unplayed entry.
func TestFinishEntryNotPlaying(t *testing.T) {
	store := openTestStore(t)
	seedMember(t, store, "alice", []string{"unplayed"})
	buildRotation(t, store, "r1")

	_, err := store.FinishEntry(context.Background(), "club-1", "r1-e1", gamedomain.FinishPlaying(testNow))
	if faults.KindOf(err) != faults.KindInvalidState {
		t.Errorf("expected InvalidState fault, got %v", err)
	}
	if !errors.Is(err, gamedomain.ErrNotPlaying) {
		t.Errorf("expected ErrNotPlaying in chain, got %v", err)
	}

	_, err = store.FinishEntry(context.Background(), "club-1", "no-such-entry", gamedomain.FinishPlaying(testNow))
	if faults.KindOf(err) != faults.KindNotFound {
		t.Errorf("expected NotFound fault, got %v", err)
	}
}

// TestDeleteCascadeRevertsPlayingGame tests that deleting a rotation with a
// playing entry returns the game to the queue.
func TestDeleteCascadeRevertsPlayingGame(t *testing.T) {
	store := openTestStore(t)
	seedMember(t, store, "alice", []string{"unplayed"})
	seedMember(t, store, "bob", []string{"unplayed"})
	buildRotation(t, store, "r1")
	ctx := context.Background()

	if err := store.Activate(ctx, "club-1", "r1", testNow); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if err := store.MarkPlaying(ctx, "r1", "r1-e1", gamedomain.StartPlaying(testNow)); err != nil {
		t.Fatalf("MarkPlaying failed: %v", err)
	}

	if err := store.DeleteCascade(ctx, "club-1", "r1"); err != nil {
		t.Fatalf("DeleteCascade failed: %v", err)
	}

	status, started, _ := gameState(t, store, "alice-g1")
	if status != "unplayed" || started.Valid {
		t.Errorf("expected game reverted to unplayed with cleared stamp, got %s %v", status, started)
	}
	// bob's untouched entry simply disappears with the rotation.
	status, _, _ = gameState(t, store, "bob-g1")
	if status != "unplayed" {
		t.Errorf("expected bob's game unchanged, got %s", status)
	}
	if _, err := store.GetByID(ctx, "r1"); faults.KindOf(err) != faults.KindNotFound {
		t.Errorf("expected rotation gone, got %v", err)
	}
	count, err := store.CountEntries(ctx, "r1")
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 entries after cascade, got %d", count)
	}
}

// TestDeleteCompletedRotation tests that history cannot be deleted.
func TestDeleteCompletedRotation(t *testing.T) {
	store := openTestStore(t)
	seedMember(t, store, "alice", []string{"unplayed"})
	buildRotation(t, store, "r1")
	ctx := context.Background()

	if err := store.MarkPlaying(ctx, "r1", "r1-e1", gamedomain.StartPlaying(testNow)); err != nil {
		t.Fatalf("MarkPlaying failed: %v", err)
	}
	if _, err := store.FinishEntry(ctx, "club-1", "r1-e1", gamedomain.FinishPlaying(testNow)); err != nil {
		t.Fatalf("FinishEntry failed: %v", err)
	}

	err := store.DeleteCascade(ctx, "club-1", "r1")
	if faults.KindOf(err) != faults.KindInvalidState {
		t.Errorf("expected InvalidState fault, got %v", err)
	}
	if !errors.Is(err, domain.ErrCompletedLocked) {
		t.Errorf("expected ErrCompletedLocked in chain, got %v", err)
	}
	if _, err := store.GetByID(ctx, "r1"); err != nil {
		t.Errorf("expected rotation preserved, got %v", err)
	}
}
