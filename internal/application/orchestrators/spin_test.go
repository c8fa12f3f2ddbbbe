package orchestrators

import (
	"context"
	"testing"

	storerotation "gameclub/internal/adapters/storage/rotation"
	"gameclub/internal/domain/faults"
	"gameclub/internal/domain/game"
	"gameclub/internal/domain/rotation"
)

// mockRotationStore implements the rotation store interfaces for testing.
type mockRotationStore struct {
	active   *rotation.Rotation
	unplayed []storerotation.EntryDetail
	playing  string // entry ID marked playing, if any
	markErr  error
}

func (m *mockRotationStore) GetActiveByClub(_ context.Context, clubID string) (rotation.Rotation, error) {
	if m.active == nil || m.active.ClubID != clubID {
		return rotation.Rotation{}, faults.New(faults.KindNotFound, "rotation not found")
	}
	return *m.active, nil
}

func (m *mockRotationStore) ListUnplayedEntries(_ context.Context, _ string) ([]storerotation.EntryDetail, error) {
	return m.unplayed, nil
}

func (m *mockRotationStore) MarkPlaying(_ context.Context, _, entryID string, _ game.Transition) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.playing = entryID
	return nil
}

func activeRotationFixture() *rotation.Rotation {
	return &rotation.Rotation{
		ID:        "r1",
		ClubID:    "c1",
		Name:      "Round 1",
		Status:    rotation.StatusActive,
		CreatedAt: fixedTime,
		StartedAt: fixedTime,
	}
}

func entryFixture(entryID, gameID, title, username string, order int) storerotation.EntryDetail {
	return storerotation.EntryDetail{
		EntryID:        entryID,
		GameID:         gameID,
		IGDBID:         int64(1000 + order),
		Title:          title,
		Username:       username,
		RotationStatus: game.StatusUnplayed,
		GameStatus:     game.StatusUnplayed,
		PlayOrder:      order,
	}
}

// TestExecuteSpin_SelectsByInjectedRand tests that the wheel uses the
// injected randomness and reports the odds.
func TestExecuteSpin_SelectsByInjectedRand(t *testing.T) {
	store := &mockRotationStore{
		active: activeRotationFixture(),
		unplayed: []storerotation.EntryDetail{
			entryFixture("e1", "g1", "Outer Wilds", "alice", 1),
			entryFixture("e2", "g2", "Hades", "bob", 2),
			entryFixture("e3", "g3", "Celeste", "carol", 3),
		},
	}
	var sawN int
	result, err := ExecuteSpin(context.Background(), SpinInput{
		ClubID: "c1", IsOwner: true,
	}, SpinDeps{
		RotationStore: store,
		Rand:          func(n int) int { sawN = n; return 1 },
		Now:           fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sawN != 3 {
		t.Errorf("expected Rand called with 3, got %d", sawN)
	}
	if result.EntryID != "e2" || result.Title != "Hades" || result.Username != "bob" {
		t.Errorf("unexpected selection: %+v", result)
	}
	if result.TotalOptions != 3 || result.SelectedIndex != 1 {
		t.Errorf("unexpected odds: %+v", result)
	}
	if store.playing != "e2" {
		t.Errorf("expected e2 marked playing, got %q", store.playing)
	}
}

// TestExecuteSpin_Forbidden tests the owner gate.
func TestExecuteSpin_Forbidden(t *testing.T) {
	store := &mockRotationStore{active: activeRotationFixture()}
	_, err := ExecuteSpin(context.Background(), SpinInput{
		ClubID: "c1", IsOwner: false,
	}, SpinDeps{
		RotationStore: store,
		Rand:          func(int) int { return 0 },
		Now:           fixedNow,
	})
	if faults.KindOf(err) != faults.KindForbidden {
		t.Errorf("expected Forbidden fault, got %v", err)
	}
}

// TestExecuteSpin_NoActiveRotation tests the NotFound path.
func TestExecuteSpin_NoActiveRotation(t *testing.T) {
	store := &mockRotationStore{}
	_, err := ExecuteSpin(context.Background(), SpinInput{
		ClubID: "c1", IsOwner: true,
	}, SpinDeps{
		RotationStore: store,
		Rand:          func(int) int { return 0 },
		Now:           fixedNow,
	})
	if faults.KindOf(err) != faults.KindNotFound {
		t.Errorf("expected NotFound fault, got %v", err)
	}
}

// TestExecuteSpin_EmptyPool tests spinning with nothing left unplayed.
func TestExecuteSpin_EmptyPool(t *testing.T) {
	store := &mockRotationStore{active: activeRotationFixture()}
	_, err := ExecuteSpin(context.Background(), SpinInput{
		ClubID: "c1", IsOwner: true,
	}, SpinDeps{
		RotationStore: store,
		Rand:          func(int) int { return 0 },
		Now:           fixedNow,
	})
	if faults.KindOf(err) != faults.KindNotFound {
		t.Errorf("expected NotFound fault, got %v", err)
	}
}

// TestExecuteSpin_ConcurrentLoser tests that a store-level Conflict from the
// in-transaction re-check propagates unchanged.
func TestExecuteSpin_ConcurrentLoser(t *testing.T) {
	store := &mockRotationStore{
		active:   activeRotationFixture(),
		unplayed: []storerotation.EntryDetail{entryFixture("e1", "g1", "Hades", "bob", 1)},
		markErr:  faults.New(faults.KindConflict, "a game is already being played in this rotation"),
	}
	_, err := ExecuteSpin(context.Background(), SpinInput{
		ClubID: "c1", IsOwner: true,
	}, SpinDeps{
		RotationStore: store,
		Rand:          func(int) int { return 0 },
		Now:           fixedNow,
	})
	if faults.KindOf(err) != faults.KindConflict {
		t.Errorf("expected Conflict fault, got %v", err)
	}
}

// TestExecuteFinishGame tests gating and pass-through of the finish result.
func TestExecuteFinishGame(t *testing.T) {
	finish := &mockFinishStore{result: storerotation.FinishResult{
		RotationID: "r1", GameID: "g1", RotationCompleted: true,
	}}

	_, err := ExecuteFinishGame(context.Background(), FinishGameInput{
		ClubID: "c1", IsOwner: false, EntryID: "e1",
	}, FinishGameDeps{RotationStore: finish, Now: fixedNow})
	if faults.KindOf(err) != faults.KindForbidden {
		t.Errorf("expected Forbidden fault, got %v", err)
	}

	result, err := ExecuteFinishGame(context.Background(), FinishGameInput{
		ClubID: "c1", IsOwner: true, EntryID: "e1",
	}, FinishGameDeps{RotationStore: finish, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.RotationCompleted || result.RotationID != "r1" {
		t.Errorf("unexpected result: %+v", result)
	}
	if finish.lastClub != "c1" || finish.lastEntry != "e1" {
		t.Errorf("expected scoped call, got club=%q entry=%q", finish.lastClub, finish.lastEntry)
	}
	if finish.lastTransition.To != game.StatusPlayed || !finish.lastTransition.At.Equal(fixedTime) {
		t.Errorf("unexpected transition: %+v", finish.lastTransition)
	}
}

// mockFinishStore implements RotationStoreForFinish.
type mockFinishStore struct {
	result         storerotation.FinishResult
	lastClub       string
	lastEntry      string
	lastTransition game.Transition
}

func (m *mockFinishStore) FinishEntry(_ context.Context, clubID, entryID string, tr game.Transition) (storerotation.FinishResult, error) {
	m.lastClub = clubID
	m.lastEntry = entryID
	m.lastTransition = tr
	return m.result, nil
}
