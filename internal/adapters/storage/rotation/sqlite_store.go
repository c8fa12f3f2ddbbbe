package rotation

import (
	"context"
	"database/sql"
	"time"

	"gameclub/internal/adapters/storage"
	"gameclub/internal/domain/faults"

	gamedomain "gameclub/internal/domain/game"
	domain "gameclub/internal/domain/rotation"
)

const timeFormat = time.RFC3339

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(timeFormat, s)
	return t
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new rotation store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const rotationColumns = "id, club_id, name, status, created_at, started_at, completed_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRotation(row rowScanner) (domain.Rotation, error) {
	var entity domain.Rotation
	var createdAt string
	var startedAt, completedAt sql.NullString
	err := row.Scan(
		&entity.ID,
		&entity.ClubID,
		&entity.Name,
		&entity.Status,
		&createdAt,
		&startedAt,
		&completedAt,
	)
	if err == sql.ErrNoRows {
		return domain.Rotation{}, faults.New(faults.KindNotFound, "rotation not found")
	}
	if err != nil {
		return domain.Rotation{}, err
	}
	entity.CreatedAt = parseTime(createdAt)
	entity.StartedAt = parseTime(startedAt.String)
	entity.CompletedAt = parseTime(completedAt.String)
	return entity, nil
}

// GetByID retrieves a Rotation by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Rotation, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+rotationColumns+" FROM rotation WHERE id = ?", id)
	return scanRotation(row)
}

// GetScoped retrieves a Rotation only if it belongs to the given club.
// POST: Returns a NotFound fault for other clubs' rotations
func (s *SQLiteStore) GetScoped(ctx context.Context, clubID, id string) (domain.Rotation, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+rotationColumns+" FROM rotation WHERE id = ? AND club_id = ?", id, clubID)
	return scanRotation(row)
}

// GetActiveByClub retrieves the club's single active rotation.
// POST: Returns a NotFound fault when the club has no active rotation
func (s *SQLiteStore) GetActiveByClub(ctx context.Context, clubID string) (domain.Rotation, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+rotationColumns+" FROM rotation WHERE club_id = ? AND status = 'active'", clubID)
	return scanRotation(row)
}

// ListByClub returns the club's rotations, newest first.
func (s *SQLiteStore) ListByClub(ctx context.Context, clubID string) ([]domain.Rotation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+rotationColumns+" FROM rotation WHERE club_id = ? ORDER BY created_at DESC", clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rotations []domain.Rotation
	for rows.Next() {
		r, err := scanRotation(rows)
		if err != nil {
			return nil, err
		}
		rotations = append(rotations, r)
	}
	return rotations, rows.Err()
}

// BuildSnapshot creates a planned rotation capturing the head of every
// member's queue. Members with no unplayed games are skipped silently.
// The active-rotation check, the rotation insert, the head selection, and the
// entry inserts all run inside one transaction.
// PRE: value has been validated, value.Status is planned
// POST: entries carry play_order 1..N in member iteration order
func (s *SQLiteStore) BuildSnapshot(ctx context.Context, value domain.Rotation, newEntryID func() string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var active int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rotation WHERE club_id = ? AND status = 'active'",
		value.ClubID).Scan(&active); err != nil {
		return 0, err
	}
	if active > 0 {
		return 0, faults.New(faults.KindConflict, "there is already an active rotation")
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO rotation (id, club_id, name, status, created_at) VALUES (?, ?, ?, ?, ?)",
		value.ID, value.ClubID, value.Name, value.Status, value.CreatedAt.Format(timeFormat))
	if err != nil {
		return 0, err
	}

	// Head of each member's queue: the unplayed game with the minimum
	// position, one per member.
	rows, err := tx.QueryContext(ctx, `
		SELECT g.id
		FROM game g
		JOIN member m ON g.member_id = m.id
		WHERE m.club_id = ?
		  AND g.status = 'unplayed'
		  AND g.position_in_queue = (
			SELECT MIN(position_in_queue)
			FROM game g2
			WHERE g2.member_id = g.member_id AND g2.status = 'unplayed'
		  )
		ORDER BY g.member_id`, value.ClubID)
	if err != nil {
		return 0, err
	}
	var gameIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		gameIDs = append(gameIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for i, gameID := range gameIDs {
		entry := domain.Entry{
			ID:             newEntryID(),
			RotationID:     value.ID,
			GameID:         gameID,
			RotationStatus: gamedomain.StatusUnplayed,
			PlayOrder:      i + 1,
		}
		if err := entry.Validate(); err != nil {
			return 0, err
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO rotation_game (id, rotation_id, game_id, rotation_status, play_order) VALUES (?, ?, ?, ?, ?)",
			entry.ID, entry.RotationID, entry.GameID, string(entry.RotationStatus), entry.PlayOrder)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(gameIDs), nil
}

// Activate promotes a rotation to active, force-completing the club's
// current active rotation first. Both updates run in one transaction.
// POST: at most one rotation of the club is active
func (s *SQLiteStore) Activate(ctx context.Context, clubID, rotationID string, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	target, err := scanRotation(tx.QueryRowContext(ctx,
		"SELECT "+rotationColumns+" FROM rotation WHERE id = ? AND club_id = ?", rotationID, clubID))
	if err != nil {
		return err
	}
	if target.IsActive() {
		// Re-activating the current rotation keeps its original start stamp.
		return tx.Commit()
	}
	if err := target.Activate(now); err != nil {
		return faults.Wrap(faults.KindInvalidState, err)
	}

	prev, err := scanRotation(tx.QueryRowContext(ctx,
		"SELECT "+rotationColumns+" FROM rotation WHERE club_id = ? AND status = 'active'", clubID))
	switch {
	case faults.KindOf(err) == faults.KindNotFound:
		// nothing to demote
	case err != nil:
		return err
	default:
		prev.Complete(now)
		if _, err := tx.ExecContext(ctx,
			"UPDATE rotation SET status = ?, completed_at = ? WHERE id = ?",
			prev.Status, prev.CompletedAt.Format(timeFormat), prev.ID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE rotation SET status = ?, started_at = ? WHERE id = ?",
		target.Status, target.StartedAt.Format(timeFormat), target.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteCascade removes a planned or active rotation: games of playing
// entries return to the queue with their start stamp cleared, then the
// entries and the rotation row are deleted, all in one transaction.
// POST: Returns InvalidState for completed rotations (history is preserved)
func (s *SQLiteStore) DeleteCascade(ctx context.Context, clubID, rotationID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	r, err := scanRotation(tx.QueryRowContext(ctx,
		"SELECT "+rotationColumns+" FROM rotation WHERE id = ? AND club_id = ?", rotationID, clubID))
	if err != nil {
		return err
	}
	if err := r.CanDelete(); err != nil {
		return faults.Wrap(faults.KindInvalidState, err)
	}

	tr := gamedomain.ReturnToQueue()
	if _, err := tx.ExecContext(ctx, `
		UPDATE game SET status = ?, date_started = NULL
		WHERE id IN (
			SELECT game_id FROM rotation_game
			WHERE rotation_id = ? AND rotation_status = 'playing'
		)`, string(tr.To), rotationID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM rotation_game WHERE rotation_id = ?", rotationID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM rotation WHERE id = ?", rotationID); err != nil {
		return err
	}
	return tx.Commit()
}

const entryDetailQuery = `
	SELECT rg.id, rg.game_id, g.igdb_id, g.title, m.username,
	       rg.rotation_status, g.status, rg.play_order, rg.date_started, rg.date_finished
	FROM rotation_game rg
	JOIN game g ON rg.game_id = g.id
	JOIN member m ON g.member_id = m.id
	WHERE rg.rotation_id = ?`

func scanEntries(rows *sql.Rows) ([]EntryDetail, error) {
	var entries []EntryDetail
	for rows.Next() {
		var e EntryDetail
		var rotationStatus, gameStatus string
		var dateStarted, dateFinished sql.NullString
		if err := rows.Scan(&e.EntryID, &e.GameID, &e.IGDBID, &e.Title, &e.Username,
			&rotationStatus, &gameStatus, &e.PlayOrder, &dateStarted, &dateFinished); err != nil {
			return nil, err
		}
		e.RotationStatus = gamedomain.Status(rotationStatus)
		e.GameStatus = gamedomain.Status(gameStatus)
		e.DateStarted = parseTime(dateStarted.String)
		e.DateFinished = parseTime(dateFinished.String)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListEntries returns all entries of a rotation in play order.
func (s *SQLiteStore) ListEntries(ctx context.Context, rotationID string) ([]EntryDetail, error) {
	rows, err := s.db.QueryContext(ctx, entryDetailQuery+" ORDER BY rg.play_order ASC", rotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListUnplayedEntries returns the spin candidate pool in play order.
func (s *SQLiteStore) ListUnplayedEntries(ctx context.Context, rotationID string) ([]EntryDetail, error) {
	rows, err := s.db.QueryContext(ctx,
		entryDetailQuery+" AND rg.rotation_status = 'unplayed' ORDER BY rg.play_order ASC", rotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// CountEntries returns the number of entries in a rotation.
func (s *SQLiteStore) CountEntries(ctx context.Context, rotationID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rotation_game WHERE rotation_id = ?", rotationID).Scan(&count)
	return count, err
}

// MarkPlaying applies the playing transition to an entry and its game in one
// transaction. The no-playing-entry condition is re-checked here, inside the
// same transaction that performs the write: two concurrent spins cannot both
// pass a check done before the transaction opened.
// PRE: tr.To is playing
// POST: entry and game both carry status playing and the start stamp, or neither does
func (s *SQLiteStore) MarkPlaying(ctx context.Context, rotationID, entryID string, tr gamedomain.Transition) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var playing int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rotation_game WHERE rotation_id = ? AND rotation_status = 'playing'",
		rotationID).Scan(&playing); err != nil {
		return err
	}
	if playing > 0 {
		return faults.New(faults.KindConflict, "a game is already being played in this rotation")
	}

	var gameID string
	err = tx.QueryRowContext(ctx,
		"SELECT game_id FROM rotation_game WHERE id = ? AND rotation_id = ? AND rotation_status = 'unplayed'",
		entryID, rotationID).Scan(&gameID)
	if err == sql.ErrNoRows {
		return faults.New(faults.KindConflict, "selected entry is no longer unplayed")
	}
	if err != nil {
		return err
	}

	stamp := tr.At.Format(timeFormat)
	if _, err := tx.ExecContext(ctx,
		"UPDATE rotation_game SET rotation_status = ?, date_started = ? WHERE id = ?",
		string(tr.To), stamp, entryID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE game SET status = ?, date_started = ? WHERE id = ?",
		string(tr.To), stamp, gameID); err != nil {
		return err
	}
	return tx.Commit()
}

// FinishEntry applies the played transition to a playing entry and its game,
// and completes the rotation when no unfinished entries remain. This is the
// only path by which a rotation completes without an explicit activation of a
// successor.
// POST: entry, game, and (possibly) rotation updated atomically
func (s *SQLiteStore) FinishEntry(ctx context.Context, clubID, entryID string, tr gamedomain.Transition) (FinishResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return FinishResult{}, err
	}
	defer tx.Rollback()

	entry := domain.Entry{ID: entryID}
	var status string
	err = tx.QueryRowContext(ctx, `
		SELECT rg.rotation_id, rg.game_id, rg.rotation_status, rg.play_order
		FROM rotation_game rg
		JOIN rotation r ON rg.rotation_id = r.id
		WHERE rg.id = ? AND r.club_id = ?`,
		entryID, clubID).Scan(&entry.RotationID, &entry.GameID, &status, &entry.PlayOrder)
	if err == sql.ErrNoRows {
		return FinishResult{}, faults.New(faults.KindNotFound, "rotation entry not found")
	}
	if err != nil {
		return FinishResult{}, err
	}
	entry.RotationStatus = gamedomain.Status(status)
	if !entry.IsPlaying() {
		return FinishResult{}, faults.Wrap(faults.KindInvalidState, gamedomain.ErrNotPlaying)
	}
	result := FinishResult{RotationID: entry.RotationID, GameID: entry.GameID}

	stamp := tr.At.Format(timeFormat)
	if _, err := tx.ExecContext(ctx,
		"UPDATE rotation_game SET rotation_status = ?, date_finished = ? WHERE id = ?",
		string(tr.To), stamp, entryID); err != nil {
		return FinishResult{}, err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE game SET status = ?, date_finished = ? WHERE id = ?",
		string(tr.To), stamp, result.GameID); err != nil {
		return FinishResult{}, err
	}

	var remaining int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rotation_game WHERE rotation_id = ? AND rotation_status != 'played'",
		result.RotationID).Scan(&remaining); err != nil {
		return FinishResult{}, err
	}
	if remaining == 0 {
		r, err := scanRotation(tx.QueryRowContext(ctx,
			"SELECT "+rotationColumns+" FROM rotation WHERE id = ?", result.RotationID))
		if err != nil {
			return FinishResult{}, err
		}
		r.Complete(tr.At)
		if _, err := tx.ExecContext(ctx,
			"UPDATE rotation SET status = ?, completed_at = ? WHERE id = ?",
			r.Status, r.CompletedAt.Format(timeFormat), r.ID); err != nil {
			return FinishResult{}, err
		}
		result.RotationCompleted = true
	}

	if err := tx.Commit(); err != nil {
		return FinishResult{}, err
	}
	return result, nil
}
