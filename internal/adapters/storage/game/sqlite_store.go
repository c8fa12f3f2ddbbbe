package game

import (
	"context"
	"database/sql"
	"time"

	"gameclub/internal/adapters/storage"
	"gameclub/internal/domain/faults"

	domain "gameclub/internal/domain/game"
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

// NewSQLiteStore creates a new game store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const gameColumns = "id, member_id, igdb_id, title, status, position_in_queue, date_added, date_started, date_finished"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (domain.Game, error) {
	var entity domain.Game
	var status, dateAdded string
	var dateStarted, dateFinished sql.NullString
	err := row.Scan(
		&entity.ID,
		&entity.MemberID,
		&entity.IGDBID,
		&entity.Title,
		&status,
		&entity.PositionInQueue,
		&dateAdded,
		&dateStarted,
		&dateFinished,
	)
	if err == sql.ErrNoRows {
		return domain.Game{}, faults.New(faults.KindNotFound, "game not found")
	}
	if err != nil {
		return domain.Game{}, err
	}
	entity.Status = domain.Status(status)
	entity.DateAdded = parseTime(dateAdded)
	entity.DateStarted = parseTime(dateStarted.String)
	entity.DateFinished = parseTime(dateFinished.String)
	return entity, nil
}

// Append inserts a game at position max+1 of the member's queue.
// The duplicate check and the position assignment run inside one transaction
// so concurrent appends for the same member cannot collide.
// PRE: value.ID, value.MemberID, value.IGDBID, value.Title are set
// POST: returned game carries the assigned position and status unplayed
func (s *SQLiteStore) Append(ctx context.Context, value domain.Game) (domain.Game, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Game{}, err
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM game WHERE member_id = ? AND igdb_id = ?",
		value.MemberID, value.IGDBID).Scan(&existing)
	if err == nil {
		return domain.Game{}, faults.New(faults.KindConflict, "game already in your queue")
	}
	if err != sql.ErrNoRows {
		return domain.Game{}, err
	}

	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position_in_queue), 0) + 1 FROM game WHERE member_id = ?",
		value.MemberID).Scan(&value.PositionInQueue); err != nil {
		return domain.Game{}, err
	}
	value.Status = domain.StatusUnplayed

	_, err = tx.ExecContext(ctx,
		"INSERT INTO game (id, member_id, igdb_id, title, status, position_in_queue, date_added) VALUES (?, ?, ?, ?, ?, ?, ?)",
		value.ID, value.MemberID, value.IGDBID, value.Title, string(value.Status),
		value.PositionInQueue, value.DateAdded.Format(timeFormat))
	if err != nil {
		return domain.Game{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Game{}, err
	}
	return value, nil
}

// GetByID retrieves a Game by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Game, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM game WHERE id = ?", id)
	return scanGame(row)
}

// GetOwned retrieves a Game only if it belongs to the given member.
// POST: Returns a NotFound fault for other members' games
func (s *SQLiteStore) GetOwned(ctx context.Context, memberID, id string) (domain.Game, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+gameColumns+" FROM game WHERE id = ? AND member_id = ?", id, memberID)
	return scanGame(row)
}

// ListByMember returns the member's queue ordered by position.
func (s *SQLiteStore) ListByMember(ctx context.Context, memberID string) ([]domain.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+gameColumns+" FROM game WHERE member_id = ? ORDER BY position_in_queue ASC", memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// RemoveAndRenumber deletes a game and decrements every later position.
// Both statements run in one transaction; a crash between them would
// otherwise leave a gap in the 1..N range.
// POST: remaining positions for the member are again gapless
func (s *SQLiteStore) RemoveAndRenumber(ctx context.Context, memberID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRowContext(ctx,
		"SELECT position_in_queue FROM game WHERE id = ? AND member_id = ?",
		id, memberID).Scan(&position)
	if err == sql.ErrNoRows {
		return faults.New(faults.KindNotFound, "game not found")
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM game WHERE id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE game SET position_in_queue = position_in_queue - 1 WHERE member_id = ? AND position_in_queue > ?",
		memberID, position); err != nil {
		return err
	}
	return tx.Commit()
}

// SwapWithNeighbor swaps a game's position with its adjacent neighbor.
// A pure adjacent swap: moving a game several slots takes several calls.
// POST: both rows updated in one transaction, or neither
func (s *SQLiteStore) SwapWithNeighbor(ctx context.Context, memberID, id string, dir domain.Direction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRowContext(ctx,
		"SELECT position_in_queue FROM game WHERE id = ? AND member_id = ?",
		id, memberID).Scan(&position)
	if err == sql.ErrNoRows {
		return faults.New(faults.KindNotFound, "game not found")
	}
	if err != nil {
		return err
	}

	neighborPos := position + dir.Offset()
	var neighborID string
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM game WHERE member_id = ? AND position_in_queue = ?",
		memberID, neighborPos).Scan(&neighborID)
	if err == sql.ErrNoRows {
		return faults.New(faults.KindInvalidState, "cannot move in that direction")
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE game SET position_in_queue = ? WHERE id = ?", neighborPos, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE game SET position_in_queue = ? WHERE id = ?", position, neighborID); err != nil {
		return err
	}
	return tx.Commit()
}

// CurrentlyPlaying returns the club's playing game, if any.
// POST: Returns a NotFound fault when nothing is playing
func (s *SQLiteStore) CurrentlyPlaying(ctx context.Context, clubID string) (PlayingGame, error) {
	var p PlayingGame
	var dateStarted sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT g.id, g.igdb_id, g.title, m.username, g.date_started
		FROM game g
		JOIN member m ON g.member_id = m.id
		WHERE m.club_id = ? AND g.status = 'playing'
		LIMIT 1`, clubID).
		Scan(&p.GameID, &p.IGDBID, &p.Title, &p.Username, &dateStarted)
	if err == sql.ErrNoRows {
		return PlayingGame{}, faults.New(faults.KindNotFound, "no game is being played")
	}
	if err != nil {
		return PlayingGame{}, err
	}
	p.DateStarted = parseTime(dateStarted.String)
	return p, nil
}

// RecentlyFinished returns the club's most recently finished games.
func (s *SQLiteStore) RecentlyFinished(ctx context.Context, clubID string, limit int) ([]FinishedGame, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.igdb_id, g.title, m.username, g.date_finished
		FROM game g
		JOIN member m ON g.member_id = m.id
		WHERE m.club_id = ? AND g.status = 'played' AND g.date_finished IS NOT NULL
		ORDER BY g.date_finished DESC
		LIMIT ?`, clubID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var finished []FinishedGame
	for rows.Next() {
		var f FinishedGame
		var dateFinished string
		if err := rows.Scan(&f.IGDBID, &f.Title, &f.Username, &dateFinished); err != nil {
			return nil, err
		}
		f.DateFinished = parseTime(dateFinished)
		finished = append(finished, f)
	}
	return finished, rows.Err()
}

// ClubStats aggregates club-wide member and game totals.
func (s *SQLiteStore) ClubStats(ctx context.Context, clubID string) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(DISTINCT m.id),
			COUNT(DISTINCT g.id),
			COUNT(DISTINCT CASE WHEN g.status = 'playing' THEN g.id END),
			COUNT(DISTINCT CASE WHEN g.status = 'played' THEN g.id END)
		FROM member m
		LEFT JOIN game g ON m.id = g.member_id
		WHERE m.club_id = ?`, clubID).
		Scan(&st.TotalMembers, &st.TotalGames, &st.PlayingGames, &st.CompletedGames)
	return st, err
}
