package member

import (
	"context"
	"database/sql"
	"time"

	"gameclub/internal/adapters/storage"
	"gameclub/internal/domain/faults"

	domain "gameclub/internal/domain/member"
)

const timeFormat = time.RFC3339

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new member store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const memberColumns = "id, club_id, username, password_hash, is_owner, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (domain.Member, error) {
	var entity domain.Member
	var passwordHash sql.NullString
	var createdAt string
	err := row.Scan(
		&entity.ID,
		&entity.ClubID,
		&entity.Username,
		&passwordHash,
		&entity.IsOwner,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return domain.Member{}, faults.New(faults.KindNotFound, "member not found")
	}
	if err != nil {
		return domain.Member{}, err
	}
	entity.PasswordHash = passwordHash.String
	entity.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	return entity, nil
}

// Create inserts a member, promoting the first member of the club to owner.
// The duplicate-username check, the owner decision, the insert, and the
// club.owner_id update all happen inside one transaction so two concurrent
// registrations cannot both become owner.
// PRE: value has been validated; value.ID is set
// POST: returned member reflects the owner decision
func (s *SQLiteStore) Create(ctx context.Context, value domain.Member) (domain.Member, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Member{}, err
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM member WHERE club_id = ? AND username = ?",
		value.ClubID, value.Username).Scan(&existing)
	if err == nil {
		return domain.Member{}, faults.New(faults.KindConflict, "username already exists in this club")
	}
	if err != sql.ErrNoRows {
		return domain.Member{}, err
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM member WHERE club_id = ?", value.ClubID).Scan(&count); err != nil {
		return domain.Member{}, err
	}
	value.IsOwner = count == 0

	var passwordHash any
	if value.PasswordHash != "" {
		passwordHash = value.PasswordHash
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO member (id, club_id, username, password_hash, is_owner, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		value.ID, value.ClubID, value.Username, passwordHash, value.IsOwner,
		value.CreatedAt.Format(timeFormat))
	if err != nil {
		return domain.Member{}, err
	}

	if value.IsOwner {
		if _, err := tx.ExecContext(ctx,
			"UPDATE club SET owner_id = ? WHERE id = ?", value.ID, value.ClubID); err != nil {
			return domain.Member{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Member{}, err
	}
	return value, nil
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or a NotFound fault
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE id = ?", id)
	return scanMember(row)
}

// GetByUsername retrieves a Member by username within a club.
// PRE: clubID and username are non-empty
// POST: Returns the entity or a NotFound fault
func (s *SQLiteStore) GetByUsername(ctx context.Context, clubID, username string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM member WHERE club_id = ? AND username = ?", clubID, username)
	return scanMember(row)
}

// ListByClub returns all members of a club, owner first, then by join date.
func (s *SQLiteStore) ListByClub(ctx context.Context, clubID string) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM member WHERE club_id = ? ORDER BY is_owner DESC, created_at ASC", clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ListWithCounts returns the club roster with per-status game totals.
// POST: ordered owner first, then by join date
func (s *SQLiteStore) ListWithCounts(ctx context.Context, clubID string) ([]WithCounts, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			m.id, m.club_id, m.username, m.password_hash, m.is_owner, m.created_at,
			COUNT(DISTINCT g.id) AS total_games,
			COUNT(DISTINCT CASE WHEN g.status = 'unplayed' THEN g.id END) AS queued_games,
			COUNT(DISTINCT CASE WHEN g.status = 'playing' THEN g.id END) AS playing_games,
			COUNT(DISTINCT CASE WHEN g.status = 'played' THEN g.id END) AS completed_games
		FROM member m
		LEFT JOIN game g ON m.id = g.member_id
		WHERE m.club_id = ?
		GROUP BY m.id, m.club_id, m.username, m.password_hash, m.is_owner, m.created_at
		ORDER BY m.is_owner DESC, m.created_at ASC`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []WithCounts
	for rows.Next() {
		var wc WithCounts
		var passwordHash sql.NullString
		var createdAt string
		if err := rows.Scan(
			&wc.ID, &wc.ClubID, &wc.Username, &passwordHash, &wc.IsOwner, &createdAt,
			&wc.TotalGames, &wc.QueuedGames, &wc.PlayingGames, &wc.CompletedGames); err != nil {
			return nil, err
		}
		wc.PasswordHash = passwordHash.String
		wc.CreatedAt, _ = time.Parse(timeFormat, createdAt)
		result = append(result, wc)
	}
	return result, rows.Err()
}
