package club

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"gameclub/internal/adapters/storage"
	"gameclub/internal/domain/faults"

	domain "gameclub/internal/domain/club"
)

const timeFormat = time.RFC3339

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(timeFormat, s)
	return t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeFormat)
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new club store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const clubColumns = "id, name, description, passcode_hash, owner_id, created_at, updated_at"

func scanClub(row *sql.Row) (domain.Club, error) {
	var entity domain.Club
	var ownerID, updatedAt sql.NullString
	var createdAt string
	err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.Description,
		&entity.PasscodeHash,
		&ownerID,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.Club{}, faults.New(faults.KindNotFound, "club not found")
	}
	if err != nil {
		return domain.Club{}, err
	}
	entity.OwnerID = ownerID.String
	entity.CreatedAt = parseTime(createdAt)
	entity.UpdatedAt = parseTime(updatedAt.String)
	return entity, nil
}

// GetByID retrieves a Club by its ID.
// PRE: id is non-empty
// POST: Returns the entity or a NotFound fault
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Club, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+clubColumns+" FROM club WHERE id = ?", id)
	return scanClub(row)
}

// GetByName retrieves a Club by its unique name.
// PRE: name is non-empty
// POST: Returns the entity or a NotFound fault
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.Club, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+clubColumns+" FROM club WHERE name = ?", name)
	return scanClub(row)
}

// Save persists a Club to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); duplicate names surface as Conflict
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Club) error {
	var ownerID any
	if entity.OwnerID != "" {
		ownerID = entity.OwnerID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO club (id, name, description, passcode_hash, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, description=excluded.description,
		   passcode_hash=excluded.passcode_hash, owner_id=excluded.owner_id,
		   updated_at=excluded.updated_at`,
		entity.ID,
		entity.Name,
		entity.Description,
		entity.PasscodeHash,
		ownerID,
		formatTime(entity.CreatedAt),
		formatTime(entity.UpdatedAt),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint") {
		return faults.New(faults.KindConflict, "a club with that name already exists")
	}
	return err
}

// ListDirectory returns the public club directory with aggregate counts.
// Clubs with zero members are hidden.
// POST: entries are ordered newest club first
func (s *SQLiteStore) ListDirectory(ctx context.Context) ([]DirectoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			c.id, c.name, c.description, c.created_at,
			COUNT(DISTINCT m.id) AS member_count,
			COUNT(DISTINCT g.id) AS total_games,
			COUNT(DISTINCT CASE WHEN g.status = 'played' THEN g.id END) AS completed_games,
			(SELECT COUNT(*) FROM rotation r WHERE r.club_id = c.id AND r.status = 'active') AS active_rotations
		FROM club c
		LEFT JOIN member m ON c.id = m.club_id
		LEFT JOIN game g ON m.id = g.member_id
		GROUP BY c.id, c.name, c.description, c.created_at
		HAVING member_count > 0
		ORDER BY c.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []DirectoryEntry
	for rows.Next() {
		var e DirectoryEntry
		var activeRotations int
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.CreatedAt,
			&e.MemberCount, &e.TotalGames, &e.CompletedGames, &activeRotations); err != nil {
			return nil, err
		}
		e.HasActiveRotation = activeRotations > 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
