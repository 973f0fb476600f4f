// Package sqlite provides a single-file character store for running
// focusquest without a database server.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/cory-johannsen/focusquest/internal/game/character"
	"github.com/cory-johannsen/focusquest/internal/storage"
)

//go:embed schema.sql
var schema string

const characterColumns = `owner_id, name, class, level, xp, stat_points, gold,
	max_hp, current_hp, attributes, inventory, equipment, created_at, updated_at`

// Store persists characters in SQLite. All access goes through one
// connection, so transactions are serialized.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// Open opens the database at path and applies the schema.
//
// Precondition: path must be non-empty.
// Postcondition: Returns an open Store or a non-nil error.
func Open(path string, busyTimeout time.Duration) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	// The driver applies each _pragma to every connection it opens.
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		filepath.Clean(path), busyTimeout.Milliseconds())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Create inserts a new character.
//
// Postcondition: Returns nil, or character.ErrCharacterExists when the owner already has one.
func (s *Store) Create(ctx context.Context, c *character.Character) error {
	cols, err := storage.EncodeColumns(c)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO characters (`+characterColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.OwnerID, c.Name, string(c.Class), c.Level, c.XP, c.StatPoints, c.Gold,
		c.MaxHP, c.CurrentHP, string(cols.Attributes), string(cols.Inventory), string(cols.Equipment),
		toMillis(c.CreatedAt), toMillis(c.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: owner %s", character.ErrCharacterExists, c.OwnerID)
		}
		return fmt.Errorf("insert character: %w", err)
	}
	return nil
}

// Get retrieves the owner's character, backfilling legacy fields.
//
// Postcondition: Returns the Character or character.ErrCharacterNotFound.
func (s *Store) Get(ctx context.Context, ownerID string) (*character.Character, error) {
	return scanCharacter(s.sqlDB.QueryRowContext(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE owner_id = ?`, ownerID))
}

// Update applies fn to the owner's character and writes the result in one
// transaction. Nothing is written when fn fails.
//
// Postcondition: Returns the persisted Character, character.ErrCharacterNotFound, or fn's error.
func (s *Store) Update(ctx context.Context, ownerID string, fn func(*character.Character) error) (_ *character.Character, err error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	c, err := scanCharacter(tx.QueryRowContext(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE owner_id = ?`, ownerID))
	if err != nil {
		return nil, err
	}
	if err = fn(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now().UTC()
	cols, err := storage.EncodeColumns(c)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE characters SET
			name = ?, class = ?, level = ?, xp = ?, stat_points = ?, gold = ?,
			max_hp = ?, current_hp = ?, attributes = ?, inventory = ?, equipment = ?,
			updated_at = ?
		WHERE owner_id = ?`,
		c.Name, string(c.Class), c.Level, c.XP, c.StatPoints, c.Gold,
		c.MaxHP, c.CurrentHP, string(cols.Attributes), string(cols.Inventory), string(cols.Equipment),
		toMillis(c.UpdatedAt), c.OwnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("update character: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit character update: %w", err)
	}
	return c, nil
}

func scanCharacter(row *sql.Row) (*character.Character, error) {
	var c character.Character
	var class, attrs, inv, equip string
	var created, updated int64
	err := row.Scan(
		&c.OwnerID, &c.Name, &class, &c.Level, &c.XP, &c.StatPoints, &c.Gold,
		&c.MaxHP, &c.CurrentHP, &attrs, &inv, &equip, &created, &updated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, character.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("query character: %w", err)
	}
	c.Class = character.Class(class)
	c.CreatedAt = fromMillis(created)
	c.UpdatedAt = fromMillis(updated)
	cols := storage.Columns{Attributes: []byte(attrs), Inventory: []byte(inv), Equipment: []byte(equip)}
	if err := storage.DecodeColumns(&c, cols); err != nil {
		return nil, err
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
