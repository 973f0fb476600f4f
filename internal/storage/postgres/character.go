package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/focusquest/internal/game/character"
	"github.com/cory-johannsen/focusquest/internal/storage"
)

const characterColumns = `owner_id, name, class, level, xp, stat_points, gold,
	max_hp, current_hp, attributes, inventory, equipment, created_at, updated_at`

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create inserts a new character.
//
// Precondition: c.OwnerID must be non-empty.
// Postcondition: Returns nil, or character.ErrCharacterExists when the owner already has one.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) error {
	cols, err := storage.EncodeColumns(c)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO characters (`+characterColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		c.OwnerID, c.Name, string(c.Class), c.Level, c.XP, c.StatPoints, c.Gold,
		c.MaxHP, c.CurrentHP, cols.Attributes, cols.Inventory, cols.Equipment,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("%w: owner %s", character.ErrCharacterExists, c.OwnerID)
		}
		return fmt.Errorf("inserting character: %w", err)
	}
	return nil
}

// Get retrieves the owner's character, backfilling legacy fields.
//
// Postcondition: Returns the Character or character.ErrCharacterNotFound.
func (r *CharacterRepository) Get(ctx context.Context, ownerID string) (*character.Character, error) {
	return scanCharacter(r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE owner_id = $1`, ownerID))
}

// Update locks the owner's row, applies fn, and writes the result in the same
// transaction. Nothing is written when fn fails.
//
// Postcondition: Returns the persisted Character, character.ErrCharacterNotFound, or fn's error.
func (r *CharacterRepository) Update(ctx context.Context, ownerID string, fn func(*character.Character) error) (*character.Character, error) {
	var out *character.Character
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		c, err := scanCharacter(tx.QueryRow(ctx,
			`SELECT `+characterColumns+` FROM characters WHERE owner_id = $1 FOR UPDATE`, ownerID))
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		c.UpdatedAt = time.Now().UTC()
		cols, err := storage.EncodeColumns(c)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE characters SET
				name = $2, class = $3, level = $4, xp = $5, stat_points = $6, gold = $7,
				max_hp = $8, current_hp = $9, attributes = $10, inventory = $11, equipment = $12,
				updated_at = $13
			WHERE owner_id = $1`,
			c.OwnerID, c.Name, string(c.Class), c.Level, c.XP, c.StatPoints, c.Gold,
			c.MaxHP, c.CurrentHP, cols.Attributes, cols.Inventory, cols.Equipment, c.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("updating character: %w", err)
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanCharacter(row pgx.Row) (*character.Character, error) {
	var c character.Character
	var class string
	var cols storage.Columns
	err := row.Scan(
		&c.OwnerID, &c.Name, &class, &c.Level, &c.XP, &c.StatPoints, &c.Gold,
		&c.MaxHP, &c.CurrentHP, &cols.Attributes, &cols.Inventory, &cols.Equipment,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, character.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	c.Class = character.Class(class)
	if err := storage.DecodeColumns(&c, cols); err != nil {
		return nil, err
	}
	return &c, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
