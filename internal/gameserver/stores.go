package gameserver

import (
	"context"
	"time"

	"github.com/cory-johannsen/focusquest/internal/game/character"
	"github.com/cory-johannsen/focusquest/internal/game/quest"
)

// CharacterStore persists one character per owner.
type CharacterStore interface {
	// Create inserts c, failing with character.ErrCharacterExists for a taken owner id.
	Create(ctx context.Context, c *character.Character) error
	// Get loads the owner's character, failing with character.ErrCharacterNotFound.
	Get(ctx context.Context, ownerID string) (*character.Character, error)
	// Update runs fn against the locked, backfilled character inside one
	// transaction and persists the result. When fn returns an error nothing
	// is written and the error is returned.
	Update(ctx context.Context, ownerID string, fn func(*character.Character) error) (*character.Character, error)
}

// QuestStore persists each owner's quest board.
type QuestStore interface {
	Create(ctx context.Context, q *quest.Quest) error
	// Get fails with quest.ErrQuestNotFound for an unknown id.
	Get(ctx context.Context, ownerID, questID string) (*quest.Quest, error)
	// List returns the owner's quests newest-created first.
	List(ctx context.Context, ownerID string) ([]*quest.Quest, error)
	Delete(ctx context.Context, ownerID, questID string) error
	// Transition atomically moves a quest to status via quest.Quest.Transition,
	// failing with quest.ErrConflict when another writer changed it first.
	Transition(ctx context.Context, ownerID, questID string, status quest.Status, now time.Time) (*quest.Quest, error)
	// Subscribe pushes the full list on subscribe and after every change
	// until ctx is cancelled.
	Subscribe(ctx context.Context, ownerID string) (<-chan []*quest.Quest, error)
}
