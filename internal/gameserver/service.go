// Package gameserver composes the game rules and the stores into the
// operations a player performs: managing the character, the quest board, and
// focus sessions whose completion pays out combat rewards.
package gameserver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/focusquest/internal/game/catalog"
	"github.com/cory-johannsen/focusquest/internal/game/character"
	"github.com/cory-johannsen/focusquest/internal/game/combat"
	"github.com/cory-johannsen/focusquest/internal/game/inventory"
	"github.com/cory-johannsen/focusquest/internal/game/progression"
	"github.com/cory-johannsen/focusquest/internal/game/quest"
	"github.com/cory-johannsen/focusquest/internal/game/session"
)

// claimSettleTimeout bounds the store write that moves a quest out of
// completing once the caller's context no longer applies.
const claimSettleTimeout = 5 * time.Second

var (
	// ErrAreaLocked is returned when a quest's area requires a higher level.
	ErrAreaLocked = errors.New("area is locked for this character level")
	// ErrSessionActive is returned when the owner already has a running session.
	ErrSessionActive = session.ErrSessionActive
	// ErrNoSession is returned when cancelling a quest with no running session.
	ErrNoSession = errors.New("no focus session running for quest")
)

// Completion is the outcome of a successfully completed quest.
type Completion struct {
	Quest     *quest.Quest
	Character *character.Character
	// Combat is nil for a quest without an area.
	Combat  *combat.Result
	Summary progression.Summary
}

// Service implements the player operations.
// All methods are safe for concurrent use.
type Service struct {
	chars       CharacterStore
	quests      QuestStore
	catalog     *catalog.Catalog
	inventory   *inventory.Manager
	simulator   *combat.Simulator
	progression *progression.Engine
	sessions    *session.Manager
	logger      *zap.Logger
	now         func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex // owner id → completion lock
}

// NewService creates a Service.
//
// Precondition: all arguments must be non-nil.
// Postcondition: Returns a non-nil Service.
func NewService(
	chars CharacterStore,
	quests QuestStore,
	cat *catalog.Catalog,
	inv *inventory.Manager,
	sim *combat.Simulator,
	prog *progression.Engine,
	sessions *session.Manager,
	logger *zap.Logger,
) *Service {
	return &Service{
		chars:       chars,
		quests:      quests,
		catalog:     cat,
		inventory:   inv,
		simulator:   sim,
		progression: prog,
		sessions:    sessions,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		locks:       make(map[string]*sync.Mutex),
	}
}

// CreateCharacter builds and stores a new character of the named class.
func (s *Service) CreateCharacter(ctx context.Context, ownerID, name, class string) (*character.Character, error) {
	cls, err := character.ParseClass(class)
	if err != nil {
		return nil, err
	}
	c, err := character.Build(ownerID, name, cls, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.chars.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating character: %w", err)
	}
	s.logger.Info("character created",
		zap.String("owner", ownerID),
		zap.String("name", c.Name),
		zap.String("class", string(c.Class)),
	)
	return c, nil
}

// GetCharacter loads the owner's character.
func (s *Service) GetCharacter(ctx context.Context, ownerID string) (*character.Character, error) {
	return s.chars.Get(ctx, ownerID)
}

// Sell sells up to amount units of itemID.
func (s *Service) Sell(ctx context.Context, ownerID, itemID string, amount int) (inventory.SaleReceipt, error) {
	var receipt inventory.SaleReceipt
	_, err := s.chars.Update(ctx, ownerID, func(c *character.Character) error {
		r, err := s.inventory.Sell(c, itemID, amount)
		receipt = r
		return err
	})
	if err != nil {
		return inventory.SaleReceipt{}, err
	}
	return receipt, nil
}

// Equip moves one unit of itemID into its slot.
func (s *Service) Equip(ctx context.Context, ownerID, itemID string) (*character.Character, error) {
	return s.chars.Update(ctx, ownerID, func(c *character.Character) error {
		return s.inventory.Equip(c, itemID)
	})
}

// Unequip moves the item in slot back into the inventory.
func (s *Service) Unequip(ctx context.Context, ownerID, slot string) (*character.Character, error) {
	return s.chars.Update(ctx, ownerID, func(c *character.Character) error {
		return s.inventory.Unequip(c, catalog.Slot(slot))
	})
}

// Allocate spends n stat points on attr, all or nothing.
func (s *Service) Allocate(ctx context.Context, ownerID, attr string, n int) (*character.Character, error) {
	return s.chars.Update(ctx, ownerID, func(c *character.Character) error {
		return c.AllocateN(attr, n)
	})
}

// CreateQuest adds a pending quest to the owner's board. areaID may be empty.
func (s *Service) CreateQuest(ctx context.Context, ownerID, title, description string, minutes int, areaID string) (*quest.Quest, error) {
	if areaID != "" {
		if _, err := s.catalog.Area(areaID); err != nil {
			return nil, err
		}
	}
	q, err := quest.New(ownerID, title, description, minutes, areaID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.quests.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("creating quest: %w", err)
	}
	return q, nil
}

// DeleteQuest removes a quest, cancelling its session if one is running.
func (s *Service) DeleteQuest(ctx context.Context, ownerID, questID string) error {
	if sess, ok := s.sessions.Active(ownerID); ok && sess.QuestID == questID {
		s.sessions.Cancel(ownerID)
	}
	return s.quests.Delete(ctx, ownerID, questID)
}

// ListQuests returns the owner's quests on board, newest first.
func (s *Service) ListQuests(ctx context.Context, ownerID string, board quest.Board) ([]*quest.Quest, error) {
	all, err := s.quests.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return quest.Filter(all, board), nil
}

// WatchQuests streams the owner's full board on every change until ctx ends.
func (s *Service) WatchQuests(ctx context.Context, ownerID string) (<-chan []*quest.Quest, error) {
	return s.quests.Subscribe(ctx, ownerID)
}

// StartQuest starts a focus session for a quest. When the session elapses
// the quest is completed and onDone receives the outcome.
//
// Precondition: onDone must not be nil.
// Postcondition: on success the quest is in_progress and a session is running.
func (s *Service) StartQuest(ctx context.Context, ownerID, questID string, onDone func(Completion, error)) (*session.Session, error) {
	q, err := s.quests.Get(ctx, ownerID, questID)
	if err != nil {
		return nil, err
	}
	if q.Status == quest.StatusCompleted {
		return nil, fmt.Errorf("%w: %s", quest.ErrAlreadyCompleted, questID)
	}
	if q.AreaID != "" {
		area, err := s.catalog.Area(q.AreaID)
		if err != nil {
			return nil, err
		}
		c, err := s.chars.Get(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if c.Level < area.MinLevel {
			return nil, fmt.Errorf("%w: %s requires level %d, character is level %d", ErrAreaLocked, area.ID, area.MinLevel, c.Level)
		}
	}
	if _, busy := s.sessions.Active(ownerID); busy {
		return nil, ErrSessionActive
	}

	if q.Status == quest.StatusPending {
		if _, err := s.quests.Transition(ctx, ownerID, questID, quest.StatusInProgress, s.now()); err != nil {
			return nil, err
		}
	}
	sess, err := s.sessions.Start(ownerID, questID, q.DurationMinutes, func(*session.Session) {
		onDone(s.CompleteQuest(context.Background(), ownerID, questID))
	})
	if err != nil {
		if _, rerr := s.quests.Transition(ctx, ownerID, questID, quest.StatusPending, s.now()); rerr != nil {
			s.logger.Error("reverting quest start", zap.String("quest", questID), zap.Error(rerr))
		}
		return nil, err
	}
	return sess, nil
}

// CancelQuest abandons a running session with no reward and returns the
// quest to pending.
func (s *Service) CancelQuest(ctx context.Context, ownerID, questID string) (*quest.Quest, error) {
	sess, ok := s.sessions.Active(ownerID)
	if !ok || sess.QuestID != questID {
		return nil, fmt.Errorf("%w: %s", ErrNoSession, questID)
	}
	if _, cancelled := s.sessions.Cancel(ownerID); !cancelled {
		return nil, fmt.Errorf("%w: %s already elapsed", ErrNoSession, questID)
	}
	return s.quests.Transition(ctx, ownerID, questID, quest.StatusPending, s.now())
}

// CompleteQuest pays out a quest's reward exactly once. The quest is claimed
// by moving it to completing; the simulation and reward are then applied in
// one character update. A failed update returns the quest to the status it
// was claimed from and leaves the character unchanged, so the whole
// operation can be retried.
//
// Postcondition: on success the quest is completed and the reward persisted;
// a second call fails with quest.ErrAlreadyCompleted.
func (s *Service) CompleteQuest(ctx context.Context, ownerID, questID string) (Completion, error) {
	lock := s.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	if sess, ok := s.sessions.Active(ownerID); ok && sess.QuestID == questID {
		s.sessions.Cancel(ownerID)
	}

	prior, err := s.quests.Get(ctx, ownerID, questID)
	if err != nil {
		return Completion{}, err
	}
	q, err := s.quests.Transition(ctx, ownerID, questID, quest.StatusCompleting, s.now())
	if err != nil {
		return Completion{}, err
	}

	var comp Completion
	updated, err := s.chars.Update(ctx, ownerID, func(c *character.Character) error {
		if q.AreaID == "" {
			comp.Summary = s.progression.ApplyTimeReward(c, q.DurationMinutes)
			return nil
		}
		area, err := s.catalog.Area(q.AreaID)
		if err != nil {
			return err
		}
		res, err := s.simulator.Simulate(c, area, q.DurationMinutes)
		if err != nil {
			return err
		}
		comp.Combat = &res
		comp.Summary = s.progression.Apply(c, res)
		return nil
	})
	if err != nil {
		s.settleClaim(ctx, ownerID, questID, prior.Status)
		return Completion{}, fmt.Errorf("applying reward for quest %s: %w", questID, err)
	}
	comp.Character = updated

	done, err := s.settleClaim(ctx, ownerID, questID, quest.StatusCompleted)
	if err != nil {
		// The reward is persisted and the claim still holds, so the quest
		// can never pay out again.
		s.logger.Error("marking quest completed",
			zap.String("owner", ownerID),
			zap.String("quest", questID),
			zap.Error(err),
		)
		done = q
	}
	comp.Quest = done

	s.logger.Info("quest completed",
		zap.String("owner", ownerID),
		zap.String("quest", questID),
		zap.String("area", q.AreaID),
		zap.Int("xp", comp.Summary.XPGained),
		zap.Int("gold", comp.Summary.GoldGained),
		zap.Int("levels", comp.Summary.LevelsGained),
		zap.Int("items", len(comp.Summary.ItemsAdded)),
	)
	return comp, nil
}

// settleClaim moves a claimed quest out of completing. It runs on a context
// detached from ctx's cancellation so that a caller giving up after the
// character update does not strand the claim.
func (s *Service) settleClaim(ctx context.Context, ownerID, questID string, to quest.Status) (*quest.Quest, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), claimSettleTimeout)
	defer cancel()
	q, err := s.quests.Transition(ctx, ownerID, questID, to, s.now())
	if err != nil && to != quest.StatusCompleted {
		s.logger.Error("releasing quest claim",
			zap.String("owner", ownerID),
			zap.String("quest", questID),
			zap.String("status", string(to)),
			zap.Error(err),
		)
	}
	return q, err
}

// Areas lists the catalog's areas in unlock order.
func (s *Service) Areas() []*catalog.Area {
	return s.catalog.Areas()
}

// Shutdown cancels every running session without paying out.
func (s *Service) Shutdown() {
	if n := s.sessions.StopAll(); n > 0 {
		s.logger.Info("cancelled running focus sessions", zap.Int("count", n))
	}
}

func (s *Service) ownerLock(ownerID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[ownerID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[ownerID] = l
	}
	return l
}
