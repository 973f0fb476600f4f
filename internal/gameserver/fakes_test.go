package gameserver_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cory-johannsen/focusquest/internal/game/character"
	"github.com/cory-johannsen/focusquest/internal/game/quest"
)

// memCharacters is an in-memory CharacterStore. failCommit makes Update
// fail after fn ran, as a lost transaction would. afterCommit runs once
// after the next successful Update.
type memCharacters struct {
	mu          sync.Mutex
	byOwner     map[string]*character.Character
	failCommit  error
	afterCommit func()
	updates     int
}

func newMemCharacters() *memCharacters {
	return &memCharacters{byOwner: make(map[string]*character.Character)}
}

func (m *memCharacters) Create(_ context.Context, c *character.Character) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byOwner[c.OwnerID]; ok {
		return character.ErrCharacterExists
	}
	m.byOwner[c.OwnerID] = c.Clone()
	return nil
}

func (m *memCharacters) Get(_ context.Context, ownerID string) (*character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byOwner[ownerID]
	if !ok {
		return nil, character.ErrCharacterNotFound
	}
	return c.Clone(), nil
}

func (m *memCharacters) Update(_ context.Context, ownerID string, fn func(*character.Character) error) (*character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byOwner[ownerID]
	if !ok {
		return nil, character.ErrCharacterNotFound
	}
	c := stored.Clone()
	if err := fn(c); err != nil {
		return nil, err
	}
	if m.failCommit != nil {
		return nil, m.failCommit
	}
	m.updates++
	m.byOwner[ownerID] = c.Clone()
	if hook := m.afterCommit; hook != nil {
		m.afterCommit = nil
		hook()
	}
	return c, nil
}

func (m *memCharacters) onCommit(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.afterCommit = fn
}

func (m *memCharacters) setFailCommit(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failCommit = err
}

// memQuests is an in-memory QuestStore.
type memQuests struct {
	mu   sync.Mutex
	byID map[string]*quest.Quest
	subs map[string][]chan []*quest.Quest
}

func newMemQuests() *memQuests {
	return &memQuests{
		byID: make(map[string]*quest.Quest),
		subs: make(map[string][]chan []*quest.Quest),
	}
}

func key(ownerID, questID string) string { return ownerID + "/" + questID }

func cloneQuest(q *quest.Quest) *quest.Quest {
	cp := *q
	return &cp
}

func (m *memQuests) Create(_ context.Context, q *quest.Quest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[key(q.OwnerID, q.ID)] = cloneQuest(q)
	m.notifyLocked(q.OwnerID)
	return nil
}

func (m *memQuests) Get(_ context.Context, ownerID, questID string) (*quest.Quest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.byID[key(ownerID, questID)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", quest.ErrQuestNotFound, questID)
	}
	return cloneQuest(q), nil
}

func (m *memQuests) List(_ context.Context, ownerID string) ([]*quest.Quest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listLocked(ownerID), nil
}

func (m *memQuests) listLocked(ownerID string) []*quest.Quest {
	out := []*quest.Quest{}
	for _, q := range m.byID {
		if q.OwnerID == ownerID {
			out = append(out, cloneQuest(q))
		}
	}
	quest.SortNewestFirst(out)
	return out
}

func (m *memQuests) Delete(_ context.Context, ownerID, questID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(ownerID, questID)
	if _, ok := m.byID[k]; !ok {
		return fmt.Errorf("%w: %s", quest.ErrQuestNotFound, questID)
	}
	delete(m.byID, k)
	m.notifyLocked(ownerID)
	return nil
}

func (m *memQuests) Transition(_ context.Context, ownerID, questID string, status quest.Status, now time.Time) (*quest.Quest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[key(ownerID, questID)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", quest.ErrQuestNotFound, questID)
	}
	q := cloneQuest(stored)
	if err := q.Transition(status, now); err != nil {
		return nil, err
	}
	m.byID[key(ownerID, questID)] = cloneQuest(q)
	m.notifyLocked(ownerID)
	return q, nil
}

func (m *memQuests) Subscribe(ctx context.Context, ownerID string) (<-chan []*quest.Quest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan []*quest.Quest, 16)
	ch <- m.listLocked(ownerID)
	m.subs[ownerID] = append(m.subs[ownerID], ch)
	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		subs := m.subs[ownerID]
		for i, c := range subs {
			if c == ch {
				m.subs[ownerID] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

func (m *memQuests) status(ownerID, questID string) quest.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[key(ownerID, questID)].Status
}

func (m *memQuests) notifyLocked(ownerID string) {
	list := m.listLocked(ownerID)
	for _, ch := range m.subs[ownerID] {
		select {
		case ch <- list:
		default:
		}
	}
}
