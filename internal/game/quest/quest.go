// Package quest models focus quests: a titled block of focus time, optionally
// fought in an area, moving through a small status machine until its reward
// is claimed.
package quest

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MinDuration and MaxDuration bound a quest's focus time in minutes.
const (
	MinDuration     = 1
	MaxDuration     = 240
	DefaultDuration = 25
)

var (
	// ErrQuestNotFound is returned when a quest id is unknown for the owner.
	ErrQuestNotFound = errors.New("quest not found")
	// ErrAlreadyCompleted is returned when a completed quest is completed again.
	ErrAlreadyCompleted = errors.New("quest already completed")
	// ErrInvalidTransition is returned for a status change the machine forbids.
	ErrInvalidTransition = errors.New("invalid quest status transition")
	// ErrConflict is returned when a concurrent writer changed the quest first.
	ErrConflict = errors.New("quest modified concurrently")
)

// Status is a quest's position in its lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	// StatusCompleting marks a quest whose reward is being applied. It is
	// the claim that makes a completion happen at most once.
	StatusCompleting Status = "completing"
	StatusCompleted  Status = "completed"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCompleting},
	StatusInProgress: {StatusPending, StatusCompleting},
	// A released claim returns to the status it was taken from.
	StatusCompleting: {StatusPending, StatusInProgress, StatusCompleted},
}

// CanTransition reports whether s may move to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Quest is a unit of focus work.
type Quest struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"duration_minutes"`
	// AreaID is empty for a plain timed quest.
	AreaID          string     `json:"area_id,omitempty"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// New creates a pending quest with a fresh id.
//
// Precondition: ownerID non-empty; title non-blank; minutes in [MinDuration, MaxDuration].
// Postcondition: returns a pending Quest or a non-nil error.
func New(ownerID, title, description string, minutes int, areaID string, now time.Time) (*Quest, error) {
	var errs []error
	if ownerID == "" {
		errs = append(errs, errors.New("owner id must not be empty"))
	}
	title = strings.TrimSpace(title)
	if title == "" {
		errs = append(errs, errors.New("title must not be empty"))
	}
	if minutes < MinDuration || minutes > MaxDuration {
		errs = append(errs, fmt.Errorf("duration must be between %d and %d minutes, got %d", MinDuration, MaxDuration, minutes))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &Quest{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Title:           title,
		Description:     strings.TrimSpace(description),
		DurationMinutes: minutes,
		AreaID:          areaID,
		Status:          StatusPending,
		CreatedAt:       now,
	}, nil
}

// Transition moves q to next, stamping CompletedAt on completion.
//
// Postcondition: on error q is unchanged.
func (q *Quest) Transition(next Status, now time.Time) error {
	if q.Status == StatusCompleted {
		return fmt.Errorf("%w: %s", ErrAlreadyCompleted, q.ID)
	}
	if !q.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, q.Status, next)
	}
	q.Status = next
	if next == StatusCompleted {
		t := now
		q.CompletedAt = &t
	}
	return nil
}

// Board selects which quests a listing shows.
type Board string

const (
	BoardAll  Board = "all"
	BoardTodo Board = "todo"
	BoardDone Board = "done"
)

// ParseBoard maps a board name to a Board.
func ParseBoard(s string) (Board, error) {
	switch b := Board(strings.ToLower(strings.TrimSpace(s))); b {
	case BoardAll, BoardTodo, BoardDone:
		return b, nil
	case "":
		return BoardAll, nil
	}
	return "", fmt.Errorf("unknown board %q", s)
}

// Filter returns the quests on board, preserving order.
func Filter(quests []*Quest, board Board) []*Quest {
	out := make([]*Quest, 0, len(quests))
	for _, q := range quests {
		done := q.Status == StatusCompleted
		switch {
		case board == BoardTodo && done, board == BoardDone && !done:
			continue
		}
		out = append(out, q)
	}
	return out
}

// SortNewestFirst orders quests by CreatedAt descending, then by id.
func SortNewestFirst(quests []*Quest) {
	sort.SliceStable(quests, func(i, j int) bool {
		if !quests[i].CreatedAt.Equal(quests[j].CreatedAt) {
			return quests[i].CreatedAt.After(quests[j].CreatedAt)
		}
		return quests[i].ID < quests[j].ID
	})
}
