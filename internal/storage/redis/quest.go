package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/focusquest/internal/game/quest"
)

const (
	questKeyPrefix   = "quest:"
	boardKeyPrefix   = "quests:"
	eventsKeySuffix  = ":events"
	subscriberBuffer = 8
)

func questKey(ownerID, questID string) string {
	return questKeyPrefix + ownerID + ":" + questID
}

// boardKey is a sorted set of the owner's quest ids scored by creation time.
func boardKey(ownerID string) string {
	return boardKeyPrefix + ownerID
}

func eventsChannel(ownerID string) string {
	return boardKeyPrefix + ownerID + eventsKeySuffix
}

// QuestRepository persists quests as JSON documents.
type QuestRepository struct {
	client goredis.UniversalClient
	logger *zap.Logger
}

// NewQuestRepository creates a QuestRepository over client.
//
// Precondition: client and logger must be non-nil.
func NewQuestRepository(client goredis.UniversalClient, logger *zap.Logger) *QuestRepository {
	return &QuestRepository{client: client, logger: logger}
}

// Create stores q and indexes it on the owner's board.
func (r *QuestRepository) Create(ctx context.Context, q *quest.Quest) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal quest: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, questKey(q.OwnerID, q.ID), data, 0)
	pipe.ZAdd(ctx, boardKey(q.OwnerID), goredis.Z{
		Score:  float64(q.CreatedAt.UnixMilli()),
		Member: q.ID,
	})
	pipe.Publish(ctx, eventsChannel(q.OwnerID), q.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create quest: %w", err)
	}
	return nil
}

// Get loads one quest.
//
// Postcondition: Returns the Quest or quest.ErrQuestNotFound.
func (r *QuestRepository) Get(ctx context.Context, ownerID, questID string) (*quest.Quest, error) {
	data, err := r.client.Get(ctx, questKey(ownerID, questID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, fmt.Errorf("%w: %s", quest.ErrQuestNotFound, questID)
		}
		return nil, fmt.Errorf("get quest: %w", err)
	}
	return decodeQuest(data)
}

// List returns the owner's quests newest-created first. Index entries whose
// document is gone are skipped.
func (r *QuestRepository) List(ctx context.Context, ownerID string) ([]*quest.Quest, error) {
	ids, err := r.client.ZRevRange(ctx, boardKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list quest ids: %w", err)
	}
	out := make([]*quest.Quest, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = questKey(ownerID, id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load quests: %w", err)
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			r.logger.Warn("quest indexed without document",
				zap.String("owner_id", ownerID),
				zap.String("quest_id", ids[i]),
			)
			continue
		}
		q, err := decodeQuest([]byte(s))
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	quest.SortNewestFirst(out)
	return out, nil
}

// Delete removes a quest from the owner's board.
//
// Postcondition: Returns nil or quest.ErrQuestNotFound.
func (r *QuestRepository) Delete(ctx context.Context, ownerID, questID string) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, questKey(ownerID, questID))
	pipe.ZRem(ctx, boardKey(ownerID), questID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete quest: %w", err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %s", quest.ErrQuestNotFound, questID)
	}
	r.publish(ctx, ownerID, questID)
	return nil
}

// Transition moves a quest to status under optimistic locking.
//
// Postcondition: Returns the updated Quest; quest.ErrConflict when the
// document changed between read and write; or the error from
// quest.Quest.Transition with the stored document untouched.
func (r *QuestRepository) Transition(ctx context.Context, ownerID, questID string, status quest.Status, now time.Time) (*quest.Quest, error) {
	key := questKey(ownerID, questID)
	var updated *quest.Quest
	err := r.client.Watch(ctx, func(tx *goredis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return fmt.Errorf("%w: %s", quest.ErrQuestNotFound, questID)
			}
			return fmt.Errorf("get quest: %w", err)
		}
		q, err := decodeQuest(data)
		if err != nil {
			return err
		}
		if err := q.Transition(status, now); err != nil {
			return err
		}
		next, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("marshal quest: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			pipe.Publish(ctx, eventsChannel(ownerID), questID)
			return nil
		})
		if err != nil {
			return err
		}
		updated = q
		return nil
	}, key)
	if errors.Is(err, goredis.TxFailedErr) {
		return nil, fmt.Errorf("%w: %s", quest.ErrConflict, questID)
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Subscribe streams the owner's full board: once immediately, then after
// every change. The channel closes when ctx is done.
//
// Postcondition: the first value is already buffered when Subscribe returns.
func (r *QuestRepository) Subscribe(ctx context.Context, ownerID string) (<-chan []*quest.Quest, error) {
	sub := r.client.Subscribe(ctx, eventsChannel(ownerID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe to quest events: %w", err)
	}
	initial, err := r.List(ctx, ownerID)
	if err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan []*quest.Quest, subscriberBuffer)
	out <- initial
	go func() {
		defer close(out)
		defer sub.Close()
		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
				list, err := r.List(ctx, ownerID)
				if err != nil {
					if ctx.Err() == nil {
						r.logger.Warn("reloading quest board", zap.String("owner_id", ownerID), zap.Error(err))
					}
					continue
				}
				select {
				case out <- list:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (r *QuestRepository) publish(ctx context.Context, ownerID, questID string) {
	if err := r.client.Publish(ctx, eventsChannel(ownerID), questID).Err(); err != nil {
		r.logger.Warn("publishing quest event",
			zap.String("owner_id", ownerID),
			zap.String("quest_id", questID),
			zap.Error(err),
		)
	}
}

func decodeQuest(data []byte) (*quest.Quest, error) {
	var q quest.Quest
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("unmarshal quest: %w", err)
	}
	return &q, nil
}
