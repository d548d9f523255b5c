// Package redisstore keeps recorded rounds in redis so several serving
// processes can share one replay library.
package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/hoangpq/snake-engine/replay"
)

const (
	roundKeyPrefix = "snake:round:"
	frameKeyPrefix = "snake:frames:"
	roundsSetKey   = "snake:rounds"
)

// Store is a redis backed replay.Store.
type Store struct {
	client *redis.Client
}

// NewStore creates the underlying redis client, so it should not be
// re-created across goroutines.
// - connectURL see: github.com/go-redis/redis/options.go for URL specifics
// The client is immediately tested for connectivity, so don't call this
// until you know redis can connect.
func NewStore(connectURL string) (*Store, error) {
	o, err := redis.ParseURL(connectURL)
	if err != nil {
		return nil, errors.Wrap(err, "redisstore: unable to parse redis URL")
	}

	client := redis.NewClient(o)
	if err := client.Ping().Err(); err != nil {
		return nil, errors.Wrap(err, "redisstore: unable to connect")
	}
	return &Store{client: client}, nil
}

// Close closes the underlying client.
func (rs *Store) Close() error { return rs.client.Close() }

func (rs *Store) CreateRound(ctx context.Context, r *replay.Round) error {
	if r.ID == "" {
		r.ID = uuid.NewV4().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if err := rs.putRound(r); err != nil {
		return err
	}
	if err := rs.client.SAdd(roundsSetKey, r.ID).Err(); err != nil {
		return errors.Wrap(err, "redisstore: indexing round")
	}
	return nil
}

func (rs *Store) SetRoundStatus(ctx context.Context, id string, status replay.Status) error {
	r, err := rs.GetRound(ctx, id)
	if err != nil {
		return err
	}
	r.Status = status
	return rs.putRound(r)
}

func (rs *Store) GetRound(ctx context.Context, id string) (*replay.Round, error) {
	data, err := rs.client.Get(roundKeyPrefix + id).Result()
	if err == redis.Nil {
		return nil, replay.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "redisstore: fetching round")
	}
	r := &replay.Round{}
	if err := json.Unmarshal([]byte(data), r); err != nil {
		return nil, errors.Wrap(err, "redisstore: bad round payload")
	}
	return r, nil
}

func (rs *Store) ListRounds(ctx context.Context) ([]*replay.Round, error) {
	ids, err := rs.client.SMembers(roundsSetKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redisstore: listing rounds")
	}
	out := make([]*replay.Round, 0, len(ids))
	for _, id := range ids {
		r, err := rs.GetRound(ctx, id)
		if err == replay.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (rs *Store) PushFrame(ctx context.Context, id string, f *replay.Frame) error {
	if _, err := rs.GetRound(ctx, id); err != nil {
		return err
	}
	data, err := json.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "redisstore: encoding frame")
	}
	if err := rs.client.RPush(frameKeyPrefix+id, string(data)).Err(); err != nil {
		return errors.Wrap(err, "redisstore: appending frame")
	}
	return nil
}

func (rs *Store) ListFrames(ctx context.Context, id string, limit, offset int) ([]*replay.Frame, error) {
	if _, err := rs.GetRound(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}
	start := int64(offset)
	if start < 0 {
		// negative offsets count back from the newest frame; resolve against
		// the list length and clamp to the head like replay.PageFrames does
		length, err := rs.client.LLen(frameKeyPrefix + id).Result()
		if err != nil {
			return nil, errors.Wrap(err, "redisstore: sizing frames")
		}
		start += length
		if start < 0 {
			start = 0
		}
	}
	stop := start + int64(limit) - 1
	lines, err := rs.client.LRange(frameKeyPrefix+id, start, stop).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redisstore: fetching frames")
	}
	out := make([]*replay.Frame, 0, len(lines))
	for _, line := range lines {
		f := &replay.Frame{}
		if err := json.Unmarshal([]byte(line), f); err != nil {
			return nil, errors.Wrap(err, "redisstore: bad frame payload")
		}
		out = append(out, f)
	}
	return out, nil
}

func (rs *Store) putRound(r *replay.Round) error {
	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "redisstore: encoding round")
	}
	if err := rs.client.Set(roundKeyPrefix+r.ID, string(data), 0).Err(); err != nil {
		return errors.Wrap(err, "redisstore: storing round")
	}
	return nil
}
