package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/chenBenjamin97/tennis-annotator/pkg/rally"
	"github.com/chenBenjamin97/tennis-annotator/pkg/storage"
)

const maxUpdateRetries = 20

//Store keeps label documents as JSON strings under <prefix>:labels:<source>:<video>
type Store struct {
	client *redis.Client
	prefix string
}

//Connect pings the server before handing out the store
func Connect(ctx context.Context, addr, password string, db int, prefix string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return New(client, prefix), nil
}

func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "tennis"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Load(ctx context.Context, videoID string) (*rally.LabelFile, storage.Source, error) {
	return s.load(ctx, s.client, videoID)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *Store) load(ctx context.Context, g getter, videoID string) (*rally.LabelFile, storage.Source, error) {
	for _, source := range []storage.Source{storage.Confirmed, storage.Generated} {
		raw, err := g.Get(ctx, s.key(videoID, source)).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("error reading labels: %w", err)
		}

		var file rally.LabelFile
		if err := json.Unmarshal(raw, &file); err != nil {
			return nil, "", fmt.Errorf("invalid labels JSON under %s: %w", s.key(videoID, source), err)
		}
		return &file, source, nil
	}
	return nil, "", storage.ErrNotFound
}

//Update watches both tiers and retries when another writer got in between, fn may run more than once
func (s *Store) Update(ctx context.Context, videoID string, fn func(file *rally.LabelFile) error) error {
	confirmed := s.key(videoID, storage.Confirmed)
	txf := func(tx *redis.Tx) error {
		file, _, err := s.load(ctx, tx, videoID)
		if err != nil {
			return err
		}
		if err := fn(file); err != nil {
			return err
		}
		body, err := json.Marshal(file)
		if err != nil {
			return fmt.Errorf("error encoding labels: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, confirmed, body, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, confirmed, s.key(videoID, storage.Generated))
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("error updating labels: %s changed %d times while updating", videoID, maxUpdateRetries)
}

func (s *Store) Save(ctx context.Context, videoID string, source storage.Source, file *rally.LabelFile) error {
	body, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("error encoding labels: %w", err)
	}
	if err := s.client.Set(ctx, s.key(videoID, source), body, 0).Err(); err != nil {
		return fmt.Errorf("error writing labels: %w", err)
	}
	return nil
}

//Confirm copies with COPY ... REPLACE so the generated document stays in place
func (s *Store) Confirm(ctx context.Context, videoID string) error {
	copied, err := s.client.Copy(ctx, s.key(videoID, storage.Generated), s.key(videoID, storage.Confirmed), 0, true).Result()
	if err != nil {
		return fmt.Errorf("error confirming labels: %w", err)
	}
	if copied == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) key(videoID string, source storage.Source) string {
	return fmt.Sprintf("%s:labels:%s:%s", s.prefix, source, videoID)
}

var _ storage.LabelStore = (*Store)(nil)
