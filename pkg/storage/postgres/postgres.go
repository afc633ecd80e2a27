package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chenBenjamin97/tennis-annotator/pkg/coco"
	"github.com/chenBenjamin97/tennis-annotator/pkg/rally"
	"github.com/chenBenjamin97/tennis-annotator/pkg/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS annotation_datasets (
	video_id   TEXT PRIMARY KEY,
	dataset    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS label_files (
	video_id   TEXT NOT NULL,
	source     TEXT NOT NULL,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (video_id, source)
);`

//Store keeps datasets and label documents as JSONB rows
type Store struct {
	pool *pgxpool.Pool
}

//Connect opens a pool and creates the tables when missing
func Connect(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("postgres.Connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.Connect: ping failed: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.Connect: create tables: %w", err)
	}

	log.Printf("postgres.Connect: Connected, tables ready")
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

//SaveFrame merges the frame under a row lock so concurrent saves of one video serialize
func (s *Store) SaveFrame(ctx context.Context, videoID string, frame coco.Frame) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("SaveFrame: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	dataset := coco.NewDataset()
	var raw []byte
	err = tx.QueryRow(ctx, `SELECT dataset FROM annotation_datasets WHERE video_id = $1 FOR UPDATE`, videoID).Scan(&raw)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return fmt.Errorf("SaveFrame: select: %w", err)
	default:
		if err := json.Unmarshal(raw, dataset); err != nil {
			return fmt.Errorf("SaveFrame: decode dataset: %w", err)
		}
	}

	if err := dataset.AddFrame(frame); err != nil {
		return err
	}
	body, err := json.Marshal(dataset)
	if err != nil {
		return fmt.Errorf("SaveFrame: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO annotation_datasets (video_id, dataset) VALUES ($1, $2)
		ON CONFLICT (video_id) DO UPDATE SET dataset = EXCLUDED.dataset, updated_at = NOW()`,
		videoID, body)
	if err != nil {
		return fmt.Errorf("SaveFrame: upsert: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *Store) Dataset(ctx context.Context, videoID string) (*coco.Dataset, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT dataset FROM annotation_datasets WHERE video_id = $1`, videoID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Dataset: %w", err)
	}

	dataset := coco.NewDataset()
	if err := json.Unmarshal(raw, dataset); err != nil {
		return nil, fmt.Errorf("Dataset: decode: %w", err)
	}
	return dataset, nil
}

func (s *Store) Load(ctx context.Context, videoID string) (*rally.LabelFile, storage.Source, error) {
	return loadLabels(ctx, s.pool, videoID)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func loadLabels(ctx context.Context, q queryRower, videoID string) (*rally.LabelFile, storage.Source, error) {
	var (
		raw    []byte
		source string
	)
	err := q.QueryRow(ctx, `
		SELECT body, source FROM label_files WHERE video_id = $1
		ORDER BY CASE source WHEN $2 THEN 0 ELSE 1 END LIMIT 1`,
		videoID, string(storage.Confirmed)).Scan(&raw, &source)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", storage.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("Load: %w", err)
	}

	var file rally.LabelFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, "", fmt.Errorf("Load: decode: %w", err)
	}
	return &file, storage.Source(source), nil
}

//Update takes a transaction scoped advisory lock on the video id, the confirmed row may not exist yet to lock
func (s *Store) Update(ctx context.Context, videoID string, fn func(file *rally.LabelFile) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("Update: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "labels:"+videoID); err != nil {
		return fmt.Errorf("Update: lock: %w", err)
	}

	file, _, err := loadLabels(ctx, tx, videoID)
	if err != nil {
		return err
	}
	if err := fn(file); err != nil {
		return err
	}
	body, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO label_files (video_id, source, body) VALUES ($1, $2, $3)
		ON CONFLICT (video_id, source) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`,
		videoID, string(storage.Confirmed), body)
	if err != nil {
		return fmt.Errorf("Update: upsert: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *Store) Save(ctx context.Context, videoID string, source storage.Source, file *rally.LabelFile) error {
	body, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO label_files (video_id, source, body) VALUES ($1, $2, $3)
		ON CONFLICT (video_id, source) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`,
		videoID, string(source), body)
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}

func (s *Store) Confirm(ctx context.Context, videoID string) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO label_files (video_id, source, body)
		SELECT video_id, $2::text, body FROM label_files WHERE video_id = $1 AND source = $3
		ON CONFLICT (video_id, source) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`,
		videoID, string(storage.Confirmed), string(storage.Generated))
	if err != nil {
		return fmt.Errorf("Confirm: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

var (
	_ storage.AnnotationStore = (*Store)(nil)
	_ storage.LabelStore      = (*Store)(nil)
)
