package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/chenBenjamin97/tennis-annotator/pkg/api"
	"github.com/chenBenjamin97/tennis-annotator/pkg/config"
	"github.com/chenBenjamin97/tennis-annotator/pkg/storage"
	"github.com/chenBenjamin97/tennis-annotator/pkg/storage/filestore"
	"github.com/chenBenjamin97/tennis-annotator/pkg/storage/postgres"
	"github.com/chenBenjamin97/tennis-annotator/pkg/storage/redisstore"
	"github.com/chenBenjamin97/tennis-annotator/pkg/utils"
	"github.com/chenBenjamin97/tennis-annotator/pkg/video"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Error: Could not load configuration, got '%v'", err)
	}

	//create missing directories from config, root first
	for _, dir := range cfg.Directory.All() {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(dir, utils.DirPerm); err != nil {
					log.Printf("Error Creating '%s' directory, got '%v'", dir, err)
				}
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	annotations, labels := openStores(ctx, cfg)

	s := api.NewServer(api.Options{
		Annotations:     annotations,
		Labels:          labels,
		Library:         video.Library{UploadsDir: cfg.Directory.Uploads, FramesDir: cfg.Directory.Frames},
		MinBoxSize:      cfg.MinBoxSize,
		RequireCategory: cfg.RequireCategory,
		StaticFilesPath: cfg.StaticFilesPath,
	})

	r := s.SetRouter()
	log.Printf("Serving on port %s (annotations: %s, labels: %s)", cfg.Port, cfg.AnnotationStorage, cfg.LabelStorage)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Error: Got '%v'", err)
	}
}

//openStores picks the configured backends, the JSON file store backs whatever is not moved elsewhere
func openStores(ctx context.Context, cfg *config.Config) (storage.AnnotationStore, storage.LabelStore) {
	files, err := filestore.New(cfg.Directory.Annotations, cfg.Directory.Generated, cfg.Directory.Confirmed)
	if err != nil {
		log.Fatalf("Error: Could not open file store, got '%v'", err)
	}
	var (
		annotations storage.AnnotationStore = files
		labels      storage.LabelStore      = files
		pg          *postgres.Store
	)

	if cfg.AnnotationStorage == "postgres" || cfg.LabelStorage == "postgres" {
		pg, err = postgres.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Error: Could not connect to postgres, got '%v'", err)
		}
	}
	if cfg.AnnotationStorage == "postgres" {
		annotations = pg
	}

	switch cfg.LabelStorage {
	case "postgres":
		labels = pg
	case "redis":
		rs, err := redisstore.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		if err != nil {
			log.Fatalf("Error: Could not connect to redis, got '%v'", err)
		}
		labels = rs
	}

	return annotations, labels
}
