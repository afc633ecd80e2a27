package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"sync"

	"github.com/chenBenjamin97/tennis-annotator/pkg/coco"
	"github.com/chenBenjamin97/tennis-annotator/pkg/rally"
	"github.com/chenBenjamin97/tennis-annotator/pkg/storage"
	"github.com/chenBenjamin97/tennis-annotator/pkg/utils"
)

//Store keeps datasets and label documents as indented JSON files:
//<annotations>/<video>_coco_annotations.json and <generated|confirmed>/<video>_labelled.json
type Store struct {
	mu             sync.Mutex
	annotationsDir string
	generatedDir   string
	confirmedDir   string
}

func New(annotationsDir, generatedDir, confirmedDir string) (*Store, error) {
	for _, dir := range []string{annotationsDir, generatedDir, confirmedDir} {
		if err := os.MkdirAll(dir, utils.DirPerm); err != nil {
			return nil, fmt.Errorf("filestore.New: Could not create '%s', got '%v'", dir, err)
		}
	}
	return &Store{annotationsDir: annotationsDir, generatedDir: generatedDir, confirmedDir: confirmedDir}, nil
}

func (s *Store) SaveFrame(ctx context.Context, videoID string, frame coco.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dataset := coco.NewDataset()
	if err := readJSON(s.datasetPath(videoID), dataset); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if err := dataset.AddFrame(frame); err != nil {
		return err
	}
	return writeJSON(s.datasetPath(videoID), dataset)
}

func (s *Store) Dataset(ctx context.Context, videoID string) (*coco.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dataset := coco.NewDataset()
	if err := readJSON(s.datasetPath(videoID), dataset); err != nil {
		return nil, err
	}
	return dataset, nil
}

func (s *Store) Load(ctx context.Context, videoID string) (*rally.LabelFile, storage.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(videoID)
}

func (s *Store) Save(ctx context.Context, videoID string, source storage.Source, file *rally.LabelFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeJSON(s.labelPath(videoID, source), file)
}

//Update holds the store lock from read to write
func (s *Store) Update(ctx context.Context, videoID string, fn func(file *rally.LabelFile) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, _, err := s.load(videoID)
	if err != nil {
		return err
	}
	if err := fn(file); err != nil {
		return err
	}
	return writeJSON(s.labelPath(videoID, storage.Confirmed), file)
}

func (s *Store) Confirm(ctx context.Context, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.labelPath(videoID, storage.Generated))
	if os.IsNotExist(err) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("Confirm: Could not read generated labels, got '%v'", err)
	}
	return writeFileAtomic(s.labelPath(videoID, storage.Confirmed), data)
}

//load must be called with s.mu held
func (s *Store) load(videoID string) (*rally.LabelFile, storage.Source, error) {
	for _, source := range []storage.Source{storage.Confirmed, storage.Generated} {
		var file rally.LabelFile
		err := readJSON(s.labelPath(videoID, source), &file)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return &file, source, nil
	}
	return nil, "", storage.ErrNotFound
}

func (s *Store) datasetPath(videoID string) string {
	return path.Join(s.annotationsDir, videoID+utils.CocoSuffix)
}

func (s *Store) labelPath(videoID string, source storage.Source) string {
	dir := s.generatedDir
	if source == storage.Confirmed {
		dir = s.confirmedDir
	}
	return path.Join(dir, videoID+utils.LabelSuffix)
}

func readJSON(filePath string, v interface{}) error {
	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("readJSON: Could not read '%s', got '%v'", filePath, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("readJSON: Invalid JSON in '%s', got '%v'", filePath, err)
	}
	return nil
}

func writeJSON(filePath string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("writeJSON: %w", err)
	}
	return writeFileAtomic(filePath, data)
}

//writeFileAtomic writes next to the target and renames so readers never see half a file
func writeFileAtomic(filePath string, data []byte) error {
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writeFileAtomic: Could not write '%s', got '%v'", tmp, err)
	}
	if err := os.Rename(tmp, filePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writeFileAtomic: Could not rename '%s', got '%v'", tmp, err)
	}
	return nil
}

var (
	_ storage.AnnotationStore = (*Store)(nil)
	_ storage.LabelStore      = (*Store)(nil)
)
