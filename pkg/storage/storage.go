package storage

import (
	"context"
	"errors"

	"github.com/chenBenjamin97/tennis-annotator/pkg/coco"
	"github.com/chenBenjamin97/tennis-annotator/pkg/rally"
)

var ErrNotFound = errors.New("not found")

//Source tells which tier a label document was read from
type Source string

const (
	Generated Source = "generated"
	Confirmed Source = "confirmed"
)

//AnnotationStore keeps one COCO dataset per video
type AnnotationStore interface {
	SaveFrame(ctx context.Context, videoID string, frame coco.Frame) error
	Dataset(ctx context.Context, videoID string) (*coco.Dataset, error)
}

//LabelStore keeps generated and confirmed label documents, reads prefer confirmed ones
type LabelStore interface {
	Load(ctx context.Context, videoID string) (*rally.LabelFile, Source, error)
	Save(ctx context.Context, videoID string, source Source, file *rally.LabelFile) error
	//Confirm copies the generated document into the confirmed tier
	Confirm(ctx context.Context, videoID string) error
	//Update loads the document Load would return, applies fn and saves it into the confirmed
	//tier in one step. Concurrent updates of a video are serialized; nothing is saved when fn fails.
	Update(ctx context.Context, videoID string, fn func(file *rally.LabelFile) error) error
}

//Exists reports whether any label document exists and if the one read would be confirmed
func Exists(ctx context.Context, store LabelStore, videoID string) (bool, bool, error) {
	_, source, err := store.Load(ctx, videoID)
	if errors.Is(err, ErrNotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, source == Confirmed, nil
}
