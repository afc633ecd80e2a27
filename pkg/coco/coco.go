package coco

import (
	"errors"
	"fmt"

	"github.com/chenBenjamin97/tennis-annotator/pkg/annotate"
	"github.com/chenBenjamin97/tennis-annotator/pkg/player"
)

//Supercategory of every player category
const Supercategory = "person"

var ErrInvalidBox = errors.New("bounding box must have positive width and height")

type Image struct {
	ID       int    `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type Annotation struct {
	ID         int        `json:"id"`
	ImageID    int        `json:"image_id"`
	CategoryID int        `json:"category_id"`
	BBox       [4]float64 `json:"bbox"`
	Area       float64    `json:"area"`
	IsCrowd    int        `json:"iscrowd"`
}

type Category struct {
	ID            int               `json:"id"`
	Name          string            `json:"name"`
	Supercategory string            `json:"supercategory"`
	Handedness    player.Handedness `json:"handedness,omitempty"`
}

//Dataset is the per video annotation file
type Dataset struct {
	Images      []Image      `json:"images"`
	Annotations []Annotation `json:"annotations"`
	Categories  []Category   `json:"categories"`
}

//Frame is the snapshot of one annotated image that gets merged into a Dataset
type Frame struct {
	FileName   string                 `json:"file_name"`
	Width      int                    `json:"width"`
	Height     int                    `json:"height"`
	Boxes      []annotate.BoundingBox `json:"bounding_boxes"`
	Categories []player.Category      `json:"categories"`
}

func NewDataset() *Dataset {
	return &Dataset{
		Images:      make([]Image, 0),
		Annotations: make([]Annotation, 0),
		Categories:  make([]Category, 0),
	}
}

//Validate checks the BoundingBox invariant on every box of the frame
func (f Frame) Validate() error {
	if f.FileName == "" {
		return errors.New("frame file name is required")
	}
	for i, b := range f.Boxes {
		if !b.Valid() {
			return fmt.Errorf("box %d: %w", i, ErrInvalidBox)
		}
	}
	return nil
}

//AddFrame merges a frame snapshot into the dataset. A frame saved again under the same
//file name replaces its previous annotations.
func (d *Dataset) AddFrame(f Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}

	for _, c := range f.Categories {
		d.upsertCategory(c)
	}

	imageID := d.imageID(f.FileName)
	if imageID == 0 {
		imageID = d.nextImageID()
		d.Images = append(d.Images, Image{ID: imageID, FileName: f.FileName, Width: f.Width, Height: f.Height})
	} else {
		d.dropAnnotations(imageID)
		for i := range d.Images {
			if d.Images[i].ID == imageID {
				d.Images[i].Width, d.Images[i].Height = f.Width, f.Height
			}
		}
	}

	nextID := d.nextAnnotationID()
	for _, b := range f.Boxes {
		if _, ok := d.category(b.CategoryID); !ok {
			d.upsertCategory(player.Category{ID: b.CategoryID, Name: b.Label})
		}
		d.Annotations = append(d.Annotations, Annotation{
			ID:         nextID,
			ImageID:    imageID,
			CategoryID: b.CategoryID,
			BBox:       b.COCO(),
			Area:       b.Area(),
		})
		nextID++
	}
	return nil
}

//Boxes returns the boxes stored for file name, labels derived from the categories
func (d *Dataset) Boxes(fileName string) []annotate.BoundingBox {
	imageID := d.imageID(fileName)
	boxes := make([]annotate.BoundingBox, 0)
	if imageID == 0 {
		return boxes
	}

	for _, a := range d.Annotations {
		if a.ImageID != imageID {
			continue
		}
		label := player.Category{ID: a.CategoryID}.DisplayName()
		if c, ok := d.category(a.CategoryID); ok {
			label = c.Name
		}
		boxes = append(boxes, annotate.BoundingBox{
			X:          a.BBox[0],
			Y:          a.BBox[1],
			Width:      a.BBox[2],
			Height:     a.BBox[3],
			CategoryID: a.CategoryID,
			Label:      label,
		})
	}
	return boxes
}

//PlayerCategories converts the dataset categories back to player categories
func (d *Dataset) PlayerCategories() []player.Category {
	out := make([]player.Category, 0, len(d.Categories))
	for _, c := range d.Categories {
		out = append(out, player.Category{ID: c.ID, Name: c.Name, Handedness: player.ParseHandedness(string(c.Handedness))})
	}
	return out
}

func (d *Dataset) upsertCategory(c player.Category) {
	for i := range d.Categories {
		if d.Categories[i].ID == c.ID {
			if c.Name != "" {
				d.Categories[i].Name = c.Name
			}
			if c.Handedness != "" {
				d.Categories[i].Handedness = c.Handedness
			}
			return
		}
	}
	d.Categories = append(d.Categories, Category{
		ID:            c.ID,
		Name:          c.DisplayName(),
		Supercategory: Supercategory,
		Handedness:    player.ParseHandedness(string(c.Handedness)),
	})
}

func (d *Dataset) category(id int) (Category, bool) {
	for _, c := range d.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func (d *Dataset) imageID(fileName string) int {
	for _, img := range d.Images {
		if img.FileName == fileName {
			return img.ID
		}
	}
	return 0
}

func (d *Dataset) dropAnnotations(imageID int) {
	kept := d.Annotations[:0]
	for _, a := range d.Annotations {
		if a.ImageID != imageID {
			kept = append(kept, a)
		}
	}
	d.Annotations = kept
}

func (d *Dataset) nextImageID() int {
	max := 0
	for _, img := range d.Images {
		if img.ID > max {
			max = img.ID
		}
	}
	return max + 1
}

func (d *Dataset) nextAnnotationID() int {
	max := 0
	for _, a := range d.Annotations {
		if a.ID > max {
			max = a.ID
		}
	}
	return max + 1
}
