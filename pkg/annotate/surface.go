package annotate

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" //frames are extracted as jpg
	_ "image/png"
	"io"

	"github.com/chenBenjamin97/tennis-annotator/pkg/player"
)

//DefaultMinBoxSize is the smallest accepted box side in image pixels, smaller drags count as clicks
const DefaultMinBoxSize = 5

var (
	ErrInvalidImage = errors.New("invalid image dimensions")
	ErrNotReady     = errors.New("surface has no loaded image")
)

//Surface owns the boxes of one displayed image and turns pointer gestures on a scaled
//display into image space edits. It is not safe for concurrent use.
type Surface struct {
	categories      []player.Category
	minBoxSize      float64
	requireCategory bool

	ready        bool
	nativeWidth  int
	nativeHeight int
	viewport     Viewport
	hasViewport  bool
	transform    Transform

	boxes      []BoundingBox
	annotating bool
	categoryID int
	selected   int

	drawing   bool
	start     Point
	draft     BoundingBox
	cursor    Point
	hasCursor bool
}

//NewSurface returns a surface in the "not ready" state, waiting for LoadImage
func NewSurface(categories []player.Category, minBoxSize float64, requireCategory bool) *Surface {
	if minBoxSize <= 0 {
		minBoxSize = DefaultMinBoxSize
	}
	cats := make([]player.Category, len(categories))
	copy(cats, categories)

	return &Surface{
		categories:      cats,
		minBoxSize:      minBoxSize,
		requireCategory: requireCategory,
		selected:        -1,
	}
}

//Reset drops all boxes and transient drawing state and waits for the next image.
//An in-progress draw is abandoned.
func (s *Surface) Reset() {
	s.ready = false
	s.nativeWidth, s.nativeHeight = 0, 0
	s.boxes = nil
	s.selected = -1
	s.drawing = false
	s.draft = BoundingBox{}
	s.hasCursor = false
}

//LoadImage resets the surface for a new image with given native dimensions.
//On invalid dimensions the surface stays not ready and rejects pointer input.
func (s *Surface) LoadImage(width, height int) error {
	s.Reset()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("LoadImage: %w (%dx%d)", ErrInvalidImage, width, height)
	}

	s.nativeWidth, s.nativeHeight = width, height
	if !s.hasViewport {
		s.viewport = Viewport{Width: float64(width), Height: float64(height)}
	}

	t, err := NewTransform(s.viewport, width, height)
	if err != nil {
		return fmt.Errorf("LoadImage: %w", err)
	}
	s.transform = t
	s.ready = true
	return nil
}

//LoadImageData reads only the image header to learn its native dimensions
func (s *Surface) LoadImageData(r io.Reader) error {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		s.Reset()
		return fmt.Errorf("LoadImageData: %w: %v", ErrInvalidImage, err)
	}
	return s.LoadImage(cfg.Width, cfg.Height)
}

//Resize records where the image is now drawn on screen and recomputes the scale factors
func (s *Surface) Resize(vp Viewport) error {
	if vp.Width <= 0 || vp.Height <= 0 {
		return ErrInvalidViewport
	}
	s.viewport = vp
	s.hasViewport = true

	if !s.ready {
		return nil
	}
	t, err := NewTransform(vp, s.nativeWidth, s.nativeHeight)
	if err != nil {
		return err
	}
	s.transform = t
	return nil
}

func (s *Surface) Ready() bool {
	return s.ready
}

//ImageSize returns the native dimensions of the loaded image
func (s *Surface) ImageSize() (int, int) {
	return s.nativeWidth, s.nativeHeight
}

func (s *Surface) Viewport() Viewport {
	return s.viewport
}

//Transform is only meaningful while Ready
func (s *Surface) Transform() Transform {
	return s.transform
}

func (s *Surface) Categories() []player.Category {
	cats := make([]player.Category, len(s.categories))
	copy(cats, s.categories)
	return cats
}

//SetAnnotating toggles draw mode, leaving it abandons an in-progress box
func (s *Surface) SetAnnotating(on bool) {
	s.annotating = on
	if !on {
		s.drawing = false
		s.draft = BoundingBox{}
	}
}

func (s *Surface) Annotating() bool {
	return s.annotating
}

//SelectCategory picks the category new boxes get, 0 clears the selection
func (s *Surface) SelectCategory(id int) bool {
	if id == 0 {
		s.categoryID = 0
		return true
	}
	if _, ok := player.Find(s.categories, id); !ok {
		return false
	}
	s.categoryID = id
	return true
}

func (s *Surface) SelectedCategory() int {
	return s.categoryID
}

//PointerDown starts a box while annotating, otherwise hit-tests existing boxes
func (s *Surface) PointerDown(clientX, clientY float64) {
	if !s.ready {
		return
	}
	p := s.transform.ToImage(clientX, clientY)
	s.cursor, s.hasCursor = p, true

	if s.annotating {
		s.BeginDraw(p)
		return
	}
	s.SelectAt(p)
}

func (s *Surface) PointerMove(clientX, clientY float64) {
	if !s.ready {
		return
	}
	p := s.transform.ToImage(clientX, clientY)
	s.cursor, s.hasCursor = p, true
	s.UpdateDraw(p)
}

//PointerUp finishes a draw, returning the index of the added box if one was kept
func (s *Surface) PointerUp(clientX, clientY float64) (int, bool) {
	if !s.ready || !s.drawing {
		return -1, false
	}
	p := s.transform.ToImage(clientX, clientY)
	s.UpdateDraw(p)
	return s.CommitDraw()
}

//PointerLeave only hides the guide lines
func (s *Surface) PointerLeave() {
	s.hasCursor = false
}

//BeginDraw records the start corner, it is a no-op unless annotating with a usable category
func (s *Surface) BeginDraw(p Point) bool {
	if !s.ready || !s.annotating {
		return false
	}
	if s.requireCategory && s.categoryID == 0 {
		return false
	}

	s.drawing = true
	s.start = p
	s.draft = BoundingBox{X: p.X, Y: p.Y, CategoryID: s.categoryID, Label: s.labelFor(s.categoryID)}
	return true
}

func (s *Surface) UpdateDraw(p Point) {
	if !s.drawing {
		return
	}
	box := NormalizedBox(s.start, p)
	box.CategoryID = s.categoryID
	box.Label = s.labelFor(s.categoryID)
	s.draft = box
}

//CommitDraw keeps the in-progress box when it exceeds the minimum size on both axes.
//Smaller boxes are dropped silently.
func (s *Surface) CommitDraw() (int, bool) {
	if !s.drawing {
		return -1, false
	}
	box := s.draft
	s.drawing = false
	s.draft = BoundingBox{}

	if box.Width <= s.minBoxSize || box.Height <= s.minBoxSize {
		return -1, false
	}
	s.boxes = append(s.boxes, box)
	return len(s.boxes) - 1, true
}

//Draft returns the uncommitted box while a draw is in progress
func (s *Surface) Draft() (BoundingBox, bool) {
	return s.draft, s.drawing
}

//Cursor returns the last pointer position in image space
func (s *Surface) Cursor() (Point, bool) {
	return s.cursor, s.hasCursor
}

//SelectAt hit-tests in reverse insertion order so the topmost box wins
func (s *Surface) SelectAt(p Point) (int, bool) {
	for i := len(s.boxes) - 1; i >= 0; i-- {
		if s.boxes[i].Contains(p) {
			s.selected = i
			return i, true
		}
	}
	s.selected = -1
	return -1, false
}

func (s *Surface) Selected() (int, bool) {
	return s.selected, s.selected >= 0
}

func (s *Surface) UpdateCategory(index, categoryID int) bool {
	if index < 0 || index >= len(s.boxes) {
		return false
	}
	s.boxes[index].CategoryID = categoryID
	s.boxes[index].Label = s.labelFor(categoryID)
	return true
}

func (s *Surface) Delete(index int) bool {
	if index < 0 || index >= len(s.boxes) {
		return false
	}
	s.boxes = append(s.boxes[:index], s.boxes[index+1:]...)

	switch {
	case s.selected == index:
		s.selected = -1
	case s.selected > index:
		s.selected--
	}
	return true
}

//Restore replaces the box set with previously saved boxes, skipping degenerate ones
func (s *Surface) Restore(boxes []BoundingBox) error {
	if !s.ready {
		return ErrNotReady
	}
	s.boxes = make([]BoundingBox, 0, len(boxes))
	for _, b := range boxes {
		if !b.Valid() {
			continue
		}
		b.Label = s.labelFor(b.CategoryID)
		s.boxes = append(s.boxes, b)
	}
	s.selected = -1
	return nil
}

//Boxes returns a snapshot copy of the committed boxes
func (s *Surface) Boxes() []BoundingBox {
	out := make([]BoundingBox, len(s.boxes))
	copy(out, s.boxes)
	return out
}

func (s *Surface) labelFor(categoryID int) string {
	if c, ok := player.Find(s.categories, categoryID); ok {
		return c.DisplayName()
	}
	if categoryID == 0 {
		return ""
	}
	return player.Category{ID: categoryID}.DisplayName()
}
