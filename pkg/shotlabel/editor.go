package shotlabel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chenBenjamin97/tennis-annotator/pkg/player"
)

var (
	ErrNotEditing   = errors.New("label editor is not in editing mode")
	ErrInvalidLabel = errors.New("label has validation errors")
)

type Mode int

const (
	Viewing Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

//Editor holds the committed label of one shot plus the in-progress edit.
//Edits are always allowed, only SaveChanges is blocked by violations.
type Editor struct {
	handedness player.Handedness
	committed  Components
	draft      Components
	mode       Mode
	violations []string
}

func NewEditor(label string, h player.Handedness) *Editor {
	c := Decode(label)
	e := &Editor{handedness: h, committed: c, draft: c}
	e.revalidate()
	return e
}

func (e *Editor) Mode() Mode {
	return e.mode
}

//Components returns the draft while editing and the committed value otherwise
func (e *Editor) Components() Components {
	if e.mode == Editing {
		return e.draft
	}
	return e.committed
}

func (e *Editor) Committed() Components {
	return e.committed
}

//Encoded is the canonical string of the committed label
func (e *Editor) Encoded() string {
	return e.committed.Encode()
}

func (e *Editor) Violations() []string {
	out := make([]string, len(e.violations))
	copy(out, e.violations)
	return out
}

func (e *Editor) CanSave() bool {
	return e.mode == Editing && len(e.violations) == 0
}

//SetHandedness is used when the shot gets attributed to another player
func (e *Editor) SetHandedness(h player.Handedness) {
	e.handedness = h
	e.revalidate()
}

func (e *Editor) StartEditing() {
	if e.mode == Editing {
		return
	}
	e.draft = e.committed
	e.mode = Editing
	e.revalidate()
}

//CancelEditing drops the draft and returns to the committed label
func (e *Editor) CancelEditing() {
	e.draft = e.committed
	e.mode = Viewing
	e.revalidate()
}

//SaveChanges commits the draft, it fails while the draft has violations
func (e *Editor) SaveChanges() (string, error) {
	if e.mode != Editing {
		return "", ErrNotEditing
	}
	if len(e.violations) > 0 {
		return "", fmt.Errorf("%w: %s", ErrInvalidLabel, strings.Join(e.violations, "; "))
	}

	e.committed = e.draft
	e.mode = Viewing
	return e.committed.Encode(), nil
}

func (e *Editor) SetCourtPosition(v CourtPosition) error {
	return e.edit(func(c *Components) { c.CourtPosition = v })
}

func (e *Editor) SetSide(v Side) error {
	return e.edit(func(c *Components) { c.Side = v })
}

//SetShotType applies the direction/formation repair before validating
func (e *Editor) SetShotType(v ShotType) error {
	return e.edit(func(c *Components) { *c = c.WithShotType(v) })
}

func (e *Editor) SetDirection(v Direction) error {
	return e.edit(func(c *Components) { c.Direction = v })
}

func (e *Editor) SetFormation(v Formation) error {
	return e.edit(func(c *Components) { c.Formation = v })
}

func (e *Editor) SetOutcome(v Outcome) error {
	return e.edit(func(c *Components) { c.Outcome = v })
}

func (e *Editor) edit(apply func(c *Components)) error {
	if e.mode != Editing {
		return ErrNotEditing
	}
	apply(&e.draft)
	e.revalidate()
	return nil
}

func (e *Editor) revalidate() {
	e.violations = Validate(e.Components(), e.handedness)
}
