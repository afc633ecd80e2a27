package rally

import (
	"errors"
	"fmt"

	"github.com/chenBenjamin97/tennis-annotator/pkg/player"
	"github.com/chenBenjamin97/tennis-annotator/pkg/shotlabel"
)

var (
	ErrInvalidRallyIndex = errors.New("invalid rally index")
	ErrInvalidEventIndex = errors.New("invalid event index")
)

//Position is an image pixel location
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

//PlayerDescriptions is keyed by player reference ("p1")
type PlayerDescriptions struct {
	Descriptions map[string]string            `json:"descriptions"`
	Handedness   map[string]player.Handedness `json:"handedness"`
}

//Event is one shot inside a rally, Label is the canonical shot label string
type Event struct {
	Player         string            `json:"player"`
	Frame          int               `json:"frame"`
	Label          string            `json:"label"`
	Outcome        string            `json:"outcome"`
	Handedness     player.Handedness `json:"handedness,omitempty"`
	PlayerPosition *Position         `json:"player_position,omitempty"`
}

type Rally struct {
	PlayerDescriptions PlayerDescriptions `json:"player_descriptons"`
	Events             []Event            `json:"events"`
	NetPosition        *Position          `json:"net_position,omitempty"`
}

//LabelFile is the generated or confirmed label document of a video
type LabelFile struct {
	VideoID string  `json:"video_id"`
	Rallies []Rally `json:"rallies"`
}

//DescriptionsFor builds the player descriptions block out of the annotation categories
func DescriptionsFor(categories []player.Category) PlayerDescriptions {
	pd := PlayerDescriptions{
		Descriptions: make(map[string]string),
		Handedness:   make(map[string]player.Handedness),
	}
	for _, c := range categories {
		pd.Descriptions[player.Ref(c.ID)] = c.DisplayName()
		pd.Handedness[player.Ref(c.ID)] = player.ParseHandedness(string(c.Handedness))
	}
	return pd
}

//ShotLabel decodes the event into its structured form
func (e Event) ShotLabel() (shotlabel.ShotLabel, error) {
	id, err := player.ParseRef(e.Player)
	if err != nil {
		return shotlabel.ShotLabel{}, err
	}
	return shotlabel.NewShotLabel(id, e.Frame, e.Label), nil
}

//HandednessIn prefers the handedness stored on the event, then the rally's player map
func (e Event) HandednessIn(r Rally) player.Handedness {
	if h := player.ParseHandedness(string(e.Handedness)); h != player.Unknown {
		return h
	}
	if r.PlayerDescriptions.Handedness != nil {
		return player.ParseHandedness(string(r.PlayerDescriptions.Handedness[e.Player]))
	}
	return player.Unknown
}

//Canonical rewrites the label in canonical form and syncs the outcome field with it.
//Direction and formation are repaired to the shot type's own vocabulary.
func (e Event) Canonical() Event {
	c := shotlabel.Decode(e.Label)
	c = c.WithShotType(c.ShotType)
	e.Label = c.Encode()
	e.Outcome = string(c.Outcome)
	return e
}

func (f *LabelFile) Event(rallyIndex, eventIndex int) (Event, error) {
	if rallyIndex < 0 || rallyIndex >= len(f.Rallies) {
		return Event{}, ErrInvalidRallyIndex
	}
	events := f.Rallies[rallyIndex].Events
	if eventIndex < 0 || eventIndex >= len(events) {
		return Event{}, ErrInvalidEventIndex
	}
	return events[eventIndex], nil
}

//UpdateEvent replaces one event after canonicalising and validating it.
//On violations nothing is changed and they are returned with shotlabel.ErrInvalidLabel.
func (f *LabelFile) UpdateEvent(rallyIndex, eventIndex int, updated Event) ([]string, error) {
	if _, err := f.Event(rallyIndex, eventIndex); err != nil {
		return nil, err
	}
	if _, err := player.ParseRef(updated.Player); err != nil {
		return nil, err
	}

	r := f.Rallies[rallyIndex]
	updated = updated.Canonical()
	violations := shotlabel.Validate(shotlabel.Decode(updated.Label), updated.HandednessIn(r))
	if len(violations) > 0 {
		return violations, fmt.Errorf("UpdateEvent: %w", shotlabel.ErrInvalidLabel)
	}

	f.Rallies[rallyIndex].Events[eventIndex] = updated
	return nil, nil
}

//Violations validates every event, keyed "rally/event"
func (f *LabelFile) Violations() map[string][]string {
	out := make(map[string][]string)
	for ri, r := range f.Rallies {
		for ei, e := range r.Events {
			if v := shotlabel.Validate(shotlabel.Decode(e.Label), e.HandednessIn(r)); len(v) > 0 {
				out[fmt.Sprintf("%d/%d", ri, ei)] = v
			}
		}
	}
	return out
}

//FillPlayers completes each rally's player descriptions from the annotation categories.
//Entries already present are kept.
func (f *LabelFile) FillPlayers(categories []player.Category) {
	if len(categories) == 0 {
		return
	}
	fromCategories := DescriptionsFor(categories)

	for i := range f.Rallies {
		pd := &f.Rallies[i].PlayerDescriptions
		if pd.Descriptions == nil {
			pd.Descriptions = make(map[string]string)
		}
		if pd.Handedness == nil {
			pd.Handedness = make(map[string]player.Handedness)
		}
		for ref, name := range fromCategories.Descriptions {
			if _, ok := pd.Descriptions[ref]; !ok {
				pd.Descriptions[ref] = name
			}
		}

		//events may reference players as "3" as well as "p3"
		for _, e := range f.Rallies[i].Events {
			if _, ok := pd.Handedness[e.Player]; ok {
				continue
			}
			id, err := player.ParseRef(e.Player)
			if err != nil {
				continue
			}
			if _, found := player.Find(categories, id); found {
				pd.Handedness[e.Player] = player.HandednessOf(categories, id)
			}
		}
	}
}

//CourtPositionFor tells which quarter of the court a player stands in, relative to the net.
//Near means below the net on screen, deuce means left of it.
func CourtPositionFor(net, playerPos *Position) (shotlabel.CourtPosition, bool) {
	if net == nil || playerPos == nil {
		return "", false
	}
	near := playerPos.Y > net.Y
	deuce := playerPos.X < net.X

	switch {
	case near && deuce:
		return shotlabel.NearDeuce, true
	case near:
		return shotlabel.NearAd, true
	case deuce:
		return shotlabel.FarDeuce, true
	default:
		return shotlabel.FarAd, true
	}
}
