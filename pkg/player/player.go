package player

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidRef = errors.New("invalid player reference")

//Handedness is a player's dominant hand
type Handedness string

const (
	Left    Handedness = "left"
	Right   Handedness = "right"
	Unknown Handedness = "unknown"
)

//ParseHandedness maps any unrecognised value to Unknown
func ParseHandedness(s string) Handedness {
	switch Handedness(strings.ToLower(strings.TrimSpace(s))) {
	case Left:
		return Left
	case Right:
		return Right
	default:
		return Unknown
	}
}

//Category is one tracked subject of a video (a player slot), ids start at 1
type Category struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Handedness Handedness `json:"handedness"`
}

//DisplayName returns the category name, or a generic "Player N" when it has none
func (c Category) DisplayName() string {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Sprintf("Player %d", c.ID)
	}
	return c.Name
}

//Find returns the category with given id
func Find(categories []Category, id int) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

//HandednessOf returns Unknown for ids missing from categories
func HandednessOf(categories []Category, id int) Handedness {
	if c, ok := Find(categories, id); ok {
		return ParseHandedness(string(c.Handedness))
	}
	return Unknown
}

//Ref formats a category id the way label documents reference players ("p3")
func Ref(id int) string {
	return "p" + strconv.Itoa(id)
}

//ParseRef accepts both "p3" and "3"
func ParseRef(ref string) (int, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(ref), "p")
	id, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("ParseRef: %w '%s'", ErrInvalidRef, ref)
	}
	return id, nil
}
