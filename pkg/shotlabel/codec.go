package shotlabel

import "strings"

//Separator joins the label components
const Separator = "_"

//Components is the structured form of a shot label
type Components struct {
	CourtPosition CourtPosition `json:"court_position"`
	Side          Side          `json:"side"`
	ShotType      ShotType      `json:"shot_type"`
	Direction     Direction     `json:"direction"`
	Formation     Formation     `json:"formation"`
	Outcome       Outcome       `json:"outcome"`
}

//DefaultComponents is what an empty or unreadable label decodes to
func DefaultComponents() Components {
	return Components{
		CourtPosition: DefaultCourtPosition,
		Side:          DefaultSide,
		ShotType:      DefaultShotType,
		Direction:     DefaultDirection,
		Formation:     DefaultFormation,
		Outcome:       DefaultOutcome,
	}
}

//Decode never fails: every unknown or missing token becomes its default.
//The court position takes two tokens when the second one is "ad" or "deuce".
func Decode(label string) Components {
	tokens := strings.Split(strings.TrimSpace(label), Separator)

	court := tokens[0]
	rest := tokens[1:]
	if len(tokens) > 1 && (tokens[1] == "ad" || tokens[1] == "deuce") {
		court = tokens[0] + Separator + tokens[1]
		rest = tokens[2:]
	}

	c := Components{}
	c.CourtPosition, _ = ParseCourtPosition(court)
	c.Side, _ = ParseSide(at(rest, 0))
	c.ShotType, _ = ParseShotType(at(rest, 1))
	c.Direction, _ = ParseDirection(at(rest, 2))
	c.Formation, _ = ParseFormation(at(rest, 3))
	c.Outcome, _ = ParseOutcome(at(rest, 4))
	return c
}

//Encode is the inverse of Decode for every decoded value
func (c Components) Encode() string {
	return strings.Join([]string{
		string(c.CourtPosition),
		string(c.Side),
		string(c.ShotType),
		string(c.Direction),
		string(c.Formation),
		string(c.Outcome),
	}, Separator)
}

func (c Components) String() string {
	return c.Encode()
}

//WithShotType changes the shot type and repairs direction and formation so they stay in
//the vocabulary the new type allows
func (c Components) WithShotType(t ShotType) Components {
	c.ShotType = t
	if t.IsServe() {
		if !c.Direction.IsServeDirection() {
			c.Direction = DirT
		}
		if !c.Formation.IsServeFormation() {
			c.Formation = Conventional
		}
		return c
	}

	c.Formation = NonServe
	if c.Direction.IsServeDirection() {
		c.Direction = CrossCourt
	}
	return c
}

func at(tokens []string, i int) string {
	if i < len(tokens) {
		return tokens[i]
	}
	return ""
}
