package shotlabel

import (
	"fmt"

	"github.com/chenBenjamin97/tennis-annotator/pkg/player"
)

var (
	straightDirections = []Direction{CrossCourt, DownTheLine}
	insideDirections   = []Direction{InsideIn, InsideOut}
)

//Validate returns the constraint violations of c for a player with handedness h.
//Values outside the vocabularies are always reported; side/direction legality is not
//checked for serves. Unknown handedness is validated as right-handed.
func Validate(c Components, h player.Handedness) []string {
	violations := vocabularyViolations(c)
	if len(violations) > 0 || c.ShotType.IsServe() {
		return violations
	}

	allowed := AllowedDirections(c.CourtPosition, c.Side, h)
	if !contains(allowed, c.Direction) {
		violations = append(violations, fmt.Sprintf("%s %s from the %s court must be hit %s or %s, got %s",
			handLabel(h), c.Side, c.CourtPosition.Half(), allowed[0], allowed[1], c.Direction))
	}
	return violations
}

//AllowedDirections lists the legal rally directions for a side played from a court half.
//The side that plays cross court or down the line is the forehand on the deuce side for
//right-handers and the backhand for left-handers; the ad side mirrors it.
func AllowedDirections(court CourtPosition, side Side, h player.Handedness) []Direction {
	straightSide := Forehand
	if court.Half() == "ad" {
		straightSide = Backhand
	}
	if h == player.Left {
		straightSide = opposite(straightSide)
	}

	if side == straightSide {
		return straightDirections
	}
	return insideDirections
}

func vocabularyViolations(c Components) []string {
	var violations []string
	if !contains(CourtPositions, c.CourtPosition) {
		violations = append(violations, fmt.Sprintf("unknown court position '%s'", c.CourtPosition))
	}
	if !contains(Sides, c.Side) {
		violations = append(violations, fmt.Sprintf("unknown side '%s'", c.Side))
	}
	if !contains(ShotTypes, c.ShotType) {
		violations = append(violations, fmt.Sprintf("unknown shot type '%s'", c.ShotType))
	}
	if !contains(Outcomes, c.Outcome) {
		violations = append(violations, fmt.Sprintf("unknown outcome '%s'", c.Outcome))
	}
	if !contains(Directions, c.Direction) {
		violations = append(violations, fmt.Sprintf("unknown direction '%s'", c.Direction))
	}
	if !contains(Formations, c.Formation) {
		violations = append(violations, fmt.Sprintf("unknown formation '%s'", c.Formation))
	}
	return violations
}

func opposite(s Side) Side {
	if s == Forehand {
		return Backhand
	}
	return Forehand
}

func handLabel(h player.Handedness) string {
	if h == player.Left {
		return "left-handed"
	}
	return "right-handed"
}
