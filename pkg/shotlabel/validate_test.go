package shotlabel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chenBenjamin97/tennis-annotator/pkg/player"
)

func rally(court CourtPosition, side Side, st ShotType, dir Direction) Components {
	return Components{court, side, Swing, dir, NonServe, OutcomeIn}.WithShotType(st)
}

func TestValidate_RightHanded(t *testing.T) {
	assert.NotEmpty(t, Validate(rally(NearAd, Forehand, Volley, CrossCourt), player.Right))
	assert.Empty(t, Validate(rally(NearAd, Forehand, Volley, InsideOut), player.Right))
}

func TestValidate_LeftHanded(t *testing.T) {
	assert.Empty(t, Validate(rally(FarDeuce, Backhand, Return, DownTheLine), player.Left))
	assert.NotEmpty(t, Validate(rally(FarDeuce, Backhand, Return, InsideIn), player.Left))
}

func TestValidate_Table(t *testing.T) {
	cases := []struct {
		h       player.Handedness
		court   CourtPosition
		side    Side
		allowed []Direction
	}{
		{player.Right, NearAd, Backhand, []Direction{CrossCourt, DownTheLine}},
		{player.Right, FarAd, Forehand, []Direction{InsideIn, InsideOut}},
		{player.Right, NearDeuce, Forehand, []Direction{CrossCourt, DownTheLine}},
		{player.Right, FarDeuce, Backhand, []Direction{InsideIn, InsideOut}},
		{player.Left, NearAd, Forehand, []Direction{CrossCourt, DownTheLine}},
		{player.Left, FarAd, Backhand, []Direction{InsideIn, InsideOut}},
		{player.Left, NearDeuce, Backhand, []Direction{CrossCourt, DownTheLine}},
		{player.Left, FarDeuce, Forehand, []Direction{InsideIn, InsideOut}},
	}

	for _, tc := range cases {
		for _, dir := range RallyDirections {
			violations := Validate(rally(tc.court, tc.side, Smash, dir), tc.h)
			if contains(tc.allowed, dir) {
				assert.Empty(t, violations, "%s %s %s %s", tc.h, tc.court, tc.side, dir)
			} else {
				assert.Len(t, violations, 1, "%s %s %s %s", tc.h, tc.court, tc.side, dir)
			}
		}
	}
}

func TestValidate_UnknownHandednessActsRightHanded(t *testing.T) {
	for _, court := range CourtPositions {
		for _, side := range Sides {
			for _, dir := range RallyDirections {
				c := rally(court, side, Lob, dir)
				assert.Equal(t, Validate(c, player.Right), Validate(c, player.Unknown))
			}
		}
	}
}

func TestValidate_ServeBypass(t *testing.T) {
	for _, st := range []ShotType{Serve, SecondServe} {
		for _, court := range CourtPositions {
			for _, side := range Sides {
				for _, dir := range Directions {
					for _, h := range []player.Handedness{player.Left, player.Right, player.Unknown} {
						c := Components{court, side, st, dir, Conventional, OutcomeIn}
						assert.Empty(t, Validate(c, h))
					}
				}
			}
		}
	}
}

func TestValidate_UnknownValues(t *testing.T) {
	c := Components{"mid_court", "slice", Volley, CrossCourt, NonServe, "let"}
	assert.Len(t, Validate(c, player.Right), 3)
}
