package shotlabel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	c := Decode("far_ad_backhand_volley_DL_non-serve_win")
	assert.Equal(t, Components{
		CourtPosition: FarAd,
		Side:          Backhand,
		ShotType:      Volley,
		Direction:     DownTheLine,
		Formation:     NonServe,
		Outcome:       OutcomeWin,
	}, c)

	c = Decode("near_deuce_forehand_second-serve_W_i-formation_err")
	assert.Equal(t, NearDeuce, c.CourtPosition)
	assert.Equal(t, SecondServe, c.ShotType)
	assert.Equal(t, DirW, c.Direction)
	assert.Equal(t, IFormation, c.Formation)
	assert.Equal(t, OutcomeErr, c.Outcome)
}

func TestDecodeFallsBackToDefaults(t *testing.T) {
	assert.Equal(t, DefaultComponents(), Decode(""))
	assert.Equal(t, DefaultComponents(), Decode("garbage"))

	c := Decode("far_ad_sidespin_volley_XX_non-serve")
	assert.Equal(t, FarAd, c.CourtPosition)
	assert.Equal(t, DefaultSide, c.Side)
	assert.Equal(t, Volley, c.ShotType)
	assert.Equal(t, DefaultDirection, c.Direction)
	assert.Equal(t, NonServe, c.Formation)
	assert.Equal(t, DefaultOutcome, c.Outcome, "missing trailing token")

	//a court position without its half is not a court position
	c = Decode("near_forehand_lob_CC_non-serve_in")
	assert.Equal(t, DefaultCourtPosition, c.CourtPosition)
	assert.Equal(t, Forehand, c.Side)
	assert.Equal(t, Lob, c.ShotType)
}

func TestEncode(t *testing.T) {
	c := Components{FarDeuce, Backhand, Return, DownTheLine, NonServe, OutcomeIn}
	assert.Equal(t, "far_deuce_backhand_return_DL_non-serve_in", c.Encode())
}

func TestRoundTripOverRepairedComponents(t *testing.T) {
	count := 0
	for _, court := range CourtPositions {
		for _, side := range Sides {
			for _, dir := range Directions {
				for _, form := range Formations {
					for _, out := range Outcomes {
						for _, st := range ShotTypes {
							c := Components{court, side, Swing, dir, form, out}.WithShotType(st)
							require.Equal(t, c, Decode(c.Encode()), c.Encode())
							count++
						}
					}
				}
			}
		}
	}
	require.Greater(t, count, 0)
}

func TestDecodeEncodeIsStable(t *testing.T) {
	for _, label := range []string{"", "x_y_z", "far_ad", "near_deuce_backhand_smash_II_non-serve_win_extra"} {
		once := Decode(label).Encode()
		assert.Equal(t, once, Decode(once).Encode())
	}
}

func TestWithShotType(t *testing.T) {
	c := Components{NearDeuce, Forehand, Swing, CrossCourt, NonServe, OutcomeIn}.WithShotType(Serve)
	assert.Equal(t, DirT, c.Direction)
	assert.Equal(t, Conventional, c.Formation)

	c = Components{NearDeuce, Forehand, Serve, DirW, Australian, OutcomeIn}.WithShotType(Volley)
	assert.Equal(t, NonServe, c.Formation)
	assert.Equal(t, CrossCourt, c.Direction)

	//serve values survive a serve to second serve switch
	c = Components{NearDeuce, Forehand, Serve, DirB, IFormation, OutcomeIn}.WithShotType(SecondServe)
	assert.Equal(t, DirB, c.Direction)
	assert.Equal(t, IFormation, c.Formation)

	//rally directions survive a switch between rally shots
	c = Components{NearDeuce, Forehand, Swing, InsideOut, NonServe, OutcomeIn}.WithShotType(Lob)
	assert.Equal(t, InsideOut, c.Direction)
	assert.Equal(t, NonServe, c.Formation)
}

func TestShotLabel(t *testing.T) {
	l := NewShotLabel(3, 120, "far_ad_forehand_smash_CC_non-serve_win")
	assert.Equal(t, "far_ad_forehand_smash_CC_non-serve_win", l.Encoded())
	assert.Equal(t, OutcomeWin, l.Outcome())
}
