package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chenBenjamin97/tennis-annotator/pkg/annotate"
	"github.com/chenBenjamin97/tennis-annotator/pkg/coco"
	"github.com/chenBenjamin97/tennis-annotator/pkg/player"
	"github.com/chenBenjamin97/tennis-annotator/pkg/rally"
	"github.com/chenBenjamin97/tennis-annotator/pkg/shotlabel"
	"github.com/chenBenjamin97/tennis-annotator/pkg/storage"
)

func seedLabels(t *testing.T, ts *testServer) {
	file := &rally.LabelFile{
		VideoID: "match",
		Rallies: []rally.Rally{{
			PlayerDescriptions: rally.DescriptionsFor([]player.Category{
				{ID: 1, Name: "Federer", Handedness: player.Right},
				{ID: 2, Name: "Nadal", Handedness: player.Left},
			}),
			NetPosition: &rally.Position{X: 640, Y: 360},
			Events: []rally.Event{
				{Player: "p1", Frame: 10, Label: "near_deuce_forehand_serve_T_conventional_in", Outcome: "in", PlayerPosition: &rally.Position{X: 500, Y: 600}},
				{Player: "p2", Frame: 42, Label: "far_ad_forehand_swing_CC_non-serve_in", Outcome: "in"},
			},
		}},
	}
	require.NoError(t, ts.store.Save(context.Background(), "match", storage.Generated, file))
}

func TestLabels_CheckGetConfirm(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/label/check/match", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/label/confirm/match", nil).Code)

	seedLabels(t, ts)

	w = ts.do(t, http.MethodGet, "/api/label/check/match", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var check struct {
		Exists    bool `json:"exists"`
		Confirmed bool `json:"confirmed"`
	}
	decodeBody(t, w, &check)
	assert.True(t, check.Exists)
	assert.False(t, check.Confirmed)

	w = ts.do(t, http.MethodGet, "/api/label/get/match", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Data   rally.LabelFile `json:"data"`
		Source string          `json:"source"`
	}
	decodeBody(t, w, &got)
	assert.Equal(t, "generated", got.Source)
	require.Len(t, got.Data.Rallies, 1)
	assert.Equal(t, "Nadal", got.Data.Rallies[0].PlayerDescriptions.Descriptions["p2"])

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/label/confirm/match", nil).Code)
	w = ts.do(t, http.MethodGet, "/api/label/check/match", nil)
	decodeBody(t, w, &check)
	assert.True(t, check.Confirmed)
}

func TestLabels_Event(t *testing.T) {
	ts := newTestServer(t)
	seedLabels(t, ts)

	w := ts.do(t, http.MethodGet, "/api/label/event/match?rally=0&event=0", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view eventView
	decodeBody(t, w, &view)
	assert.Equal(t, 1, view.PlayerID)
	assert.Equal(t, shotlabel.Serve, view.Components.ShotType)
	assert.Equal(t, player.Right, view.Handedness)
	assert.Equal(t, shotlabel.NearDeuce, view.CourtPosition)
	assert.Equal(t, shotlabel.ServeDirections, view.AllowedDirections)
	assert.Empty(t, view.Violations)

	//left-hander forehand from the ad court plays straight
	w = ts.do(t, http.MethodGet, "/api/label/event/match?rally=0&event=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view = eventView{}
	decodeBody(t, w, &view)
	assert.Equal(t, player.Left, view.Handedness)
	assert.Equal(t, []shotlabel.Direction{shotlabel.CrossCourt, shotlabel.DownTheLine}, view.AllowedDirections)
	assert.Empty(t, view.CourtPosition)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/label/event/match?rally=3&event=0", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/label/event/match?rally=0&event=9", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/label/event/match?rally=a", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/label/event/other?rally=0&event=0", nil).Code)
}

func TestLabels_Update(t *testing.T) {
	ts := newTestServer(t)
	seedLabels(t, ts)
	zero, one := 0, 1

	//right-handed forehand from the deuce court cannot be hit inside in
	bad := rally.Event{Player: "p1", Frame: 80, Label: "near_deuce_forehand_swing_II_non-serve_in"}
	w := ts.do(t, http.MethodPost, "/api/label/update/match", updateLabelRequest{RallyIndex: &zero, EventIndex: &zero, UpdatedEvent: &bad})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var rejected struct {
		Violations []string `json:"violations"`
	}
	decodeBody(t, w, &rejected)
	require.Len(t, rejected.Violations, 1)
	assert.Contains(t, rejected.Violations[0], "CC or DL")

	_, source, err := ts.store.Load(context.Background(), "match")
	require.NoError(t, err)
	assert.Equal(t, storage.Generated, source, "nothing saved on violations")

	good := rally.Event{Player: "p2", Frame: 42, Label: "far_ad_backhand_swing_IO_non-serve_win"}
	w = ts.do(t, http.MethodPost, "/api/label/update/match", updateLabelRequest{RallyIndex: &zero, EventIndex: &one, UpdatedEvent: &good})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	file, source, err := ts.store.Load(context.Background(), "match")
	require.NoError(t, err)
	assert.Equal(t, storage.Confirmed, source)
	assert.Equal(t, "win", file.Rallies[0].Events[1].Outcome)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/label/update/match", updateLabelRequest{RallyIndex: &zero}).Code)
	bogus := rally.Event{Player: "someone", Label: good.Label}
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/label/update/match", updateLabelRequest{RallyIndex: &zero, EventIndex: &one, UpdatedEvent: &bogus}).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/label/update/match", updateLabelRequest{RallyIndex: &one, EventIndex: &zero, UpdatedEvent: &good}).Code)
}

func TestLabels_ImportAndViolations(t *testing.T) {
	ts := newTestServer(t)

	file := rally.LabelFile{Rallies: []rally.Rally{{
		Events: []rally.Event{
			{Player: "p1", Frame: 1, Label: "near_ad_forehand_swing_CC_non-serve_err"},
			{Player: "p1", Frame: 9, Label: "garbage"},
		},
	}}}
	w := ts.do(t, http.MethodPost, "/api/label/import/match", file)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, source, err := ts.store.Load(context.Background(), "match")
	require.NoError(t, err)
	assert.Equal(t, storage.Generated, source)
	assert.Equal(t, "match", stored.VideoID)
	assert.Equal(t, "err", stored.Rallies[0].Events[0].Outcome)
	assert.Equal(t, shotlabel.DefaultComponents().Encode(), stored.Rallies[0].Events[1].Label)

	w = ts.do(t, http.MethodGet, "/api/label/violations/match", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report struct {
		Violations map[string][]string `json:"violations"`
		Count      int                 `json:"count"`
	}
	decodeBody(t, w, &report)
	assert.Equal(t, 1, report.Count)
	assert.Contains(t, report.Violations, "0/0")

	file.Rallies[0].Events[0].Player = "nobody"
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/label/import/match", file).Code)
}

func TestLabels_DecodeAndShotType(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/label/decode", decodeLabelRequest{Label: "far_ad_backhand_volley_DL_non-serve_win", Handedness: "unknown"})
	require.Equal(t, http.StatusOK, w.Code)
	var view labelView
	decodeBody(t, w, &view)
	assert.Equal(t, shotlabel.FarAd, view.Components.CourtPosition)
	assert.Equal(t, shotlabel.Volley, view.Components.ShotType)
	assert.Equal(t, "far_ad_backhand_volley_DL_non-serve_win", view.Label)
	assert.Empty(t, view.Violations)

	w = ts.do(t, http.MethodPost, "/api/label/shot-type", shotTypeRequest{Label: "near_deuce_forehand_serve_W_australian_in", ShotType: "swing"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &view)
	assert.Equal(t, shotlabel.CrossCourt, view.Components.Direction)
	assert.Equal(t, shotlabel.NonServe, view.Components.Formation)
	assert.Equal(t, "near_deuce_forehand_swing_CC_non-serve_in", view.Label)

	w = ts.do(t, http.MethodPost, "/api/label/shot-type", shotTypeRequest{Label: "near_deuce_forehand_swing_DL_non-serve_in", ShotType: "second-serve"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &view)
	assert.Equal(t, shotlabel.DirT, view.Components.Direction)
	assert.Equal(t, shotlabel.Conventional, view.Components.Formation)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/label/shot-type", shotTypeRequest{ShotType: "drop"}).Code)
}

func TestLabels_ConcurrentUpdatesAllPersist(t *testing.T) {
	ts := newTestServer(t)

	const n = 30
	events := make([]rally.Event, n)
	for i := range events {
		events[i] = rally.Event{Player: "p1", Frame: i, Label: "near_deuce_forehand_swing_CC_non-serve_in", Outcome: "in"}
	}
	file := &rally.LabelFile{VideoID: "match", Rallies: []rally.Rally{{Events: events}}}
	require.NoError(t, ts.store.Save(context.Background(), "match", storage.Generated, file))

	zero := 0
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			index := i
			updated := rally.Event{Player: "p1", Frame: i, Label: "near_deuce_forehand_swing_DL_non-serve_win"}
			w := ts.do(t, http.MethodPost, "/api/label/update/match", updateLabelRequest{RallyIndex: &zero, EventIndex: &index, UpdatedEvent: &updated})
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		}(i)
	}
	wg.Wait()

	stored, source, err := ts.store.Load(context.Background(), "match")
	require.NoError(t, err)
	assert.Equal(t, storage.Confirmed, source)
	for i, e := range stored.Rallies[0].Events {
		assert.Equal(t, "near_deuce_forehand_swing_DL_non-serve_win", e.Label, fmt.Sprintf("event %d", i))
		assert.Equal(t, "win", e.Outcome)
	}
}

func TestLabels_UpdateRepairsShotTypeVocabulary(t *testing.T) {
	ts := newTestServer(t)
	seedLabels(t, ts)
	zero, one := 0, 1

	volley := rally.Event{Player: "p2", Frame: 42, Label: "far_ad_forehand_volley_CC_australian_in"}
	w := ts.do(t, http.MethodPost, "/api/label/update/match", updateLabelRequest{RallyIndex: &zero, EventIndex: &one, UpdatedEvent: &volley})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	serve := rally.Event{Player: "p1", Frame: 10, Label: "near_deuce_forehand_serve_CC_non-serve_in"}
	w = ts.do(t, http.MethodPost, "/api/label/update/match", updateLabelRequest{RallyIndex: &zero, EventIndex: &zero, UpdatedEvent: &serve})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, _, err := ts.store.Load(context.Background(), "match")
	require.NoError(t, err)
	assert.Equal(t, "near_deuce_forehand_serve_T_conventional_in", stored.Rallies[0].Events[0].Label)
	assert.Equal(t, "far_ad_forehand_volley_CC_non-serve_in", stored.Rallies[0].Events[1].Label)
}

func TestLabels_ImportFillsPlayersFromAnnotations(t *testing.T) {
	ts := newTestServer(t)

	require.NoError(t, ts.store.SaveFrame(context.Background(), "match", coco.Frame{
		FileName:   "frame_0001.png",
		Width:      200,
		Height:     100,
		Boxes:      []annotate.BoundingBox{{X: 1, Y: 1, Width: 20, Height: 20, CategoryID: 1}},
		Categories: []player.Category{{ID: 1, Name: "Nadal", Handedness: player.Left}},
	}))

	//right-handed this would be a violation, left-handed it is a straight forehand
	file := rally.LabelFile{Rallies: []rally.Rally{{
		Events: []rally.Event{{Player: "p1", Frame: 1, Label: "near_ad_forehand_swing_CC_non-serve_in"}},
	}}}
	w := ts.do(t, http.MethodPost, "/api/label/import/match", file)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report struct {
		Count int `json:"count"`
	}
	decodeBody(t, w, &report)
	assert.Equal(t, 0, report.Count)

	stored, _, err := ts.store.Load(context.Background(), "match")
	require.NoError(t, err)
	pd := stored.Rallies[0].PlayerDescriptions
	assert.Equal(t, "Nadal", pd.Descriptions["p1"])
	assert.Equal(t, player.Left, pd.Handedness["p1"])
}
