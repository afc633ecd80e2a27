package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chenBenjamin97/tennis-annotator/pkg/player"
	"github.com/chenBenjamin97/tennis-annotator/pkg/rally"
	"github.com/chenBenjamin97/tennis-annotator/pkg/shotlabel"
	"github.com/chenBenjamin97/tennis-annotator/pkg/storage"
	"github.com/chenBenjamin97/tennis-annotator/pkg/utils"
)

type updateLabelRequest struct {
	RallyIndex   *int         `json:"rallyIndex"`
	EventIndex   *int         `json:"eventIndex"`
	UpdatedEvent *rally.Event `json:"updatedEvent"`
}

type decodeLabelRequest struct {
	Label      string `json:"label"`
	Handedness string `json:"handedness"`
}

type shotTypeRequest struct {
	Label      string `json:"label"`
	ShotType   string `json:"shot_type" binding:"required"`
	Handedness string `json:"handedness"`
}

//labelView is what an editor needs to show one label
type labelView struct {
	Label             string                `json:"label"`
	Components        shotlabel.Components  `json:"components"`
	Handedness        player.Handedness     `json:"handedness"`
	AllowedDirections []shotlabel.Direction `json:"allowed_directions"`
	Violations        []string              `json:"violations"`
}

type eventView struct {
	labelView
	Event         rally.Event             `json:"event"`
	PlayerID      int                     `json:"player_id"`
	CourtPosition shotlabel.CourtPosition `json:"court_position,omitempty"`
}

func newLabelView(c shotlabel.Components, h player.Handedness) labelView {
	directions := shotlabel.ServeDirections
	if !c.ShotType.IsServe() {
		directions = shotlabel.AllowedDirections(c.CourtPosition, c.Side, h)
	}
	violations := shotlabel.Validate(c, h)
	if violations == nil {
		violations = []string{}
	}
	return labelView{
		Label:             c.Encode(),
		Components:        c,
		Handedness:        h,
		AllowedDirections: directions,
		Violations:        violations,
	}
}

func (s *Server) loadLabels(ctx *gin.Context) (string, *rally.LabelFile, storage.Source, bool) {
	videoID, err := utils.SafeName(ctx.Param("video_id"))
	if err != nil {
		abortWithError(ctx, err)
		return "", nil, "", false
	}
	file, source, err := s.labels.Load(ctx.Request.Context(), videoID)
	if err != nil {
		abortWithError(ctx, err)
		return "", nil, "", false
	}
	return videoID, file, source, true
}

func (s *Server) checkLabels(ctx *gin.Context) {
	videoID, err := utils.SafeName(ctx.Param("video_id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	found, confirmed, err := storage.Exists(ctx.Request.Context(), s.labels, videoID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	if !found {
		ctx.JSON(http.StatusNotFound, gin.H{"exists": false, "message": "No labelled data found for this video"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"exists": true, "message": "Labelled data found", "confirmed": confirmed})
}

func (s *Server) getLabels(ctx *gin.Context) {
	_, file, source, ok := s.loadLabels(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": file, "source": source})
}

//getLabelEvent answers ?rally=<i>&event=<j> with the decoded event and what is legal for it
func (s *Server) getLabelEvent(ctx *gin.Context) {
	rallyIndex, err1 := strconv.Atoi(ctx.Query("rally"))
	eventIndex, err2 := strconv.Atoi(ctx.Query("event"))
	if err1 != nil || err2 != nil {
		abortWithError(ctx, fmt.Errorf("%w: rally and event query parameters must be integers", errBadRequest))
		return
	}

	_, file, _, ok := s.loadLabels(ctx)
	if !ok {
		return
	}
	event, err := file.Event(rallyIndex, eventIndex)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	label, err := event.ShotLabel()
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	r := file.Rallies[rallyIndex]
	view := eventView{
		labelView: newLabelView(label.Components, event.HandednessIn(r)),
		Event:     event,
		PlayerID:  label.Player,
	}
	if court, ok := rally.CourtPositionFor(r.NetPosition, event.PlayerPosition); ok {
		view.CourtPosition = court
	}
	ctx.JSON(http.StatusOK, view)
}

func (s *Server) labelViolations(ctx *gin.Context) {
	_, file, source, ok := s.loadLabels(ctx)
	if !ok {
		return
	}
	violations := file.Violations()
	ctx.JSON(http.StatusOK, gin.H{"violations": violations, "count": len(violations), "source": source})
}

//updateLabel always writes into the confirmed tier, a label with violations is not saved
func (s *Server) updateLabel(ctx *gin.Context) {
	var req updateLabelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if req.RallyIndex == nil || req.EventIndex == nil || req.UpdatedEvent == nil {
		abortWithError(ctx, fmt.Errorf("%w: rallyIndex, eventIndex and updatedEvent are required", errBadRequest))
		return
	}

	videoID, err := utils.SafeName(ctx.Param("video_id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	var (
		violations []string
		event      rally.Event
	)
	err = s.labels.Update(ctx.Request.Context(), videoID, func(file *rally.LabelFile) error {
		v, err := file.UpdateEvent(*req.RallyIndex, *req.EventIndex, *req.UpdatedEvent)
		violations = v
		if err != nil {
			return err
		}
		event, err = file.Event(*req.RallyIndex, *req.EventIndex)
		return err
	})
	if errors.Is(err, shotlabel.ErrInvalidLabel) {
		ctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "violations": violations})
		return
	}
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	log.Printf("api/label/update: '%s' rally %d event %d set to '%s'", videoID, *req.RallyIndex, *req.EventIndex, event.Label)
	ctx.JSON(http.StatusOK, gin.H{"message": "Label updated successfully", "event": event})
}

func (s *Server) confirmLabels(ctx *gin.Context) {
	videoID, err := utils.SafeName(ctx.Param("video_id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	if err := s.labels.Confirm(ctx.Request.Context(), videoID); err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Labels confirmed", "video_id": videoID})
}

//importLabels stores an externally generated document in the generated tier.
//Labels are canonicalised; violations are reported but do not block the import.
//Missing player descriptions are filled from the video's annotation categories.
func (s *Server) importLabels(ctx *gin.Context) {
	videoID, err := utils.SafeName(ctx.Param("video_id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	var file rally.LabelFile
	if err := ctx.ShouldBindJSON(&file); err != nil {
		abortWithError(ctx, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	file.VideoID = videoID
	for ri := range file.Rallies {
		for ei, e := range file.Rallies[ri].Events {
			if _, err := player.ParseRef(e.Player); err != nil {
				abortWithError(ctx, fmt.Errorf("rally %d event %d: %w", ri, ei, err))
				return
			}
			file.Rallies[ri].Events[ei] = e.Canonical()
		}
	}

	dataset, err := s.annotations.Dataset(ctx.Request.Context(), videoID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		abortWithError(ctx, err)
		return
	}
	if dataset != nil {
		file.FillPlayers(dataset.PlayerCategories())
	}

	if err := s.labels.Save(ctx.Request.Context(), videoID, storage.Generated, &file); err != nil {
		abortWithError(ctx, err)
		return
	}
	violations := file.Violations()
	ctx.JSON(http.StatusOK, gin.H{"message": "Labels imported", "violations": violations, "count": len(violations)})
}

func (s *Server) decodeLabel(ctx *gin.Context) {
	var req decodeLabelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	ctx.JSON(http.StatusOK, newLabelView(shotlabel.Decode(req.Label), player.ParseHandedness(req.Handedness)))
}

//changeShotType applies the shot type change the way the editor does, repairing direction and formation
func (s *Server) changeShotType(ctx *gin.Context) {
	var req shotTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	shotType, ok := shotlabel.ParseShotType(req.ShotType)
	if !ok {
		abortWithError(ctx, fmt.Errorf("%w: unknown shot type '%s'", errBadRequest, req.ShotType))
		return
	}

	c := shotlabel.Decode(req.Label).WithShotType(shotType)
	ctx.JSON(http.StatusOK, newLabelView(c, player.ParseHandedness(req.Handedness)))
}
