package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chenBenjamin97/tennis-annotator/pkg/annotate"
	"github.com/chenBenjamin97/tennis-annotator/pkg/coco"
	"github.com/chenBenjamin97/tennis-annotator/pkg/player"
	"github.com/chenBenjamin97/tennis-annotator/pkg/rally"
	"github.com/chenBenjamin97/tennis-annotator/pkg/shotlabel"
	"github.com/chenBenjamin97/tennis-annotator/pkg/storage"
	"github.com/chenBenjamin97/tennis-annotator/pkg/utils"
	"github.com/chenBenjamin97/tennis-annotator/pkg/video"
)

var errBadRequest = errors.New("bad request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, video.ErrVideoNotFound),
		errors.Is(err, video.ErrFrameNotFound),
		errors.Is(err, errSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, shotlabel.ErrInvalidLabel):
		return http.StatusUnprocessableEntity
	case errors.Is(err, video.ErrRenderUnavailable):
		return http.StatusNotImplemented
	case errors.Is(err, errBadRequest),
		errors.Is(err, utils.ErrUnsafeName),
		errors.Is(err, player.ErrInvalidRef),
		errors.Is(err, rally.ErrInvalidRallyIndex),
		errors.Is(err, rally.ErrInvalidEventIndex),
		errors.Is(err, coco.ErrInvalidBox),
		errors.Is(err, annotate.ErrInvalidImage),
		errors.Is(err, annotate.ErrInvalidViewport),
		errors.Is(err, annotate.ErrNotReady):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

//abortWithError answers {"error": ...} with the status mapped from err, server errors are logged
func abortWithError(ctx *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("api%s: Error, got '%v'", ctx.FullPath(), err)
	}
	ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
