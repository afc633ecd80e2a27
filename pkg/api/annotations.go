package api

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/chenBenjamin97/tennis-annotator/pkg/annotate"
	"github.com/chenBenjamin97/tennis-annotator/pkg/coco"
	"github.com/chenBenjamin97/tennis-annotator/pkg/player"
	"github.com/chenBenjamin97/tennis-annotator/pkg/utils"
)

type saveAnnotationRequest struct {
	VideoID       string                 `json:"video_id"`
	ImageURL      string                 `json:"image_url"`
	Width         int                    `json:"width"`
	Height        int                    `json:"height"`
	BoundingBoxes []annotate.BoundingBox `json:"bounding_boxes"`
	Categories    []player.Category      `json:"categories"`
}

//frameRef splits ".../<video>/<file>" (with or without a query string) into its video id and file name
func frameRef(imageURL string) (string, string) {
	p := imageURL
	if u, err := url.Parse(imageURL); err == nil {
		p = u.Path
	}
	return path.Base(path.Dir(p)), path.Base(p)
}

func (s *Server) saveAnnotation(ctx *gin.Context) {
	var req saveAnnotationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if req.ImageURL == "" || req.BoundingBoxes == nil {
		abortWithError(ctx, fmt.Errorf("%w: image_url and bounding_boxes are required", errBadRequest))
		return
	}

	videoID, fileName := frameRef(req.ImageURL)
	if req.VideoID != "" {
		videoID = req.VideoID
	}
	if _, err := utils.SafeName(videoID); err != nil {
		abortWithError(ctx, err)
		return
	}
	if _, err := utils.SafeName(fileName); err != nil {
		abortWithError(ctx, err)
		return
	}

	frame := coco.Frame{
		FileName:   fileName,
		Width:      req.Width,
		Height:     req.Height,
		Boxes:      req.BoundingBoxes,
		Categories: req.Categories,
	}
	if err := s.annotations.SaveFrame(ctx.Request.Context(), videoID, frame); err != nil {
		abortWithError(ctx, err)
		return
	}

	log.Printf("api/annotation/save: Saved %d boxes for '%s/%s'", len(frame.Boxes), videoID, fileName)
	ctx.JSON(http.StatusOK, gin.H{
		"message":   "Annotations saved successfully",
		"video_id":  videoID,
		"file_name": fileName,
		"count":     len(frame.Boxes),
	})
}

func (s *Server) getAnnotations(ctx *gin.Context) {
	videoID, err := utils.SafeName(ctx.Param("video_id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	dataset, err := s.annotations.Dataset(ctx.Request.Context(), videoID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dataset)
}

//getFrameAnnotations returns one frame's boxes in the same shape they are saved with
func (s *Server) getFrameAnnotations(ctx *gin.Context) {
	videoID, err := utils.SafeName(ctx.Param("video_id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	dataset, err := s.annotations.Dataset(ctx.Request.Context(), videoID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"file_name":      ctx.Param("file"),
		"bounding_boxes": dataset.Boxes(ctx.Param("file")),
		"categories":     dataset.PlayerCategories(),
	})
}
