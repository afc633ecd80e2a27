package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) uploadedVideos(ctx *gin.Context) {
	ids, err := s.library.UploadedVideos()
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"videos": ids})
}

func (s *Server) listFrames(ctx *gin.Context) {
	frames, err := s.library.Frames(ctx.Param("video_id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"frames": frames, "count": len(frames)})
}

func (s *Server) serveFrame(ctx *gin.Context) {
	framePath, err := s.library.FramePath(ctx.Param("video_id"), ctx.Param("file"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.File(framePath)
}
