package api

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chenBenjamin97/tennis-annotator/pkg/annotate"
	"github.com/chenBenjamin97/tennis-annotator/pkg/coco"
	"github.com/chenBenjamin97/tennis-annotator/pkg/player"
	"github.com/chenBenjamin97/tennis-annotator/pkg/storage"
	"github.com/chenBenjamin97/tennis-annotator/pkg/utils"
	"github.com/chenBenjamin97/tennis-annotator/pkg/video"
)

var errSessionNotFound = errors.New("annotation session not found")

//session is one annotation surface driven remotely, mu serializes the surface
type session struct {
	mu       sync.Mutex
	id       string
	videoID  string
	fileName string
	surface  *annotate.Surface
}

type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*session)}
}

func (r *sessionRegistry) add(sess *session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess.id = uuid.NewString()
	r.sessions[sess.id] = sess
}

func (r *sessionRegistry) get(id string) (*session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", errSessionNotFound, id)
	}
	return sess, nil
}

func (r *sessionRegistry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

type createSessionRequest struct {
	VideoID    string             `json:"video_id" binding:"required"`
	FileName   string             `json:"file_name" binding:"required"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Categories []player.Category  `json:"categories"`
	Viewport   *annotate.Viewport `json:"viewport"`
	Restore    bool               `json:"restore"`
}

type modeRequest struct {
	Annotating *bool `json:"annotating"`
	CategoryID *int  `json:"category_id"`
}

type pointerRequest struct {
	Type string  `json:"type" binding:"required"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type boxCategoryRequest struct {
	CategoryID int `json:"category_id"`
}

type shapeView struct {
	Kind     string  `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Label    string  `json:"label,omitempty"`
	Color    string  `json:"color"`
	Selected bool    `json:"selected,omitempty"`
}

type sessionView struct {
	ID         string                 `json:"id"`
	VideoID    string                 `json:"video_id"`
	FileName   string                 `json:"file_name"`
	Ready      bool                   `json:"ready"`
	Width      int                    `json:"width"`
	Height     int                    `json:"height"`
	Viewport   annotate.Viewport      `json:"viewport"`
	Annotating bool                   `json:"annotating"`
	CategoryID int                    `json:"category_id"`
	Selected   int                    `json:"selected"`
	Categories []player.Category      `json:"categories"`
	Boxes      []annotate.BoundingBox `json:"bounding_boxes"`
	Shapes     []shapeView            `json:"shapes"`
}

//view must be called with sess.mu held
func (sess *session) view() sessionView {
	sf := sess.surface
	width, height := sf.ImageSize()
	selected, _ := sf.Selected()

	shapes := sf.Render()
	views := make([]shapeView, 0, len(shapes))
	for _, sh := range shapes {
		views = append(views, shapeView{
			Kind:     sh.Kind.String(),
			X:        sh.X,
			Y:        sh.Y,
			Width:    sh.Width,
			Height:   sh.Height,
			Label:    sh.Label,
			Color:    fmt.Sprintf("#%02x%02x%02x", sh.Color.R, sh.Color.G, sh.Color.B),
			Selected: sh.Selected,
		})
	}

	return sessionView{
		ID:         sess.id,
		VideoID:    sess.videoID,
		FileName:   sess.fileName,
		Ready:      sf.Ready(),
		Width:      width,
		Height:     height,
		Viewport:   sf.Viewport(),
		Annotating: sf.Annotating(),
		CategoryID: sf.SelectedCategory(),
		Selected:   selected,
		Categories: sf.Categories(),
		Boxes:      sf.Boxes(),
		Shapes:     views,
	}
}

func (sess *session) frame() coco.Frame {
	width, height := sess.surface.ImageSize()
	return coco.Frame{
		FileName:   sess.fileName,
		Width:      width,
		Height:     height,
		Boxes:      sess.surface.Boxes(),
		Categories: sess.surface.Categories(),
	}
}

//withSession runs fn on the session named by the :id param with its lock held.
//fn returns the status to answer with the session view, or an error.
func (s *Server) withSession(ctx *gin.Context, fn func(sess *session) (int, error)) {
	sess, err := s.sessions.get(ctx.Param("id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	status, err := fn(sess)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(status, sess.view())
}

//createSession loads the image size from the request, or from the frame file when no size is given.
//With restore set the frame's saved boxes (and categories, when none are sent) are loaded.
func (s *Server) createSession(ctx *gin.Context) {
	var req createSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if _, err := utils.SafeName(req.VideoID); err != nil {
		abortWithError(ctx, err)
		return
	}
	if _, err := utils.SafeName(req.FileName); err != nil {
		abortWithError(ctx, err)
		return
	}

	var saved *coco.Dataset
	if req.Restore {
		dataset, err := s.annotations.Dataset(ctx.Request.Context(), req.VideoID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			abortWithError(ctx, err)
			return
		}
		saved = dataset
	}

	categories := req.Categories
	if len(categories) == 0 && saved != nil {
		categories = saved.PlayerCategories()
	}

	surface := annotate.NewSurface(categories, s.minBoxSize, s.requireCategory)
	if req.Viewport != nil {
		if err := surface.Resize(*req.Viewport); err != nil {
			abortWithError(ctx, err)
			return
		}
	}

	if req.Width > 0 || req.Height > 0 {
		if err := surface.LoadImage(req.Width, req.Height); err != nil {
			abortWithError(ctx, err)
			return
		}
	} else {
		data, err := s.library.ReadFrame(req.VideoID, req.FileName)
		if err != nil {
			abortWithError(ctx, err)
			return
		}
		if err := surface.LoadImageData(bytes.NewReader(data)); err != nil {
			abortWithError(ctx, err)
			return
		}
	}

	if saved != nil {
		if err := surface.Restore(saved.Boxes(req.FileName)); err != nil {
			abortWithError(ctx, err)
			return
		}
	}

	sess := &session{videoID: req.VideoID, fileName: req.FileName, surface: surface}
	s.sessions.add(sess)
	log.Printf("api/session: Created '%s' for '%s/%s'", sess.id, req.VideoID, req.FileName)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	ctx.JSON(http.StatusCreated, sess.view())
}

func (s *Server) getSession(ctx *gin.Context) {
	s.withSession(ctx, func(sess *session) (int, error) {
		return http.StatusOK, nil
	})
}

func (s *Server) deleteSession(ctx *gin.Context) {
	if !s.sessions.remove(ctx.Param("id")) {
		abortWithError(ctx, fmt.Errorf("%w: '%s'", errSessionNotFound, ctx.Param("id")))
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (s *Server) resizeSession(ctx *gin.Context) {
	var vp annotate.Viewport
	if err := ctx.ShouldBindJSON(&vp); err != nil {
		abortWithError(ctx, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	s.withSession(ctx, func(sess *session) (int, error) {
		return http.StatusOK, sess.surface.Resize(vp)
	})
}

func (s *Server) setSessionMode(ctx *gin.Context) {
	var req modeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	s.withSession(ctx, func(sess *session) (int, error) {
		if req.CategoryID != nil && !sess.surface.SelectCategory(*req.CategoryID) {
			return 0, fmt.Errorf("%w: unknown category %d", errBadRequest, *req.CategoryID)
		}
		if req.Annotating != nil {
			sess.surface.SetAnnotating(*req.Annotating)
		}
		return http.StatusOK, nil
	})
}

//sessionPointer feeds one pointer event given in client coordinates
func (s *Server) sessionPointer(ctx *gin.Context) {
	var req pointerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	s.withSession(ctx, func(sess *session) (int, error) {
		switch req.Type {
		case "down":
			sess.surface.PointerDown(req.X, req.Y)
		case "move":
			sess.surface.PointerMove(req.X, req.Y)
		case "up":
			if _, ok := sess.surface.PointerUp(req.X, req.Y); ok {
				return http.StatusCreated, nil
			}
		case "leave":
			sess.surface.PointerLeave()
		default:
			return 0, fmt.Errorf("%w: unknown pointer event '%s'", errBadRequest, req.Type)
		}
		return http.StatusOK, nil
	})
}

func boxIndex(ctx *gin.Context) (int, error) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		return 0, fmt.Errorf("%w: box index must be an integer", errBadRequest)
	}
	return index, nil
}

func (s *Server) updateSessionBox(ctx *gin.Context) {
	index, err := boxIndex(ctx)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	var req boxCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	s.withSession(ctx, func(sess *session) (int, error) {
		if _, ok := player.Find(sess.surface.Categories(), req.CategoryID); !ok {
			return 0, fmt.Errorf("%w: unknown category %d", errBadRequest, req.CategoryID)
		}
		if !sess.surface.UpdateCategory(index, req.CategoryID) {
			return 0, fmt.Errorf("%w: no box at index %d", errBadRequest, index)
		}
		return http.StatusOK, nil
	})
}

func (s *Server) deleteSessionBox(ctx *gin.Context) {
	index, err := boxIndex(ctx)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	s.withSession(ctx, func(sess *session) (int, error) {
		if !sess.surface.Delete(index) {
			return 0, fmt.Errorf("%w: no box at index %d", errBadRequest, index)
		}
		return http.StatusOK, nil
	})
}

func (s *Server) sessionSnapshot(ctx *gin.Context) {
	sess, err := s.sessions.get(ctx.Param("id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.surface.Ready() {
		abortWithError(ctx, annotate.ErrNotReady)
		return
	}
	ctx.JSON(http.StatusOK, sess.frame())
}

//saveSession writes the current box snapshot into the video's dataset
func (s *Server) saveSession(ctx *gin.Context) {
	s.withSession(ctx, func(sess *session) (int, error) {
		if !sess.surface.Ready() {
			return 0, annotate.ErrNotReady
		}
		frame := sess.frame()
		if err := s.annotations.SaveFrame(ctx.Request.Context(), sess.videoID, frame); err != nil {
			return 0, err
		}
		log.Printf("api/session: Saved %d boxes of '%s' for '%s/%s'", len(frame.Boxes), sess.id, sess.videoID, sess.fileName)
		return http.StatusOK, nil
	})
}

//renderSession plots the boxes on the native frame, needs a gocv build
func (s *Server) renderSession(ctx *gin.Context) {
	sess, err := s.sessions.get(ctx.Param("id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	sess.mu.Lock()
	shapes := sess.surface.RenderAt(annotate.Identity)
	sess.mu.Unlock()

	data, err := s.library.ReadFrame(sess.videoID, sess.fileName)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	img, err := video.Plot(data, shapes)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "image/jpeg", img)
}
