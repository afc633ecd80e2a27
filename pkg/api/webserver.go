package api

import (
	"path"

	"github.com/gin-gonic/gin"

	"github.com/chenBenjamin97/tennis-annotator/pkg/annotate"
	"github.com/chenBenjamin97/tennis-annotator/pkg/storage"
	"github.com/chenBenjamin97/tennis-annotator/pkg/video"
)

//Options is everything the HTTP layer needs from main
type Options struct {
	Annotations     storage.AnnotationStore
	Labels          storage.LabelStore
	Library         video.Library
	MinBoxSize      float64
	RequireCategory bool
	StaticFilesPath string
}

type Server struct {
	annotations     storage.AnnotationStore
	labels          storage.LabelStore
	library         video.Library
	minBoxSize      float64
	requireCategory bool
	staticFilesPath string
	sessions        *sessionRegistry
}

func NewServer(opts Options) *Server {
	if opts.MinBoxSize <= 0 {
		opts.MinBoxSize = annotate.DefaultMinBoxSize
	}
	return &Server{
		annotations:     opts.Annotations,
		labels:          opts.Labels,
		library:         opts.Library,
		minBoxSize:      opts.MinBoxSize,
		requireCategory: opts.RequireCategory,
		staticFilesPath: opts.StaticFilesPath,
		sessions:        newSessionRegistry(),
	}
}

func (s *Server) SetRouter() *gin.Engine {
	r := gin.Default()

	//serve html pages to client
	if s.staticFilesPath != "" {
		r.Static("/client", s.staticFilesPath)
		r.StaticFile("/", path.Join(s.staticFilesPath, "index.html"))
	}

	apiRoutes := r.Group("/api")

	videoRoutes := apiRoutes.Group("/video")
	videoRoutes.GET("/uploaded-videos", s.uploadedVideos)
	videoRoutes.GET("/frames/:video_id", s.listFrames)
	videoRoutes.GET("/frame/:video_id/:file", s.serveFrame)

	annotationRoutes := apiRoutes.Group("/annotation")
	annotationRoutes.POST("/save", s.saveAnnotation)
	annotationRoutes.GET("/get/:video_id", s.getAnnotations)
	annotationRoutes.GET("/frame/:video_id/:file", s.getFrameAnnotations)

	labelRoutes := apiRoutes.Group("/label")
	labelRoutes.GET("/check/:video_id", s.checkLabels)
	labelRoutes.GET("/get/:video_id", s.getLabels)
	labelRoutes.GET("/event/:video_id", s.getLabelEvent)
	labelRoutes.GET("/violations/:video_id", s.labelViolations)
	labelRoutes.POST("/update/:video_id", s.updateLabel)
	labelRoutes.POST("/confirm/:video_id", s.confirmLabels)
	labelRoutes.POST("/import/:video_id", s.importLabels)
	labelRoutes.POST("/decode", s.decodeLabel)
	labelRoutes.POST("/shot-type", s.changeShotType)

	sessionRoutes := apiRoutes.Group("/session")
	sessionRoutes.POST("", s.createSession)
	sessionRoutes.GET("/:id", s.getSession)
	sessionRoutes.DELETE("/:id", s.deleteSession)
	sessionRoutes.PUT("/:id/viewport", s.resizeSession)
	sessionRoutes.PUT("/:id/mode", s.setSessionMode)
	sessionRoutes.POST("/:id/pointer", s.sessionPointer)
	sessionRoutes.PUT("/:id/boxes/:index", s.updateSessionBox)
	sessionRoutes.DELETE("/:id/boxes/:index", s.deleteSessionBox)
	sessionRoutes.GET("/:id/snapshot", s.sessionSnapshot)
	sessionRoutes.POST("/:id/save", s.saveSession)
	sessionRoutes.GET("/:id/render", s.renderSession)

	return r
}
