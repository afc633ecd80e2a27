package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chenBenjamin97/tennis-annotator/pkg/storage/filestore"
	"github.com/chenBenjamin97/tennis-annotator/pkg/video"
)

type testServer struct {
	router *gin.Engine
	store  *filestore.Store
	lib    video.Library
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	root := t.TempDir()

	store, err := filestore.New(
		filepath.Join(root, "annotations"),
		filepath.Join(root, "generated"),
		filepath.Join(root, "confirmed"),
	)
	require.NoError(t, err)

	lib := video.Library{UploadsDir: filepath.Join(root, "uploads"), FramesDir: filepath.Join(root, "frames")}
	require.NoError(t, os.MkdirAll(lib.UploadsDir, 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(lib.FramesDir, "match"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(lib.UploadsDir, "match.mp4"), []byte("mp4"), 0644))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 200, 100))))
	require.NoError(t, os.WriteFile(filepath.Join(lib.FramesDir, "match", "frame_0001.png"), buf.Bytes(), 0644))

	s := NewServer(Options{
		Annotations:     store,
		Labels:          store,
		Library:         lib,
		RequireCategory: true,
	})
	return &testServer{router: s.SetRouter(), store: store, lib: lib}
}

func (ts *testServer) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestVideoRoutes(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/video/uploaded-videos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var videos struct {
		Videos []string `json:"videos"`
	}
	decodeBody(t, w, &videos)
	assert.Equal(t, []string{"match"}, videos.Videos)

	w = ts.do(t, http.MethodGet, "/api/video/frames/match", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var frames struct {
		Frames []string `json:"frames"`
		Count  int      `json:"count"`
	}
	decodeBody(t, w, &frames)
	assert.Equal(t, []string{"frame_0001.png"}, frames.Frames)
	assert.Equal(t, 1, frames.Count)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/video/frames/other", nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/video/frame/match/frame_0001.png", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/video/frame/match/frame_0002.png", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/video/frame/match/..", nil).Code)
}
