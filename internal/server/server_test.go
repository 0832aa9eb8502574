package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ppiankov/railvoice/internal/asr"
	"github.com/ppiankov/railvoice/internal/model"
	"github.com/ppiankov/railvoice/internal/pipeline"
	"github.com/ppiankov/railvoice/internal/worker"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := model.DefaultConfig()
	in, err := pipeline.NewInterpreter(cfg, zap.NewNop())
	require.NoError(t, err)

	p := pipeline.New(asr.NewTextTranscriber(), in, 11, zap.NewNop())
	return New(cfg.Server, p, zap.NewNop())
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestServer_Classify(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
		want     *model.Result
	}{
		{
			name:     "command with count",
			body:     `{"audio": "001.wav", "text": "осадить на сорок два вагона"}`,
			wantCode: http.StatusOK,
			want:     &model.Result{Audio: "001.wav", Text: "осадить на сорок два вагона", Label: 4, Attribute: 42},
		},
		{
			name:     "default audio name",
			body:     `{"text": "тише"}`,
			wantCode: http.StatusOK,
			want:     &model.Result{Audio: "request", Text: "тише", Label: 18, Attribute: model.NoAttribute},
		},
		{
			name:     "invalid body",
			body:     `{"text": `,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/classify", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.want == nil {
				return
			}
			var got model.Result
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, *tt.want, got)
		})
	}
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestServer_Transcription(t *testing.T) {
	s := newTestServer(t)

	// the text engine reads .txt uploads as their own transcript
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, "clip.txt", "протяни на три вагона"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got model.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.Result{Audio: "clip.txt", Text: "протяни на три вагона", Label: 10, Attribute: 3}, got)

	// a clip without transcript fails upstream
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, "clip.wav", "RIFF"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// no file field
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", strings.NewReader(""))
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		ok       bool
	}{
		{"clip.wav", "clip.wav", true},
		{"dir/sub/clip.wav", "clip.wav", true},
		{"../../etc/clip.txt", "clip.txt", true},
		{"", "", false},
		{".", "", false},
		{"..", "", false},
		{"/", "", false},
		{"../", "", false},
	}

	for _, tt := range tests {
		got, ok := uploadName(tt.filename)
		assert.Equal(t, tt.ok, ok, tt.filename)
		assert.Equal(t, tt.want, got, tt.filename)
	}
}

func TestServer_TranscriptionRejectsDirectoryNames(t *testing.T) {
	s := newTestServer(t)

	for _, name := range []string{"..", "/"} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, uploadRequest(t, name, "стоп"))
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestServer_TranscriptionRateLimited(t *testing.T) {
	s := newTestServer(t)
	s.SetLimiter(worker.NewLimiter(0.001, 1), "openai")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, "a.txt", "стоп"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, "b.txt", "стоп"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestServer_Catalog(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []CommandInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 23)
	assert.Equal(t, CommandInfo{ID: 4, Name: "осадить на вагон", Phrases: []string{"осади на вагон"}, Quantity: true}, got[4])
	assert.False(t, got[14].Quantity)
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classify", strings.NewReader(`{"text": "стоп"}`))
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `railvoice_classifications_total{label="14",quantity="false"} 1`)
	assert.Contains(t, body, `railvoice_http_request_duration_seconds_count{code="200",route="/api/v1/classify"} 1`)
}

func TestServer_RunShutsDown(t *testing.T) {
	cfg := model.DefaultConfig()
	in, err := pipeline.NewInterpreter(cfg, nil)
	require.NoError(t, err)

	cfg.Server.Addr = "127.0.0.1:0"
	s := New(cfg.Server, pipeline.New(nil, in, 1, nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
