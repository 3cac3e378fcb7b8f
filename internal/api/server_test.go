package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamic-rtp-server/internal/domain"
	"github.com/bamic-rtp-server/internal/service"
)

type staticConfigManager struct {
	config *domain.Config
}

func (m *staticConfigManager) GetConfig() *domain.Config             { return m.config }
func (m *staticConfigManager) GetServerConfig() *domain.ServerConfig { return &m.config.Server }
func (m *staticConfigManager) GetCacheConfig() *domain.CacheConfig   { return &m.config.Cache }
func (m *staticConfigManager) Validate() error                       { return nil }
func (m *staticConfigManager) IsProduction() bool                    { return false }
func (m *staticConfigManager) IsDevelopment() bool                   { return true }

func testConfig() *domain.Config {
	return &domain.Config{
		Environment: "test",
		Server:      domain.ServerConfig{Host: "127.0.0.1", Port: 0, RequestTimeout: 5 * time.Second},
		Logging:     domain.LoggingConfig{Level: "error", Format: "json"},
		RateLimit:   domain.RateLimitConfig{Enabled: false},
		Scoring:     domain.ScoringConfig{StrictValidation: true, ModelName: "bamic-heuristic-v1"},
		MCP:         domain.MCPConfig{ServerVersion: "0.1.0"},
	}
}

func newTestServer(t *testing.T, cfg *domain.Config) *Server {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	assessor := service.NewAssessmentService(logger, service.WithStrictValidation(cfg.Scoring.StrictValidation))
	return NewServer(&staticConfigManager{config: cfg}, assessor, logger)
}

func minimalIntakeJSON() map[string]any {
	return map[string]any{
		"muscle":             map[string]any{"code": 1, "label": "Biceps femoris (long head)"},
		"mechanism":          map[string]any{"code": 1, "label": "Sprint"},
		"segment":            map[string]any{"code": 1},
		"anatomic":           map[string]any{"code": 1},
		"volume_percent":     3,
		"edema_length_mm":    0,
		"rupture_gap_mm":     0,
		"mlgr":               map[string]any{"code": 0},
		"tendon_involvement": map[string]any{"code": 0},
		"complete_tear":      map[string]any{"code": 0},
		"reinjury_last6mo":   map[string]any{"code": 0},
	}
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := doJSON(t, s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}

func TestEvaluate(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := doJSON(t, s, http.MethodPost, "/api/v1/evaluate", minimalIntakeJSON())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "bamic-heuristic-v1", resp.Model)
	assert.Equal(t, w.Header().Get("X-Correlation-ID"), resp.CorrelationID)
	assert.Equal(t, 19, resp.Score)
	assert.Equal(t, 34.0, resp.RawPoints)
	assert.Equal(t, "0", resp.Grade)
	assert.Equal(t, 8, resp.Duration.MinDays)
	assert.Equal(t, 21, resp.Duration.MaxDays)
	assert.Equal(t, "Biceps femoris (long head)", resp.Input.Muscle.Label)
	assert.False(t, resp.Input.Timestamp.IsZero(), "missing timestamp defaults to now")
}

func TestEvaluate_KeepsSuppliedTimestamp(t *testing.T) {
	s := newTestServer(t, testConfig())
	body := minimalIntakeJSON()
	body["timestamp"] = "2024-03-01T10:00:00Z"

	w := doJSON(t, s, http.MethodPost, "/api/v1/evaluate", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), resp.Input.Timestamp.UTC())
}

func TestEvaluate_MalformedBody(t *testing.T) {
	s := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), domain.ErrInvalidInput)
}

func TestEvaluate_InvalidIntake(t *testing.T) {
	s := newTestServer(t, testConfig())
	body := minimalIntakeJSON()
	body["muscle"] = map[string]any{"code": 99}

	w := doJSON(t, s, http.MethodPost, "/api/v1/evaluate", body)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), domain.ErrInvalidIntakeRecord)
	assert.Contains(t, w.Body.String(), "field 'muscle'")
}

func TestEvaluate_LenientModeScoresOutOfRangeCodes(t *testing.T) {
	cfg := testConfig()
	cfg.Scoring.StrictValidation = false
	s := newTestServer(t, cfg)
	body := minimalIntakeJSON()
	body["muscle"] = map[string]any{"code": 99}

	w := doJSON(t, s, http.MethodPost, "/api/v1/evaluate", body)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestScore(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := doJSON(t, s, http.MethodPost, "/api/v1/score", minimalIntakeJSON())
	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.ScoreResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 19, resp.Score)
	assert.Len(t, resp.Breakdown, 11)
}

func TestGrade(t *testing.T) {
	s := newTestServer(t, testConfig())
	body := minimalIntakeJSON()
	body["volume_percent"] = 12
	body["anatomic"] = map[string]any{"code": domain.AnatomicMyofascial}

	w := doJSON(t, s, http.MethodPost, "/api/v1/grade", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp GradeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2a", resp.Grade)
	assert.Equal(t, 2, resp.GradeNumber)
	assert.Equal(t, "a", resp.Suffix)
	assert.Equal(t, "Grade 2a (moderate injury)", resp.Text)
}

func TestGrade_InvalidIntake(t *testing.T) {
	s := newTestServer(t, testConfig())
	body := minimalIntakeJSON()
	body["volume_percent"] = 140

	w := doJSON(t, s, http.MethodPost, "/api/v1/grade", body)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestReturnToPlay(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		query      string
		wantStatus int
		wantMin    int
		wantMax    int
	}{
		{"score=0", http.StatusOK, 3, 7},
		{"score=35", http.StatusOK, 8, 21},
		{"score=100", http.StatusOK, 90, 180},
		{"score=-1", http.StatusBadRequest, 0, 0},
		{"score=101", http.StatusBadRequest, 0, 0},
		{"score=abc", http.StatusBadRequest, 0, 0},
		{"", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := doJSON(t, s, http.MethodGet, "/api/v1/rtp?"+tt.query, nil)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp domain.DurationEstimate
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantMin, resp.MinDays)
			assert.Equal(t, tt.wantMax, resp.MaxDays)
		})
	}
}

func TestReference(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := doJSON(t, s, http.MethodGet, "/api/v1/reference", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := doJSON(t, s, http.MethodOptions, "/api/v1/evaluate", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = domain.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1}
	s := newTestServer(t, cfg)

	first := doJSON(t, s, http.MethodGet, "/health", nil)
	second := doJSON(t, s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestDeliveryDelay(t *testing.T) {
	cfg := domain.TransportConfig{
		SimulateLatency: true,
		BaseDelay:       600 * time.Millisecond,
		ScoreDelay:      2 * time.Second,
		MaxJitter:       800 * time.Millisecond,
	}
	d := newDeliveryDelay(cfg)
	d.jitter = func(time.Duration) time.Duration { return 0 }

	assert.Equal(t, 600*time.Millisecond, d.For(0))
	assert.Equal(t, 1600*time.Millisecond, d.For(50))
	assert.Equal(t, 2600*time.Millisecond, d.For(100))

	off := newDeliveryDelay(domain.TransportConfig{})
	assert.Zero(t, off.For(100))
	assert.NoError(t, off.Wait(context.Background(), 100))
}

func TestDeliveryDelay_HonoursContext(t *testing.T) {
	d := newDeliveryDelay(domain.TransportConfig{SimulateLatency: true, BaseDelay: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := d.Wait(ctx, 0)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRandomJitterBounds(t *testing.T) {
	assert.Zero(t, randomJitter(0))
	for i := 0; i < 100; i++ {
		j := randomJitter(10 * time.Millisecond)
		assert.GreaterOrEqual(t, j, time.Duration(0))
		assert.LessOrEqual(t, j, 10*time.Millisecond)
	}
}

func TestEvaluate_TimesOutDuringDelivery(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RequestTimeout = 20 * time.Millisecond
	cfg.Transport = domain.TransportConfig{SimulateLatency: true, BaseDelay: time.Second}
	s := newTestServer(t, cfg)

	w := doJSON(t, s, http.MethodPost, "/api/v1/evaluate", minimalIntakeJSON())

	assert.Equal(t, http.StatusRequestTimeout, w.Code)
	assert.Contains(t, w.Body.String(), domain.ErrRequestTimeout)
}
