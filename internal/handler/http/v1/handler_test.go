package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/incident_gateway/internal/config"
	"github.com/shenikar/incident_gateway/internal/models"
	"github.com/shenikar/incident_gateway/internal/service"
	"github.com/shenikar/incident_gateway/internal/service/mocks"
	"github.com/shenikar/incident_gateway/internal/stream"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// stubFeed нужен хабу в тестах маршрутов; тесты потока проталкивают
// события прямо в канал подписки
type stubFeed struct {
	mu  sync.Mutex
	sub *stubSubscription
	err error
}

type stubSubscription struct {
	out       chan *models.Incident
	closeOnce sync.Once
}

func (f *stubFeed) Subscribe(_ context.Context) (stream.InsertSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.sub = &stubSubscription{out: make(chan *models.Incident)}
	return f.sub, nil
}

func (f *stubFeed) subscription() *stubSubscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sub
}

func (s *stubSubscription) Incidents() <-chan *models.Incident { return s.out }
func (s *stubSubscription) Close() error {
	s.closeOnce.Do(func() { close(s.out) })
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		StreamHeartbeatInterval: 50 * time.Millisecond,
		StreamClientBuffer:      4,
	}
}

func setupTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *mocks.MockIncidentService, *stream.Hub, *stubFeed) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	incidentService := mocks.NewMockIncidentService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	feed := &stubFeed{}
	hub := stream.NewHub(feed, logger)
	t.Cleanup(hub.Shutdown)

	handler := NewHandler(incidentService, hub, logger, cfg)
	router := gin.New()
	handler.RegisterRoutes(router)
	return router, incidentService, hub, feed
}

func performRequest(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateIncident_Created(t *testing.T) {
	router, incidentService, _, _ := setupTestRouter(t, testConfig())

	created := &models.Incident{
		ID:            uuid.New(),
		IncidentID:    "INC-0AF31B2C",
		Type:          "fire",
		Severity:      7,
		Status:        models.StatusOpen,
		TraversalPath: []models.Hop{},
		Payload:       models.Payload{Attachments: []string{}},
	}
	incidentService.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sub service.IncidentSubmission) (*models.Incident, error) {
			assert.Equal(t, "fire", sub.Type)
			assert.Equal(t, float64(7), sub.Severity)
			return created, nil
		})

	body := []byte(`{"type":"fire","severity":7,"location":{"coordinates":[37.6176,55.7558],"regionCode":"RU-MOW"}}`)
	rec := performRequest(router, http.MethodPost, "/incidents", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, "INC-0AF31B2C", resp.IncidentID)
	assert.Equal(t, models.StatusOpen, resp.Status)
	assert.NotNil(t, resp.TraversalPath)
	assert.Empty(t, resp.TraversalPath)
}

func TestCreateIncident_InvalidJSON(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, testConfig())

	rec := performRequest(router, http.MethodPost, "/incidents", []byte(`{"type":`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, rec.Body.String())
}

func TestCreateIncident_ValidationError(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, testConfig())

	// Статус вне допустимого перечня отклоняется до сервиса
	body := []byte(`{"type":"fire","status":"exploded"}`)
	rec := performRequest(router, http.MethodPost, "/incidents", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateIncident_ServiceError(t *testing.T) {
	router, incidentService, _, _ := setupTestRouter(t, testConfig())

	incidentService.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("insert failed"))

	rec := performRequest(router, http.MethodPost, "/incidents", []byte(`{"type":"fire"}`))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestListIncidents_OK(t *testing.T) {
	router, incidentService, _, _ := setupTestRouter(t, testConfig())

	page := &service.IncidentPage{
		Data: []*models.Incident{
			{ID: uuid.New(), IncidentID: "INC-00000002"},
			{ID: uuid.New(), IncidentID: "INC-00000001"},
		},
		Page:       2,
		Limit:      5,
		Total:      12,
		TotalPages: 3,
	}
	incidentService.EXPECT().ListIncidents(gomock.Any(), 2, 5).Return(page, nil)

	rec := performRequest(router, http.MethodGet, "/incidents?page=2&limit=5", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListIncidentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 5, resp.Limit)
	assert.Equal(t, 12, resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "INC-00000002", resp.Data[0].IncidentID)
}

func TestListIncidents_MalformedQueryFallsBackToDefaults(t *testing.T) {
	router, incidentService, _, _ := setupTestRouter(t, testConfig())

	incidentService.EXPECT().
		ListIncidents(gomock.Any(), 1, 10).
		Return(&service.IncidentPage{Data: []*models.Incident{}, Page: 1, Limit: 10, TotalPages: 1}, nil)

	rec := performRequest(router, http.MethodGet, "/incidents?page=abc&limit=xyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetIncident_OK(t *testing.T) {
	router, incidentService, _, _ := setupTestRouter(t, testConfig())

	id := uuid.New()
	incidentService.EXPECT().
		GetIncident(gomock.Any(), id).
		Return(&models.Incident{ID: id, IncidentID: "INC-0AF31B2C"}, nil)

	rec := performRequest(router, http.MethodGet, "/incidents/"+id.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.ID)
}

func TestGetIncident_MalformedIDIsNotFound(t *testing.T) {
	// Сервис не вызывается: на моке нет ожиданий
	router, _, _, _ := setupTestRouter(t, testConfig())

	rec := performRequest(router, http.MethodGet, "/incidents/not-a-uuid", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Incident not found"}`, rec.Body.String())
}

func TestGetIncident_NotFound(t *testing.T) {
	router, incidentService, _, _ := setupTestRouter(t, testConfig())

	id := uuid.New()
	incidentService.EXPECT().GetIncident(gomock.Any(), id).Return(nil, service.ErrIncidentNotFound)

	rec := performRequest(router, http.MethodGet, "/incidents/"+id.String(), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Incident not found"}`, rec.Body.String())
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.Config
		body     string
		wantCode int
		wantBody string
	}{
		{
			name:     "missing credentials",
			cfg:      testConfig(),
			body:     `{"username":"admin"}`,
			wantCode: http.StatusBadRequest,
			wantBody: `{"approved":false,"reason":"missing_credentials"}`,
		},
		{
			name:     "auth disabled",
			cfg:      testConfig(),
			body:     `{"username":"admin","password":"secret"}`,
			wantCode: http.StatusOK,
			wantBody: `{"approved":true,"reason":"auth_disabled"}`,
		},
		{
			name: "credentials not configured",
			cfg: &config.Config{
				AuthEnabled:             true,
				StreamHeartbeatInterval: 50 * time.Millisecond,
				StreamClientBuffer:      4,
			},
			body:     `{"username":"admin","password":"secret"}`,
			wantCode: http.StatusInternalServerError,
			wantBody: `{"approved":false,"reason":"credentials_not_configured"}`,
		},
		{
			name: "approved",
			cfg: &config.Config{
				AuthEnabled:             true,
				AuthUsername:            "admin",
				AuthPassword:            "secret",
				StreamHeartbeatInterval: 50 * time.Millisecond,
				StreamClientBuffer:      4,
			},
			body:     `{"username":"admin","password":"secret"}`,
			wantCode: http.StatusOK,
			wantBody: `{"approved":true}`,
		},
		{
			name: "rejected",
			cfg: &config.Config{
				AuthEnabled:             true,
				AuthUsername:            "admin",
				AuthPassword:            "secret",
				StreamHeartbeatInterval: 50 * time.Millisecond,
				StreamClientBuffer:      4,
			},
			body:     `{"username":"admin","password":"wrong"}`,
			wantCode: http.StatusOK,
			wantBody: `{"approved":false}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, _, _ := setupTestRouter(t, tt.cfg)

			rec := performRequest(router, http.MethodPost, "/login", []byte(tt.body))
			require.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestGetRoot(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, testConfig())

	rec := performRequest(router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"API is running"}`, rec.Body.String())
}

func TestHealthCheck(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, testConfig())

	rec := performRequest(router, http.MethodGet, "/system/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
