package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"imagemapper/internal/cms"
	"imagemapper/internal/content"
	"imagemapper/internal/logger"
	apperrors "imagemapper/pkg/errors"
	"imagemapper/pkg/middleware"
)

const testUUID = "d7625378-d4cd-11e2-bce1-002128161462"

type mockMapper struct {
	mock.Mock
}

func (m *mockMapper) Map(ctx context.Context, record *cms.Record, publishReference string, lastModified time.Time) (*content.Content, error) {
	args := m.Called(ctx, record, publishReference, lastModified)
	c, _ := args.Get(0).(*content.Content)
	return c, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Map(ctx context.Context, record *cms.Record, publishReference string, lastModified time.Time) error {
	return m.Called(ctx, record, publishReference, lastModified).Error(0)
}

type stubValidator bool

func (v stubValidator) IsEligibleForPublishing(context.Context, *cms.Record) bool { return bool(v) }

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestRouter(m *mockMapper, p *mockPublisher, eligible bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(m, p, stubValidator(eligible), logger.NopLogger())
	h.now = func() time.Time { return fixedNow }

	router := gin.New()
	router.Use(middleware.TransactionIDMiddleware())
	h.RegisterRoutes(router)
	return router
}

func post(router *gin.Engine, path, body, tid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if tid != "" {
		req.Header.Set("X-Request-Id", tid)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func recordBody(id, contentType string) string {
	return `{"uuid":"` + id + `","type":"` + contentType + `","value":"AQID"}`
}

func TestMapImage_Success(t *testing.T) {
	m := &mockMapper{}
	m.On("Map", mock.Anything, mock.MatchedBy(func(r *cms.Record) bool { return r.UUID == testUUID }), "tid_req", fixedNow).
		Return(&content.Content{UUID: testUUID, Type: content.TypeGraphic, MediaType: "image/png", PublishReference: "tid_req"}, nil)

	w := post(newTestRouter(m, &mockPublisher{}, true), "/map", recordBody(testUUID, "Image"), "tid_req")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tid_req", w.Header().Get("X-Request-Id"))

	var got content.Content
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, testUUID, got.UUID)
	assert.Equal(t, content.TypeGraphic, got.Type)
	m.AssertExpectations(t)
}

func TestMapImage_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		eligible   bool
		mapErr     error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "malformed body",
			body:       `{"uuid":`,
			eligible:   true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid uuid",
			body:       recordBody("1234", "Image"),
			eligible:   true,
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "Invalid uuid",
		},
		{
			name:       "not eligible",
			body:       recordBody(testUUID, "Image"),
			eligible:   false,
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "Content cannot be mapped.",
		},
		{
			name:       "unsupported type",
			body:       recordBody(testUUID, "article"),
			eligible:   true,
			mapErr:     apperrors.ErrUnsupportedContentType.WithMessage(testUUID + " is not an Image."),
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "Unsupported type - not an image.",
		},
		{
			name:       "transformation failure",
			body:       recordBody(testUUID, "Image"),
			eligible:   true,
			mapErr:     errors.New("unexpected"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Unable to write JSON for message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockMapper{}
			m.On("Map", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.mapErr)

			w := post(newTestRouter(m, &mockPublisher{}, tt.eligible), "/map", tt.body, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Message)
			}
			assert.NotEmpty(t, resp.ErrorCode)
		})
	}
}

func TestIngestImage(t *testing.T) {
	tests := []struct {
		name       string
		publishErr error
		wantStatus int
	}{
		{name: "published", wantStatus: http.StatusOK},
		{name: "unsupported", publishErr: apperrors.ErrUnsupportedContentType, wantStatus: http.StatusUnprocessableEntity},
		{name: "publish failure", publishErr: apperrors.ErrPublish, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &mockPublisher{}
			p.On("Map", mock.Anything, mock.Anything, mock.Anything, fixedNow).Return(tt.publishErr).Once()

			w := post(newTestRouter(&mockMapper{}, p, true), "/ingest", recordBody(testUUID, "Image"), "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Empty(t, w.Body.String())
			}
			assert.True(t, strings.HasPrefix(w.Header().Get("X-Request-Id"), "tid_"))
			p.AssertExpectations(t)
		})
	}
}
