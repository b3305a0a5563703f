package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/realestate-cashflow/internal/api_gateway/middleware"
	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/closes"
	"github.com/realestate-cashflow/internal/domain/shared"
	"github.com/realestate-cashflow/internal/reporting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCloseRouter(reports *MockReportService, requests *MockCloseRequestService) http.Handler {
	router := setupTestRouter()
	h := NewCloseHandler(newTestLogger(), reports, requests)
	group := router.Group("/api/v1/cashflow/closes")
	group.POST("", h.CreateTotals)
	group.POST("/legacy", h.CreateLegacy)
	group.POST("/requests", h.Request)
	group.GET("", h.List)
	group.GET("/latest", h.Latest)
	group.GET("/:id", h.Get)
	return router
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func TestCloseHandler_Create(t *testing.T) {
	stored := closes.NewSnapshot(closes.KindTotals, marchWindow().To, marchWindow(), "", json.RawMessage(`{}`))

	tests := []struct {
		name           string
		path           string
		body           any
		setupMocks     func(*MockReportService)
		expectedStatus int
	}{
		{
			name: "totals with window",
			path: "/api/v1/cashflow/closes",
			body: CloseRequestBody{DateFrom: "2024-03-01", DateTo: "2024-03-31"},
			setupMocks: func(m *MockReportService) {
				m.On("GenerateClose", mock.Anything, mock.MatchedBy(func(cmd reporting.CloseCommand) bool {
					return cmd.Kind == closes.KindTotals && cmd.Window != nil && cmd.Date.IsZero()
				})).Return(stored, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "totals with empty body covers all time",
			path: "/api/v1/cashflow/closes",
			setupMocks: func(m *MockReportService) {
				m.On("GenerateClose", mock.Anything, mock.MatchedBy(func(cmd reporting.CloseCommand) bool {
					return cmd.Window == nil
				})).Return(stored, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "explicit report date",
			path: "/api/v1/cashflow/closes",
			body: CloseRequestBody{Date: "2024-04-02"},
			setupMocks: func(m *MockReportService) {
				m.On("GenerateClose", mock.Anything, mock.MatchedBy(func(cmd reporting.CloseCommand) bool {
					return cmd.Date.Equal(time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC))
				})).Return(stored, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad report date",
			path:           "/api/v1/cashflow/closes",
			body:           CloseRequestBody{Date: "tomorrow"},
			setupMocks:     func(m *MockReportService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "legacy without window",
			path: "/api/v1/cashflow/closes/legacy",
			body: CloseRequestBody{},
			setupMocks: func(m *MockReportService) {
				m.On("GenerateClose", mock.Anything, mock.MatchedBy(func(cmd reporting.CloseCommand) bool {
					return cmd.Kind == closes.KindLegacy
				})).Return(nil, cashflow.ErrPartialWindow)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "inverted window",
			path:           "/api/v1/cashflow/closes/legacy",
			body:           CloseRequestBody{DateFrom: "2024-03-31", DateTo: "2024-03-01"},
			setupMocks:     func(m *MockReportService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed json",
			path:           "/api/v1/cashflow/closes",
			body:           json.RawMessage(`{"date_from":`),
			setupMocks:     func(m *MockReportService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := new(MockReportService)
			tt.setupMocks(reports)

			var req *http.Request
			switch body := tt.body.(type) {
			case nil:
				req = httptest.NewRequest(http.MethodPost, tt.path, nil)
			case json.RawMessage:
				req = httptest.NewRequest(http.MethodPost, tt.path, bytes.NewReader(body))
			default:
				req = httptest.NewRequest(http.MethodPost, tt.path, jsonBody(t, body))
			}
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			newCloseRouter(reports, new(MockCloseRequestService)).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			reports.AssertExpectations(t)
		})
	}
}

func TestCloseHandler_Request(t *testing.T) {
	tests := []struct {
		name           string
		body           AsyncCloseRequestBody
		publishErr     error
		expectPublish  bool
		expectedStatus int
	}{
		{
			name:           "legacy request queued",
			body:           AsyncCloseRequestBody{DateFrom: "2024-01-01", DateTo: "2024-01-15", Kind: "legacy"},
			expectPublish:  true,
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "kind defaults to totals",
			body:           AsyncCloseRequestBody{},
			expectPublish:  true,
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "unknown kind",
			body:           AsyncCloseRequestBody{Kind: "monthly"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "legacy needs a window",
			body:           AsyncCloseRequestBody{Kind: "legacy"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "broker failure",
			body:           AsyncCloseRequestBody{},
			publishErr:     errors.New("kafka unavailable"),
			expectPublish:  true,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := new(MockCloseRequestService)
			var published *shared.CloseRequest
			if tt.expectPublish {
				requests.On("RequestClose", mock.Anything, mock.AnythingOfType("*shared.CloseRequest")).
					Run(func(args mock.Arguments) { published = args.Get(1).(*shared.CloseRequest) }).
					Return(tt.publishErr)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/cashflow/closes/requests", jsonBody(t, tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(middleware.UserEmailHeader, "clerk@agency.com")
			rec := httptest.NewRecorder()
			newCloseRouter(new(MockReportService), requests).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			requests.AssertExpectations(t)

			if tt.expectedStatus != http.StatusAccepted {
				return
			}
			var resp typedResponse[CloseRequestAccepted]
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "PENDING", resp.Data.Status)
			require.NotNil(t, published)
			assert.Equal(t, published.RequestID.String(), resp.Data.RequestID)
			assert.Equal(t, shared.CloseRequestSourceAPI, published.Source)
			assert.Equal(t, "clerk@agency.com", published.RequestedBy)
			assert.Equal(t, resp.CorrelationID, published.CorrelationID)
			assert.NotEmpty(t, published.Kind)
		})
	}
}

func TestCloseHandler_List(t *testing.T) {
	snapshots := []*closes.Snapshot{
		closes.NewSnapshot(closes.KindLegacy, marchWindow().To, marchWindow(), "", json.RawMessage(`{}`)),
		closes.NewSnapshot(closes.KindLegacy, marchWindow().To, nil, "", json.RawMessage(`{}`)),
	}

	t.Run("paginated", func(t *testing.T) {
		reports := new(MockReportService)
		reports.On("ListCloses", mock.Anything, closes.KindLegacy, 2, 2).Return(snapshots, int64(5), nil)

		rec := httptest.NewRecorder()
		newCloseRouter(reports, nil).ServeHTTP(rec,
			httptest.NewRequest(http.MethodGet, "/api/v1/cashflow/closes?kind=legacy&page=2&per_page=2", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp typedResponse[[]SnapshotSummaryResponse]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 2)
		assert.Equal(t, "legacy", resp.Data[0].Kind)
		assert.Empty(t, resp.Data[1].DateFrom)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 3, resp.Meta.TotalPages)
		assert.Equal(t, 5, resp.Meta.TotalItems)
	})

	t.Run("defaults", func(t *testing.T) {
		reports := new(MockReportService)
		reports.On("ListCloses", mock.Anything, closes.Kind(""), 1, 10).Return([]*closes.Snapshot{}, int64(0), nil)

		rec := httptest.NewRecorder()
		newCloseRouter(reports, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cashflow/closes", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		reports.AssertExpectations(t)
	})

	t.Run("invalid pagination", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newCloseRouter(new(MockReportService), nil).ServeHTTP(rec,
			httptest.NewRequest(http.MethodGet, "/api/v1/cashflow/closes?per_page=500", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCloseHandler_LatestAndGet(t *testing.T) {
	stored := closes.NewSnapshot(closes.KindLegacy, marchWindow().To, marchWindow(), "", json.RawMessage(`{"totales":{}}`))
	missing := uuid.New()

	reports := new(MockReportService)
	reports.On("GetLatestClose", mock.Anything, closes.KindLegacy).Return(stored, nil)
	reports.On("GetLatestClose", mock.Anything, closes.KindTotals).Return(nil, closes.ErrSnapshotNotFound{Kind: closes.KindTotals})
	reports.On("GetClose", mock.Anything, stored.ID).Return(stored, nil)
	reports.On("GetClose", mock.Anything, missing).Return(nil, closes.ErrSnapshotNotFound{ID: missing})

	router := newCloseRouter(reports, nil)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{name: "latest legacy", path: "/api/v1/cashflow/closes/latest?kind=legacy", expectedStatus: http.StatusOK},
		{name: "latest totals missing", path: "/api/v1/cashflow/closes/latest", expectedStatus: http.StatusNotFound},
		{name: "latest bad kind", path: "/api/v1/cashflow/closes/latest?kind=weekly", expectedStatus: http.StatusBadRequest},
		{name: "by id", path: "/api/v1/cashflow/closes/" + stored.ID.String(), expectedStatus: http.StatusOK},
		{name: "unknown id", path: "/api/v1/cashflow/closes/" + missing.String(), expectedStatus: http.StatusNotFound},
		{name: "malformed id", path: "/api/v1/cashflow/closes/not-a-uuid", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
