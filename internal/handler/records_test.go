package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"address-reconciler/internal/models"
	"address-reconciler/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// MockRecordService is a mock implementation of the RecordService interface
type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) Import(rows []models.Record, sheet string) []models.Record {
	args := m.Called(rows, sheet)
	return args.Get(0).([]models.Record)
}

func (m *MockRecordService) Snapshot() []models.Record {
	args := m.Called()
	return args.Get(0).([]models.Record)
}

func (m *MockRecordService) Lookup(filter map[string]string) (models.Record, bool) {
	args := m.Called(filter)
	return args.Get(0).(models.Record), args.Bool(1)
}

func (m *MockRecordService) UpdateRecord(id string, changes map[string]string) (models.Record, error) {
	args := m.Called(id, changes)
	return args.Get(0).(models.Record), args.Error(1)
}

func (m *MockRecordService) BindPictures(pictures map[string]string) ([]models.Record, []string) {
	args := m.Called(pictures)
	return args.Get(0).([]models.Record), args.Get(1).([]string)
}

func (m *MockRecordService) Clear() error {
	args := m.Called()
	return args.Error(0)
}

func newRecordRouter(svc RecordService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRecordHandler(svc)
	r := gin.New()
	r.POST("/records", h.Import)
	r.GET("/records", h.List)
	r.DELETE("/records", h.Clear)
	r.GET("/records/lookup", h.Lookup)
	r.GET("/records/export", h.Export)
	r.PATCH("/records/:id", h.Update)
	r.POST("/pictures", h.BindPictures)
	return r
}

func multipartBody(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for name, content := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) any {
	t.Helper()
	var body any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRecordHandler_ImportJSON(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectCall     bool
		expectedStatus int
		expectedBody   any
	}{
		{
			name:           "records merged",
			body:           `{"sheet":"customers","records":[{"street":"Main","housenumber":"1"}]}`,
			expectCall:     true,
			expectedStatus: http.StatusOK,
			expectedBody:   []any{map[string]any{"id": "r1", "street": "Main", "housenumber": "1", "sheet": "customers"}},
		},
		{
			name:           "invalid body",
			body:           `{"records":`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]any{"error": "invalid request body"},
		},
		{
			name:           "missing records",
			body:           `{"sheet":"customers"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]any{"error": "invalid request body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockRecordService)
			if tt.expectCall {
				mockSvc.On("Import", []models.Record{{"street": "Main", "housenumber": "1"}}, "customers").
					Return([]models.Record{{"id": "r1", "street": "Main", "housenumber": "1", "sheet": "customers"}})
			}
			req := httptest.NewRequest(http.MethodPost, "/records", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			// Execute
			newRecordRouter(mockSvc).ServeHTTP(w, req)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, decodeBody(t, w))
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestRecordHandler_ImportFile(t *testing.T) {
	t.Run("csv upload", func(t *testing.T) {
		mockSvc := new(MockRecordService)
		mockSvc.On("Import", []models.Record{{"street": "Main", "housenumber": "1", "sheet": "customers"}}, "").
			Return([]models.Record{{"id": "r1"}})
		body, contentType := multipartBody(t, "file", map[string]string{"customers.csv": "street,housenumber\nMain,1\n"})
		req := httptest.NewRequest(http.MethodPost, "/records", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		newRecordRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unsupported format", func(t *testing.T) {
		mockSvc := new(MockRecordService)
		body, contentType := multipartBody(t, "file", map[string]string{"notes.txt": "x"})
		req := httptest.NewRequest(http.MethodPost, "/records", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		newRecordRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "Import", mock.Anything, mock.Anything)
	})

	t.Run("missing file", func(t *testing.T) {
		mockSvc := new(MockRecordService)
		body, contentType := multipartBody(t, "other", map[string]string{"customers.csv": "a\n"})
		req := httptest.NewRequest(http.MethodPost, "/records", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		newRecordRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, map[string]any{"error": "missing form file 'file'"}, decodeBody(t, w))
	})
}

func TestRecordHandler_List(t *testing.T) {
	mockSvc := new(MockRecordService)
	mockSvc.On("Snapshot").Return([]models.Record(nil))
	w := httptest.NewRecorder()

	newRecordRouter(mockSvc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/records", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestRecordHandler_Lookup(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		mockRecord     models.Record
		mockFound      bool
		expectCall     bool
		expectedStatus int
	}{
		{
			name:           "no filter",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "found",
			query:          "?city=A&street=Main",
			mockRecord:     models.Record{"id": "r1", "city": "A", "street": "Main"},
			mockFound:      true,
			expectCall:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found",
			query:          "?city=A&street=Main",
			expectCall:     true,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockRecordService)
			if tt.expectCall {
				mockSvc.On("Lookup", map[string]string{"city": "A", "street": "Main"}).Return(tt.mockRecord, tt.mockFound)
			}
			w := httptest.NewRecorder()

			// Execute
			newRecordRouter(mockSvc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/records/lookup"+tt.query, nil))

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestRecordHandler_Update(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockRecord     models.Record
		mockError      error
		expectCall     bool
		expectedStatus int
		expectedBody   any
	}{
		{
			name:           "updated",
			body:           `{"city":"B"}`,
			mockRecord:     models.Record{"id": "r1", "city": "B"},
			expectCall:     true,
			expectedStatus: http.StatusOK,
			expectedBody:   map[string]any{"id": "r1", "city": "B"},
		},
		{
			name:           "missing record",
			body:           `{"city":"B"}`,
			mockRecord:     models.Record(nil),
			mockError:      fmt.Errorf("service: failed to update record: %w", store.ErrRecordNotFound),
			expectCall:     true,
			expectedStatus: http.StatusNotFound,
			expectedBody:   map[string]any{"error": "service: failed to update record: record not found"},
		},
		{
			name:           "empty changes",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]any{"error": "invalid request body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockRecordService)
			if tt.expectCall {
				mockSvc.On("UpdateRecord", "r1", map[string]string{"city": "B"}).Return(tt.mockRecord, tt.mockError)
			}
			req := httptest.NewRequest(http.MethodPatch, "/records/r1", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			// Execute
			newRecordRouter(mockSvc).ServeHTTP(w, req)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, decodeBody(t, w))
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestRecordHandler_Export(t *testing.T) {
	mockSvc := new(MockRecordService)
	mockSvc.On("Snapshot").Return([]models.Record{{"id": "r1", "street": "Main"}})
	w := httptest.NewRecorder()

	newRecordRouter(mockSvc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/records/export", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "records.xlsx")
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "street"}, {"r1", "Main"}}, rows)
}

func TestRecordHandler_Clear(t *testing.T) {
	tests := []struct {
		name           string
		mockError      error
		expectedStatus int
	}{
		{name: "cleared", expectedStatus: http.StatusNoContent},
		{name: "repository failure", mockError: assert.AnError, expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockRecordService)
			mockSvc.On("Clear").Return(tt.mockError)
			w := httptest.NewRecorder()

			newRecordRouter(mockSvc).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/records", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestRecordHandler_BindPictures(t *testing.T) {
	t.Run("pictures bound", func(t *testing.T) {
		mockSvc := new(MockRecordService)
		expected := map[string]string{
			"Main_1_A.jpg": "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg")),
			"Elm_7_B.jpg":  "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString([]byte("other")),
		}
		mockSvc.On("BindPictures", expected).Return([]models.Record{{"id": "r1"}}, []string{"Elm_7_B.jpg"})
		body, contentType := multipartBody(t, "pictures", map[string]string{"Main_1_A.jpg": "jpeg", "Elm_7_B.jpg": "other"})
		req := httptest.NewRequest(http.MethodPost, "/pictures", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		newRecordRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{
			"records":   []any{map[string]any{"id": "r1"}},
			"unmatched": []any{"Elm_7_B.jpg"},
		}, decodeBody(t, w))
		mockSvc.AssertExpectations(t)
	})

	t.Run("no pictures", func(t *testing.T) {
		mockSvc := new(MockRecordService)
		body, contentType := multipartBody(t, "file", map[string]string{"x.jpg": "x"})
		req := httptest.NewRequest(http.MethodPost, "/pictures", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		newRecordRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
