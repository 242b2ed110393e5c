package analyses

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func multipartUpload(t *testing.T, fields map[string]string, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestAnalyzeEndpointReturnsReport(t *testing.T) {
	gen := newStubGenerator().scoreAll(8)
	gen.responses["persona"] = `{}`
	svc, _ := newTestService(gen)
	router := newTestRouter(svc)

	body, contentType := multipartUpload(t, map[string]string{"job_role": "Backend Engineer"}, "resume.txt", []byte(resumeText))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var report Report
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &report))
	assert.Equal(t, 80, report.OverallScore)
	assert.Len(t, report.CategoryScores, len(Categories))
	assert.NotEmpty(t, resp.Header().Get("Location"))

	// the stored report is readable by id
	getReq := httptest.NewRequest(http.MethodGet, resp.Header().Get("Location"), nil)
	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, getReq)
	assert.Equal(t, http.StatusOK, getResp.Code)

	listResp := httptest.NewRecorder()
	router.ServeHTTP(listResp, httptest.NewRequest(http.MethodGet, "/api/v1/analyses?limit=5", nil))
	require.Equal(t, http.StatusOK, listResp.Code)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(listResp.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, float64(80), items[0]["overallScore"])
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	svc, _ := newTestService(newStubGenerator().scoreAll(5))
	router := newTestRouter(svc)

	tests := []struct {
		name     string
		fields   map[string]string
		fileName string
		content  []byte
		wantMsg  string
	}{
		{name: "missing file", fields: map[string]string{"job_role": "Engineer"}, wantMsg: "file is required"},
		{name: "missing role", fileName: "resume.txt", content: []byte(resumeText), wantMsg: "job_role is required"},
		{name: "unsupported type", fields: map[string]string{"job_role": "Engineer"}, fileName: "photo.png", content: []byte{0x89, 'P', 'N', 'G'}, wantMsg: "unsupported file type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartUpload(t, tt.fields, tt.fileName, tt.content)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
			req.Header.Set("Content-Type", contentType)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			assert.Equal(t, http.StatusBadRequest, resp.Code)
			var payload map[string]map[string]any
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
			assert.Equal(t, ErrorCodeValidation, payload["error"]["code"])
			assert.Contains(t, payload["error"]["message"], tt.wantMsg)
		})
	}
}

func TestGetAnalysisNotFound(t *testing.T) {
	svc, _ := newTestService(newStubGenerator())
	router := newTestRouter(svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/unknown", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
