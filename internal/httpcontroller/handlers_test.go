package httpcontroller

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/analysis"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/detector"
)

func testController(t *testing.T) *Controller {
	t.Helper()
	settings := &conf.Settings{}
	settings.Version = "test"
	settings.WebServer.MaxUploadSizeMB = 8
	settings.WebServer.UploadPath = t.TempDir()
	settings.WebServer.AllowedTypes = []string{".mp3", ".wav", ".flac"}
	return New(settings, nil, detector.New(settings), nil)
}

// wavBytes builds a 16-bit mono PCM WAV with a quiet sine tone.
func wavBytes(seconds float64) []byte {
	sampleRate := conf.SampleRate
	n := int(seconds * float64(sampleRate))
	dataSize := n * 2

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	for i := 0; i < n; i++ {
		sample := int16(3000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
		binary.Write(&buf, binary.LittleEndian, sample)
	}
	return buf.Bytes()
}

func multipartUpload(t *testing.T, field string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, data := range files {
		part, err := writer.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHealthCheck(t *testing.T) {
	c := testController(t)

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	rec := httptest.NewRecorder()
	c.Echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "healthy", payload["status"])
	assert.Equal(t, "heuristic", payload["classifier"])
}

func TestAPIInfo(t *testing.T) {
	c := testController(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/info", http.NoBody)
	rec := httptest.NewRecorder()
	c.Echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "test", payload["version"])
	assert.EqualValues(t, 8, payload["max_upload_size_mb"])
	assert.Equal(t, false, payload["persistence_enabled"])
}

func TestAnalyzeMissingField(t *testing.T) {
	c := testController(t)

	body, contentType := multipartUpload(t, "wrong_field", map[string][]byte{"a.wav": wavBytes(0.5)})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c.Echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeRejectsUnsupportedExtension(t *testing.T) {
	c := testController(t)

	body, contentType := multipartUpload(t, "audio", map[string][]byte{"a.ogg": wavBytes(0.5)})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c.Echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeUpload(t *testing.T) {
	c := testController(t)

	body, contentType := multipartUpload(t, "audio", map[string][]byte{"song.wav": wavBytes(1.5)})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c.Echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "song.wav", resp.Filename)
	require.NotNil(t, resp.ClassificationResult)
	assert.InDelta(t, resp.AIProbability+resp.HumanProbability, 100, 1e-6)
	assert.NotNil(t, resp.Details)
}

func TestAnalyzeCachesByContentHash(t *testing.T) {
	c := testController(t)
	data := wavBytes(1.5)

	for i := 0; i < 2; i++ {
		body, contentType := multipartUpload(t, "audio", map[string][]byte{"song.wav": data})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		c.Echo.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 1, c.resultCache.ItemCount(), "identical uploads share one cache entry")
}

func TestBatchAnalyzeIsolatesFailures(t *testing.T) {
	c := testController(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range []struct {
		name string
		data []byte
	}{
		{"a.wav", wavBytes(1.0)},
		{"b.wav", []byte("definitely not audio")},
		{"c.wav", wavBytes(1.0)},
	} {
		part, err := writer.CreateFormFile("audio", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/batch-analyze", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c.Echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var batch analysis.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	require.Equal(t, 3, batch.Total)
	require.Len(t, batch.Results, 3)
	assert.Equal(t, "success", batch.Results[0].Status)
	assert.Equal(t, "error", batch.Results[1].Status)
	assert.NotEmpty(t, batch.Results[1].Error)
	assert.Equal(t, "success", batch.Results[2].Status)
}

func TestRecentDetectionsWithoutStore(t *testing.T) {
	c := testController(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/detections/recent", http.NoBody)
	rec := httptest.NewRecorder()
	c.Echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
