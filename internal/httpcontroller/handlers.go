package httpcontroller

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/analysis"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/datastore"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/detector"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/errors"
)

// AnalyzeResponse is the payload of a single-file analysis.
type AnalyzeResponse struct {
	Filename string `json:"filename"`
	*detector.ClassificationResult
}

// healthCheck reports liveness and the classifier mode.
func (c *Controller) healthCheck(ctx echo.Context) error {
	mode := "heuristic"
	if c.Detector.IsTrained() {
		mode = "trained"
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"status":         "healthy",
		"classifier":     mode,
		"uptime_seconds": int(time.Since(c.startTime).Seconds()),
	})
}

// apiInfo describes the service and its limits.
func (c *Controller) apiInfo(ctx echo.Context) error {
	mode := "heuristic"
	if c.Detector.IsTrained() {
		mode = "trained"
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"name":                "AI Song Detector",
		"version":             c.Settings.Version,
		"classifier":          mode,
		"supported_formats":   c.Settings.WebServer.AllowedTypes,
		"max_upload_size_mb":  c.Settings.WebServer.MaxUploadSizeMB,
		"max_duration_sec":    conf.MaxDuration,
		"analysis_band_hz":    []float64{conf.MinFreq, conf.MaxFreq},
		"analysis_rate_hz":    conf.SampleRate,
		"persistence_enabled": c.DS != nil,
	})
}

// analyzeUpload classifies one uploaded audio file. Results are cached by
// content hash for repeated submissions of the same file.
func (c *Controller) analyzeUpload(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing form field 'audio'")
	}

	resp, status, err := c.analyzeOne(fileHeader)
	if err != nil {
		return echo.NewHTTPError(status, err.Error())
	}
	return ctx.JSON(http.StatusOK, resp)
}

// batchAnalyze classifies multiple uploads in order, isolating per-file
// failures exactly like a directory run.
func (c *Controller) batchAnalyze(ctx echo.Context) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	files := form.File["audio"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no files in form field 'audio'")
	}

	batch := analysis.BatchResult{Total: len(files)}
	for _, fileHeader := range files {
		item := analysis.FileResult{Filename: fileHeader.Filename, Status: "success"}
		resp, _, err := c.analyzeOne(fileHeader)
		if err != nil {
			item.Status = "error"
			item.Error = err.Error()
		} else {
			item.Result = resp.ClassificationResult
		}
		batch.Results = append(batch.Results, item)
	}
	return ctx.JSON(http.StatusOK, batch)
}

// analyzeOne runs the pipeline for one multipart file. The returned status
// is only meaningful when err is non-nil.
func (c *Controller) analyzeOne(fileHeader *multipart.FileHeader) (*AnalyzeResponse, int, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !c.extensionAllowed(ext) {
		return nil, http.StatusBadRequest,
			fmt.Errorf("unsupported file type %q, allowed: %s", ext, strings.Join(c.Settings.WebServer.AllowedTypes, ", "))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, http.StatusBadRequest, fmt.Errorf("uploaded file %s is empty", fileHeader.Filename)
	}
	if c.metrics != nil {
		c.metrics.API.RecordUpload(int64(len(data)))
	}

	sum := sha1.Sum(data)
	key := hex.EncodeToString(sum[:]) + ext
	if cached, found := c.resultCache.Get(key); found {
		if c.metrics != nil {
			c.metrics.API.RecordCacheLookup(true)
		}
		return &AnalyzeResponse{
			Filename:             fileHeader.Filename,
			ClassificationResult: cached.(*detector.ClassificationResult),
		}, 0, nil
	}
	if c.metrics != nil {
		c.metrics.API.RecordCacheLookup(false)
	}

	tempPath, err := c.writeTempUpload(data, ext)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	defer os.Remove(tempPath)

	start := time.Now()
	result, err := c.Detector.Predict(tempPath)
	if err != nil {
		if c.metrics != nil {
			c.metrics.Detector.RecordClassificationError(errorCategory(err))
		}
		return nil, http.StatusUnprocessableEntity, fmt.Errorf("analyzing %s: %w", fileHeader.Filename, err)
	}

	mode := "heuristic"
	if c.Detector.IsTrained() {
		mode = "trained"
	}
	if c.metrics != nil {
		c.metrics.Detector.RecordClassification(mode, result.IsAIGenerated, time.Since(start).Seconds())
	}

	if c.DS != nil {
		record := &datastore.Detection{
			SourceFile:       fileHeader.Filename,
			ClassifierMode:   mode,
			IsAIGenerated:    result.IsAIGenerated,
			Confidence:       result.Confidence,
			AIProbability:    result.AIProbability,
			HumanProbability: result.HumanProbability,
		}
		if err := c.DS.Save(record); err != nil {
			c.apiLogger.Warn("could not persist detection",
				"filename", fileHeader.Filename,
				"error", err)
		}
	}

	c.resultCache.Set(key, result, cache.DefaultExpiration)
	return &AnalyzeResponse{Filename: fileHeader.Filename, ClassificationResult: result}, 0, nil
}

// recentDetections returns the newest persisted detections.
func (c *Controller) recentDetections(ctx echo.Context) error {
	if c.DS == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "detection persistence is disabled")
	}

	limit := 10
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}
	if limit > 100 {
		limit = 100
	}

	detections, err := c.DS.GetLastDetections(limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not query detections")
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"total":      len(detections),
		"detections": detections,
	})
}

func (c *Controller) extensionAllowed(ext string) bool {
	for _, allowed := range c.Settings.WebServer.AllowedTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}

// writeTempUpload stores the upload under a random name so concurrent
// requests never collide.
func (c *Controller) writeTempUpload(data []byte, ext string) (string, error) {
	dir := c.Settings.WebServer.UploadPath
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}
	path := filepath.Join(dir, uuid.New().String()+ext)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return path, nil
}

func errorCategory(err error) string {
	var ee *errors.EnhancedError
	if errors.As(err, &ee) {
		return ee.GetCategory()
	}
	return string(errors.CategoryGeneric)
}
