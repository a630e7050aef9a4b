// interfaces.go: defines the interface for detection persistence.
package datastore

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
)

// Detection is one persisted classification outcome.
type Detection struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time `gorm:"index:idx_detections_created_at" json:"created_at"`
	SourceFile       string    `json:"source_file"`
	ClassifierMode   string    `json:"classifier_mode"` // "heuristic" or "trained"
	IsAIGenerated    bool      `json:"is_ai_generated"`
	Confidence       float64   `json:"confidence"`
	AIProbability    float64   `json:"ai_probability"`
	HumanProbability float64   `json:"human_probability"`
}

// Interface abstracts the underlying database implementation.
type Interface interface {
	Open() error
	Close() error
	Save(detection *Detection) error
	Get(id uint) (Detection, error)
	GetLastDetections(numDetections int) ([]Detection, error)
	CountDetections() (int64, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB
}

// New creates a DataStore for the configured backend, or nil when
// persistence is disabled.
func New(settings *conf.Settings) Interface {
	if settings.Output.SQLite.Enabled {
		return &SQLiteStore{Settings: settings}
	}
	return nil
}

// Save inserts a detection record.
func (ds *DataStore) Save(detection *Detection) error {
	if ds.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	if err := ds.DB.Create(detection).Error; err != nil {
		return fmt.Errorf("saving detection: %w", err)
	}
	return nil
}

// Get retrieves a detection by its ID.
func (ds *DataStore) Get(id uint) (Detection, error) {
	var detection Detection
	if err := ds.DB.First(&detection, id).Error; err != nil {
		return Detection{}, fmt.Errorf("getting detection with ID %d: %w", id, err)
	}
	return detection, nil
}

// GetLastDetections returns the most recent detections, newest first.
func (ds *DataStore) GetLastDetections(numDetections int) ([]Detection, error) {
	var detections []Detection
	if err := ds.DB.Order("created_at DESC, id DESC").Limit(numDetections).Find(&detections).Error; err != nil {
		return nil, fmt.Errorf("getting last detections: %w", err)
	}
	return detections, nil
}

// CountDetections returns the total number of persisted detections.
func (ds *DataStore) CountDetections() (int64, error) {
	var count int64
	if err := ds.DB.Model(&Detection{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting detections: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (ds *DataStore) Close() error {
	if ds.DB == nil {
		return nil
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return fmt.Errorf("getting underlying database handle: %w", err)
	}
	return sqlDB.Close()
}
