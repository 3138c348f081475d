// Package registry persists trained model artifacts. A FileStore keeps
// one artifact per directory (model + metadata); a History records every
// retrain in SQLite. The scoring core never touches either: models are
// injected explicitly, and the registry is the loading collaborator.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/attributor/internal/engine/classifier"
	"github.com/crimson-sun/attributor/internal/model"
)

const (
	modelFileName = "model.json"
	metaFileName  = "meta_data.json"
)

// Meta describes one stored model artifact.
type Meta struct {
	ArtifactID string    `json:"artifact_id"`
	DBVersion  string    `json:"db_version"`
	F1Score    float64   `json:"f1_score"`
	LabelCount int       `json:"label_count"`
	CreatedAt  time.Time `json:"time_metadata_created"`
}

// FileStore persists one model artifact per directory as model.json plus
// meta_data.json.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created
// on the first Save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Save writes the model and its metadata, overwriting any previous
// artifact in the directory. The returned Meta carries a fresh artifact
// id.
func (s *FileStore) Save(m *classifier.NaiveBayes, version model.Version, f1 float64) (Meta, error) {
	if m == nil {
		return Meta{}, fmt.Errorf("registry: nil model")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Meta{}, fmt.Errorf("registry: %w", err)
	}

	meta := Meta{
		ArtifactID: uuid.NewString(),
		DBVersion:  version.String(),
		F1Score:    f1,
		LabelCount: len(m.ClassDocs),
		CreatedAt:  time.Now().UTC(),
	}

	modelBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return Meta{}, fmt.Errorf("registry: encode model: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, modelFileName), modelBytes, 0o644); err != nil {
		return Meta{}, fmt.Errorf("registry: write model: %w", err)
	}

	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return Meta{}, fmt.Errorf("registry: encode metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, metaFileName), metaBytes, 0o644); err != nil {
		return Meta{}, fmt.Errorf("registry: write metadata: %w", err)
	}
	return meta, nil
}

// Load reads the artifact back. The model is immediately usable by the
// engine.
func (s *FileStore) Load() (*classifier.NaiveBayes, Meta, error) {
	modelBytes, err := os.ReadFile(filepath.Join(s.dir, modelFileName))
	if err != nil {
		return nil, Meta{}, fmt.Errorf("registry: read model: %w", err)
	}
	var m classifier.NaiveBayes
	if err := json.Unmarshal(modelBytes, &m); err != nil {
		return nil, Meta{}, fmt.Errorf("registry: decode model: %w", err)
	}

	metaBytes, err := os.ReadFile(filepath.Join(s.dir, metaFileName))
	if err != nil {
		return nil, Meta{}, fmt.Errorf("registry: read metadata: %w", err)
	}
	var meta Meta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, Meta{}, fmt.Errorf("registry: decode metadata: %w", err)
	}
	return &m, meta, nil
}
