package scoring

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/sharpscore/internal/domain/features"
	"github.com/okian/sharpscore/internal/domain/forest"
)

// ArtifactVersion is bumped whenever the serialized layout changes.
const ArtifactVersion = 1

// Evaluation summarises the held-out test split of a training run.
type Evaluation struct {
	TrainRows int
	TestRows  int
	MSE       float64
	R2        float64
}

// Artifact is the fitted model plus the feature schema it was trained on.
// Encoders are not stored: inference rebuilds the canonical encoder, and the
// trainer refuses to produce an artifact whose codes differ from it.
type Artifact struct {
	Version    int
	Features   []string
	Forest     *forest.Forest
	Evaluation Evaluation
	TrainedAt  time.Time
}

// NewArtifact wraps a fitted forest with the compiled feature schema.
func NewArtifact(f *forest.Forest, ev Evaluation, trainedAt time.Time) *Artifact {
	return &Artifact{
		Version:    ArtifactVersion,
		Features:   features.Names(),
		Forest:     f,
		Evaluation: ev,
		TrainedAt:  trainedAt.UTC(),
	}
}

// Validate checks the artifact can be used with this build.
func (a *Artifact) Validate() error {
	if a.Version != ArtifactVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrArtifact, a.Version, ArtifactVersion)
	}
	if a.Forest == nil || len(a.Forest.Trees) == 0 {
		return fmt.Errorf("%w: no fitted model", ErrArtifact)
	}
	if !features.SameSchema(a.Features) {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, a.Features)
	}
	if a.Forest.NumFeatures != features.NumFields {
		return fmt.Errorf("%w: model expects %d features", ErrSchemaMismatch, a.Forest.NumFeatures)
	}
	return nil
}

// Encode writes a as a single gob blob.
func (a *Artifact) Encode(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(a); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return nil
}

// Decode reads and validates an artifact.
func Decode(r io.Reader) (*Artifact, error) {
	var a Artifact
	if err := gob.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifact, err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Save writes a to path atomically.
func Save(path string, a *Artifact) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := a.Encode(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("install artifact: %w", err)
	}
	return nil
}

// Load reads the artifact at path.
func Load(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
