package attributor

import (
	"fmt"

	"github.com/crimson-sun/attributor/internal/engine/classifier"
	"github.com/crimson-sun/attributor/internal/engine/trainer"
	"github.com/crimson-sun/attributor/internal/model"
	"github.com/crimson-sun/attributor/internal/registry"
)

// Model is an opaque trained artifact. It carries the fitted classifier
// and its label space, and can be handed unchanged to New via WithModel.
type Model struct {
	nb *classifier.NaiveBayes
}

// Labels returns the model's label space in lexical order.
func (m *Model) Labels() []string {
	return m.nb.Classes()
}

// Report summarizes one training run.
type Report struct {
	F1Score   float64 // weighted F1 on the held-out partition, in [0, 1]
	DBVersion string  // version of the new model, strictly greater than the previous one
}

type trainOptions struct {
	currentVersion string
	bump           string
	trainerOpts    []trainer.Option
}

// TrainOption configures a training run.
type TrainOption func(*trainOptions)

// WithCurrentVersion sets the version the new model supersedes. Default
// "(0, 0, 1)".
func WithCurrentVersion(version string) TrainOption {
	return func(o *trainOptions) { o.currentVersion = version }
}

// WithSeed fixes the random seed: a fixed seed and fixed bundle content
// reproduce the same model and F1 score.
func WithSeed(seed int64) TrainOption {
	return func(o *trainOptions) {
		o.trainerOpts = append(o.trainerOpts, trainer.WithSeed(seed))
	}
}

// WithPerLabel sets how many synthetic incidents are generated per
// intrusion set. Default 100.
func WithPerLabel(n int) TrainOption {
	return func(o *trainOptions) {
		o.trainerOpts = append(o.trainerOpts, trainer.WithPerLabel(n))
	}
}

// WithBump selects which version component the retrain increments:
// "patch" (default), "minor" or "major".
func WithBump(granularity string) TrainOption {
	return func(o *trainOptions) { o.bump = granularity }
}

// Train fits a new model on intrusion-set bundles. Malformed corpora
// fail with an error wrapping the training-data condition; no partial
// model is ever returned.
func Train(bundles [][]byte, opts ...TrainOption) (*Model, Report, error) {
	o := trainOptions{currentVersion: model.DefaultVersion.String()}
	for _, opt := range opts {
		opt(&o)
	}

	current, err := model.ParseVersion(o.currentVersion)
	if err != nil {
		return nil, Report{}, fmt.Errorf("attributor: %w", err)
	}
	if o.bump != "" {
		b, err := model.ParseBump(o.bump)
		if err != nil {
			return nil, Report{}, fmt.Errorf("attributor: %w", err)
		}
		o.trainerOpts = append(o.trainerOpts, trainer.WithGranularity(b))
	}

	t, err := trainer.New(bundles, current, o.trainerOpts...)
	if err != nil {
		return nil, Report{}, err
	}
	nb, f1, next, err := t.Retrain()
	if err != nil {
		return nil, Report{}, err
	}
	return &Model{nb: nb}, Report{F1Score: f1, DBVersion: next.String()}, nil
}

// Save persists the model and report to a directory readable by
// WithModelDir.
func (m *Model) Save(dir string, report Report) error {
	version, err := model.ParseVersion(report.DBVersion)
	if err != nil {
		return fmt.Errorf("attributor: %w", err)
	}
	_, err = registry.NewFileStore(dir).Save(m.nb, version, report.F1Score)
	return err
}
