// Package trainer fits attribution models from intrusion-set bundles:
// it synthesizes a labeled incident dataset, fits the classifier on a
// stratified training partition, and reports held-out F1 alongside the
// incremented database version.
package trainer

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"

	"github.com/crimson-sun/attributor/internal/engine/classifier"
	"github.com/crimson-sun/attributor/internal/engine/generator"
	"github.com/crimson-sun/attributor/internal/engine/parser"
	"github.com/crimson-sun/attributor/internal/model"
)

// Config controls dataset generation, splitting and evaluation.
type Config struct {
	Seed         int64      // drives generation, splitting and fitting
	PerLabel     int        // synthetic incidents per intrusion set
	TestFraction float64    // held-out share per label
	Alpha        float64    // classifier smoothing
	Granularity  model.Bump // which version component a retrain increments
}

func defaultConfig() Config {
	return Config{
		Seed:         27,
		PerLabel:     100,
		TestFraction: 0.2,
		Alpha:        1.0,
		Granularity:  model.BumpPatch,
	}
}

// Option adjusts the trainer configuration.
type Option func(*Config)

// WithSeed fixes the random seed for reproducible training runs.
func WithSeed(seed int64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithPerLabel sets the number of synthetic incidents per intrusion set.
func WithPerLabel(n int) Option {
	return func(c *Config) { c.PerLabel = n }
}

// WithTestFraction sets the held-out share per label.
func WithTestFraction(f float64) Option {
	return func(c *Config) { c.TestFraction = f }
}

// WithAlpha sets the classifier's Laplace smoothing.
func WithAlpha(a float64) Option {
	return func(c *Config) { c.Alpha = a }
}

// WithGranularity selects which version component a retrain increments.
func WithGranularity(b model.Bump) Option {
	return func(c *Config) { c.Granularity = b }
}

// Trainer holds a validated corpus of intrusion sets and the version the
// next model supersedes.
type Trainer struct {
	sets    map[string]model.IntrusionSet // label -> representation
	current model.Version
	cfg     Config
	log     *slog.Logger
}

// New validates the corpus and builds a Trainer. Every bundle must parse,
// yield a well-formed "<name>_intrusion-set--<uuid>" label, and carry at
// least one related entity; otherwise ErrTrainingData is returned.
func New(bundles [][]byte, current model.Version, opts ...Option) (*Trainer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.PerLabel <= 0 {
		return nil, fmt.Errorf("%w: per-label count %d must be positive", model.ErrTrainingData, cfg.PerLabel)
	}
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		return nil, fmt.Errorf("%w: test fraction %v outside (0, 1)", model.ErrTrainingData, cfg.TestFraction)
	}
	if len(bundles) == 0 {
		return nil, fmt.Errorf("%w: no intrusion-set bundles", model.ErrTrainingData)
	}

	log := slog.Default().With("component", "trainer")
	sets := make(map[string]model.IntrusionSet, len(bundles))
	for i, raw := range bundles {
		objects, err := parser.DecodeObjects(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: bundle %d: %v", model.ErrTrainingData, i, err)
		}
		label, err := parser.IntrusionSetName(objects)
		if err != nil {
			return nil, fmt.Errorf("%w: bundle %d: %v", model.ErrTrainingData, i, err)
		}
		if err := parser.ValidateLabel(label); err != nil {
			return nil, fmt.Errorf("%w: bundle %d: %v", model.ErrTrainingData, i, err)
		}
		set, err := parser.IntrusionSetFromObjects(objects)
		if err != nil {
			return nil, fmt.Errorf("%w: bundle %d: %v", model.ErrTrainingData, i, err)
		}
		if set.Empty() {
			return nil, fmt.Errorf("%w: bundle %d (%s) has no related entities", model.ErrTrainingData, i, label)
		}
		if _, dup := sets[label]; dup {
			log.Warn("duplicate intrusion set, keeping the last bundle", "label", label)
		}
		sets[label] = set
	}

	log.Info("corpus validated", "intrusion_sets", len(sets), "db_version", current.String())
	return &Trainer{sets: sets, current: current, cfg: cfg, log: log}, nil
}

// Retrain generates the dataset, fits the classifier and evaluates it.
// It returns the fitted model, the weighted F1 on the held-out
// partition, and a version strictly greater than the current one.
// Unexpected fitting or evaluation failures wrap ErrTrainingInternal.
func (t *Trainer) Retrain() (*classifier.NaiveBayes, float64, model.Version, error) {
	labels := make([]string, 0, len(t.sets))
	for l := range t.sets {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	if len(labels) < 2 {
		return nil, 0, model.Version{}, fmt.Errorf(
			"%w: degenerate corpus with %d label(s), need at least 2", model.ErrTrainingInternal, len(labels))
	}

	docs, docLabels := t.buildDataset(labels)
	trainDocs, trainLabels, testDocs, testLabels := stratifiedSplit(
		docs, docLabels, t.cfg.TestFraction, rand.New(rand.NewSource(t.cfg.Seed)))

	nb := classifier.New(t.cfg.Alpha)
	if err := nb.Fit(trainDocs, trainLabels); err != nil {
		return nil, 0, model.Version{}, fmt.Errorf("%w: %v", model.ErrTrainingInternal, err)
	}

	predicted := make([]string, len(testDocs))
	for i, doc := range testDocs {
		p, err := nb.Predict(doc)
		if err != nil {
			return nil, 0, model.Version{}, fmt.Errorf("%w: evaluation: %v", model.ErrTrainingInternal, err)
		}
		predicted[i] = p
	}
	f1 := weightedF1(testLabels, predicted)

	next := t.current.Next(t.cfg.Granularity)
	t.log.Info("retrained model",
		"labels", len(labels),
		"train_docs", len(trainDocs),
		"test_docs", len(testDocs),
		"f1_score", f1,
		"db_version", next.String(),
	)
	return nb, f1, next, nil
}

// buildDataset synthesizes PerLabel incidents per intrusion set, in
// sorted label order so a fixed seed yields a fixed dataset.
func (t *Trainer) buildDataset(labels []string) (docs, docLabels []string) {
	gen := generator.New(t.cfg.Seed)
	docs = make([]string, 0, len(labels)*t.cfg.PerLabel)
	docLabels = make([]string, 0, len(labels)*t.cfg.PerLabel)
	for _, label := range labels {
		set := t.sets[label]
		for i := 0; i < t.cfg.PerLabel; i++ {
			doc := strings.Join(gen.Generate(set), " ")
			if doc == "" {
				doc = " "
			}
			docs = append(docs, doc)
			docLabels = append(docLabels, label)
		}
	}
	return docs, docLabels
}

// stratifiedSplit partitions the dataset per label so every label keeps
// its proportion in both partitions. Every label keeps at least one
// training document; a label needs at least two documents to reach the
// test side.
func stratifiedSplit(docs, labels []string, testFraction float64, rng *rand.Rand) (
	trainDocs, trainLabels, testDocs, testLabels []string,
) {
	byLabel := make(map[string][]int)
	var order []string
	for i, l := range labels {
		if _, seen := byLabel[l]; !seen {
			order = append(order, l)
		}
		byLabel[l] = append(byLabel[l], i)
	}
	sort.Strings(order)

	for _, l := range order {
		indices := byLabel[l]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		nTest := int(float64(len(indices))*testFraction + 0.5)
		if nTest < 1 {
			nTest = 1
		}
		if nTest >= len(indices) {
			nTest = len(indices) - 1
		}
		for _, idx := range indices[:nTest] {
			testDocs = append(testDocs, docs[idx])
			testLabels = append(testLabels, labels[idx])
		}
		for _, idx := range indices[nTest:] {
			trainDocs = append(trainDocs, docs[idx])
			trainLabels = append(trainLabels, labels[idx])
		}
	}
	return trainDocs, trainLabels, testDocs, testLabels
}
