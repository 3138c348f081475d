// Package engine orchestrates the serialize → score → rank pipeline and
// wraps every outcome in the versioned prediction envelope.
package engine

import (
	"log/slog"
	"strings"

	"github.com/crimson-sun/attributor/internal/engine/classifier"
	"github.com/crimson-sun/attributor/internal/engine/parser"
	"github.com/crimson-sun/attributor/internal/model"
)

// topN caps how many ranked labels a prediction returns.
const topN = 3

// Engine scores incidents against a trained attribution model. The model
// may be nil, in which case every prediction reports the
// model-unavailable code. A fitted model is read-only, so one Engine is
// safe for concurrent Predict calls.
type Engine struct {
	model   *classifier.NaiveBayes
	version model.Version
	log     *slog.Logger
}

// New creates an Engine bound to a model and the database version it was
// trained under. The version is echoed on every prediction, not
// validated against the artifact; pairing them correctly is the loading
// collaborator's job.
func New(m *classifier.NaiveBayes, version model.Version) *Engine {
	return &Engine{
		model:   m,
		version: version,
		log:     slog.Default().With("component", "engine"),
	}
}

// Predict scores one incident and never fails: every error is recovered
// into a coded envelope so callers handle a single shape. The input is
// either a raw incident JSON object (serialized first) or an
// already-built feature string (scored as-is).
func (e *Engine) Predict(input string) (p model.Prediction) {
	p = model.Prediction{DBVersion: e.version.String()}
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("prediction panicked", "panic", r)
			p = model.Prediction{Err: model.CodeInternal, DBVersion: e.version.String()}
		}
	}()

	if e.model == nil {
		p.Err = model.CodeModelUnavailable
		return p
	}

	feature, err := e.featureString(input)
	if err != nil || feature == "" {
		p.Err = model.CodeInputFormat
		return p
	}

	probs, err := e.model.PredictProba(feature)
	if err != nil {
		e.log.Warn("scoring failed", "error", err)
		p.Err = model.CodeInternal
		return p
	}

	labels, probas := classifier.Rank(probs)
	if len(labels) > topN {
		labels, probas = labels[:topN], probas[:topN]
	}
	p.Labels = labels
	p.Probas = probas
	return p
}

// featureString serializes JSON incidents and passes pre-built feature
// strings through unchanged.
func (e *Engine) featureString(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", model.ErrInputFormat
	}
	if strings.HasPrefix(trimmed, "{") {
		return parser.IncidentToFeatureString([]byte(trimmed))
	}
	return trimmed, nil
}
