package attributor

import (
	"fmt"

	"github.com/crimson-sun/attributor/internal/engine"
	"github.com/crimson-sun/attributor/internal/engine/classifier"
	"github.com/crimson-sun/attributor/internal/engine/parser"
	"github.com/crimson-sun/attributor/internal/model"
	"github.com/crimson-sun/attributor/internal/registry"
)

// Attributor scores incidents against one trained model. Safe for
// concurrent use.
type Attributor struct {
	engine *engine.Engine
}

// New creates an Attributor. Supply a model with WithModel or
// WithModelDir; without either, the instance is valid but every
// prediction reports CodeModelUnavailable — there is no implicit default
// artifact.
func New(opts ...Option) (*Attributor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var nb *classifier.NaiveBayes
	version := model.DefaultVersion

	switch {
	case o.model != nil:
		nb = o.model.nb
	case o.modelDir != "":
		loaded, meta, err := registry.NewFileStore(o.modelDir).Load()
		if err != nil {
			return nil, fmt.Errorf("attributor: %w", err)
		}
		nb = loaded
		if o.version == "" {
			o.version = meta.DBVersion
		}
	}

	if o.version != "" {
		v, err := model.ParseVersion(o.version)
		if err != nil {
			return nil, fmt.Errorf("attributor: %w", err)
		}
		version = v
	}

	return &Attributor{engine: engine.New(nb, version)}, nil
}

// Predict scores one incident: either a raw incident JSON object or an
// already-built feature string. It never fails; inspect the Result's
// error code.
func (a *Attributor) Predict(input string) Result {
	return fromPrediction(a.engine.Predict(input))
}

// IncidentToFeatureString converts one incident bundle into its
// normalized feature string. Pure and deterministic: identical incident
// content always yields an identical string.
func IncidentToFeatureString(raw []byte) (string, error) {
	return parser.IncidentToFeatureString(raw)
}
