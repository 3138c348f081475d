package model

import (
	"encoding/json"
	"fmt"
)

// Prediction is the outcome of scoring one incident. Exactly one state
// holds: Err == 0 with ranked labels and probabilities, or a negative
// Err code with neither. Callers branch on OK() instead of inspecting
// the wire-level sentinel values.
type Prediction struct {
	Labels    []string
	Probas    []float64
	Err       int // 0 on success, one of the Code constants otherwise
	DBVersion string
}

// OK reports whether the prediction succeeded.
func (p Prediction) OK() bool {
	return p.Err == 0
}

// rankedLabels is the wire form of a successful label set.
type rankedLabels struct {
	Labels []string  `json:"labels"`
	Probas []float64 `json:"probas"`
}

// predictionWire is the envelope shared by success and failure: on
// success Label holds a rankedLabels object, on failure the negative
// error code.
type predictionWire struct {
	Label     any    `json:"label"`
	DBVersion string `json:"db_version"`
}

// MarshalJSON renders the envelope, e.g.
//
//	{"label":{"labels":[...],"probas":[...]},"db_version":"(0, 0, 1)"}
//	{"label":-2,"db_version":"(0, 0, 1)"}
func (p Prediction) MarshalJSON() ([]byte, error) {
	w := predictionWire{DBVersion: p.DBVersion}
	if p.OK() {
		w.Label = rankedLabels{Labels: p.Labels, Probas: p.Probas}
	} else {
		w.Label = p.Err
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses either envelope shape.
func (p *Prediction) UnmarshalJSON(b []byte) error {
	var raw struct {
		Label     json.RawMessage `json:"label"`
		DBVersion string          `json:"db_version"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	p.DBVersion = raw.DBVersion
	p.Labels, p.Probas, p.Err = nil, nil, 0

	var code int
	if err := json.Unmarshal(raw.Label, &code); err == nil {
		if code >= 0 {
			return fmt.Errorf("prediction envelope: label code %d is not negative", code)
		}
		p.Err = code
		return nil
	}
	var ranked rankedLabels
	if err := json.Unmarshal(raw.Label, &ranked); err != nil {
		return fmt.Errorf("prediction envelope: %w", err)
	}
	p.Labels = ranked.Labels
	p.Probas = ranked.Probas
	return nil
}
