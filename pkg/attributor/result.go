package attributor

import (
	"encoding/json"

	"github.com/crimson-sun/attributor/internal/model"
)

// Error codes carried in a failed Result.
const (
	CodeInputFormat      = model.CodeInputFormat      // -1
	CodeModelUnavailable = model.CodeModelUnavailable // -2
	CodeInternal         = model.CodeInternal         // -3
)

// Result is the stable public prediction envelope. On success Labels and
// Probas hold up to three candidates ranked by descending probability;
// on failure ErrCode holds one of the Code constants and both slices are
// nil.
type Result struct {
	Labels    []string
	Probas    []float64
	ErrCode   int
	DBVersion string
}

// OK reports whether the prediction succeeded.
func (r Result) OK() bool {
	return r.ErrCode == 0
}

// MarshalJSON renders the wire envelope:
//
//	{"label":{"labels":[...],"probas":[...]},"db_version":"(0, 0, 1)"}
//	{"label":-2,"db_version":"(0, 0, 1)"}
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(model.Prediction{
		Labels:    r.Labels,
		Probas:    r.Probas,
		Err:       r.ErrCode,
		DBVersion: r.DBVersion,
	})
}

// UnmarshalJSON parses either wire envelope shape.
func (r *Result) UnmarshalJSON(b []byte) error {
	var p model.Prediction
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	r.Labels = p.Labels
	r.Probas = p.Probas
	r.ErrCode = p.Err
	r.DBVersion = p.DBVersion
	return nil
}

func fromPrediction(p model.Prediction) Result {
	return Result{
		Labels:    p.Labels,
		Probas:    p.Probas,
		ErrCode:   p.Err,
		DBVersion: p.DBVersion,
	}
}
