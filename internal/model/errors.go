package model

import "errors"

// Prediction error codes carried on the wire in place of the label
// object. Downstream consumers key off these values, so they are part of
// the output contract.
const (
	CodeInputFormat      = -1 // incident cannot be serialized to features
	CodeModelUnavailable = -2 // no model was supplied
	CodeInternal         = -3 // scoring failed for any other reason
)

// Prediction-side errors. The engine recovers these into coded result
// envelopes; they never escape Predict.
var (
	ErrInputFormat        = errors.New("incident cannot be serialized to features")
	ErrModelUnavailable   = errors.New("no model configured")
	ErrInternalPrediction = errors.New("prediction failed")
)

// Trainer-side errors. These fail the training call outright: a
// retraining failure must not be mistaken for a usable model.
var (
	ErrTrainingData     = errors.New("invalid training corpus")
	ErrTrainingInternal = errors.New("training failed")
)
