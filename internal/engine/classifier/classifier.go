// Package classifier implements a Bernoulli Naive Bayes multi-label
// classifier over binary token presence. It is the reference scoring
// backend for attribution; anything producing calibrated per-label
// probabilities could replace it.
package classifier

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// NaiveBayes is a Bernoulli Naive Bayes classifier with Laplace
// smoothing. Fields are exported so a fitted model can be persisted and
// reloaded as JSON; treat them as read-only once fitted.
type NaiveBayes struct {
	Alpha     float64                   `json:"alpha"`
	ClassDocs map[string]int            `json:"class_docs"` // label -> training documents
	TokenDocs map[string]map[string]int `json:"token_docs"` // label -> token -> documents containing it
	Vocab     map[string]bool           `json:"vocab"`
	TotalDocs int                       `json:"total_docs"`
}

// New creates an unfitted classifier with smoothing alpha.
func New(alpha float64) *NaiveBayes {
	return &NaiveBayes{
		Alpha:     alpha,
		ClassDocs: make(map[string]int),
		TokenDocs: make(map[string]map[string]int),
		Vocab:     make(map[string]bool),
	}
}

// Tokenize splits a feature string into tokens. Feature strings are
// space-joined semantic ids, so whitespace splitting is exact.
func Tokenize(doc string) []string {
	return strings.Fields(doc)
}

// Fit trains the classifier on parallel documents and labels, replacing
// any previous state. Each document contributes binary token presence.
func (nb *NaiveBayes) Fit(docs, labels []string) error {
	if len(docs) == 0 {
		return fmt.Errorf("classifier: empty training set")
	}
	if len(docs) != len(labels) {
		return fmt.Errorf("classifier: %d documents but %d labels", len(docs), len(labels))
	}

	nb.ClassDocs = make(map[string]int)
	nb.TokenDocs = make(map[string]map[string]int)
	nb.Vocab = make(map[string]bool)
	nb.TotalDocs = 0

	for i, doc := range docs {
		label := labels[i]
		nb.ClassDocs[label]++
		nb.TotalDocs++

		if nb.TokenDocs[label] == nil {
			nb.TokenDocs[label] = make(map[string]int)
		}
		for tok := range presence(doc) {
			nb.TokenDocs[label][tok]++
			nb.Vocab[tok] = true
		}
	}
	return nil
}

// Classes returns the label space in lexical order.
func (nb *NaiveBayes) Classes() []string {
	classes := make([]string, 0, len(nb.ClassDocs))
	for c := range nb.ClassDocs {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

// PredictProba scores one document against every label and returns the
// posterior per label, normalized across the label space. Tokens outside
// the training vocabulary are ignored.
func (nb *NaiveBayes) PredictProba(doc string) (map[string]float64, error) {
	classes := nb.Classes()
	if nb.TotalDocs == 0 || len(classes) == 0 {
		return nil, fmt.Errorf("classifier: model is not fitted")
	}

	// Accumulate in sorted token and class order: float addition is not
	// associative, so a fixed order keeps identical inputs bit-identical.
	vocab := make([]string, 0, len(nb.Vocab))
	for tok := range nb.Vocab {
		vocab = append(vocab, tok)
	}
	sort.Strings(vocab)

	present := presence(doc)
	logScores := make(map[string]float64, len(classes))
	for _, c := range classes {
		classDocs := float64(nb.ClassDocs[c])
		prior := (classDocs + nb.Alpha) / (float64(nb.TotalDocs) + nb.Alpha*float64(len(classes)))
		score := math.Log(prior)

		// Bernoulli likelihood: every vocabulary token contributes,
		// present or not.
		denom := classDocs + 2*nb.Alpha
		for _, tok := range vocab {
			p := (float64(nb.TokenDocs[c][tok]) + nb.Alpha) / denom
			if present[tok] {
				score += math.Log(p)
			} else {
				score += math.Log(1 - p)
			}
		}
		logScores[c] = score
	}

	// Normalize via softmax in log space.
	maxLog := math.Inf(-1)
	for _, c := range classes {
		if logScores[c] > maxLog {
			maxLog = logScores[c]
		}
	}
	probs := make(map[string]float64, len(classes))
	sum := 0.0
	for _, c := range classes {
		p := math.Exp(logScores[c] - maxLog)
		probs[c] = p
		sum += p
	}
	for _, c := range classes {
		probs[c] /= sum
	}
	return probs, nil
}

// Predict returns the highest-probability label for one document, ties
// broken by lexical label order.
func (nb *NaiveBayes) Predict(doc string) (string, error) {
	probs, err := nb.PredictProba(doc)
	if err != nil {
		return "", err
	}
	labels, _ := Rank(probs)
	return labels[0], nil
}

// Rank orders labels by descending probability, ties broken by lexical
// label order, and returns the labels with their matching probabilities.
func Rank(probs map[string]float64) ([]string, []float64) {
	labels := make([]string, 0, len(probs))
	for l := range probs {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if probs[labels[i]] != probs[labels[j]] {
			return probs[labels[i]] > probs[labels[j]]
		}
		return labels[i] < labels[j]
	})
	ranked := make([]float64, len(labels))
	for i, l := range labels {
		ranked[i] = probs[l]
	}
	return labels, ranked
}

// presence returns the set of distinct tokens in a document.
func presence(doc string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range Tokenize(doc) {
		set[tok] = true
	}
	return set
}
