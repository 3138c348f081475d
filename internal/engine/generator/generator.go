// Package generator synthesizes incident feature sets from intrusion-set
// representations. Training data is generated rather than collected: each
// intrusion set's entities are sampled into many plausible incidents.
package generator

import (
	"math"
	"math/rand"

	"github.com/crimson-sun/attributor/internal/model"
)

// Expected incident size bounds and the shape of the beta-binomial the
// size is drawn from. Small incidents dominate (alpha < beta skews left).
const (
	minIncidentSize = 10
	maxIncidentSize = 50
	alphaShape      = 1.5
	betaShape       = 10.0
)

// Fractions of the size budget taken by each entity kind.
const (
	fracAttackPatterns = 0.5
	fracTools          = 0.2
	fracMalwares       = 0.2
	fracOthers         = 0.1
)

// Generator samples synthetic incidents from an intrusion set's
// entities. Not safe for concurrent use; create one per training run.
// A fixed seed yields a reproducible incident sequence.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator seeded for reproducibility.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns the semantic ids making up one synthetic incident.
// The incident size is beta-binomial over [10, 50], clamped to the
// intrusion set's entity count when that is smaller.
func (g *Generator) Generate(src model.IntrusionSet) []string {
	sizeCap := src.EntityCount()
	if sizeCap < minIncidentSize {
		sizeCap = minIncidentSize
	}
	n := g.incidentSize(minIncidentSize, maxIncidentSize)
	if n > sizeCap {
		n = sizeCap
	}

	var content []string
	content = append(content, g.sampleWithReplacement(src.AttackPatterns, budget(n, fracAttackPatterns))...)
	content = append(content, g.sampleWithReplacement(src.Tools, budget(n, fracTools))...)
	content = append(content, g.sampleWithReplacement(src.Malwares, budget(n, fracMalwares))...)
	content = append(content, g.sampleWithoutReplacement(src.Others(), budget(n, fracOthers))...)
	return content
}

func budget(n int, frac float64) int {
	return int(math.Ceil(float64(n) * frac))
}

// incidentSize draws one value from a beta-binomial over [lbound, ubound]
// via inverse-CDF sampling of the pmf.
func (g *Generator) incidentSize(lbound, ubound int) int {
	pmf := betaBinomialPMF(ubound-lbound, alphaShape, betaShape)
	u := g.rng.Float64()
	cum := 0.0
	for k, p := range pmf {
		cum += p
		if u <= cum {
			return lbound + k
		}
	}
	return ubound
}

// betaBinomialPMF returns pmf(k) for k in 0..n, computed in log space.
func betaBinomialPMF(n int, alpha, beta float64) []float64 {
	pmf := make([]float64, n+1)
	base := logBeta(alpha, beta)
	for k := 0; k <= n; k++ {
		lp := logChoose(n, k) + logBeta(float64(k)+alpha, float64(n-k)+beta) - base
		pmf[k] = math.Exp(lp)
	}
	return pmf
}

func logBeta(a, b float64) float64 {
	la, _ := math.Lgamma(a)
	lb, _ := math.Lgamma(b)
	lab, _ := math.Lgamma(a + b)
	return la + lb - lab
}

func logChoose(n, k int) float64 {
	ln, _ := math.Lgamma(float64(n + 1))
	lk, _ := math.Lgamma(float64(k + 1))
	lnk, _ := math.Lgamma(float64(n - k + 1))
	return ln - lk - lnk
}

// sampleWithReplacement draws k entities with replacement and returns the
// distinct semantic ids in first-drawn order.
func (g *Generator) sampleWithReplacement(src []model.Entity, k int) []string {
	if len(src) == 0 || k <= 0 {
		return nil
	}
	seen := make(map[string]bool, k)
	var out []string
	for i := 0; i < k; i++ {
		id := src[g.rng.Intn(len(src))].SemanticID
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// sampleWithoutReplacement draws min(k, len(src)) distinct entities.
func (g *Generator) sampleWithoutReplacement(src []model.Entity, k int) []string {
	if len(src) == 0 || k <= 0 {
		return nil
	}
	if k > len(src) {
		k = len(src)
	}
	perm := g.rng.Perm(len(src))
	out := make([]string, 0, k)
	for _, idx := range perm[:k] {
		out = append(out, src[idx].SemanticID)
	}
	return out
}
