package trainer

// weightedF1 computes the support-weighted mean of per-class F1 scores,
// the retraining quality gate. Classes absent from the ground truth but
// present in predictions contribute no weight.
func weightedF1(yTrue, yPred []string) float64 {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return 0
	}

	type counts struct{ tp, fp, fn int }
	perClass := make(map[string]*counts)
	at := func(c string) *counts {
		if perClass[c] == nil {
			perClass[c] = &counts{}
		}
		return perClass[c]
	}

	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			at(yTrue[i]).tp++
			continue
		}
		at(yTrue[i]).fn++
		at(yPred[i]).fp++
	}

	total := float64(len(yTrue))
	var weighted float64
	for _, c := range perClass {
		support := c.tp + c.fn
		if support == 0 {
			continue
		}
		var precision, recall float64
		if c.tp+c.fp > 0 {
			precision = float64(c.tp) / float64(c.tp+c.fp)
		}
		if c.tp+c.fn > 0 {
			recall = float64(c.tp) / float64(c.tp+c.fn)
		}
		var f1 float64
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		weighted += f1 * float64(support) / total
	}
	return weighted
}
