// Package attributor attributes security incidents to threat-actor
// intrusion sets. An incident (a STIX2-style JSON bundle) is serialized
// into a feature string and scored by a multi-label Naive Bayes model,
// yielding up to three candidate intrusion sets with calibrated
// probabilities.
//
// Quick start:
//
//	m, report, err := attributor.Train(bundles)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	a, err := attributor.New(attributor.WithModel(m, report.DBVersion))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res := a.Predict(incidentJSON)
//	if res.OK() {
//	    fmt.Println(res.Labels[0], res.Probas[0])
//	}
//
// Predict never returns an error: failures are coded into the result
// envelope (-1 malformed incident, -2 no model, -3 internal failure), so
// downstream handling is uniform. An Attributor is safe for concurrent
// use once created.
package attributor
