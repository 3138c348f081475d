// Package testdata builds STIX-style intrusion-set bundles and incidents
// for tests across the engine packages.
package testdata

import (
	"encoding/json"
	"fmt"
)

// Label identifiers reused across tests.
const (
	AggahLabel   = "Aggah_intrusion-set--088d7359-97fb-591b-aeed-be46caf1027d"
	KippisLabel  = "Kippis_intrusion-set--088d7359-2332-591b-aeed-be83caf1027d"
	UNC2891Label = "UNC2891_intrusion-set--6520a731-fa8a-5232-ba9f-8e0bff785ad6"
)

// BundleSpec describes one intrusion-set bundle to synthesize.
type BundleSpec struct {
	Name           string
	UUID           string
	AttackPatterns []string // x_mitre_id values, e.g. "T1003.001"
	Malwares       []string // names
	Tools          []string // names
	Indicators     int      // count of generated indicator objects
}

// JSON renders the bundle: one intrusion-set object, its related
// entities, and a relationship object per entity wiring them together.
func (s BundleSpec) JSON() []byte {
	isID := "intrusion-set--" + s.UUID
	objects := []map[string]any{{
		"type": "intrusion-set",
		"id":   isID,
		"name": s.Name,
	}}

	var entityIDs []string
	addEntity := func(obj map[string]any) {
		objects = append(objects, obj)
		entityIDs = append(entityIDs, obj["id"].(string))
	}

	for i, mitre := range s.AttackPatterns {
		addEntity(map[string]any{
			"type":       "attack-pattern",
			"id":         fmt.Sprintf("attack-pattern--%s-%04d", s.UUID[:8], i),
			"x_mitre_id": mitre,
		})
	}
	for i, name := range s.Malwares {
		addEntity(map[string]any{
			"type": "malware",
			"id":   fmt.Sprintf("malware--%s-%04d", s.UUID[:8], i),
			"name": name,
		})
	}
	for i, name := range s.Tools {
		addEntity(map[string]any{
			"type": "tool",
			"id":   fmt.Sprintf("tool--%s-%04d", s.UUID[:8], i),
			"name": name,
		})
	}
	for i := 0; i < s.Indicators; i++ {
		addEntity(map[string]any{
			"type": "indicator",
			"id":   fmt.Sprintf("indicator--%s-%04d", s.UUID[:8], i),
		})
	}

	for i, entityID := range entityIDs {
		objects = append(objects, map[string]any{
			"type":              "relationship",
			"id":                fmt.Sprintf("relationship--%s-%04d", s.UUID[:8], i),
			"source_ref":        isID,
			"target_ref":        entityID,
			"relationship_type": "uses",
		})
	}

	raw, err := json.Marshal(map[string]any{"objects": objects})
	if err != nil {
		panic(err)
	}
	return raw
}

// Corpus returns three disjoint intrusion-set bundles whose labels match
// the Aggah/Kippis/UNC2891 constants. Entity vocabularies do not
// overlap, so a trained model separates them cleanly.
func Corpus() [][]byte {
	return [][]byte{
		BundleSpec{
			Name:           "Aggah",
			UUID:           "088d7359-97fb-591b-aeed-be46caf1027d",
			AttackPatterns: []string{"T1003.001", "T1059", "T1071"},
			Malwares:       []string{"Fysbis", "Agent Tesla"},
			Tools:          []string{"Mimikatz"},
			Indicators:     2,
		}.JSON(),
		BundleSpec{
			Name:           "Kippis",
			UUID:           "088d7359-2332-591b-aeed-be83caf1027d",
			AttackPatterns: []string{"T1566.001", "T1204"},
			Malwares:       []string{"Emotet"},
			Tools:          []string{"Cobalt Strike"},
			Indicators:     2,
		}.JSON(),
		BundleSpec{
			Name:           "UNC2891",
			UUID:           "6520a731-fa8a-5232-ba9f-8e0bff785ad6",
			AttackPatterns: []string{"T1014", "T1556"},
			Malwares:       []string{"Slapstick"},
			Tools:          []string{"TINYSHELL"},
			Indicators:     2,
		}.JSON(),
	}
}

// IncidentJSON builds an incident bundle from already-formed STIX
// objects.
func IncidentJSON(objects ...map[string]any) []byte {
	raw, err := json.Marshal(map[string]any{"objects": objects})
	if err != nil {
		panic(err)
	}
	return raw
}
