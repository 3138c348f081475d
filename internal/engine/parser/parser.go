// Package parser converts STIX2-style JSON into the textual forms the
// attribution pipeline works on: incidents become feature strings and
// intrusion-set bundles become per-kind entity representations.
package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/crimson-sun/attributor/internal/model"
)

// kindOrder fixes the id-prefix match order. An object is attributed to
// the first kind whose name prefixes its STIX id.
var kindOrder = []model.EntityKind{
	model.KindAttackPattern,
	model.KindMalware,
	model.KindTool,
	model.KindIdentity,
	model.KindLocation,
	model.KindVulnerability,
	model.KindIndicator,
}

// labelSeparator joins an intrusion set's name to its STIX id in the
// label space, e.g. "Aggah_intrusion-set--088d7359-...".
const labelSeparator = "_"

const intrusionSetPrefix = "intrusion-set--"

// IncidentToFeatureString serializes one incident bundle into a single
// normalized feature string: the semantic ids of its recognized objects,
// in bundle order, joined by single spaces. The function is pure; the
// same incident content always yields the same string.
func IncidentToFeatureString(raw []byte) (string, error) {
	var incident map[string]any
	if err := json.Unmarshal(raw, &incident); err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInputFormat, err)
	}
	if incident == nil {
		return "", fmt.Errorf("%w: incident is not a JSON object", model.ErrInputFormat)
	}

	objects, err := objectList(incident)
	if err != nil {
		return "", err
	}

	features := make([]string, 0, len(objects))
	for _, obj := range objects {
		id, ok := obj["id"].(string)
		if !ok || id == "" {
			return "", fmt.Errorf("%w: object without a string id", model.ErrInputFormat)
		}
		for _, kind := range kindOrder {
			if strings.HasPrefix(id, string(kind)) {
				features = append(features, SemanticID(kind, obj))
				break
			}
		}
	}
	return normalize(strings.Join(features, " ")), nil
}

// SemanticID derives the stable textual feature for one STIX object.
// Attack patterns collapse sub-techniques to their parent technique
// (T1003.001 -> attack-pattern-T1003); malwares and tools use their
// name; the remaining kinds use the raw STIX id.
func SemanticID(kind model.EntityKind, obj map[string]any) string {
	switch kind {
	case model.KindAttackPattern:
		mitreID, _ := obj["x_mitre_id"].(string)
		technique := strings.SplitN(mitreID, ".", 2)[0]
		return "attack-pattern-" + strings.ReplaceAll(technique, " ", "")
	case model.KindMalware:
		name, _ := obj["name"].(string)
		return "malware-" + strings.ReplaceAll(name, " ", "")
	case model.KindTool:
		name, _ := obj["name"].(string)
		return "tool-" + strings.ReplaceAll(name, " ", "")
	default:
		id, _ := obj["id"].(string)
		return id
	}
}

// ParseIntrusionSet builds the per-kind entity representation of one
// intrusion-set bundle. Entities are attached through the bundle's
// relationship objects, in both directions: targets of relationships
// sourced at the intrusion set, and sources of relationships targeting
// it.
func ParseIntrusionSet(raw []byte) (model.IntrusionSet, error) {
	var bundle map[string]any
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return model.IntrusionSet{}, fmt.Errorf("%w: %v", model.ErrInputFormat, err)
	}
	if bundle == nil {
		return model.IntrusionSet{}, fmt.Errorf("%w: bundle is not a JSON object", model.ErrInputFormat)
	}
	objects, err := objectList(bundle)
	if err != nil {
		return model.IntrusionSet{}, err
	}
	return IntrusionSetFromObjects(objects)
}

// IntrusionSetFromObjects is ParseIntrusionSet over already-decoded
// bundle objects.
func IntrusionSetFromObjects(objects []map[string]any) (model.IntrusionSet, error) {
	isObj := findIntrusionSet(objects)
	if isObj == nil {
		return model.IntrusionSet{}, fmt.Errorf("bundle has no intrusion-set object")
	}
	isID, _ := isObj["id"].(string)

	// Index the related objects by STIX id, keeping kind and semantic id.
	type related struct {
		kind model.EntityKind
		sem  string
	}
	index := make(map[string]related)
	for _, obj := range objects {
		typ, _ := obj["type"].(string)
		id, _ := obj["id"].(string)
		if id == "" {
			continue
		}
		for _, kind := range kindOrder {
			if typ == string(kind) {
				index[id] = related{kind: kind, sem: SemanticID(kind, obj)}
				break
			}
		}
	}

	result := model.IntrusionSet{Identifier: isID}
	attach := func(ref, relationType string, isSubject bool) {
		rel, ok := index[ref]
		if !ok {
			return
		}
		result.AddRelated(model.Entity{
			Identifier: ref,
			Kind:       rel.kind,
			SemanticID: rel.sem,
			Relation:   relationType,
			IsSubject:  isSubject,
		})
	}

	for _, obj := range objects {
		if typ, _ := obj["type"].(string); typ != "relationship" {
			continue
		}
		relType, _ := obj["relationship_type"].(string)
		source, _ := obj["source_ref"].(string)
		target, _ := obj["target_ref"].(string)
		if source == isID {
			attach(target, relType, false)
		}
		if target == isID {
			attach(source, relType, true)
		}
	}
	return result, nil
}

// IntrusionSetName returns the label identifier for a bundle:
// "<name>_<stix-id>".
func IntrusionSetName(objects []map[string]any) (string, error) {
	isObj := findIntrusionSet(objects)
	if isObj == nil {
		return "", fmt.Errorf("bundle has no intrusion-set object")
	}
	name, _ := isObj["name"].(string)
	id, _ := isObj["id"].(string)
	if name == "" || id == "" {
		return "", fmt.Errorf("intrusion-set object is missing name or id")
	}
	return name + labelSeparator + id, nil
}

// ValidateLabel checks the "<name>_intrusion-set--<uuid>" identifier
// format.
func ValidateLabel(label string) error {
	name, rest, found := strings.Cut(label, labelSeparator+intrusionSetPrefix)
	if !found || name == "" {
		return fmt.Errorf("label %q does not match <name>_intrusion-set--<uuid>", label)
	}
	if _, err := uuid.Parse(rest); err != nil {
		return fmt.Errorf("label %q has an invalid uuid: %w", label, err)
	}
	return nil
}

// DecodeObjects extracts the objects array from one raw bundle.
func DecodeObjects(raw []byte) ([]map[string]any, error) {
	var bundle map[string]any
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInputFormat, err)
	}
	if bundle == nil {
		return nil, fmt.Errorf("%w: bundle is not a JSON object", model.ErrInputFormat)
	}
	return objectList(bundle)
}

func findIntrusionSet(objects []map[string]any) map[string]any {
	for _, obj := range objects {
		if typ, _ := obj["type"].(string); typ == "intrusion-set" {
			return obj
		}
		if id, _ := obj["id"].(string); strings.HasPrefix(id, intrusionSetPrefix) {
			return obj
		}
	}
	return nil
}

// objectList pulls the "objects" array out of a decoded bundle. A
// missing array is treated as empty; a present non-array is a format
// error.
func objectList(bundle map[string]any) ([]map[string]any, error) {
	rawObjects, ok := bundle["objects"]
	if !ok {
		return nil, nil
	}
	list, ok := rawObjects.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: objects is not an array", model.ErrInputFormat)
	}
	objects := make([]map[string]any, 0, len(list))
	for _, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: objects entry is not an object", model.ErrInputFormat)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// normalize applies NFKC and collapses runs of whitespace to single
// spaces so that semantically identical incidents serialize identically.
func normalize(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}
