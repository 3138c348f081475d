package model

// EntityKind is the STIX object type of an entity related to an
// intrusion set.
type EntityKind string

const (
	KindAttackPattern EntityKind = "attack-pattern"
	KindMalware       EntityKind = "malware"
	KindTool          EntityKind = "tool"
	KindIdentity      EntityKind = "identity"
	KindLocation      EntityKind = "location"
	KindVulnerability EntityKind = "vulnerability"
	KindIndicator     EntityKind = "indicator"
)

// Entity is one STIX object linked to an intrusion set through a
// relationship object.
type Entity struct {
	Identifier string     // STIX id, e.g. "malware--f11b0831-..."
	Kind       EntityKind
	SemanticID string // stable textual feature, e.g. "malware-Fysbis"
	Relation   string // relationship_type on the linking relationship
	IsSubject  bool   // true when the entity is the relationship source
}

// IntrusionSet is the parsed representation of one intrusion-set bundle,
// grouped by entity kind. The per-kind split drives the sampling
// fractions used when synthesizing training incidents.
type IntrusionSet struct {
	Identifier string

	AttackPatterns  []Entity
	Malwares        []Entity
	Tools           []Entity
	Identities      []Entity
	Locations       []Entity
	Vulnerabilities []Entity
	Indicators      []Entity
}

// AddRelated appends an entity to its kind bucket. Duplicates (same kind
// and identifier) are ignored.
func (s *IntrusionSet) AddRelated(e Entity) {
	bucket := s.bucket(e.Kind)
	if bucket == nil {
		return
	}
	for _, existing := range *bucket {
		if existing.Identifier == e.Identifier {
			return
		}
	}
	*bucket = append(*bucket, e)
}

func (s *IntrusionSet) bucket(kind EntityKind) *[]Entity {
	switch kind {
	case KindAttackPattern:
		return &s.AttackPatterns
	case KindMalware:
		return &s.Malwares
	case KindTool:
		return &s.Tools
	case KindIdentity:
		return &s.Identities
	case KindLocation:
		return &s.Locations
	case KindVulnerability:
		return &s.Vulnerabilities
	case KindIndicator:
		return &s.Indicators
	}
	return nil
}

// Empty reports whether no related entities were attached.
func (s *IntrusionSet) Empty() bool {
	return s.EntityCount() == 0
}

// EntityCount returns the total number of related entities.
func (s *IntrusionSet) EntityCount() int {
	return len(s.AttackPatterns) + len(s.Malwares) + len(s.Tools) +
		len(s.Identities) + len(s.Locations) + len(s.Vulnerabilities) +
		len(s.Indicators)
}

// Others returns the entities outside the attack-pattern/malware/tool
// buckets, in a fixed order: indicators, vulnerabilities, identities,
// locations.
func (s *IntrusionSet) Others() []Entity {
	out := make([]Entity, 0, len(s.Indicators)+len(s.Vulnerabilities)+len(s.Identities)+len(s.Locations))
	out = append(out, s.Indicators...)
	out = append(out, s.Vulnerabilities...)
	out = append(out, s.Identities...)
	out = append(out, s.Locations...)
	return out
}
