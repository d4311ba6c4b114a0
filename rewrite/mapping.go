package rewrite

// MappingKind tags an entry in the address-rewrite table. The table holds
// several kinds of rewrite rules for the same address; forward management
// only ever reads and writes KindForward and must skip the rest.
type MappingKind string

const (
	KindForward     MappingKind = "forward"
	KindAlias       MappingKind = "alias"
	KindRegex       MappingKind = "regex"
	KindError       MappingKind = "error"
	KindDomainAlias MappingKind = "domain_alias"
)

// Valid reports whether k is one of the known mapping kinds.
func (k MappingKind) Valid() bool {
	switch k {
	case KindForward, KindAlias, KindRegex, KindError, KindDomainAlias:
		return true
	}
	return false
}

// Mapping is a single rewrite entry: the kind together with its value. For
// forward mappings the value is the destination address.
type Mapping struct {
	Kind  MappingKind
	Value string
}

// ForwardMapping builds a forward-kind mapping to the given destination.
func ForwardMapping(destination MailAddress) Mapping {
	return Mapping{Kind: KindForward, Value: destination.String()}
}

// forwardValues extracts the values of forward-kind mappings, skipping every
// other kind.
func forwardValues(mappings []Mapping) []string {
	var values []string
	for _, m := range mappings {
		if m.Kind == KindForward {
			values = append(values, m.Value)
		}
	}
	return values
}
