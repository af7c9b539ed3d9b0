package network

// ID identifies a blockchain or execution environment. IDs are opaque string
// keys shared verbatim by agent configuration, provider declarations and tool
// lookups; intersection is computed by plain equality.
type ID string

const (
	BNB      ID = "bnb"
	Ethereum ID = "ethereum"
	Solana   ID = "solana"
)

// ParseList converts raw config strings into network IDs, dropping empties.
func ParseList(raw []string) []ID {
	ids := make([]ID, 0, len(raw))
	for _, r := range raw {
		if r == "" {
			continue
		}
		ids = append(ids, ID(r))
	}
	return ids
}

// Strings converts a list of IDs back to plain strings.
func Strings(ids []ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}

// Set is an unordered membership set of network IDs.
type Set map[ID]struct{}

// NewSet builds a set from the given IDs.
func NewSet(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts an ID into the set.
func (s Set) Add(id ID) {
	s[id] = struct{}{}
}

// Contains reports set membership.
func (s Set) Contains(id ID) bool {
	_, ok := s[id]
	return ok
}

// Intersect returns the members of ordered that are also in s, preserving
// the order of the input slice so callers get deterministic output.
func (s Set) Intersect(ordered []ID) []ID {
	out := make([]ID, 0, len(ordered))
	for _, id := range ordered {
		if s.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}
