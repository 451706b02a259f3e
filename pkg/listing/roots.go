package listing

import (
	"fmt"
	"strings"
)

// Roots holds the configured document roots and matches request paths
// against their URL prefixes. Built once at startup, read-only after.
type Roots struct {
	roots []Root
}

func NewRoots(roots ...Root) (*Roots, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("at least one document root is required")
	}
	seen := make(map[string]struct{}, len(roots))
	for _, r := range roots {
		if _, ok := seen[r.prefix]; ok {
			return nil, fmt.Errorf("duplicate root prefix: %s", r.prefix)
		}
		seen[r.prefix] = struct{}{}
	}
	return &Roots{roots: roots}, nil
}

// Match finds the root with the longest prefix matching urlPath and
// returns it together with the remainder of the path. The remainder is
// matched on raw segments; Resolve does the normalization, so a `..`
// in urlPath cannot hop between roots unnoticed.
func (rs *Roots) Match(urlPath string) (Root, string, bool) {
	var (
		best    Root
		bestLen = -1
		rel     string
	)
	for _, r := range rs.roots {
		switch {
		case r.prefix == "/":
			if bestLen < 1 {
				best, bestLen, rel = r, 1, urlPath
			}
		case urlPath == r.prefix || strings.HasPrefix(urlPath, r.prefix+"/"):
			if len(r.prefix) > bestLen {
				best, bestLen, rel = r, len(r.prefix), strings.TrimPrefix(urlPath, r.prefix)
			}
		}
	}
	if bestLen < 0 {
		return Root{}, "", false
	}
	return best, rel, true
}

// All returns the configured roots, for startup logging and sandbox
// setup.
func (rs *Roots) All() []Root {
	out := make([]Root, len(rs.roots))
	copy(out, rs.roots)
	return out
}
