// Package execenv builds child-process environments from an immutable base
// plus explicit overlay maps. The base slice is never modified; every merge
// allocates a fresh environment, so no locking or defensive copying is
// needed anywhere else.
package execenv

import (
	"sort"
	"strings"
)

// Merge returns a new environment with the overlays applied on top of base.
// Later overlays win over earlier ones and over base. Keys already present
// in base keep their position; new keys are appended in sorted order so the
// result is deterministic.
func Merge(base []string, overlays ...map[string]string) []string {
	values := make(map[string]string, len(base))
	order := make([]string, 0, len(base))
	for _, entry := range base {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, seen := values[key]; !seen {
			order = append(order, key)
		}
		values[key] = value
	}

	var added []string
	addedSet := make(map[string]struct{})
	for _, overlay := range overlays {
		for key, value := range overlay {
			if _, seen := values[key]; !seen {
				if _, dup := addedSet[key]; !dup {
					added = append(added, key)
					addedSet[key] = struct{}{}
				}
			}
			values[key] = value
		}
	}
	sort.Strings(added)

	merged := make([]string, 0, len(order)+len(added))
	for _, key := range append(order, added...) {
		merged = append(merged, key+"="+values[key])
	}
	return merged
}
