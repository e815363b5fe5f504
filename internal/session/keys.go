package session

import "sort"

// sortedKeys gives map iteration a stable order so analysis output is
// deterministic across calls.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
