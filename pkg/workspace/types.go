// Package workspace loads clients from several office data directories and
// merges them into one roster with office-prefixed IDs.
package workspace

import (
	"strings"
)

// NormalizePrefix ensures a prefix ends with the ID separator.
func NormalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || strings.HasSuffix(prefix, "-") {
		return prefix
	}
	return prefix + "-"
}

// QualifyID adds an office prefix to a local client ID. Already qualified
// IDs are returned unchanged.
func QualifyID(localID, prefix string) string {
	prefix = NormalizePrefix(prefix)
	if prefix == "" || strings.HasPrefix(localID, prefix) {
		return localID
	}
	return prefix + localID
}

// UnqualifyID strips an office prefix from a namespaced ID.
func UnqualifyID(namespacedID, prefix string) string {
	return strings.TrimPrefix(namespacedID, NormalizePrefix(prefix))
}
