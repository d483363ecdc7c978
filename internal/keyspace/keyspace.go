// Package keyspace implements the segment arithmetic behind pseudo-directory
// listings over a flat object keyspace.
//
// Keys are split on "/" into segments. Trailing empty segments are discarded,
// so a directory marker key like "docs/" has the same depth as "docs". Empty
// segments produced by leading or doubled slashes are kept as-is; the driver
// treats keys as opaque and never normalizes them.
package keyspace

import "strings"

// segments splits s on "/" and drops trailing empty segments.
func segments(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "/")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// Depth returns the number of segments in prefix. The empty prefix has depth
// zero and denotes the bucket root.
func Depth(prefix string) int {
	return len(segments(prefix))
}

// Child returns the segment of key immediately below the given prefix depth.
// The second return value is false when the key has no segment at that
// position, which covers keys equal to the prefix and keys shorter than it.
func Child(key string, depth int) (string, bool) {
	parts := segments(key)
	if depth < 0 || len(parts) <= depth {
		return "", false
	}
	return parts[depth], true
}
