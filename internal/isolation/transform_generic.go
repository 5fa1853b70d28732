package isolation

import (
	"sort"
	"strconv"
	"strings"
)

// transformGeneric implements spec.md §4.4.3's generic kernel: multi-pass
// textual replacement of bare port numbers, numerically-descending original
// port first so a longer port can't be shadowed by a shorter one's match.
// Each match requires a non-digit (or string-boundary) on both sides.
// Passes repeat to a fixed point (until a pass changes nothing); a single
// replaceWordBounded scan already rewrites both halves of "N:N".
func transformGeneric(content string, assignments map[uint16]uint16) string {
	if len(assignments) == 0 {
		return content
	}

	originals := make([]uint16, 0, len(assignments))
	for orig := range assignments {
		originals = append(originals, orig)
	}
	sort.Slice(originals, func(i, j int) bool { return originals[i] > originals[j] })

	for {
		next := content
		changed := false
		for _, orig := range originals {
			replaced, did := replaceWordBounded(next, strconv.Itoa(int(orig)), strconv.Itoa(int(assignments[orig])))
			if did {
				next = replaced
				changed = true
			}
		}
		content = next
		if !changed {
			break
		}
	}
	return content
}

// replaceWordBounded replaces every occurrence of old in s that is not
// adjacent to another digit on either side, with new. Returns whether any
// replacement was made.
func replaceWordBounded(s, old, newStr string) (string, bool) {
	var b strings.Builder
	any := false
	i := 0
	for {
		idx := strings.Index(s[i:], old)
		if idx < 0 {
			b.WriteString(s[i:])
			break
		}
		start := i + idx
		end := start + len(old)

		before := byte(0)
		if start > 0 {
			before = s[start-1]
		}
		after := byte(0)
		if end < len(s) {
			after = s[end]
		}

		if isDigit(before) || isDigit(after) {
			b.WriteString(s[i:end])
			i = end
			continue
		}

		b.WriteString(s[i:start])
		b.WriteString(newStr)
		i = end
		any = true
	}
	return b.String(), any
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
