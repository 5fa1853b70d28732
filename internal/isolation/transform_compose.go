package isolation

import (
	"regexp"
	"strconv"
	"strings"
)

var composeMapLineRe = regexp.MustCompile(`^(\s*-\s*["']?)(\d+)(:\d+(?:/\w+)?["']?\s*)$`)

// transformCompose implements spec.md §4.4.3's compose kernel: only the
// host-side port of a `- "H:C"` mapping entry is rewritten; everything
// else, including non-matching lines, passes through unchanged.
func transformCompose(content string, assignments map[uint16]uint16) string {
	hadTrailingNewline := strings.HasSuffix(content, "\n")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	for i, line := range lines {
		m := composeMapLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		orig, ok := parseU16(m[2])
		if !ok {
			continue
		}
		newPort, ok := assignments[orig]
		if !ok {
			continue
		}
		lines[i] = m[1] + strconv.Itoa(int(newPort)) + m[3]
	}

	out := strings.Join(lines, "\n")
	if hadTrailingNewline {
		out += "\n"
	}
	return out
}
