package isolation

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	envAssignLineRe = regexp.MustCompile(`^(\s*[A-Za-z_][A-Za-z0-9_]*\s*=\s*)(\d+)(\s*)$`)
	envURLLineRe    = regexp.MustCompile(`^(\s*[A-Za-z_][A-Za-z0-9_]*\s*=\s*[a-zA-Z][a-zA-Z0-9+.-]*://(?:[^@/]+@)?[^:/]+:)(\d+)((?:[/?#].*)?\s*)$`)
	envVarNameRe    = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*=`)
)

// transformEnv implements spec.md §4.4.3's env kernel: line-by-line,
// comments and blanks preserved verbatim, only the numeric port suffix (or
// the port embedded in a _URL value) rewritten per the assignment map.
// Trailing-newline presence is preserved.
func transformEnv(content string, assignments map[uint16]uint16) (string, []EnvReplacement) {
	hadTrailingNewline := strings.HasSuffix(content, "\n")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	var replacements []EnvReplacement
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		nameMatch := envVarNameRe.FindStringSubmatch(line)
		name := ""
		if nameMatch != nil {
			name = nameMatch[1]
		}

		if strings.HasSuffix(name, "_URL") {
			if m := envURLLineRe.FindStringSubmatch(line); m != nil {
				if orig, ok := parseU16(m[2]); ok {
					if newPort, ok := assignments[orig]; ok {
						lines[i] = m[1] + strconv.Itoa(int(newPort)) + m[3]
						replacements = append(replacements, EnvReplacement{
							VariableName: name, OriginalPort: orig, NewPort: newPort, LineNumber: i + 1,
						})
					}
				}
			}
			continue
		}

		if envPortVarRe.MatchString(name) {
			if m := envAssignLineRe.FindStringSubmatch(line); m != nil {
				if orig, ok := parseU16(m[2]); ok {
					if newPort, ok := assignments[orig]; ok {
						lines[i] = m[1] + strconv.Itoa(int(newPort)) + m[3]
						replacements = append(replacements, EnvReplacement{
							VariableName: name, OriginalPort: orig, NewPort: newPort, LineNumber: i + 1,
						})
					}
				}
			}
		}
	}

	out := strings.Join(lines, "\n")
	if hadTrailingNewline {
		out += "\n"
	}
	return out, replacements
}
