package isolation

import "testing"

func TestTransformEnvPreservesCommentsAndTrailingNewline(t *testing.T) {
	content := "# comment\nDB_PORT=5432\n\nAPI_URL=http://localhost:3000/api\n"
	assignments := map[uint16]uint16{5432: 5532, 3000: 3100}

	out, replacements := transformEnv(content, assignments)

	if !containsLine(out, "DB_PORT=5532") {
		t.Errorf("expected DB_PORT rewritten, got:\n%s", out)
	}
	if !containsLine(out, "API_URL=http://localhost:3100/api") {
		t.Errorf("expected API_URL port rewritten, got:\n%s", out)
	}
	if !containsLine(out, "# comment") {
		t.Error("comment line must be preserved verbatim")
	}
	if len(replacements) != 2 {
		t.Fatalf("expected 2 replacements, got %d", len(replacements))
	}
	if out[len(out)-1] != '\n' {
		t.Error("trailing newline must be preserved")
	}
}

func TestTransformEnvNoTrailingNewline(t *testing.T) {
	content := "PORT=3000"
	out, _ := transformEnv(content, map[uint16]uint16{3000: 3100})
	if out != "PORT=3100" {
		t.Errorf("got %q, want %q", out, "PORT=3100")
	}
}

func TestTransformCompose(t *testing.T) {
	content := "services:\n  web:\n    ports:\n      - \"8080:80\"\n      - \"443:443/tcp\"\n"
	out := transformCompose(content, map[uint16]uint16{8080: 8180, 443: 543})
	if !containsLine(out, `      - "8180:80"`) {
		t.Errorf("host port not rewritten, got:\n%s", out)
	}
	if !containsLine(out, `      - "543:443/tcp"`) {
		t.Errorf("protocol suffix not preserved, got:\n%s", out)
	}
}

func TestTransformGenericFixedPoint(t *testing.T) {
	out := transformGeneric("connect to 3000:3000 please", map[uint16]uint16{3000: 3100})
	if out != "connect to 3100:3100 please" {
		t.Errorf("got %q", out)
	}
}

func TestTransformGenericWordBoundary(t *testing.T) {
	out := transformGeneric("13000 is not 3000 but 3000 is", map[uint16]uint16{3000: 3100})
	if out != "13000 is not 3100 but 3100 is" {
		t.Errorf("got %q", out)
	}
}

func containsLine(s, line string) bool {
	for _, l := range splitLines(s) {
		if l == line {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}
