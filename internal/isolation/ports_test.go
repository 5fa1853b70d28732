package isolation

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectPortsEnvDockerCompose(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, ".env"), "DB_PORT=5432\nAPI_URL=http://localhost:3000/api\nNOT_A_PORT=hello\n")
	writeFile(t, filepath.Join(dir, "Dockerfile"), "FROM node\n# EXPOSE 1234 is a comment\nEXPOSE 8080\n")
	writeFile(t, filepath.Join(dir, "docker-compose.yml"), "services:\n  web:\n    ports:\n      - \"8080:80\"\n")
	writeFile(t, filepath.Join(dir, "node_modules", "pkg", "package.json"), `{"scripts":{"start":"node server.js -p 9999"}}`)
	writeFile(t, filepath.Join(dir, "package.json"), "{\n  \"scripts\": {\n    \"start\": \"node server.js --port 4000\"\n  }\n}\n")

	sources, err := DetectPorts(dir)
	if err != nil {
		t.Fatalf("DetectPorts: %v", err)
	}

	var gotDB, gotURL, gotExpose, gotCompose, gotScript, gotNodeModules bool
	for _, s := range sources {
		switch {
		case s.VariableName == "DB_PORT" && s.PortValue == 5432:
			gotDB = true
		case s.VariableName == "API_URL" && s.PortValue == 3000:
			gotURL = true
		case s.VariableName == "EXPOSE" && s.PortValue == 8080:
			gotExpose = true
		case s.VariableName == "COMPOSE:8080":
			gotCompose = true
		case s.VariableName == "SCRIPT:4000":
			gotScript = true
		case s.VariableName == "SCRIPT:9999":
			gotNodeModules = true
		}
	}

	if !gotDB {
		t.Error("missing DB_PORT detection")
	}
	if !gotURL {
		t.Error("missing _URL port detection")
	}
	if !gotExpose {
		t.Error("missing EXPOSE detection (or comment not stripped)")
	}
	if !gotCompose {
		t.Error("missing compose host-port detection")
	}
	if !gotScript {
		t.Error("missing package.json script port detection")
	}
	if gotNodeModules {
		t.Error("node_modules package.json must be excluded")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
