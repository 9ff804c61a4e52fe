package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInit(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "", "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, ".aidetect.yaml") {
		t.Errorf("output should name the file:\n%s", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".aidetect.yaml"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "stale_completions") {
		t.Error("full sample should document stale_completions")
	}

	if _, err := execute(t, "", "config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}
	if _, err := execute(t, "", "config", "init", "--force", "--minimal"); err != nil {
		t.Errorf("init --force failed: %v", err)
	}

	out, err = execute(t, "", "config", "validate")
	if err != nil {
		t.Fatalf("generated config should validate: %v", err)
	}
	if !strings.Contains(out, "AI Provider: gemini") {
		t.Errorf("validate summary missing provider:\n%s", out)
	}
}

func TestConfigInit_CustomPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.yaml")

	if _, err := execute(t, "", "config", "init", "--path", path); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !fileExists(path) {
		t.Error("config file should be created with its directory")
	}
}

func TestConfigShow(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".aidetect.yaml"), `ai:
  provider: openai
  api_key: sk-1234567890abcdef
analysis:
  stale_completions: apply
`)

	out, err := execute(t, "", "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if strings.Contains(out, "sk-1234567890abcdef") {
		t.Error("api key must be masked")
	}
	for _, want := range []string{"provider: openai", "sk-1...cdef", "stale_completions: apply"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "", "config", "show", "--format", "json")
	if err != nil {
		t.Fatalf("config show --format json failed: %v", err)
	}
	if !strings.Contains(out, `"provider": "openai"`) {
		t.Errorf("json output missing provider:\n%s", out)
	}

	if _, err := execute(t, "", "config", "show", "--format", "xml"); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestConfigValidate_Invalid(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".aidetect.yaml"), "analysis:\n  stale_completions: sometimes\n")

	out, err := execute(t, "", "config", "validate")
	if err == nil {
		t.Fatal("invalid config should fail validation")
	}
	if !strings.Contains(out, "validation failed") || !strings.Contains(out, "stale_completions") {
		t.Errorf("validate output should explain the failure:\n%s", out)
	}
}

func TestConfigValidate_Check(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		handler  http.HandlerFunc
		wantErr  bool
		want     []string
	}{
		{
			name:     "openai reachable",
			provider: "openai",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/models" {
					http.NotFound(w, r)
					return
				}
				_, _ = w.Write([]byte(`{"object": "list", "data": []}`))
			},
			want: []string{"Provider openai is reachable"},
		},
		{
			name:     "openai rejects key",
			provider: "openai",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided"}}`))
			},
			wantErr: true,
			want:    []string{"Provider check failed", "OPENAI_API_KEY"},
		},
		{
			name:     "ollama model missing",
			provider: "ollama",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"models": []map[string]any{{"name": "mistral:7b"}},
				})
			},
			wantErr: true,
			want:    []string{"ollama pull llava"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			writeFile(t, filepath.Join(dir, ".aidetect.yaml"), "ai:\n  provider: "+tt.provider+
				"\n  endpoint: "+server.URL+"\n  api_key: sk-test-1234567890\n")

			out, err := execute(t, "", "config", "validate", "--check")
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate --check error = %v, wantErr %v\n%s", err, tt.wantErr, out)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestConfigPath(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".aidetect.yaml"), "ai:\n  provider: ollama\n")

	out, err := execute(t, "", "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	for _, want := range []string{"./.aidetect.yaml", "(exists)", "(not found)", "AIDETECT_"} {
		if !strings.Contains(out, want) {
			t.Errorf("path output missing %q:\n%s", want, out)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"${GEMINI_API_KEY}", "${GEMINI_API_KEY}"},
		{"short", "********"},
		{"sk-1234567890abcdef", "sk-1...cdef"},
	}

	for _, tt := range tests {
		if got := maskSecret(tt.in); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
