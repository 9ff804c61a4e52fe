package cli

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/yildizm/AIDetect/internal/ai"
	"github.com/yildizm/AIDetect/internal/analyzer"
	"github.com/yildizm/AIDetect/internal/config"
	"github.com/yildizm/AIDetect/internal/emoji"
)

type fakeDetector struct {
	mu      sync.Mutex
	verdict bool
	err     error
	texts   []string
	images  int
}

func (d *fakeDetector) DetectText(ctx context.Context, text string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.texts = append(d.texts, text)
	return d.verdict, d.err
}

func (d *fakeDetector) DetectImage(ctx context.Context, data []byte, mimeType string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.images++
	return d.verdict, d.err
}

func (d *fakeDetector) calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.texts) + d.images
}

// useFakeDetector swaps the detector factory and records the config it saw
func useFakeDetector(t *testing.T, det *fakeDetector) **config.Config {
	t.Helper()
	var seen *config.Config
	previous := detectorFactory
	detectorFactory = func(cfg *config.Config) (analyzer.Detector, error) {
		seen = cfg
		return det, nil
	}
	t.Cleanup(func() { detectorFactory = previous })
	return &seen
}

// isolate runs the test in an empty working directory and home
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "AIDETECT_AI_API_KEY"} {
		t.Setenv(name, "")
	}
	globalConfig = nil
	t.Cleanup(func() {
		globalConfig = nil
		emoji.SetEmojiDisabled(false)
	})
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("dev", "none", "unknown")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--no-emoji"}, args...))
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write png: %v", err)
	}
}

func TestReadTextInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "essay.txt")
	writeFile(t, file, "from a file")

	tests := []struct {
		name       string
		args       []string
		inline     string
		stdin      string
		wantText   string
		wantSource string
		wantErr    string
	}{
		{name: "inline text", inline: "hello", wantText: "hello", wantSource: "--text"},
		{name: "inline and file", inline: "hello", args: []string{file}, wantErr: "not both"},
		{name: "dash reads stdin", args: []string{"-"}, stdin: "piped", wantText: "piped", wantSource: stdinSource},
		{name: "no args reads stdin", stdin: "piped too", wantText: "piped too", wantSource: stdinSource},
		{name: "file", args: []string{file}, wantText: "from a file", wantSource: file},
		{name: "missing file", args: []string{filepath.Join(dir, "nope.txt")}, wantErr: "does not exist"},
		{name: "directory", args: []string{dir}, wantErr: "is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, source, err := readTextInput(tt.args, tt.inline, strings.NewReader(tt.stdin))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("readTextInput() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("readTextInput() error = %v", err)
			}
			if text != tt.wantText || source != tt.wantSource {
				t.Errorf("readTextInput() = (%q, %q), want (%q, %q)", text, source, tt.wantText, tt.wantSource)
			}
		})
	}
}

func TestTextCommand(t *testing.T) {
	isolate(t)
	det := &fakeDetector{verdict: true}
	useFakeDetector(t, det)

	out, err := execute(t, "", "text", "--text", "an essay", "-o", "json")
	if err != nil {
		t.Fatalf("text command failed: %v", err)
	}

	if len(det.texts) != 1 || det.texts[0] != "an essay" {
		t.Errorf("detector saw %q", det.texts)
	}
	for _, want := range []string{`"ai_generated": true`, `"mode": "text"`, `"source": "--text"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestTextCommand_Stdin(t *testing.T) {
	isolate(t)
	det := &fakeDetector{verdict: false}
	useFakeDetector(t, det)

	out, err := execute(t, "written by me", "text", "-o", "markdown")
	if err != nil {
		t.Fatalf("text command failed: %v", err)
	}
	if len(det.texts) != 1 || det.texts[0] != "written by me" {
		t.Errorf("detector saw %q", det.texts)
	}
	if !strings.Contains(out, "**AI-generated content:** NO") {
		t.Errorf("markdown verdict missing:\n%s", out)
	}
}

func TestTextCommand_EmptyInput(t *testing.T) {
	isolate(t)
	det := &fakeDetector{}
	useFakeDetector(t, det)

	out, err := execute(t, "", "text", "-o", "json")
	if err == nil {
		t.Fatal("empty input should fail the command")
	}
	if !strings.Contains(err.Error(), analyzer.ReasonNoText) {
		t.Errorf("error = %v, want %q", err, analyzer.ReasonNoText)
	}
	if !strings.Contains(out, analyzer.ReasonNoText) {
		t.Errorf("report should carry the validation message:\n%s", out)
	}
	if det.calls() != 0 {
		t.Error("detector must not be called for empty input")
	}
}

func TestTextCommand_ServiceError(t *testing.T) {
	isolate(t)
	det := &fakeDetector{err: ai.NewHTTPError(ai.ErrTypeQuota, 429, "Quota exceeded for today", "gemini")}
	useFakeDetector(t, det)

	out, err := execute(t, "", "text", "--text", "essay")
	if err == nil || !strings.Contains(err.Error(), "Quota exceeded for today") {
		t.Fatalf("error = %v, want the service message", err)
	}
	if !strings.Contains(out, "Quota exceeded for today") {
		t.Errorf("report should show the service message:\n%s", out)
	}
}

func TestImageCommand(t *testing.T) {
	dir := isolate(t)
	det := &fakeDetector{verdict: false}
	useFakeDetector(t, det)

	path := filepath.Join(dir, "photo.png")
	writePNG(t, path)

	out, err := execute(t, "", "image", path, "-o", "json")
	if err != nil {
		t.Fatalf("image command failed: %v", err)
	}
	if det.images != 1 {
		t.Errorf("DetectImage called %d times, want 1", det.images)
	}
	for _, want := range []string{`"mime_type": "image/png"`, `"ai_generated": false`, `"mode": "image"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestImageCommand_Rejected(t *testing.T) {
	dir := isolate(t)

	notes := filepath.Join(dir, "notes.txt")
	writeFile(t, notes, "plain text")

	big := filepath.Join(dir, "big.png")
	writePNG(t, big)

	tests := []struct {
		name    string
		env     string
		path    string
		wantErr error
	}{
		{name: "unsupported type", path: notes, wantErr: analyzer.ErrUnsupportedImage},
		{name: "too large", env: "16", path: big, wantErr: analyzer.ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det := &fakeDetector{}
			useFakeDetector(t, det)
			if tt.env != "" {
				t.Setenv("AIDETECT_ANALYSIS_MAX_IMAGE_BYTES", tt.env)
			}

			_, err := execute(t, "", "image", tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if det.calls() != 0 {
				t.Error("rejected images must not reach the detector")
			}
		})
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".aidetect.yaml"), `ai:
  provider: openai
  model: gpt-4o-mini
output:
  default_format: markdown
`)

	seen := useFakeDetector(t, &fakeDetector{})

	out, err := execute(t, "", "--provider", "ollama", "--model", "llava", "-o", "json", "text", "--text", "x")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	cfg := *seen
	if cfg == nil {
		t.Fatal("detector factory was not called")
	}
	if cfg.AI.Provider != "ollama" || cfg.AI.Model != "llava" {
		t.Errorf("flags should win over the file, got %s/%s", cfg.AI.Provider, cfg.AI.Model)
	}
	if !strings.Contains(out, `"provider": "ollama"`) {
		t.Errorf("json output expected:\n%s", out)
	}
}

func TestInvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown provider", args: []string{"--provider", "nope", "text", "--text", "x"}},
		{name: "unknown output format", args: []string{"-o", "csv", "text", "--text", "x"}},
		{name: "missing config file", args: []string{"--config", "missing.yaml", "text", "--text", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			det := &fakeDetector{}
			useFakeDetector(t, det)

			if _, err := execute(t, "", tt.args...); err == nil {
				t.Error("expected an error")
			}
			if det.calls() != 0 {
				t.Error("detector must not be called")
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	for _, want := range []string{"AIDetect development (local-build)", "Go version:", "OS/Arch:"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q:\n%s", want, out)
		}
	}
}

func TestVersionCommand_IgnoresBrokenConfig(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".aidetect.yaml"), "ai:\n  provider: bogus\n")

	if _, err := execute(t, "", "version"); err != nil {
		t.Errorf("version should not load the config: %v", err)
	}
}

func TestColorEnabled(t *testing.T) {
	old := globalConfig
	defer func() { globalConfig = old }()

	tests := []struct {
		mode string
		want bool
	}{
		{"always", true},
		{"never", false},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Output.ColorMode = tt.mode
			globalConfig = cfg

			if got := colorEnabled(); got != tt.want {
				t.Errorf("colorEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildReport(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AI.Model = "gemini-x"

	session := analyzer.NewSession(&fakeDetector{verdict: true})
	defer session.Dispose()
	if err := session.UpdateText("héllo"); err != nil {
		t.Fatal(err)
	}
	session.AnalyzeSync(t.Context())

	report := buildReport(session.Snapshot(), cfg, "--text", 0, true)
	if report.Size != 5 {
		t.Errorf("size = %d, want 5 characters", report.Size)
	}
	if report.Status != analyzer.Result(true) {
		t.Errorf("status = %s", report.Status)
	}
	if report.Provider != "gemini" || report.Model != "gemini-x" {
		t.Errorf("provider = %s/%s", report.Provider, report.Model)
	}
}

func TestBuildReport_Preview(t *testing.T) {
	cfg := config.DefaultConfig()
	path := filepath.Join(t.TempDir(), "red.png")
	writePNG(t, path)

	file, err := analyzer.LoadImageFile(path, 0)
	if err != nil {
		t.Fatal(err)
	}

	session := analyzer.NewSession(&fakeDetector{})
	defer session.Dispose()
	session.SetMode(analyzer.ModeImage)
	if err := session.SelectFile(file); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		preview bool
	}{
		{"requested", true},
		{"not requested", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := buildReport(session.Snapshot(), cfg, path, 0, tt.preview)
			if report.MimeType != "image/png" {
				t.Errorf("mime = %q, want image/png", report.MimeType)
			}
			if got := report.Preview != ""; got != tt.preview {
				t.Errorf("preview present = %v, want %v", got, tt.preview)
			}
		})
	}
}
