package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"pkt.systems/cvpdf"
)

const sampleResume = "# Jane Doe\nBerlin · jane@doe.dev\n---\n## Skills\n- Go\n---\n## Experience\nAcme\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestOpenInputFileAndURL(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "input.md", "hello")
	reader, closer, err := openInputs([]string{path}, nil)
	if err != nil {
		t.Fatalf("openInputs file: %v", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	buf, _ := io.ReadAll(reader)
	if string(buf) != "hello" {
		t.Fatalf("unexpected file content: %q", string(buf))
	}

	reader, closer, err = openInputs([]string{"file://" + path}, nil)
	if err != nil {
		t.Fatalf("openInputs file URL: %v", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	buf, _ = io.ReadAll(reader)
	if string(buf) != "hello" {
		t.Fatalf("unexpected file URL content: %q", string(buf))
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("remote"))
	}))
	defer srv.Close()
	reader, closer, err = openInputs([]string{srv.URL}, nil)
	if err != nil {
		t.Fatalf("openInputs http: %v", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	buf, _ = io.ReadAll(reader)
	if string(buf) != "remote" {
		t.Fatalf("unexpected http content: %q", string(buf))
	}

	reader, _, err = openInputs([]string{srv.URL + "/missing"}, nil)
	if err != nil {
		t.Fatalf("openInputs is lazy, got %v", err)
	}
	if _, err := io.ReadAll(reader); err == nil {
		t.Fatalf("expected error reading a 404 input")
	}
}

func TestOpenInputsConcatenates(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.md", "one ")
	second := writeFile(t, dir, "b.md", "two")
	reader, closer, err := openInputs([]string{first, second}, nil)
	if err != nil {
		t.Fatalf("openInputs concat: %v", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	buf, _ := io.ReadAll(reader)
	if string(buf) != "one two" {
		t.Fatalf("unexpected concatenated content: %q", string(buf))
	}
}

func TestOpenInputsStdin(t *testing.T) {
	reader, closer, err := openInputs(nil, strings.NewReader("piped"))
	if err != nil || closer != nil {
		t.Fatalf("openInputs stdin: %v %v", closer, err)
	}
	buf, _ := io.ReadAll(reader)
	if string(buf) != "piped" {
		t.Fatalf("unexpected stdin content: %q", string(buf))
	}
	if _, _, err := openInputs([]string{"  "}, nil); err == nil {
		t.Fatalf("expected error for an empty argument")
	}
}

func TestRunWritesPDF(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "cv.md", sampleResume)
	out := filepath.Join(dir, "out", "jane.pdf")

	code, stdout, stderr := runCLI(t, "", "-o", out, "--theme", "forest", input)
	if code != exitOK {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a pdf")
	}
	if !strings.Contains(stdout, "PDF written") {
		t.Fatalf("expected a completion log line, got %q", stdout)
	}
}

func TestRunWritesPDFToStdout(t *testing.T) {
	code, stdout, stderr := runCLI(t, sampleResume, "-o", "-", "--photo", filepath.Join(t.TempDir(), "none.jpg"))
	if code != exitOK {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	if !strings.HasPrefix(stdout, "%PDF") {
		t.Fatalf("stdout does not start with a pdf header: %q", stdout[:min(16, len(stdout))])
	}
	if !strings.Contains(stderr, "rendering without it") {
		t.Fatalf("photo warning should go to stderr, got %q", stderr)
	}
}

func TestRunPlan(t *testing.T) {
	code, stdout, stderr := runCLI(t, sampleResume, "--plan", "--log-level", "none")
	if code != exitOK {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	if !strings.HasPrefix(stdout, "PAGE") || !strings.Contains(stdout, "Experience") || !strings.HasSuffix(stdout, "1 page(s)\n") {
		t.Fatalf("unexpected plan:\n%s", stdout)
	}
}

func TestRunInformational(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "--list-themes")
	rows := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	if code != exitOK || len(rows) != len(cvpdf.AvailableThemes()) {
		t.Fatalf("list-themes: exit %d, %q", code, stdout)
	}
	if rows[0] != "default  #2c3e50 #2980b9 #2980b9" {
		t.Fatalf("unexpected theme row %q", rows[0])
	}
	code, stdout, _ = runCLI(t, "", "--version")
	if code != exitOK || strings.TrimSpace(stdout) == "" {
		t.Fatalf("version: exit %d, %q", code, stdout)
	}
	code, stdout, _ = runCLI(t, "", "--print-config", "--theme", "slate", "--margin", "20")
	if code != exitOK || !strings.Contains(stdout, "theme: slate") || !strings.Contains(stdout, "margin: 20") {
		t.Fatalf("print-config: exit %d, %q", code, stdout)
	}
	if code, _, _ = runCLI(t, "", "--help"); code != exitOK {
		t.Fatalf("help: exit %d", code)
	}
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "cvpdf.yaml", "page_size: Letter\ntheme: mono\n")
	code, stdout, stderr := runCLI(t, "", "-c", cfgPath, "--print-config", "--theme", "forest")
	if code != exitOK {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	if !strings.Contains(stdout, "page_size: Letter") || !strings.Contains(stdout, "theme: forest") {
		t.Fatalf("flags should override the file: %q", stdout)
	}
}

func TestRunConfigColorOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "cvpdf.yaml", "theme: slate\ncolors:\n  heading: \"#aa0000\"\n")
	out := filepath.Join(dir, "cv.pdf")
	if code, _, stderr := runCLI(t, sampleResume, "-c", cfgPath, "-o", out, "--log-level", "none"); code != exitOK {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	bad := writeFile(t, dir, "bad-colors.yaml", "colors:\n  link: blue\n")
	if code, _, _ := runCLI(t, sampleResume, "-c", bad, "-o", out); code != exitUsage {
		t.Fatalf("invalid colour: exit %d, want %d", code, exitUsage)
	}
}

func TestRunUsageErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string][]string{
		"unknown flag":  {"--nope"},
		"bad theme":     {"--theme", "neon", "--print-config"},
		"bad page size": {"--page-size", "B5", "--print-config"},
		"bad log level": {"--log-level", "loud"},
		"missing font":  {"--regular-font", filepath.Join(dir, "missing.ttf")},
		"bad config":    {"-c", writeFile(t, dir, "bad.yaml", "colour: red\n")},
	}
	for name, args := range cases {
		if code, _, _ := runCLI(t, sampleResume, args...); code != exitUsage {
			t.Fatalf("%s: exit %d, want %d", name, code, exitUsage)
		}
	}
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()
	if code, _, _ := runCLI(t, "", "-o", filepath.Join(dir, "x.pdf"), filepath.Join(dir, "missing.md")); code != exitFailed {
		t.Fatalf("missing input: exit %d", code)
	}
	if code, _, _ := runCLI(t, "\x00\x01binary", "-o", filepath.Join(dir, "x.pdf")); code != exitFailed {
		t.Fatalf("binary input: exit %d", code)
	}
	if code, _, _ := runCLI(t, sampleResume, "--payload", "a", "--payload-file", filepath.Join(dir, "p.txt")); code != exitFailed {
		t.Fatalf("payload conflict: exit %d", code)
	}
	if _, err := os.Stat(filepath.Join(dir, "x.pdf")); !os.IsNotExist(err) {
		t.Fatalf("failed runs left an output file: %v", err)
	}
}

func TestResolvePayload(t *testing.T) {
	path := writeFile(t, t.TempDir(), "payload.txt", "Keywords: Go\n\n")
	got, err := resolvePayload(options{payloadFile: path})
	if err != nil || got != "Keywords: Go" {
		t.Fatalf("resolvePayload = %q, %v", got, err)
	}
	got, err = resolvePayload(options{payload: "inline"})
	if err != nil || got != "inline" {
		t.Fatalf("resolvePayload = %q, %v", got, err)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	cases := map[string]string{
		"# Jane Doe\n---\n## Skills": "jane-doe.pdf",
		"# Jöhn Smith":               "john-smith.pdf",
		"No name line\n---":          "resume.pdf",
	}
	for src, want := range cases {
		if got := defaultOutputPath(src); got != want {
			t.Fatalf("defaultOutputPath(%q) = %q, want %q", src, got, want)
		}
	}
}

func TestPrintPlanTruncates(t *testing.T) {
	layout := cvpdf.Layout{
		Pages: 2,
		Sections: []cvpdf.SectionPlacement{
			{Title: "", Page: 0, Y: 36, Estimate: 20, Remaining: 231},
			{Title: strings.Repeat("Very long section title ", 5), Page: 1, Y: 15, Estimate: 120, Remaining: 40, PageBreak: true},
		},
	}
	var out bytes.Buffer
	printPlan(&out, layout, 50)
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, 2 rows and a summary, got %q", lines)
	}
	if !strings.Contains(lines[1], "(untitled)") {
		t.Fatalf("untitled section not labelled: %q", lines[1])
	}
	if utf8.RuneCountInString(lines[2]) > 50 || !strings.HasSuffix(lines[2], "…") {
		t.Fatalf("row not truncated to 50 columns: %q", lines[2])
	}
	if !strings.Contains(lines[2], "yes") || lines[3] != "2 page(s)" {
		t.Fatalf("unexpected plan: %q", lines)
	}
}

func TestEnsureFont(t *testing.T) {
	dir := t.TempDir()
	if err := ensureFont(writeFile(t, dir, "ok.ttf", "x")); err != nil {
		t.Fatalf("ensureFont: %v", err)
	}
	if err := ensureFont(writeFile(t, dir, "font.otf", "x")); err == nil {
		t.Fatalf("expected error for a non-ttf file")
	}
	if err := ensureFont(dir); err == nil {
		t.Fatalf("expected error for a directory")
	}
}

func TestNewLoggerRoutesLevels(t *testing.T) {
	var stdout, stderr bytes.Buffer
	log, err := newLogger("normal", &stdout, &stderr)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	log.Debug("hidden")
	log.Info("shown")
	log.Error("failed")
	if strings.Contains(stdout.String(), "hidden") || !strings.Contains(stdout.String(), "shown") {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "failed") || !strings.Contains(stderr.String(), "failed") {
		t.Fatalf("errors should go to stderr only: %q / %q", stdout.String(), stderr.String())
	}
	if _, err := newLogger("loud", &stdout, &stderr); err == nil {
		t.Fatalf("expected error for an unknown level")
	}
}
