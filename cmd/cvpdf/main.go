package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"
	"pkt.systems/version"

	"pkt.systems/cvpdf"
	"pkt.systems/cvpdf/pdf"
)

const (
	defaultWidth      = 80
	defaultOutputName = "resume"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func init() {
	version.SetDefaultModule("pkt.systems/cvpdf")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	outPath     string
	photo       string
	iconDir     string
	payload     string
	payloadFile string
	themeName   string
	configPath  string
	printConfig bool
	listThemes  bool
	plan        bool
	logLevel    string
	showVersion bool
	pageSize    string
	margin      float64
	regularFont string
	boldFont    string
	fontFamily  string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	defaults := pdf.DefaultConfig()
	flags := pflag.NewFlagSet("cvpdf", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output PDF path (- for stdout; default derived from the résumé name)")
	flags.StringVar(&opts.photo, "photo", "", "Photo drawn at the top left of the header")
	flags.StringVar(&opts.iconDir, "icons", "", "Directory of section icons named u_<hex codepoint>.png|jpg|svg")
	flags.StringVar(&opts.payload, "payload", "", "Invisible text drawn after all content")
	flags.StringVar(&opts.payloadFile, "payload-file", "", "Read the invisible payload from a file")
	flags.StringVarP(&opts.themeName, "theme", "t", defaults.Theme, "Theme name")
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	flags.BoolVar(&opts.printConfig, "print-config", false, "Print the effective configuration and exit")
	flags.BoolVar(&opts.listThemes, "list-themes", false, "List available themes")
	flags.BoolVar(&opts.plan, "plan", false, "Print where each section lands instead of writing a PDF")
	flags.StringVar(&opts.logLevel, "log-level", "normal", "Console log level: none|normal|debug")
	flags.BoolVarP(&opts.showVersion, "version", "v", false, "Print version and exit")
	flags.StringVar(&opts.pageSize, "page-size", defaults.PageSize, "Page size: A3|A4|A5|Letter|Legal")
	flags.Float64Var(&opts.margin, "margin", defaults.Margin, "Page margin in millimetres")
	flags.StringVar(&opts.fontFamily, "font-family", "", "Core font family or name for --regular-font/--bold-font")
	flags.StringVar(&opts.regularFont, "regular-font", "", "TTF path for the regular font")
	flags.StringVar(&opts.boldFont, "bold-font", "", "TTF path for the bold font")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: cvpdf [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nIf no input is provided, Markdown is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if opts.showVersion {
		fmt.Fprintln(stdout, version.Module(), version.Current())
		return exitOK
	}
	if opts.listThemes {
		printThemes(stdout)
		return exitOK
	}

	cfg, err := resolveConfig(flags, opts)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitUsage
	}
	if opts.printConfig {
		data, err := pdf.DumpConfig(cfg)
		if err != nil {
			fmt.Fprintf(stderr, "config: %v\n", err)
			return exitFailed
		}
		_, _ = stdout.Write(data)
		return exitOK
	}

	logOut := stdout
	if opts.outPath == "-" {
		logOut = stderr
	}
	log, err := newLogger(opts.logLevel, logOut, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitUsage
	}
	defer func() { _ = log.Sync() }()

	payload, err := resolvePayload(opts)
	if err != nil {
		log.Error("Unable to read payload", zap.Error(err))
		return exitFailed
	}

	reader, closer, err := openInputs(flags.Args(), stdin)
	if err != nil {
		log.Error("Unable to open input", zap.Error(err))
		return exitFailed
	}
	src, err := io.ReadAll(reader)
	if closer != nil {
		_ = closer.Close()
	}
	if err != nil {
		log.Error("Unable to read input", zap.Error(err))
		return exitFailed
	}

	req := pdf.RenderRequest{
		Markdown: string(src),
		Photo:    opts.photo,
		Payload:  payload,
		Config:   cfg,
		Logger:   log,
	}
	if req.Photo != "" {
		req.Photo = normalizePath(req.Photo)
	}

	if opts.plan {
		req.Writer = io.Discard
		layout, err := pdf.Render(req)
		if err != nil {
			log.Error("Render failed", zap.Error(err))
			return exitFailed
		}
		printPlan(stdout, layout, terminalWidth(stdout, defaultWidth))
		return exitOK
	}

	out := opts.outPath
	if out == "" {
		out = defaultOutputPath(string(src))
	}
	if out == "-" {
		if isTerminal(stdout) {
			fmt.Fprintln(stderr, "refusing to write PDF to terminal; use -o/--output")
			return exitUsage
		}
		req.Writer = stdout
		if _, err := pdf.Render(req); err != nil {
			log.Error("Render failed", zap.Error(err))
			return exitFailed
		}
		return exitOK
	}

	out = normalizePath(out)
	if dir := filepath.Dir(out); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("Unable to create output directory", zap.String("dir", dir), zap.Error(err))
			return exitFailed
		}
	}
	layout, err := pdf.RenderFile(out, req)
	if err != nil {
		log.Error("Render failed", zap.String("output", out), zap.Error(err))
		return exitFailed
	}
	log.Info("PDF written", zap.String("output", out), zap.Int("pages", layout.Pages))
	return exitOK
}

// resolveConfig loads the config file, if any, and applies flags the user
// set explicitly on top of it.
func resolveConfig(flags *pflag.FlagSet, opts options) (pdf.Config, error) {
	cfg := pdf.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = pdf.LoadConfig(normalizePath(opts.configPath)); err != nil {
			return pdf.Config{}, err
		}
	}
	if flags.Changed("theme") {
		cfg.Theme = opts.themeName
	}
	if flags.Changed("icons") {
		cfg.IconDir = normalizePath(opts.iconDir)
	}
	if flags.Changed("page-size") {
		cfg.PageSize = opts.pageSize
	}
	if flags.Changed("margin") {
		cfg.Margin = opts.margin
	}
	if flags.Changed("font-family") {
		cfg.FontFamily = opts.fontFamily
	}
	for _, f := range []struct {
		name string
		path string
		dst  *string
	}{
		{"regular-font", opts.regularFont, &cfg.RegularFont},
		{"bold-font", opts.boldFont, &cfg.BoldFont},
	} {
		if !flags.Changed(f.name) {
			continue
		}
		path := normalizePath(strings.TrimSpace(f.path))
		if err := ensureFont(path); err != nil {
			return pdf.Config{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = path
	}
	if (cfg.RegularFont != "" || cfg.BoldFont != "") && cfg.FontFamily == "" {
		cfg.FontFamily = "cvpdf"
	}
	if err := pdf.ValidateConfig(cfg); err != nil {
		return pdf.Config{}, err
	}
	return cfg, nil
}

func resolvePayload(opts options) (string, error) {
	if opts.payloadFile == "" {
		return opts.payload, nil
	}
	if opts.payload != "" {
		return "", fmt.Errorf("--payload and --payload-file are mutually exclusive")
	}
	data, err := os.ReadFile(normalizePath(opts.payloadFile))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// defaultOutputPath names the PDF after the résumé's "# " line.
func defaultOutputPath(src string) string {
	name := slug.Make(cvpdf.Build(src).Name())
	if name == "" {
		name = defaultOutputName
	}
	return name + ".pdf"
}

// printThemes lists each theme with its header, heading and link colours.
func printThemes(w io.Writer) {
	for _, name := range cvpdf.AvailableThemes() {
		t, _ := cvpdf.ThemeByName(name)
		fmt.Fprintf(w, "%-8s %s %s %s\n", name, t.Header.Hex(), t.Heading.Hex(), t.Link.Hex())
	}
}

// printPlan writes one row per section; titles are cut to fit width.
func printPlan(w io.Writer, layout cvpdf.Layout, width int) {
	const row = "%4s %7s %7s %7s %-5s %-4s "
	prefix := len(fmt.Sprintf(row, "", "", "", "", "", ""))
	fmt.Fprintf(w, row+"%s\n", "PAGE", "Y", "EST", "FREE", "BREAK", "RULE", "SECTION")
	for _, s := range layout.Sections {
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		if avail := width - prefix; avail > 1 {
			title = truncate.StringWithTail(title, uint(avail), "…")
		}
		fmt.Fprintf(w, row+"%s\n",
			strconv.Itoa(s.Page+1),
			strconv.FormatFloat(s.Y, 'f', 1, 64),
			strconv.FormatFloat(s.Estimate, 'f', 1, 64),
			strconv.FormatFloat(s.Remaining, 'f', 1, 64),
			yesNo(s.PageBreak),
			yesNo(s.Rule),
			title)
	}
	fmt.Fprintf(w, "%d page(s)\n", layout.Pages)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func terminalWidth(w io.Writer, fallback int) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if width, err := strconv.Atoi(value); err == nil && width > 0 {
			return width
		}
	}
	return fallback
}

type inputSource struct {
	open func() (io.Reader, io.Closer, error)
}

type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

// openInputs concatenates files and http(s) or file URLs; no arguments
// reads stdin.
func openInputs(args []string, stdin io.Reader) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return stdin, nil, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	m := &multiInputReader{sources: sources}
	return m, m, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	if raw == "-" {
		return inputSource{open: func() (io.Reader, io.Closer, error) {
			return os.Stdin, nil, nil
		}}, nil
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openURL(raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openURL(raw string) (io.Reader, io.Closer, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, resp.Body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(normalizePath(path))
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func ensureFont(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory")
	}
	if !strings.HasSuffix(strings.ToLower(info.Name()), ".ttf") {
		return fmt.Errorf("expected .ttf font file")
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
