package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/config"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/document"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/eval/template"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/resume"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Options is the parsed command line
type Options struct {
	DataPath    string
	OutputPath  string
	Format      document.Format
	Template    string
	TemplateDir string
	LogLevel    string
	EscapeHTML  bool
	Lint        bool
	ChromeBin   string

	// Config supplies everything the flags don't override. Required.
	Config *config.Config
}

// Parse processes command-line arguments on top of the environment config. It
// returns the options, a boolean indicating if the program should exit cleanly,
// or an ExitError.
func Parse(args []string, output io.Writer) (*Options, bool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	flagSet := flag.NewFlagSet("resume-render", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
resume-render - Render resume data into HTML, PDF or a growth tracker workbook.

Usage:
  resume-render --data FILE [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	dataFlag := flagSet.String("data", "", "Path to the resume (or growth plan, for xlsx) JSON file.")
	outputFlag := flagSet.String("output", "", "Output file. Defaults to resume.<format>.")
	formatFlag := flagSet.String("format", "html", "Output format. Options: 'html', 'pdf', 'docx', 'xlsx'.")
	templateFlag := flagSet.String("template", cfg.DefaultTemplate, "Template name, e.g. 'modern'.")
	templateDirFlag := flagSet.String("template-dir", cfg.TemplateDir, "Directory with web-resume-*.html templates. Empty uses the built-in ones.")
	logLevelFlag := flagSet.String("log-level", cfg.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	escapeFlag := flagSet.Bool("escape-html", cfg.EscapeHTML, "HTML-escape substituted values.")
	lintFlag := flagSet.Bool("lint", cfg.TemplateLint, "Check templates with a Handlebars parser and log problems.")
	chromeFlag := flagSet.String("chrome", cfg.ChromeBin, "Chromium binary used for pdf output.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument: %s", flagSet.Arg(0))}
	}

	if *dataFlag == "" {
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "--data is required"}
	}

	format, err := document.ParseFormat(*formatFlag)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: "invalid format: must be 'html', 'pdf', 'docx' or 'xlsx'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	if !config.IsValidLogLevel(logLevel) {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	outputPath := *outputFlag
	if outputPath == "" {
		outputPath = "resume." + format.Extension()
	}

	return &Options{
		DataPath:    *dataFlag,
		OutputPath:  outputPath,
		Format:      format,
		Template:    *templateFlag,
		TemplateDir: *templateDirFlag,
		LogLevel:    logLevel,
		EscapeHTML:  *escapeFlag,
		Lint:        *lintFlag,
		ChromeBin:   *chromeFlag,
		Config:      cfg,
	}, false, nil
}

// Run loads the data file, renders it and writes the output file. A line
// naming the written file goes to outW.
func Run(ctx context.Context, outW io.Writer, opts *Options, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := opts.Config

	req := document.Request{Format: opts.Format, Template: opts.Template}
	if opts.Format == document.FormatXLSX {
		plan, err := resume.LoadGrowthPlan(opts.DataPath)
		if err != nil {
			return loadError(err)
		}
		req.Plan = plan
	} else {
		data, err := resume.LoadContext(opts.DataPath)
		if err != nil {
			return loadError(err)
		}
		req.Data = data
	}

	engine := template.NewEngine(logger,
		template.WithEscapeHTML(opts.EscapeHTML),
		template.WithLint(opts.Lint),
		template.WithMaxRewrites(cfg.MaxRewrites),
		template.WithMaxDepth(cfg.MaxDepth),
	)

	var pdfEngine document.PDFEngine
	if opts.Format == document.FormatPDF {
		chromium := &document.ChromiumEngine{
			BrowserPath:   opts.ChromeBin,
			Timeout:       cfg.PDFTimeout,
			BlockExternal: true,
		}
		defer func() { _ = chromium.Close() }()
		pdfEngine = chromium
	}

	svc := document.NewService(document.NewTemplateSource(opts.TemplateDir), engine, pdfEngine, PDFOptions(cfg), logger)
	result, err := svc.Render(ctx, req)
	if err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("render failed: %v", err)}
	}

	if err := document.WriteFile(opts.OutputPath, result.Bytes); err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("failed to write %s: %v", opts.OutputPath, err)}
	}

	logger.Info("document written",
		zap.String("path", opts.OutputPath),
		zap.String("format", string(result.Format)),
		zap.Int("bytes", len(result.Bytes)),
	)
	fmt.Fprintf(outW, "wrote %s\n", opts.OutputPath)
	return nil
}

// PDFOptions builds page options from the config; the margin applies to all sides
func PDFOptions(cfg *config.Config) document.PDFOptions {
	return document.PDFOptions{
		PageSize:     cfg.PDFPageSize,
		MarginTop:    cfg.PDFMargin,
		MarginBottom: cfg.PDFMargin,
		MarginLeft:   cfg.PDFMargin,
		MarginRight:  cfg.PDFMargin,
	}
}

// NewLogger builds a console logger writing to w
func NewLogger(level string, w io.Writer) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), zapLevel)
	return zap.New(core), nil
}

func loadError(err error) error {
	if errors.Is(err, resume.ErrNotFound) || errors.Is(err, resume.ErrInvalidData) {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	return &ExitError{Code: 1, Message: fmt.Sprintf("failed to load data: %v", err)}
}
