package cli

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600), "failed to set up test file")
	return path
}

func requireExitCode(t *testing.T, err error, code int) *ExitError {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected ExitError, got %v", err)
	require.Equal(t, code, exitErr.Code)
	return exitErr
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}

	opts, shouldExit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, opts)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_Defaults(t *testing.T) {
	opts, shouldExit, err := Parse([]string{"--data", "resume.json"}, &bytes.Buffer{})

	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "resume.json", opts.DataPath)
	assert.Equal(t, "resume.html", opts.OutputPath)
	assert.Equal(t, "html", string(opts.Format))
	assert.Equal(t, "modern", opts.Template)
	assert.Equal(t, "info", opts.LogLevel)
	require.NotNil(t, opts.Config)
}

func TestParse_DefaultOutputFollowsFormat(t *testing.T) {
	opts, _, err := Parse([]string{"--data", "plan.json", "--format", "XLSX"}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "xlsx", string(opts.Format))
	assert.Equal(t, "resume.xlsx", opts.OutputPath)
}

func TestParse_UsageErrors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"unknown flag", []string{"--this-is-not-a-valid-flag"}, "flag provided but not defined"},
		{"missing data", []string{"--format", "pdf"}, "--data is required"},
		{"bad format", []string{"--data", "r.json", "--format", "odt"}, "invalid format"},
		{"bad log level", []string{"--data", "r.json", "--log-level", "loud"}, "invalid log-level"},
		{"stray argument", []string{"--data", "r.json", "extra"}, "unexpected argument: extra"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})

			exitErr := requireExitCode(t, err, 2)
			assert.Contains(t, exitErr.Message, tc.errMsg)
		})
	}
}

func TestRun_HTML(t *testing.T) {
	data := writeFile(t, "resume.json", `{
		"name": "Ana Lima",
		"email": "ana@example.com",
		"is_fresh_graduate": true,
		"education": [{"school": "USP", "degree": "BSc"}]
	}`)
	output := filepath.Join(t.TempDir(), "nested", "out.html")

	opts, _, err := Parse([]string{"--data", data, "--output", output}, &bytes.Buffer{})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	require.NoError(t, Run(context.Background(), out, opts, zap.NewNop()))
	assert.Equal(t, "wrote "+output+"\n", out.String())

	html, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1>Ana Lima</h1>")
	assert.Contains(t, string(html), `data-layout="education_first"`)
	assert.NotContains(t, string(html), "{{")
}

func TestRun_XLSX(t *testing.T) {
	data := writeFile(t, "plan.json", `{
		"target_position": "Backend Engineer",
		"timeline": "2个月",
		"phases": [{"title": "基础", "tasks": [{"task": "学习 Go 并发", "resources": ["Go 官方文档"]}]}]
	}`)
	output := filepath.Join(t.TempDir(), "tracker.xlsx")

	opts, _, err := Parse([]string{"--data", data, "--format", "xlsx", "--output", output}, &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, Run(context.Background(), &bytes.Buffer{}, opts, nil))

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Weekly Tasks")
}

func TestRun_DOCX(t *testing.T) {
	data := writeFile(t, "resume.json", `{"name": "Ana Lima", "summary": "Backend developer"}`)

	opts, _, err := Parse([]string{"--data", data, "--format", "docx"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "resume.docx", opts.OutputPath)

	opts.OutputPath = filepath.Join(t.TempDir(), "resume.docx")
	require.NoError(t, Run(context.Background(), &bytes.Buffer{}, opts, nil))

	zr, err := zip.OpenReader(opts.OutputPath)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "word/document.xml")
}

func TestRun_DataErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	invalid := writeFile(t, "bad.json", `{"name": `)
	notObject := writeFile(t, "list.json", `["a"]`)

	tests := []struct {
		name   string
		path   string
		errMsg string
	}{
		{"missing file", missing, "not found"},
		{"invalid json", invalid, "JSON"},
		{"not an object", notObject, "JSON"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts, _, err := Parse([]string{"--data", tc.path, "--output", filepath.Join(t.TempDir(), "o.html")}, &bytes.Buffer{})
			require.NoError(t, err)

			err = Run(context.Background(), &bytes.Buffer{}, opts, zap.NewNop())

			exitErr := requireExitCode(t, err, 1)
			assert.Contains(t, exitErr.Message, tc.errMsg)
		})
	}
}

func TestRun_UnknownTemplate(t *testing.T) {
	data := writeFile(t, "resume.json", `{"name": "Ana"}`)

	opts, _, err := Parse([]string{"--data", data, "--template", "classic", "--output", filepath.Join(t.TempDir(), "o.html")}, &bytes.Buffer{})
	require.NoError(t, err)

	err = Run(context.Background(), &bytes.Buffer{}, opts, zap.NewNop())

	exitErr := requireExitCode(t, err, 1)
	assert.True(t, strings.HasPrefix(exitErr.Message, "render failed:"))
}

func TestNewLogger(t *testing.T) {
	out := &bytes.Buffer{}
	logger, err := NewLogger("warn", out)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", zap.String("job_id", "j1"))

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")
	assert.Contains(t, out.String(), "j1")

	_, err = NewLogger("loud", out)
	assert.Error(t, err)
}
