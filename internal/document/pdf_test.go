package document

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"testing"
	"time"
)

func chromeBinaryPath(t *testing.T) string {
	t.Helper()

	chromePath := os.Getenv("CHROME_BIN")
	if chromePath == "" {
		for _, candidate := range []string{"google-chrome", "chromium", "chromium-browser"} {
			if path, err := exec.LookPath(candidate); err == nil {
				chromePath = path
				break
			}
		}
	}
	if chromePath == "" {
		t.Skip("chromium binary not found; set CHROME_BIN to run this test")
	}

	return chromePath
}

func TestParseLengthInches(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{input: "1in", want: 1},
		{input: "25.4mm", want: 1},
		{input: "2.54cm", want: 1},
		{input: "72pt", want: 1},
		{input: "96px", want: 1},
		{input: "2", want: 2},
	}

	for _, tc := range tests {
		got, err := parseLengthInches(tc.input)
		if err != nil {
			t.Fatalf("parseLengthInches(%q): %v", tc.input, err)
		}
		if diff := got - tc.want; diff > 0.0001 || diff < -0.0001 {
			t.Fatalf("parseLengthInches(%q): expected %f, got %f", tc.input, tc.want, got)
		}
	}

	for _, bad := range []string{"1em", "abc", ""} {
		if _, err := parseLengthInches(bad); KindFromError(err) != KindValidation {
			t.Fatalf("parseLengthInches(%q): expected validation error, got %v", bad, err)
		}
	}
}

func TestBuildPrintToPDFParams(t *testing.T) {
	params, err := buildPrintToPDFParams(PDFOptions{PageSize: "a4", MarginTop: "10mm", MarginLeft: "1in"})
	if err != nil {
		t.Fatalf("build params: %v", err)
	}
	if params.PaperWidth != 8.27 || params.PaperHeight != 11.69 {
		t.Fatalf("expected A4 paper, got %fx%f", params.PaperWidth, params.PaperHeight)
	}
	if params.MarginLeft != 1 {
		t.Fatalf("expected left margin 1in, got %f", params.MarginLeft)
	}
	if diff := params.MarginTop - 10/25.4; diff > 0.0001 || diff < -0.0001 {
		t.Fatalf("expected top margin 10mm, got %f", params.MarginTop)
	}
	if !params.PrintBackground {
		t.Fatalf("expected print background by default")
	}

	if _, err := buildPrintToPDFParams(PDFOptions{PageSize: "B5"}); KindFromError(err) != KindValidation {
		t.Fatalf("expected validation error for page size, got %v", err)
	}
	if _, err := buildPrintToPDFParams(PDFOptions{Scale: 3}); KindFromError(err) != KindValidation {
		t.Fatalf("expected validation error for scale, got %v", err)
	}
}

func TestPDFBuilderUsesEngine(t *testing.T) {
	var gotHTML []byte
	engine := PDFEngineFunc(func(ctx context.Context, req PDFRequest) ([]byte, error) {
		gotHTML = req.HTML
		if req.Options.PageSize != "A4" {
			t.Fatalf("expected page size to be passed through, got %q", req.Options.PageSize)
		}
		return []byte("%PDF-fake"), nil
	})

	builder := &PDFBuilder{HTML: newTestHTMLBuilder(), Engine: engine, Options: PDFOptions{PageSize: "A4"}}
	pdf, plan, err := builder.Build(context.Background(), sampleResume(false), "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if string(pdf) != "%PDF-fake" {
		t.Fatalf("unexpected pdf output %q", pdf)
	}
	if plan == nil || !bytes.Contains(gotHTML, []byte("李明")) {
		t.Fatalf("expected rendered html to reach the engine")
	}
}

func TestPDFBuilderGuards(t *testing.T) {
	engine := PDFEngineFunc(func(context.Context, PDFRequest) ([]byte, error) {
		return []byte("pdf"), nil
	})

	_, _, err := (&PDFBuilder{HTML: newTestHTMLBuilder()}).Build(context.Background(), sampleResume(false), "")
	if KindFromError(err) != KindNotImpl {
		t.Fatalf("expected not_implemented without engine, got %v", err)
	}

	builder := &PDFBuilder{HTML: newTestHTMLBuilder(), Engine: engine, MaxHTMLBytes: 64}
	_, _, err = builder.Build(context.Background(), sampleResume(false), "")
	if KindFromError(err) != KindValidation {
		t.Fatalf("expected validation error for oversized html, got %v", err)
	}
}

func TestChromiumEngineRendersPDF(t *testing.T) {
	engine := &ChromiumEngine{BrowserPath: chromeBinaryPath(t), Timeout: 30 * time.Second, BlockExternal: true}
	defer engine.Close()

	pdf, err := engine.Render(context.Background(), PDFRequest{
		HTML:    []byte("<html><body><h1>李明</h1></body></html>"),
		Options: PDFOptions{PageSize: "A4", MarginTop: "10mm"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("expected pdf header, got %q", pdf[:min(len(pdf), 8)])
	}
}
