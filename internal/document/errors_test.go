package document

import (
	"context"
	"fmt"
	"testing"

	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/resume"
	errorslib "github.com/goliatone/go-errors"
)

func TestAsGoErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		category errorslib.Category
		code     string
	}{
		{NewError(KindValidation, "bad input", nil), errorslib.CategoryValidation, "validation"},
		{NewError(KindNotFound, "missing", nil), errorslib.CategoryNotFound, "not_found"},
		{NewError(KindNotImpl, "no pdf", nil), errorslib.CategoryOperation, "not_implemented"},
		{fmt.Errorf("load: %w", resume.ErrNotFound), errorslib.CategoryNotFound, "not_found"},
		{fmt.Errorf("load: %w", resume.ErrInvalidData), errorslib.CategoryValidation, "validation"},
		{context.DeadlineExceeded, errorslib.CategoryOperation, "timeout"},
		{context.Canceled, errorslib.CategoryOperation, "canceled"},
		{NewError(KindInternal, "boom", nil), errorslib.CategoryInternal, "internal"},
	}

	for _, tc := range cases {
		mapped := AsGoError(tc.err)
		if mapped == nil {
			t.Fatalf("expected mapping for %v", tc.err)
		}
		if mapped.Category != tc.category {
			t.Fatalf("%v: expected category %s, got %s", tc.err, tc.category, mapped.Category)
		}
		if mapped.TextCode != tc.code {
			t.Fatalf("%v: expected text code %s, got %s", tc.err, tc.code, mapped.TextCode)
		}
	}
}

func TestAsGoErrorUsesMessage(t *testing.T) {
	mapped := AsGoError(NewError(KindValidation, "bad input", fmt.Errorf("detail")))
	if mapped.Message != "bad input" {
		t.Fatalf("expected message %q, got %q", "bad input", mapped.Message)
	}
	if AsGoError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestKindFromErrorWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewError(KindNotFound, "template not found", nil))
	if got := KindFromError(err); got != KindNotFound {
		t.Fatalf("expected not_found, got %s", got)
	}
	if got := KindFromError(fmt.Errorf("plain")); got != KindInternal {
		t.Fatalf("expected internal, got %s", got)
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatHTML, "HTML": FormatHTML, " pdf ": FormatPDF, "xlsx": FormatXLSX, "Docx": FormatDOCX}
	for input, want := range cases {
		got, err := ParseFormat(input)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseFormat(%q): expected %s, got %s", input, want, got)
		}
	}

	_, err := ParseFormat("odt")
	if KindFromError(err) != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if FormatPDF.ContentType() != "application/pdf" {
		t.Fatalf("unexpected content type %s", FormatPDF.ContentType())
	}
}
