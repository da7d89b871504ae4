package resume

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/eval/template"
)

var (
	// ErrNotFound is returned when a data file does not exist
	ErrNotFound = errors.New("data file not found")

	// ErrInvalidData is returned for input that is not a JSON object
	ErrInvalidData = errors.New("invalid JSON data")
)

// LoadContext reads a resume JSON file into a template context
func LoadContext(path string) (template.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	ctx, err := DecodeContext(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ctx, nil
}

// DecodeContext decodes a single JSON object
func DecodeContext(r io.Reader) (template.Context, error) {
	var ctx template.Context
	if err := decodeJSON(r, &ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

// LoadGrowthPlan reads a growth plan JSON file
func LoadGrowthPlan(path string) (*GrowthPlan, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	plan, err := DecodeGrowthPlan(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

// DecodeGrowthPlan decodes a growth plan JSON object
func DecodeGrowthPlan(r io.Reader) (*GrowthPlan, error) {
	var plan GrowthPlan
	if err := decodeJSON(r, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON object", ErrInvalidData)
	}
	return nil
}
