package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/assets"
)

// DefaultTemplate is the template used when a request names none
const DefaultTemplate = "modern"

// TemplateSource resolves template names to template text
type TemplateSource struct {
	fsys fs.FS
}

// NewTemplateSource reads templates from dir, or from the bundled templates when dir is empty
func NewTemplateSource(dir string) *TemplateSource {
	if dir == "" {
		return &TemplateSource{fsys: assets.Templates()}
	}
	return &TemplateSource{fsys: os.DirFS(dir)}
}

// NewTemplateSourceFS reads templates from fsys
func NewTemplateSourceFS(fsys fs.FS) *TemplateSource {
	return &TemplateSource{fsys: fsys}
}

// TemplateFile maps a template name to its file name: "modern" is
// web-resume-modern.html, names ending in .html are used as is.
func TemplateFile(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTemplate
	}
	if strings.HasSuffix(name, ".html") {
		return name
	}
	return "web-resume-" + name + ".html"
}

// Load returns the text of the named template
func (s *TemplateSource) Load(name string) (string, error) {
	file := TemplateFile(name)
	if !fs.ValidPath(file) {
		return "", NewError(KindValidation, fmt.Sprintf("invalid template name: %s", name), nil)
	}

	data, err := fs.ReadFile(s.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", NewError(KindNotFound, fmt.Sprintf("template not found: %s", name), err)
		}
		return "", NewError(KindInternal, fmt.Sprintf("failed to read template %s", name), err)
	}
	return string(data), nil
}

// Names lists the available template names
func (s *TemplateSource) Names() ([]string, error) {
	matches, err := fs.Glob(s.fsys, "web-resume-*.html")
	if err != nil {
		return nil, err
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = strings.TrimSuffix(strings.TrimPrefix(m, "web-resume-"), ".html")
	}
	return names, nil
}
