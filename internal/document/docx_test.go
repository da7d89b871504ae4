package document

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/eval/template"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readDOCXPart(t *testing.T, out []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatalf("part %s missing from archive", name)
	return ""
}

func TestDOCXBuilder_ExperiencedLayout(t *testing.T) {
	out, plan, err := NewDOCXBuilder(nil, nil).Build(context.Background(), sampleResume(false))
	require.NoError(t, err)
	assert.Equal(t, layout.HintExperienceFirst, plan.Hint)

	assert.Contains(t, readDOCXPart(t, out, "[Content_Types].xml"), "/word/document.xml")
	assert.Contains(t, readDOCXPart(t, out, "_rels/.rels"), `Target="word/document.xml"`)

	doc := readDOCXPart(t, out, "word/document.xml")
	assert.Contains(t, doc, `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`)
	assert.Contains(t, doc, ">李明</w:t>")
	assert.Contains(t, doc, ">后端工程师</w:t>")
	assert.Contains(t, doc, ">13800000000 | liming@example.com</w:t>")
	assert.Contains(t, doc, ">• Shipped &lt;v2&gt;</w:t>")
	assert.Contains(t, doc, ">2022-2024</w:t>")
	assert.Contains(t, doc, ">Languages：</w:t>")
	assert.NotContains(t, doc, "项目经验")
	assert.Less(t, strings.Index(doc, "个人简介"), strings.Index(doc, "工作经历"))
	assert.Less(t, strings.Index(doc, "工作经历"), strings.Index(doc, "教育背景"))
}

func TestDOCXBuilder_FreshGraduateLayout(t *testing.T) {
	out, plan, err := NewDOCXBuilder(nil, nil).Build(context.Background(), sampleResume(true))
	require.NoError(t, err)
	assert.Equal(t, layout.HintEducationFirst, plan.Hint)

	doc := readDOCXPart(t, out, "word/document.xml")
	assert.Less(t, strings.Index(doc, "教育背景"), strings.Index(doc, "工作经历"))
}

func TestDOCXBuilder_ProjectsAndDefaults(t *testing.T) {
	data := template.NewContext(map[string]any{
		"contact": "Shanghai",
		"projects": []any{
			map[string]any{
				"name":        "Router",
				"role":        "Owner",
				"date":        "2023",
				"tech":        []any{"Go", "Redis"},
				"description": "Task router",
				"details":     []any{"Built the queue"},
			},
		},
		"education": []any{
			map[string]any{"school": "复旦大学", "degree": "硕士", "major": "计算机", "startDate": "2020", "endDate": "2023", "gpa": "3.8"},
		},
		"other": []any{"CET-6"},
	})

	out, _, err := NewDOCXBuilder(nil, nil).Build(context.Background(), data)
	require.NoError(t, err)

	doc := readDOCXPart(t, out, "word/document.xml")
	for _, want := range []string{
		">姓名</w:t>",
		">Shanghai</w:t>",
		">Go, Redis</w:t>",
		">Task router</w:t>",
		">• Built the queue</w:t>",
		">硕士 · 计算机</w:t>",
		">2020 - 2023</w:t>",
		">GPA: 3.8</w:t>",
		">• CET-6</w:t>",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document.xml missing %q", want)
		}
	}
}

func TestDOCXBuilder_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewDOCXBuilder(nil, nil).Build(ctx, sampleResume(false))
	assert.Equal(t, KindCanceled, KindFromError(err))
}
