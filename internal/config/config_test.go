package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "resume.render", cfg.StreamKey)
	assert.Equal(t, "resume-renderers", cfg.ConsumerGroup)
	assert.Equal(t, "resume.rendered", cfg.ResultStream)
	assert.Equal(t, "modern", cfg.DefaultTemplate)
	assert.Equal(t, 24*time.Hour, cfg.ArtifactTTL)
	assert.Equal(t, 10000, cfg.MaxRewrites)
	assert.Equal(t, "A4", cfg.PDFPageSize)
	assert.False(t, cfg.EscapeHTML)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("REDIS_PASS", "s3cret")
	t.Setenv("ESCAPE_HTML", "true")
	t.Setenv("PDF_TIMEOUT", "5s")
	t.Setenv("TEMPLATE_DIR", "/srv/templates")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.EscapeHTML)
	assert.Equal(t, 5*time.Second, cfg.PDFTimeout)
	assert.Equal(t, "/srv/templates", cfg.TemplateDir)
	assert.Equal(t, "s3cret", cfg.RedisOptions().Password)
	assert.NotContains(t, cfg.String(), "s3cret")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		errMsg string
	}{
		{"bad log level", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"bad page size", "PDF_PAGE_SIZE", "B5", "PDF_PAGE_SIZE"},
		{"zero depth", "MAX_DEPTH", "0", "MAX_DEPTH"},
		{"same streams", "RESULT_STREAM", "resume.render", "RESULT_STREAM"},
		{"bad port", "HEALTH_PORT", "70000", "HEALTH_PORT"},
		{"unparsable duration", "BLOCK_TIME", "soon", "failed to parse config"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}
