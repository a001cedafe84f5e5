package config

import (
	"testing"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEnv_Defaults(t *testing.T) {
	var cfg Config
	require.NoError(t, cleanenv.ReadEnv(&cfg))

	assert.Equal(t, "instagram_session.json", cfg.Instagram.SessionFile)
	assert.Equal(t, 10, cfg.Instagram.CommentPageSize)
	assert.Equal(t, 20, cfg.Instagram.ScanLimit)
	assert.Equal(t, "https://i.instagram.com/api/v1", cfg.Instagram.BaseURL)
	assert.False(t, cfg.Instagram.UseMocks)
	assert.True(t, cfg.Inference.AnalyzeImage)
	assert.Equal(t, "data/activity.json", cfg.Storage.ActivityPath)
	assert.Equal(t, "prompt.json", cfg.Prompt.File)
}

func TestReadEnv_Overrides(t *testing.T) {
	t.Setenv("INSTAGRAM_USER", "usuario_teste")
	t.Setenv("INSTAGRAM_ACCOUNTS", "conta_um,conta_dois")
	t.Setenv("INSTAGRAM_SCAN_LIMIT", "5")
	t.Setenv("USE_MOCKS", "true")
	t.Setenv("INFERENCE_ANALYZE_IMAGE", "false")

	var cfg Config
	require.NoError(t, cleanenv.ReadEnv(&cfg))

	assert.Equal(t, "usuario_teste", cfg.Instagram.Username)
	assert.Equal(t, []string{"conta_um", "conta_dois"}, cfg.Instagram.Accounts)
	assert.Equal(t, 5, cfg.Instagram.ScanLimit)
	assert.True(t, cfg.Instagram.UseMocks)
	assert.False(t, cfg.Inference.AnalyzeImage)
}
