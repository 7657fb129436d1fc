package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err, "an explicitly named file that does not exist should fail")

	cfg, err = Load("")
	require.NoError(t, err)

	assert.Equal(t, "Vulkan Triangle", cfg.AppName)
	assert.Equal(t, int32(800), cfg.WindowWidth)
	assert.Equal(t, int32(600), cfg.WindowHeight)
	assert.Equal(t, 2, cfg.FramesInFlight)
	assert.True(t, cfg.EnableValidation)
	assert.Equal(t, []string{"VK_LAYER_KHRONOS_validation"}, cfg.ValidationLayers)
	assert.Equal(t, []string{"VK_KHR_swapchain"}, cfg.DeviceExtensions)
}

func TestLoadFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := []byte("app_name = \"offscreen probe\"\nwindow_width = 1280\nwindow_height = 720\nframes_in_flight = 3\nenable_validation = false\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "offscreen probe", cfg.AppName)
	assert.Equal(t, int32(1280), cfg.WindowWidth)
	assert.Equal(t, int32(720), cfg.WindowHeight)
	assert.Equal(t, 3, cfg.FramesInFlight)
	assert.False(t, cfg.EnableValidation)
	assert.Equal(t, "shaders_spv", cfg.ShaderDir, "unset keys keep their defaults")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VKTRI_WINDOW_WIDTH", "1024")
	t.Setenv("VKTRI_FRAMES_IN_FLIGHT", "4")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, int32(1024), cfg.WindowWidth)
	assert.Equal(t, 4, cfg.FramesInFlight)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"zero width", "window_width = 0\n"},
		{"negative height", "window_height = -600\n"},
		{"zero frames in flight", "frames_in_flight = 0\n"},
		{"empty app name", "app_name = \"\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
