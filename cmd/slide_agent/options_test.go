package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/slide-deck-generator/internal/config"
	"github.com/jonathan/slide-deck-generator/internal/llm"
)

func TestNewClient(t *testing.T) {
	cfg := config.Defaults()
	cfg.Provider = string(llm.ProviderRelay)
	cfg.RelayURL = "http://localhost:8080/api/generate-slides"

	cfg.SetRetries(0)
	client, err := newClient(&cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &llm.InstrumentedClient{}, client)

	cfg.SetRetries(2)
	client, err = newClient(&cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &llm.RetryingClient{}, client)

	cfg.RelayURL = ""
	_, err = newClient(&cfg, nil)
	assert.Error(t, err)
}

func TestLoadConfig_FlagsOverrideEnvAndFile(t *testing.T) {
	t.Setenv("SLIDES_THEME", "dark")
	path := writeFile(t, "config.json", `{"theme": "vibrant", "model": "gpt-4o"}`)

	global := &globalOptions{configPath: path}
	cmd := newExportCmd(global)
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := global.loadConfig(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, "gpt-4o", cfg.Model)

	require.NoError(t, cmd.ParseFlags([]string{"--theme", "professional"}))
	cfg, err = global.loadConfig(cmd, func(cfg *config.Config, changed func(string) bool) {
		if changed("theme") {
			cfg.Theme = "professional"
		}
	})
	require.NoError(t, err)
	assert.Equal(t, "professional", cfg.Theme)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	global := &globalOptions{configPath: "does-not-exist.json"}
	cmd := newExportCmd(global)
	_, err := global.loadConfig(cmd, nil)
	assert.Error(t, err)
}
