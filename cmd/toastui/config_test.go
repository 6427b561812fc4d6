package main

import (
	"bytes"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toastui/internal/config"
)

func TestWriteConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	tests := []struct {
		format string
		decode func([]byte, any) error
	}{
		{"toml", toml.Unmarshal},
		{"", toml.Unmarshal},
		{"yaml", yaml.Unmarshal},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeConfig(&buf, cfg, tt.format))
			assert.Contains(t, buf.String(), "top-right")

			var out map[string]any
			require.NoError(t, tt.decode(buf.Bytes(), &out))
			assert.Contains(t, out, "toast")
			assert.Contains(t, out, "confirm")
		})
	}
}

func TestWriteConfig_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := writeConfig(&buf, config.DefaultConfig(), "json")
	assert.ErrorContains(t, err, "unknown format")
	assert.Empty(t, buf.String())
}

func TestKindNames(t *testing.T) {
	assert.Contains(t, kindNames(), "success")
	assert.Contains(t, kindNames(), "custom")
}
