package main

import (
	"bytes"
	"embed"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havrydotdev/treelox/config"
	interp "github.com/havrydotdev/treelox/interpreter"
)

//go:embed testdata
var scripts embed.FS

func TestScripts(t *testing.T) {
	entries, err := scripts.ReadDir("testdata")
	require.NoError(t, err)

	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), ".lox")
		if !ok {
			continue
		}

		t.Run(name, func(t *testing.T) {
			source, err := scripts.ReadFile(path.Join("testdata", name+".lox"))
			require.NoError(t, err)

			want, err := scripts.ReadFile(path.Join("testdata", name+".out"))
			require.NoError(t, err)

			var stdout, stderr bytes.Buffer
			session := interp.New(config.Default(), &stdout, &stderr, nil)

			require.NoError(t, session.Run(string(source)), stderr.String())
			assert.Equal(t, string(want), stdout.String())
		})
	}
}

func TestLoadConfigFlags(t *testing.T) {
	cfg, err := loadConfig("", true, "debug")
	require.NoError(t, err)
	assert.True(t, cfg.DumpAST)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = loadConfig("", false, "loud")
	assert.Error(t, err)
}
