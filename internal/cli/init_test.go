// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/axum2spec/internal/config"
)

func TestDetectProjectInfo(t *testing.T) {
	tests := []struct {
		name      string
		cargo     string
		wantName  string
		wantTitle string
		wantVer   string
		wantDesc  string
	}{
		{
			name: "simple crate",
			cargo: `[package]
name = "myapp"
version = "0.3.1"
edition = "2021"
`,
			wantName:  "myapp",
			wantTitle: "Myapp API",
			wantVer:   "0.3.1",
		},
		{
			name: "crate with hyphens",
			cargo: `[package]
name = "my-awesome-api"
version = "1.0.0"
description = "Serves awesome things"

[dependencies]
axum = "0.7"
`,
			wantName:  "my-awesome-api",
			wantTitle: "My Awesome Api API",
			wantVer:   "1.0.0",
			wantDesc:  "Serves awesome things",
		},
		{
			name: "crate with underscores",
			cargo: `[package]
name = "my_api_service"
`,
			wantName:  "my_api_service",
			wantTitle: "My Api Service API",
		},
		{
			name: "workspace without package",
			cargo: `[workspace]
members = ["api"]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			err := os.WriteFile(filepath.Join(tmpDir, "Cargo.toml"), []byte(tt.cargo), 0644)
			require.NoError(t, err)

			info := detectProjectInfo(tmpDir)

			assert.Equal(t, tt.wantName, info.Name)
			assert.Equal(t, tt.wantTitle, info.Title)
			assert.Equal(t, tt.wantVer, info.Version)
			assert.Equal(t, tt.wantDesc, info.Description)
		})
	}
}

func TestDetectProjectInfo_NoCargoToml(t *testing.T) {
	info := detectProjectInfo(t.TempDir())

	assert.Empty(t, info.Name)
	assert.Empty(t, info.Title)
}

func TestDetectProjectInfo_Malformed(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "Cargo.toml"), []byte("[package\nname = "), 0644))

	assert.Equal(t, projectInfo{}, detectProjectInfo(tmpDir))
}

func TestDetectEntryPoints(t *testing.T) {
	tests := []struct {
		name     string
		dirs     []string
		expected []string
	}{
		{
			name:     "single crate",
			dirs:     []string{"src", "target"},
			expected: []string{"./src"},
		},
		{
			name:     "all common directories",
			dirs:     []string{"src", "crates", "api", "server"},
			expected: []string{"./src", "./crates", "./api", "./server"},
		},
		{
			name:     "no common directories",
			dirs:     []string{"lib", "examples"},
			expected: []string{"."},
		},
		{
			name:     "workspace crates",
			dirs:     []string{"crates"},
			expected: []string{"./crates"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()

			for _, dir := range tt.dirs {
				err := os.MkdirAll(filepath.Join(tmpDir, dir), 0755)
				require.NoError(t, err)
			}

			paths := detectEntryPoints(tmpDir)

			assert.Equal(t, tt.expected, paths)
		})
	}
}

func TestDetectEntryPoints_Empty(t *testing.T) {
	assert.Equal(t, []string{"."}, detectEntryPoints(t.TempDir()))
}

func TestBuildConfigYAML(t *testing.T) {
	cfg := config.Default()
	cfg.Output = "openapi.yaml"
	cfg.Format = "yaml"

	yaml, err := buildConfigYAML(cfg)
	require.NoError(t, err)

	assert.Contains(t, yaml, "# axum2spec configuration file")
	assert.Contains(t, yaml, "output: openapi.yaml")
	assert.Contains(t, yaml, "queryExtractor: Query")
	assert.Contains(t, yaml, "maxExpansions: 10000")
}

func TestInitCommand_WritesLoadableConfig(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(`[package]
name = "todo-service"
version = "1.2.0"

[dependencies]
axum = "0.7"
`), 0644))
	chdir(t, dir)

	force, interactive, title := initForce, initInteractive, initTitle
	t.Cleanup(func() { initForce, initInteractive, initTitle = force, interactive, title })
	initForce, initInteractive, initTitle = false, false, ""
	cfgFile = ""
	quiet = true

	require.NoError(t, runInit(initCmd, nil))

	cfg, err := config.Load(defaultConfigFile)
	require.NoError(t, err)
	assert.Equal(t, "Todo Service API", cfg.OpenAPI.Info.Title)
	assert.Equal(t, "1.2.0", cfg.OpenAPI.Info.Version)
	assert.Equal(t, []string{"./src"}, cfg.Source.Paths)
	assert.Equal(t, "Query", cfg.Axum.QueryExtractor)
	require.NoError(t, cfg.Validate())

	t.Run("refuses to overwrite", func(t *testing.T) {
		err := runInit(initCmd, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("force overwrites", func(t *testing.T) {
		initForce = true
		initTitle = "Renamed"
		require.NoError(t, runInit(initCmd, nil))

		cfg, err := config.Load(defaultConfigFile)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", cfg.OpenAPI.Info.Title)
	})
}
