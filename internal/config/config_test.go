package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	// read the repo's example config
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err, "failed to get project root")

	configPath := filepath.Join(projectRoot, "etc") + string(filepath.Separator)

	cfg, err := ReadConfig(configPath)
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Title)
	assert.NotZero(t, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.NotEmpty(t, cfg.DB.Host)
	assert.NotEmpty(t, cfg.DB.GormEngine)
	assert.Equal(t, 24*time.Hour, cfg.Webserver.Session.ExpiryTime)
	assert.Equal(t, 5*time.Minute, cfg.Tree.CacheTTL)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir() + string(filepath.Separator))
	require.Error(t, err)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "main.toml"), []byte(content), 0o600)
	require.NoError(t, err)

	return dir + string(filepath.Separator)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name          string
		content       string
		expectedError error
	}{
		{
			name: "missing port",
			content: `
[Webserver]
URL = "http://localhost"
[DB]
GormEngine = "postgres"
`,
			expectedError: ErrWebServerPortCanNotBeZero,
		},
		{
			name: "missing url",
			content: `
[Webserver]
Port = 8080
[DB]
GormEngine = "postgres"
`,
			expectedError: ErrEmptyURL,
		},
		{
			name: "missing gorm engine",
			content: `
[Webserver]
Port = 8080
URL = "http://localhost"
`,
			expectedError: ErrEmptyGormEngine,
		},
		{
			name: "valid minimal",
			content: `
[Webserver]
Port = 8080
URL = "http://localhost"
[DB]
GormEngine = "mysql"
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadConfig(writeConfig(t, tc.content))

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Webserver":{"Port":9999}}`)

	cfg, err := ReadConfig(writeConfig(t, `
Title = "from-file"
[Webserver]
Port = 8080
URL = "http://localhost"
[DB]
GormEngine = "mysql"
`))
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Webserver.Port, "env JSON overrides the file")
	assert.Equal(t, "from-file", cfg.Title, "untouched fields keep file values")
}

func TestDumpConfigJSON(t *testing.T) {
	out, err := DumpConfigJSON(Config{Title: "x"})
	require.NoError(t, err)
	assert.Contains(t, out, `"Title": "x"`)
}
