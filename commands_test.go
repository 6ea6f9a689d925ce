package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliConfig = `
store:
  backend: bolt
  filePath: %s
migration:
  targetVersion: 2
  maxLength: 16
  verify: true
webServer:
  host: 127.0.0.1
  port: 18080
logger:
  level: info
  mode: 420
  dir: %s
`

func writeCliConfig(t *testing.T) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	body := fmt.Sprintf(cliConfig, filepath.Join(dir, "nicks.db"), dir)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "migrate", "check", "status", "export", "import"} {
		assert.Contains(t, names, want)
	}
}

func TestCli_SeedMigrateStatus(t *testing.T) {
	conf := writeCliConfig(t)
	seed := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(seed, []byte(`{"nicks":[
		{"account":"0x`+strings.Repeat("0a", 32)+`","nick":"alice smith","deposit":10},
		{"account":"0x`+strings.Repeat("0b", 32)+`","nick":"bob","deposit":5},
		{"account":"0x`+strings.Repeat("0c", 32)+`","nick":"carol ann lee","deposit":7}
	]}`), 0644))

	out, err := execute(t, "import", seed, "--config", conf)
	require.NoError(t, err)
	assert.Equal(t, "imported 3 entries\n", out)

	out, err = execute(t, "check", "--config", conf)
	require.NoError(t, err)
	assert.Contains(t, out, `"step": "v0_to_v1"`)

	out, err = execute(t, "migrate", "--config", conf)
	require.NoError(t, err)
	var reports []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "run", reports[0]["decision"])
	assert.Equal(t, float64(3), reports[1]["migrated"])

	out, err = execute(t, "status", "--config", conf)
	require.NoError(t, err)
	var st map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, float64(2), st["onchain"])
	assert.Equal(t, float64(3), st["records"])

	out, err = execute(t, "check", "--config", conf)
	require.NoError(t, err)
	assert.Equal(t, "store is at the target version\n", out)
}

func TestCli_ExportImportRoundTrip(t *testing.T) {
	src := writeCliConfig(t)
	seed := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(seed, []byte(`{"nicks":[{"account":"0x`+strings.Repeat("01", 32)+`","nick":"dave","deposit":1}]}`), 0644))
	_, err := execute(t, "import", seed, "--config", src)
	require.NoError(t, err)

	snap := filepath.Join(t.TempDir(), "nicks.snap")
	out, err := execute(t, "export", snap, "--config", src)
	require.NoError(t, err)
	assert.Equal(t, "exported 1 entries\n", out)

	dst := writeCliConfig(t)
	out, err = execute(t, "import", snap, "--config", dst)
	require.NoError(t, err)
	assert.Equal(t, "imported 1 entries\n", out)
}

func TestCli_MissingConfig(t *testing.T) {
	_, err := execute(t, "status", "--config", filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
