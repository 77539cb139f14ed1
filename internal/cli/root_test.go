package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/swd/internal/testutil"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SWD_CONFIG", t.TempDir())

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"inspect", "tags", "line", "offset", "break", "shell", "version"}, names)
}

func TestRootCmd_Version(t *testing.T) {
	out, err := runRoot(t, "version", "-o", "json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "dev", info["version"])
}

func TestRootCmd_Line(t *testing.T) {
	path := testutil.SampleProgram().WriteFile(t, "app.swd")

	out, err := runRoot(t, "line", path, "1", "2", "-o", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "8,1,main.fl,2,true,let b = 2")
}

func TestRootCmd_ConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  format: json\n"), 0o644))
	path := testutil.SampleProgram().WriteFile(t, "app.swd")

	out, err := runRoot(t, "--config", cfgPath, "offset", path, "16")
	require.NoError(t, err)
	assert.Contains(t, out, `"line": 3`)
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	path := testutil.SampleProgram().WriteFile(t, "app.swd")

	_, err := runRoot(t, "--log-level", "loud", "inspect", path)
	assert.ErrorContains(t, err, "invalid --log-level")
}
