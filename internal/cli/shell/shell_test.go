package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/swd/internal/testutil"
)

func TestShellCmd_Script(t *testing.T) {
	s, _ := newTestSession(t)
	path := testutil.SampleProgram().WriteFile(t, "app.swd")

	var out bytes.Buffer
	cmd := NewShellCmd(s.env)
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("# set one more\nbreak 1:3\n\nbps\nexit\nfiles\n"))
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Breakpoint set at offset 16.")
	assert.Contains(t, out.String(), "print a + b")
	assert.NotContains(t, out.String(), "lib.fl")
}

func TestRunScript_StopsOnError(t *testing.T) {
	s, out := newTestSession(t)

	err := runScript(s, strings.NewReader("help\nbps\nhelp\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2: no model loaded")
	assert.Equal(t, 1, strings.Count(out.String(), "Commands:"))
}
