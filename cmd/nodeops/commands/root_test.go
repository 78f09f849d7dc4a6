package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_RegistersCommands(t *testing.T) {
	t.Parallel()
	root := Root()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"default-spec", "check", "apply", "destroy", "health", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, DefaultSpec().Flags().Lookup("network-name"))
	assert.NotNil(t, DefaultSpec().Flags().Lookup("keys-to-generate"))
	assert.NotNil(t, Apply().Flags().Lookup("templates-dir"))
	assert.NotNil(t, Check().Flags().Lookup("spec-file-path"))
	assert.NotNil(t, Health().Flags().Lookup("liveness"))
}

func TestVersionOutput(t *testing.T) {
	SetVersionInfo("1.2.3", "abc1234")

	var buf bytes.Buffer
	cmd := Version()
	cmd.SetOut(&buf)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "1.2.3")
	assert.Contains(t, buf.String(), "abc1234")
}

func TestHealth_RequiresEndpoint(t *testing.T) {
	t.Parallel()
	cmd := Health()
	cmd.SetArgs([]string{})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	err := cmd.Execute()
	require.Error(t, err)
}
