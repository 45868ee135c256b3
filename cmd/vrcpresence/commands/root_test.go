package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/livp123/vrcpresence/internal/daemon"
	"github.com/livp123/vrcpresence/internal/runtime"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = "2024.01.02 03:00:00 Log        -  [Behaviour] OnPlayerJoined Alice\n" +
	"2024.01.02 03:00:01 Log        -  [Behaviour] OnPlayerJoined Bob\n" +
	"2024.01.02 03:00:02 Log        -  [Behaviour] OnPlayerLeft Alice\n"

// executeCommand executes a cobra command and returns output.
// executeCommand 执行 cobra 命令并返回输出。
func executeCommand(cmd *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// resetGlobals restores CLI globals after a test.
func resetGlobals(t *testing.T) {
	t.Cleanup(func() {
		runtime.ConfigPath = ""
		runtime.LogFile = ""
	})
}

// TestRootCommandHelp tests root command help output.
// TestRootCommandHelp 测试根命令帮助输出。
func TestRootCommandHelp(t *testing.T) {
	output, err := executeCommand(RootCmd, "--help")
	assert.NoError(t, err)
	assert.Contains(t, output, "vrcpresence")
	assert.Contains(t, output, "Available Commands:")
	for _, name := range []string{"run", "replay", "init", "version"} {
		assert.Contains(t, output, name)
	}
}

// TestVersionCommand tests the version output.
// TestVersionCommand 测试版本输出。
func TestVersionCommand(t *testing.T) {
	resetGlobals(t)
	output, err := executeCommand(RootCmd, "version", "-c", filepath.Join(t.TempDir(), "none.yaml"))
	assert.NoError(t, err)
	assert.Contains(t, output, "vrcpresence dev")
}

// TestInitCommand tests writing the default config.
// TestInitCommand 测试写入默认配置。
func TestInitCommand(t *testing.T) {
	resetGlobals(t)
	path := filepath.Join(t.TempDir(), "vrcpresence.yaml")

	output, err := executeCommand(RootCmd, "init", "-c", path, "--force=false")
	require.NoError(t, err)
	assert.Contains(t, output, path)
	assert.FileExists(t, path)

	_, err = executeCommand(RootCmd, "init", "-c", path, "--force=false")
	assert.Error(t, err)

	_, err = executeCommand(RootCmd, "init", "-c", path, "--force=true")
	assert.NoError(t, err)
}

// TestReplayCommand tests the table and JSON output.
// TestReplayCommand 测试表格与 JSON 输出。
func TestReplayCommand(t *testing.T) {
	resetGlobals(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())

	dir := t.TempDir()
	logPath := filepath.Join(dir, "output_log_1.txt")
	require.NoError(t, os.WriteFile(logPath, []byte(sampleLog), 0644))
	cfgPath := filepath.Join(dir, "vrcpresence.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("watcher:\n  log_dir: "+dir+"\n  timezone: UTC\n"), 0600))

	output, err := executeCommand(RootCmd, "replay", "-c", cfgPath, "--json=false")
	require.NoError(t, err)
	assert.Contains(t, output, "Bob")
	assert.NotContains(t, output, "Alice")
	assert.Contains(t, output, "Total present: 1")

	output, err = executeCommand(RootCmd, "replay", logPath, "-c", cfgPath, "--json=true")
	require.NoError(t, err)
	var report daemon.ReplayReport
	require.NoError(t, json.Unmarshal([]byte(output), &report))
	assert.Equal(t, 3, report.Lines)
	assert.Equal(t, []string{"Bob"}, report.Users.Identifiers())
}

// TestReplayCommand_MissingConfig tests that an explicit missing config fails.
// TestReplayCommand_MissingConfig 测试显式指定的配置不存在时失败。
func TestReplayCommand_MissingConfig(t *testing.T) {
	resetGlobals(t)
	_, err := executeCommand(RootCmd, "replay", "-c", filepath.Join(t.TempDir(), "none.yaml"), "--json=false")
	assert.Error(t, err)
}
