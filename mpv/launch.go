package mpv

import (
	"os/exec"

	"github.com/user/metropolis/deps"
)

// Launch starts an mpv instance in idle mode with the IPC socket enabled.
// --idle keeps the window alive with no media loaded (empty slots), and
// --keep-open keeps the file loaded at end-of-media so the transport can see
// the eof-reached state instead of an unloaded player.
// Returns the *exec.Cmd for the running process which can be used for cleanup.
func Launch(socketPath string, extraArgs ...string) (*exec.Cmd, error) {
	if err := deps.CheckMpv(); err != nil {
		return nil, err
	}
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}

	args := []string{
		"--input-ipc-server=" + socketPath,
		"--idle=yes",
		"--keep-open=yes",
		"--force-window=yes",
	}
	args = append(args, extraArgs...)

	cmd := exec.Command("mpv", args...)

	// Start the process (non-blocking)
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return cmd, nil
}

// LaunchOutput starts the secondary output player for an external display.
// It runs without an OSC so the mirrored window is clean video only.
func LaunchOutput(socketPath string) (*exec.Cmd, error) {
	if socketPath == "" {
		socketPath = DefaultOutputSocketPath
	}
	return Launch(socketPath, "--no-osc", "--no-input-default-bindings")
}
