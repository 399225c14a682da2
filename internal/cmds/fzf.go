package cmds

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pancsta/sway-deskcfg/internal/daemon"
	"github.com/pancsta/sway-deskcfg/internal/sway"
)

var errAlreadyOpen = errors.New("fzf error: already open")

const (
	shellFzfPath = `
  fzf \
    --prompt 'Run: ' \
    --layout=reverse --info=hidden \
    --bind=space:accept,tab:offset-down,btab:offset-up
`
	// junegunn/seoul256.vim (light)
	shellFzfLight = ` \
    --color=bg+:#D9D9D9,bg:#E1E1E1,border:#C8C8C8,spinner:#719899,hl:#719872,fg:#616161,header:#719872,info:#727100,pointer:#E12672,marker:#E17899,fg+:#616161,preview-bg:#D9D9D9,prompt:#0099BD,hl+:#719899
`
)

// shellPrompt opens the fzf prompt in a foot window titled after bin, which
// the rendered config floats.
func shellPrompt(bin string) string {
	return fmt.Sprintf(`foot --title %q %s fzf path`, bin, bin)
}

// ///// ///// /////
// ///// FZF COMMANDS
// ///// ///// /////

func CmdFzfPath(cmd *cobra.Command, _ []string) error {
	// req the daemon
	list, err := daemon.RemoteCall("Daemon.RemoteGetPathFiles", daemon.RPCArgs{})
	if err != nil {
		return fmt.Errorf("rpc error: %w", err)
	}

	// run fzf
	result, err := runFZF(shellFzfPath, list)
	if err != nil {
		return fmt.Errorf("fzf error: %w", err)
	}

	// run the picked exe
	_, err = daemon.RemoteCall("Daemon.RemoteExec", daemon.RPCArgs{
		ExePath: result,
	})
	if err != nil {
		return fmt.Errorf("cant run %s: %w", strings.TrimSpace(result), err)
	}

	return nil
}

// ///// ///// /////
// ///// TERM WRAPPER COMMANDS
// ///// ///// /////

func CmdPrompt(_ *cobra.Command, _ []string) error {
	if !shouldOpen() {
		return errAlreadyOpen
	}
	if _, err := run(shellPrompt(sway.Bin)); err != nil {
		return fmt.Errorf("foot error: %w", err)
	}

	return nil
}

// ///// ///// /////
// ///// HELPERS
// ///// ///// /////

// shouldOpen asks the daemon if this process may open the prompt, so
// repeated key presses don't stack terminals.
func shouldOpen() bool {
	res, err := daemon.RemoteCall("Daemon.RemoteShouldOpen", daemon.RPCArgs{PID: os.Getpid()})

	return err == nil && res == "true"
}

// IsLightMode reads the GNOME color scheme.
func IsLightMode() bool {
	out, err := exec.Command("gsettings", "get", "org.gnome.desktop.interface", "color-scheme").Output()
	if err != nil {
		return false
	}

	return strings.Contains(string(out), "light")
}

func runFZF(cmd string, input string) (string, error) {
	shell := os.Getenv("SHELL")
	if len(shell) == 0 {
		shell = "sh"
	}
	if IsLightMode() {
		cmd = strings.TrimRight(cmd, " \n") + shellFzfLight
	}

	fzf := exec.Command(shell, "-c", cmd)
	fzf.Stdin = bytes.NewBufferString(input)

	// bind the UI
	fzf.Stderr = os.Stderr
	// read the result
	result, err := fzf.Output()
	if err != nil {
		return "", err
	}

	return string(result), nil
}

func run(cmd string) (string, error) {
	shell := os.Getenv("SHELL")
	if len(shell) == 0 {
		shell = "sh"
	}
	out, err := exec.Command(shell, "-c", cmd).Output()

	return string(out), err
}
