package cmds

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/pancsta/sway-deskcfg/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("terminal: foot\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	root := GetRootCmd(zap.NewNop().Sugar())
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", path))
	err := root.Execute()

	return out.String(), err
}

func TestRender(t *testing.T) {
	out, err := execute(t, "render")
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range []string{
		"bindsym Mod4+Return exec foot",
		"status_command sway-deskcfg status",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("missing %q", line)
		}
	}
}

func TestDump(t *testing.T) {
	tests := []struct {
		format    string
		unmarshal func([]byte, any) error
	}{
		{"yaml", yaml.Unmarshal},
		{"json", json.Unmarshal},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := execute(t, "dump", "--format", tt.format)
			if err != nil {
				t.Fatal(err)
			}
			var got map[string]any
			if err := tt.unmarshal([]byte(out), &got); err != nil {
				t.Fatal(err)
			}
			if got["terminal"] != "foot" {
				t.Errorf("unexpected terminal %v", got["terminal"])
			}
			if keys, _ := got["keys"].([]any); len(keys) != 37 {
				t.Errorf("expected 37 keys, got %d", len(keys))
			}
		})
	}

	if _, err := execute(t, "dump", "--format", "toml"); err == nil {
		t.Error("expected an unknown format error")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--class", "ssh-askpass"}, "float"},
		{[]string{"--title", "pinentry"}, "float"},
		{[]string{"--type", "dialog"}, "float"},
		{[]string{"--instance", "confirmreset", "--class", "Gitk"}, "float"},
		{[]string{"--app-id", "foot", "--title", "~"}, "tile"},
	}
	for _, tt := range tests {
		out, err := execute(t, append([]string{"classify"}, tt.args...)...)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(out, tt.want) {
			t.Errorf("%v: expected %s, got %q", tt.args, tt.want, out)
		}
	}
}

func TestAction_Examples(t *testing.T) {
	root := GetRootCmd(zap.NewNop().Sugar())
	cmd, _, err := root.Find([]string{"action"})
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(cmd.Example, "\n") {
		fields := strings.Fields(line)
		if _, err := config.ParseAction(fields[len(fields)-1]); err != nil {
			t.Errorf("%q: %s", line, err)
		}
	}
}

func TestRoot(t *testing.T) {
	out, err := execute(t)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "sway-deskcfg: ") {
		t.Errorf("unexpected help %q", out)
	}
}

func TestShellPrompt(t *testing.T) {
	if got := shellPrompt("sway-deskcfg"); got != `foot --title "sway-deskcfg" sway-deskcfg fzf path` {
		t.Errorf("unexpected prompt %q", got)
	}
}
