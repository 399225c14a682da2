package status

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Runner runs a shell command line and returns its stdout.
type Runner interface {
	Run(ctx context.Context, cmd string) (string, error)
}

// Shell runs command lines with "sh -c", each bounded by Timeout.
type Shell struct {
	Path    string
	Timeout time.Duration
}

func (s Shell) Run(ctx context.Context, cmd string) (string, error) {
	path := s.Path
	if path == "" {
		path = "sh"
	}
	timeout := s.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, path, "-c", cmd)
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		return "", fmt.Errorf("%s: %w, stderr: %s", cmd, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
