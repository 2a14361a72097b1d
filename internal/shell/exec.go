package shell

import (
	"bytes"
	"context"
	"io"
	"os/exec"
)

type shell struct{}

func (shell) CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

func (shell) ExecCommand(ctx context.Context, opts ...Option) ([]byte, []byte, error) {
	o := newOptions(opts...)

	var (
		stdIn  io.Reader
		stdOut bytes.Buffer
		stdErr bytes.Buffer
	)

	if o.stdin != nil {
		stdIn = bytes.NewBuffer(o.stdin)
	}

	cmd := exec.CommandContext(ctx, o.cmd, o.args...)
	cmd.Stdin = stdIn
	cmd.Stdout = &stdOut
	cmd.Stderr = &stdErr

	if err := cmd.Run(); err != nil {
		return stdOut.Bytes(), stdErr.Bytes(), &ExitError{
			Cmd:    o.cmd,
			Args:   o.args,
			Stderr: stdErr.String(),
			Err:    err,
		}
	}

	return stdOut.Bytes(), stdErr.Bytes(), nil
}
