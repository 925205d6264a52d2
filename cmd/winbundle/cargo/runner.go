package cargo

import (
	"context"
	"os"
	"os/exec"
	"strings"

	glog "github.com/magicsong/color-glog"
)

// Command is one invocation of an external program.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env is the complete child environment. Nil inherits the parent's.
	Env []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner spawns external programs. Output captures stdout, Run streams
// everything to the console.
type Runner interface {
	Output(ctx context.Context, cmd Command) ([]byte, error)
	Run(ctx context.Context, cmd Command) error
}

type ExecRunner struct{}

func (ExecRunner) command(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	// stdin stays nil, which is the null device
	cmd.Stderr = os.Stderr
	return cmd
}

func (r ExecRunner) Output(ctx context.Context, c Command) ([]byte, error) {
	glog.V(5).Infof("Executing: %s", c)
	return r.command(ctx, c).Output()
}

func (r ExecRunner) Run(ctx context.Context, c Command) error {
	glog.V(5).Infof("Executing: %s", c)
	cmd := r.command(ctx, c)
	cmd.Stdout = os.Stdout
	return cmd.Run()
}
