package reveal

import (
	"errors"
	"os/exec"

	glog "github.com/magicsong/color-glog"
)

type systemRevealer struct {
	command commandFunc
}

// NewSystemRevealer opens Windows Explorer with the file selected.
func NewSystemRevealer() Revealer {
	return &systemRevealer{command: exec.Command}
}

func (r *systemRevealer) Reveal(path string) error {
	cmd := r.command("explorer", ExplorerArgs(path)...)
	glog.V(7).Infof("running %v", cmd.Args)
	err := cmd.Run()
	// explorer exits with 1 even when the window opened
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}
