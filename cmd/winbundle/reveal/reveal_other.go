//go:build !windows

package reveal

import (
	"os/exec"
	"path/filepath"

	glog "github.com/magicsong/color-glog"
)

type systemRevealer struct {
	command commandFunc
}

// NewSystemRevealer opens the directory containing the file with xdg-open.
func NewSystemRevealer() Revealer {
	return &systemRevealer{command: exec.Command}
}

func (r *systemRevealer) Reveal(path string) error {
	dir := filepath.Dir(TrimTrailingSeparators(path))
	cmd := r.command("xdg-open", dir)
	glog.V(7).Infof("running %v", cmd.Args)
	return cmd.Run()
}
