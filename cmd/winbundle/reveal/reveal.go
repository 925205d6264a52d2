package reveal

import (
	glog "github.com/magicsong/color-glog"
)

// Action highlights one file in the platform file manager.
type Action struct {
	Path   string
	Reason string
}

type Revealer interface {
	Reveal(path string) error
}

// Plan lists the reveal actions requested by the flags, binary first.
func Plan(showBinary, showZip bool, binary, zip string) []Action {
	var actions []Action
	if showBinary {
		actions = append(actions, Action{
			Path:   binary,
			Reason: "Showing app inside bundle folder in file explorer (because of -show-binary flag)",
		})
	}
	if showZip {
		actions = append(actions, Action{
			Path:   zip,
			Reason: "Showing zip file in file explorer (because of -show-zip flag)",
		})
	}
	return actions
}

// Execute runs every action. A failed reveal is only a warning.
func Execute(actions []Action, revealer Revealer) {
	for _, action := range actions {
		glog.Info(action.Reason)
		if err := revealer.Reveal(action.Path); err != nil {
			glog.Warningf("Could not reveal %s: %v", action.Path, err)
		}
	}
}
