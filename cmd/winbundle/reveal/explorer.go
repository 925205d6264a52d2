package reveal

import (
	"os/exec"
	"strings"
)

// TrimTrailingSeparators strips path separators explorer refuses to select.
func TrimTrailingSeparators(path string) string {
	trimmed := strings.TrimRight(path, `\/`)
	if trimmed == "" {
		return path
	}
	return trimmed
}

// ExplorerArgs is the argument list for highlighting path in Windows Explorer.
// The comma after /select is part of the switch.
func ExplorerArgs(path string) []string {
	return []string{"/select,", TrimTrailingSeparators(path)}
}

type commandFunc func(name string, args ...string) *exec.Cmd
