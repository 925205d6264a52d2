package cargo

import (
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/relm4-tools/winbundle/cmd/winbundle/constants"
)

// Windows treats environment variable names case-insensitively ("Path").
var caseInsensitiveEnv = runtime.GOOS == "windows"

// Env is a child process environment. It is built from a copy of the
// parent's variables and never written back to the parent.
type Env map[string]string

func EnvFromList(environ []string) Env {
	env := Env{}
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		// Windows has hidden per-drive entries like "=C:=C:\\"
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

func (e Env) key(name string) string {
	if _, ok := e[name]; ok || !caseInsensitiveEnv {
		return name
	}
	for k := range e {
		if strings.EqualFold(k, name) {
			return k
		}
	}
	return name
}

func (e Env) Get(name string) (string, bool) {
	v, ok := e[e.key(name)]
	return v, ok
}

func (e Env) Append(name, value string) {
	k := e.key(name)
	if cur, ok := e[k]; ok && cur != "" {
		e[k] = cur + string(filepath.ListSeparator) + value
		return
	}
	e[k] = value
}

func (e Env) Prepend(name, value string) {
	k := e.key(name)
	if cur, ok := e[k]; ok && cur != "" {
		e[k] = value + string(filepath.ListSeparator) + cur
		return
	}
	e[k] = value
}

// List renders the environment in the KEY=VALUE form exec expects, sorted
// by key.
func (e Env) List() []string {
	out := make([]string, 0, len(e))
	for k, v := range e {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// BuildEnv makes GTK visible to gtk-rs build scripts: pkg-config finds the
// .pc files, the linker finds the import libraries and build scripts can
// load the DLLs.
func BuildEnv(environ []string, gtkBinDir string) (Env, error) {
	binDir, err := filepath.Abs(gtkBinDir)
	if err != nil {
		return nil, err
	}
	libDir := filepath.Join(binDir, "..", "lib")
	env := EnvFromList(environ)
	env.Prepend(constants.PkgConfigPathEnvVar, filepath.Join(libDir, "pkgconfig"))
	env.Append(constants.ExecutablePathEnvVar, binDir)
	env.Append(constants.LibraryPathEnvVar, libDir)
	return env, nil
}
