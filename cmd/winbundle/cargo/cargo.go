package cargo

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	glog "github.com/magicsong/color-glog"
	"github.com/relm4-tools/winbundle/cmd/winbundle/constants"
	"github.com/relm4-tools/winbundle/cmd/winbundle/types"
)

var (
	ErrMalformedMetadata      = errors.New("cargo metadata output is not valid")
	ErrMissingTargetDirectory = errors.New(`cargo metadata didn't define a "target_directory" property`)
	ErrMissingPackages        = errors.New(`cargo metadata didn't define a "packages" property`)
	ErrPackageCount           = errors.New("cargo metadata packages is not a list of length 1")
	ErrMissingPackageName     = errors.New(`the package didn't define a "name" property`)

	ErrMalformedMessage  = errors.New("cargo build emitted a message that is not valid json")
	ErrNoArtifact        = errors.New("cargo build produced no executable")
	ErrMultipleArtifacts = errors.New("cargo build produced more than one executable")
)

type metadataPackage struct {
	Name *string `json:"name"`
}

// https://doc.rust-lang.org/cargo/commands/cargo-metadata.html#json-format
type metadataDocument struct {
	TargetDirectory *string           `json:"target_directory"`
	Packages        []metadataPackage `json:"packages"`
}

// DecodeMetadata turns `cargo metadata --format-version 1` output into a
// CargoMetadata, or reports the first thing that is missing from it.
func DecodeMetadata(output []byte) (*types.CargoMetadata, error) {
	var doc metadataDocument
	if err := json.Unmarshal(output, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
	}
	if doc.TargetDirectory == nil || *doc.TargetDirectory == "" {
		return nil, ErrMissingTargetDirectory
	}
	if len(doc.Packages) == 0 {
		return nil, ErrMissingPackages
	}
	if len(doc.Packages) != 1 {
		return nil, fmt.Errorf("%w: found %d packages", ErrPackageCount, len(doc.Packages))
	}
	if doc.Packages[0].Name == nil || *doc.Packages[0].Name == "" {
		return nil, ErrMissingPackageName
	}
	return &types.CargoMetadata{
		TargetDirectory: *doc.TargetDirectory,
		PackageName:     *doc.Packages[0].Name,
	}, nil
}

// Metadata asks cargo where it writes build artifacts and what the package
// is called.
func Metadata(ctx context.Context, runner Runner, cargoBin, projectDir string) (*types.CargoMetadata, error) {
	output, err := runner.Output(ctx, Command{
		Name: cargoBin,
		Args: []string{"metadata", "--no-deps", "--format-version", "1"},
		Dir:  projectDir,
	})
	if err != nil {
		return nil, fmt.Errorf("cargo metadata failed: %w", err)
	}
	meta, err := DecodeMetadata(output)
	if err != nil {
		return nil, err
	}
	glog.V(5).Infof("cargo metadata target_directory=%q package=%q", meta.TargetDirectory, meta.PackageName)
	return meta, nil
}

// https://doc.rust-lang.org/cargo/reference/external-tools.html#compiler-artifact
type buildMessage struct {
	Reason     string  `json:"reason"`
	Executable *string `json:"executable"`
}

// ParseArtifacts returns the executable paths of all compiler-artifact
// messages in line-delimited `--message-format json` output.
func ParseArtifacts(output []byte) ([]string, error) {
	var executables []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var msg buildMessage
		if err := json.Unmarshal([]byte(text), &msg); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedMessage, line, err)
		}
		if msg.Reason != constants.CargoArtifactReason {
			continue
		}
		if msg.Executable == nil || *msg.Executable == "" {
			continue
		}
		glog.V(7).Infof("found executable artifact %q", *msg.Executable)
		executables = append(executables, *msg.Executable)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return executables, nil
}

// SingleArtifact enforces that exactly one executable was built.
func SingleArtifact(executables []string) (string, error) {
	switch len(executables) {
	case 0:
		return "", ErrNoArtifact
	case 1:
		return executables[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrMultipleArtifacts, strings.Join(executables, ", "))
	}
}

type BuildOptions struct {
	CargoBin   string
	ProjectDir string
	Env        Env
}

// Build runs a release build and returns the path of the produced
// executable. When the captured build fails it is run again with output
// going to the console so the compiler errors are visible, and the first
// error is returned.
func Build(ctx context.Context, runner Runner, opts BuildOptions) (string, error) {
	var environ []string
	if opts.Env != nil {
		environ = opts.Env.List()
	}
	output, err := runner.Output(ctx, Command{
		Name: opts.CargoBin,
		Args: []string{"build", "--release", "--message-format", "json"},
		Dir:  opts.ProjectDir,
		Env:  environ,
	})
	if err != nil {
		glog.Warningf("Re-running cargo build without capturing stdout to see all errors")
		rerunErr := runner.Run(ctx, Command{
			Name: opts.CargoBin,
			Args: []string{"build", "--release"},
			Dir:  opts.ProjectDir,
			Env:  environ,
		})
		glog.V(5).Infof("uncaptured cargo build returned: %v", rerunErr)
		return "", fmt.Errorf("cargo build failed: %w", err)
	}
	executables, err := ParseArtifacts(output)
	if err != nil {
		return "", err
	}
	return SingleArtifact(executables)
}
