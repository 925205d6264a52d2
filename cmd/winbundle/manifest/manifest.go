package manifest

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	glog "github.com/magicsong/color-glog"
	"github.com/relm4-tools/winbundle/cmd/winbundle/types"
	"github.com/relm4-tools/winbundle/cmd/winbundle/utils"
	"github.com/relm4-tools/winbundle/cmd/winbundle/verification"
	"gopkg.in/yaml.v3"
)

type Input struct {
	Package   string
	Version   string
	Toolkit   *types.Toolkit
	BundleDir string
	Binary    string
	Archive   string
}

// Build walks the bundle directory and records every file with its size and
// sha256, sorted by relative path.
func Build(in Input) (*types.BundleManifest, error) {
	m := &types.BundleManifest{
		Package: in.Package,
		Version: in.Version,
		Archive: filepath.ToSlash(in.Archive),
	}
	if in.Toolkit != nil {
		m.GTKSource = in.Toolkit.Source
		m.GTKBinDir = filepath.ToSlash(in.Toolkit.BinDir)
	}
	if rel, err := filepath.Rel(in.BundleDir, in.Binary); err == nil {
		m.Binary = filepath.ToSlash(rel)
	}

	err := filepath.WalkDir(in.BundleDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(in.BundleDir, path)
		if err != nil {
			return err
		}
		sum, size, err := verification.SHA256File(path)
		if err != nil {
			return err
		}
		glog.V(8).Infof("manifest entry path=%q size=%d sha256=%s", rel, size, sum)
		m.Files = append(m.Files, types.ManifestFile{Path: filepath.ToSlash(rel), Size: size, SHA256: sum})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not hash bundle: %w", err)
	}
	sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Path < m.Files[j].Path })
	return m, nil
}

func Encode(m *types.BundleManifest) ([]byte, error) {
	var data bytes.Buffer
	yamlEncoder := yaml.NewEncoder(&data)
	yamlEncoder.SetIndent(2)
	if err := yamlEncoder.Encode(m); err != nil {
		return nil, err
	}
	if err := yamlEncoder.Close(); err != nil {
		return nil, err
	}
	return data.Bytes(), nil
}

// Write stores the manifest as yaml at path.
func Write(m *types.BundleManifest, path string) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	glog.Infof("Writing bundle manifest to: %s", path)
	return utils.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// Read loads a manifest written by Write.
func Read(data []byte) (*types.BundleManifest, error) {
	var m types.BundleManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// IsInside reports whether path lies within dir.
func IsInside(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
