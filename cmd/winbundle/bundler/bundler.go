package bundler

import (
	"context"
	"fmt"
	"net/http"
	"os"

	glog "github.com/magicsong/color-glog"
	"github.com/relm4-tools/winbundle/cmd/winbundle/archive"
	"github.com/relm4-tools/winbundle/cmd/winbundle/bundle"
	"github.com/relm4-tools/winbundle/cmd/winbundle/cargo"
	"github.com/relm4-tools/winbundle/cmd/winbundle/github"
	"github.com/relm4-tools/winbundle/cmd/winbundle/manifest"
	"github.com/relm4-tools/winbundle/cmd/winbundle/publish"
	"github.com/relm4-tools/winbundle/cmd/winbundle/reveal"
	"github.com/relm4-tools/winbundle/cmd/winbundle/toolkit"
	"github.com/relm4-tools/winbundle/cmd/winbundle/types"
	"github.com/relm4-tools/winbundle/cmd/winbundle/utils"
)

type Uploader func(ctx context.Context, target *publish.Target, zipPath string) (string, error)

// Deps are the collaborators Run talks to outside the process.
type Deps struct {
	Runner   cargo.Runner
	Releases toolkit.ReleaseSource
	Fetch    toolkit.Fetcher
	Revealer reveal.Revealer
	Upload   Uploader
	Environ  func() []string
}

// DefaultDeps wires the real cargo, GitHub, object store and file explorer.
func DefaultDeps(flags types.CliFlags) Deps {
	httpClient := &http.Client{}
	return Deps{
		Runner:   cargo.ExecRunner{},
		Releases: github.NewClient(httpClient, flags.GitHubToken),
		Fetch: func(ctx context.Context, url string) ([]byte, error) {
			return utils.DownloadBytes(ctx, httpClient, url)
		},
		Revealer: reveal.NewSystemRevealer(),
		Upload:   publish.Upload,
		Environ:  os.Environ,
	}
}

type Result struct {
	Toolkit  *types.Toolkit
	Binary   string
	Zip      string
	Manifest string
	Object   string
}

// Run packages the cargo project into a zipped bundle directory.
func Run(ctx context.Context, flags types.CliFlags, buildFlags types.BuildFlags, deps Deps) (*Result, error) {
	meta, err := cargo.Metadata(ctx, deps.Runner, flags.CargoBinary, flags.ProjectDir)
	if err != nil {
		return nil, types.Fatal(err, "Could not read cargo metadata")
	}
	bundleDir := bundle.Dir(meta)
	if flags.ManifestOut != "" && manifest.IsInside(bundleDir, flags.ManifestOut) {
		return nil, types.Fatal(nil, "Bundle manifest can't be written inside the bundle directory: "+flags.ManifestOut)
	}

	opts, err := toolkitOptions(flags, meta)
	if err != nil {
		return nil, err
	}
	acquirer := &toolkit.Acquirer{Releases: deps.Releases, Fetch: deps.Fetch}
	tk, err := acquirer.Acquire(ctx, opts)
	if err != nil {
		return nil, err
	}
	result := &Result{Toolkit: tk}

	glog.Infof("Building GTK application...")
	env, err := cargo.BuildEnv(deps.Environ(), tk.BinDir)
	if err != nil {
		return nil, err
	}
	binary, err := cargo.Build(ctx, deps.Runner, cargo.BuildOptions{
		CargoBin:   flags.CargoBinary,
		ProjectDir: flags.ProjectDir,
		Env:        env,
	})
	if err != nil {
		return nil, types.Fatal(err, "Could not build GTK application")
	}

	result.Binary, err = bundle.Assemble(tk.BinDir, bundleDir, binary)
	if err != nil {
		return nil, types.Fatal(err, "Could not assemble bundle")
	}

	result.Zip = bundle.ZipPath(bundleDir)
	glog.Infof("Zipping bundle directory to: %s", result.Zip)
	if err := archive.ZipDir(bundleDir, result.Zip); err != nil {
		return nil, types.Fatal(err, "Could not zip bundle directory")
	}

	if flags.ManifestOut != "" {
		if err := writeManifest(flags, buildFlags, meta, result, bundleDir); err != nil {
			return nil, err
		}
	}

	if flags.UploadURL != "" {
		target, err := publish.ParseUploadURL(flags.UploadURL)
		if err != nil {
			return nil, err
		}
		result.Object, err = deps.Upload(ctx, target, result.Zip)
		if err != nil {
			return nil, types.Fatal(err, "Could not upload bundle")
		}
	}

	reveal.Execute(reveal.Plan(flags.ShowBinary, flags.ShowZip, result.Binary, result.Zip), deps.Revealer)
	glog.Infof("Done!")
	return result, nil
}

func toolkitOptions(flags types.CliFlags, meta *types.CargoMetadata) (toolkit.Options, error) {
	opts := toolkit.Options{
		DownloadGTK:     flags.DownloadGTK,
		LocalBinDir:     flags.GTKBinDir,
		TargetDirectory: meta.TargetDirectory,
		Repo:            flags.GTKRepo,
		AssetFilter:     flags.GTKAssetFilter,
		SHA256:          flags.GTKSHA256,
	}
	if flags.GTKPublicKey != "" {
		key, err := os.ReadFile(flags.GTKPublicKey)
		if err != nil {
			return opts, fmt.Errorf("could not read public key: %w", err)
		}
		opts.PublicKey = string(key)
	}
	return opts, nil
}

func writeManifest(flags types.CliFlags, buildFlags types.BuildFlags, meta *types.CargoMetadata, result *Result, bundleDir string) error {
	m, err := manifest.Build(manifest.Input{
		Package:   meta.PackageName,
		Version:   buildFlags.Version,
		Toolkit:   result.Toolkit,
		BundleDir: bundleDir,
		Binary:    result.Binary,
		Archive:   result.Zip,
	})
	if err != nil {
		return err
	}
	if err := manifest.Write(m, flags.ManifestOut); err != nil {
		return fmt.Errorf("could not write bundle manifest: %w", err)
	}
	result.Manifest = flags.ManifestOut
	return nil
}
