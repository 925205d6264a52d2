package toolkit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	glog "github.com/magicsong/color-glog"
	"github.com/relm4-tools/winbundle/cmd/winbundle/archive"
	"github.com/relm4-tools/winbundle/cmd/winbundle/constants"
	"github.com/relm4-tools/winbundle/cmd/winbundle/github"
	"github.com/relm4-tools/winbundle/cmd/winbundle/types"
	"github.com/relm4-tools/winbundle/cmd/winbundle/utils"
	"github.com/relm4-tools/winbundle/cmd/winbundle/verification"
)

type ReleaseSource interface {
	LatestRelease(ctx context.Context, repo string) (*types.Release, error)
}

// Fetcher downloads url into memory.
type Fetcher func(ctx context.Context, url string) ([]byte, error)

type Options struct {
	DownloadGTK     bool
	LocalBinDir     string
	TargetDirectory string
	Repo            string
	AssetFilter     string
	SHA256          string
	// PublicKey is an armored OpenPGP key. When set the archive must carry a
	// valid detached signature.
	PublicKey string
}

type Acquirer struct {
	Releases ReleaseSource
	Fetch    Fetcher
}

func CacheDir(targetDirectory string) string {
	return filepath.Join(targetDirectory, constants.GTKCacheDirName)
}

// Acquire resolves the GTK bin directory, downloading and caching a gvsbuild
// release first when opts.DownloadGTK is set.
func (a *Acquirer) Acquire(ctx context.Context, opts Options) (*types.Toolkit, error) {
	tk := &types.Toolkit{Source: types.GTKSourceLocal, BinDir: opts.LocalBinDir}
	if opts.DownloadGTK {
		glog.Infof("Downloading latest GTK release by gvsbuild from https://github.com/%s/releases", opts.Repo)
		cacheDir := CacheDir(opts.TargetDirectory)
		if utils.IsDirExists(cacheDir) {
			glog.Infof("GTK release already downloaded at: %s", cacheDir)
		} else if err := a.download(ctx, opts, cacheDir); err != nil {
			return nil, err
		}
		tk = &types.Toolkit{Source: types.GTKSourceGitHub, BinDir: filepath.Join(cacheDir, "bin")}
	}

	if !utils.IsDirExists(tk.BinDir) {
		return nil, types.Fatal(nil, "Could not find GTK bin folder at: "+tk.BinDir,
			"To build GTK from source follow the instructions at "+constants.GTKBuildFromSourceURL,
			"Alternatively specify the -download-gtk flag to automatically download the latest GTK release by gvsbuild from "+constants.GTKReleasesPageURL,
		)
	}
	glog.Infof("Found GTK bin folder at: %s", tk.BinDir)
	return tk, nil
}

func (a *Acquirer) download(ctx context.Context, opts Options, cacheDir string) error {
	release, err := a.Releases.LatestRelease(ctx, opts.Repo)
	if err != nil {
		var statusErr *github.StatusError
		if errors.As(err, &statusErr) {
			return types.Fatal(nil, fmt.Sprintf("Could not download GTK release, HTTP status code: %d", statusErr.StatusCode))
		}
		return fmt.Errorf("could not fetch latest GTK release: %w", err)
	}

	asset, err := github.SelectAsset(release, opts.AssetFilter)
	if err != nil {
		var hints []string
		if names := github.AssetNames(release); len(names) > 0 {
			hints = append(hints, "Found assets: "+strings.Join(names, ", "))
		}
		return types.Fatal(err, "Could not download GTK release", hints...)
	}
	glog.Infof("Downloading and unzipping GitHub release asset: %s", asset.Name)
	glog.Infof("\tFrom URL: %s", asset.BrowserDownloadURL)
	glog.Infof("\tTo folder at: %s", cacheDir)

	data, err := a.Fetch(ctx, asset.BrowserDownloadURL)
	if err != nil {
		var statusErr *utils.HTTPStatusError
		if errors.As(err, &statusErr) {
			return types.Fatal(nil, fmt.Sprintf("Could not download GTK release, HTTP status code: %d", statusErr.StatusCode))
		}
		return fmt.Errorf("could not download %s: %w", asset.Name, err)
	}

	if err := a.verify(ctx, opts, release, asset, data); err != nil {
		return types.Fatal(err, "Could not verify GTK release "+asset.Name)
	}

	return extractToCache(data, opts.TargetDirectory, cacheDir)
}

func (a *Acquirer) verify(ctx context.Context, opts Options, release *types.Release, asset types.ReleaseAsset, data []byte) error {
	if opts.SHA256 != "" {
		if err := verification.VerifySHA256Digest(data, opts.SHA256); err != nil {
			return err
		}
	}
	if opts.PublicKey == "" {
		return nil
	}
	sigAsset, ok := github.SignatureAsset(release, asset)
	if !ok {
		return fmt.Errorf("no signature asset %s%s or %s%s in release", asset.Name, constants.SignatureFileExtension, asset.Name, constants.ArmoredSignatureExt)
	}
	glog.V(3).Infof("verifying GPG signature for %s with %s", asset.Name, sigAsset.Name)
	signature, err := a.Fetch(ctx, sigAsset.BrowserDownloadURL)
	if err != nil {
		return err
	}
	return verification.VerifyGPGSignature(data, signature, opts.PublicKey)
}

// extractToCache fills cacheDir through a temporary sibling so an
// interrupted extraction never looks like a finished cache.
func extractToCache(data []byte, targetDirectory, cacheDir string) error {
	if err := os.MkdirAll(targetDirectory, 0755); err != nil {
		return err
	}
	tempDir, err := os.MkdirTemp(targetDirectory, constants.GTKCacheDirName+"-*")
	if err != nil {
		return err
	}
	count, err := archive.ExtractAll(data, tempDir)
	if err != nil {
		os.RemoveAll(tempDir)
		return err
	}
	if err := os.Rename(tempDir, cacheDir); err != nil {
		os.RemoveAll(tempDir)
		return err
	}
	glog.Infof("Extracted %d files to %s", count, cacheDir)
	return nil
}
