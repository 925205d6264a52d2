package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v68/github"
	glog "github.com/magicsong/color-glog"
	"github.com/relm4-tools/winbundle/cmd/winbundle/constants"
	"github.com/relm4-tools/winbundle/cmd/winbundle/types"
)

var (
	ErrNoAssets               = errors.New("no assets found")
	ErrNoMatchingAsset        = errors.New("no matching asset found")
	ErrMultipleMatchingAssets = errors.New("more than one matching asset found")
	ErrMissingDownloadURL     = errors.New("no browser_download_url found")
	ErrNotAnArchive           = errors.New("content_type is not application/zip")
)

// StatusError reports a releases API answer other than 200.
type StatusError struct {
	StatusCode int
	Repo       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP status code %d while fetching latest release of %s", e.StatusCode, e.Repo)
}

type Client struct {
	client *gh.Client
}

// NewClient returns an anonymous releases client unless token is set.
func NewClient(httpClient *http.Client, token string) *Client {
	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &Client{client: client}
}

// WithBaseURL points the client at another API root, e.g. GitHub Enterprise.
func (c *Client) WithBaseURL(baseURL string) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	c.client.BaseURL = u
	return c, nil
}

func SplitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/name", repo)
	}
	return owner, name, nil
}

// LatestRelease uses github API to identify the assets of the latest
// release of repo.
func (c *Client) LatestRelease(ctx context.Context, repo string) (*types.Release, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}
	glog.Infof("Fetching latest release information for %s", repo)
	release, resp, err := c.client.Repositories.GetLatestRelease(ctx, owner, name)
	if resp != nil {
		glog.V(9).Infof("github api response=%d", resp.StatusCode)
		if resp.StatusCode != http.StatusOK {
			return nil, &StatusError{StatusCode: resp.StatusCode, Repo: repo}
		}
	}
	if err != nil {
		glog.Error(err)
		return nil, err
	}
	out := &types.Release{TagName: release.GetTagName()}
	for _, asset := range release.Assets {
		out.Assets = append(out.Assets, types.ReleaseAsset{
			Name:               asset.GetName(),
			BrowserDownloadURL: asset.GetBrowserDownloadURL(),
			ContentType:        asset.GetContentType(),
		})
	}
	glog.V(5).Infof("release %q of %s has %d assets", out.TagName, repo, len(out.Assets))
	return out, nil
}

func isZipContentType(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case constants.ZipContentType, constants.ZipContentTypeWindows:
		return true
	}
	return false
}

// SelectAsset picks the one asset whose name contains filter and checks that
// it can be downloaded as a zip archive.
func SelectAsset(release *types.Release, filter string) (types.ReleaseAsset, error) {
	if release == nil || len(release.Assets) == 0 {
		return types.ReleaseAsset{}, ErrNoAssets
	}
	var matches []types.ReleaseAsset
	for _, asset := range release.Assets {
		if isSignatureName(asset.Name) {
			continue
		}
		if strings.Contains(asset.Name, filter) {
			matches = append(matches, asset)
		}
	}
	switch len(matches) {
	case 0:
		return types.ReleaseAsset{}, fmt.Errorf("%w: no asset name contains %q", ErrNoMatchingAsset, filter)
	case 1:
	default:
		return types.ReleaseAsset{}, fmt.Errorf("%w: %d asset names contain %q", ErrMultipleMatchingAssets, len(matches), filter)
	}
	asset := matches[0]
	if asset.BrowserDownloadURL == "" {
		return types.ReleaseAsset{}, fmt.Errorf("%w for %s", ErrMissingDownloadURL, asset.Name)
	}
	if !isZipContentType(asset.ContentType) {
		return types.ReleaseAsset{}, fmt.Errorf("%w, instead it was: %s", ErrNotAnArchive, asset.ContentType)
	}
	return asset, nil
}

// Detached signatures are published next to the archive they sign and share
// its name.
func isSignatureName(name string) bool {
	return strings.HasSuffix(name, constants.SignatureFileExtension) || strings.HasSuffix(name, constants.ArmoredSignatureExt)
}

// SignatureAsset finds the detached signature published next to asset.
func SignatureAsset(release *types.Release, asset types.ReleaseAsset) (types.ReleaseAsset, bool) {
	for _, ext := range []string{constants.SignatureFileExtension, constants.ArmoredSignatureExt} {
		for _, candidate := range release.Assets {
			if candidate.Name == asset.Name+ext && candidate.BrowserDownloadURL != "" {
				return candidate, true
			}
		}
	}
	return types.ReleaseAsset{}, false
}

func AssetNames(release *types.Release) []string {
	if release == nil {
		return nil
	}
	names := make([]string, 0, len(release.Assets))
	for _, asset := range release.Assets {
		names = append(names, asset.Name)
	}
	return names
}
