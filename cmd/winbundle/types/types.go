package types

import "strings"

type BuildFlags struct {
	Version string
}

type CliFlags struct {
	ShowBinary  bool
	ShowZip     bool
	DownloadGTK bool

	GTKBinDir      string
	GTKRepo        string
	GTKAssetFilter string
	GTKSHA256      string
	GTKPublicKey   string
	GitHubToken    string

	ProjectDir  string
	CargoBinary string
	ManifestOut string
	UploadURL   string
	Verbosity   string
}

// CargoMetadata is the part of `cargo metadata` output the bundler needs.
type CargoMetadata struct {
	TargetDirectory string
	PackageName     string
}

// ReleaseAsset describes a single downloadable file of a GitHub release.
type ReleaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	ContentType        string `json:"content_type"`
}

type Release struct {
	TagName string
	Assets  []ReleaseAsset
}

type GTKSource string

const (
	GTKSourceLocal  GTKSource = "local"
	GTKSourceGitHub GTKSource = "github"
)

// Toolkit is the resolved GTK installation used for building and bundling.
type Toolkit struct {
	Source GTKSource
	BinDir string
}

type ManifestFile struct {
	Path   string `yaml:"path"`
	Size   int64  `yaml:"size"`
	SHA256 string `yaml:"sha256"`
}

type BundleManifest struct {
	Package   string         `yaml:"package"`
	Version   string         `yaml:"version"`
	GTKSource GTKSource      `yaml:"gtkSource"`
	GTKBinDir string         `yaml:"gtkBinDir"`
	Binary    string         `yaml:"binary"`
	Archive   string         `yaml:"archive"`
	Files     []ManifestFile `yaml:"files"`
}

// ExitError is a diagnosed fatal condition. The message and hints are
// printed to the console and the process exits with Code.
type ExitError struct {
	Code    int
	Message string
	Hints   []string
	Err     error
}

func (e *ExitError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Fatal builds an ExitError with exit code 1.
func Fatal(err error, message string, hints ...string) *ExitError {
	return &ExitError{Code: 1, Message: message, Hints: hints, Err: err}
}
