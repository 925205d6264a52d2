package constants

const (
	AppName                = "winbundle"
	EnvVarPrefix           = "WINBUNDLE"
	DefaultGTKBinDir       = "C:/gtk-build/gtk/x64/release/bin"
	DefaultGTKRepo         = "wingtk/gvsbuild"
	DefaultGTKAssetFilter  = "GTK4"
	GTKReleasesPageURL     = "https://github.com/wingtk/gvsbuild/releases"
	GTKBuildFromSourceURL  = "https://github.com/wingtk/gvsbuild?tab=readme-ov-file#build-gtk"
	GTKCacheDirName        = "gtk-from-github"
	BundleDirSuffix        = "-bundled"
	ZipFileExtension       = ".zip"
	TempFileSuffix         = ".TEMP"
	ZipContentType         = "application/zip"
	ZipContentTypeWindows  = "application/x-zip-compressed"
	SignatureFileExtension = ".sig"
	ArmoredSignatureExt    = ".asc"
)

// Files copied out of the GTK tree, relative to the bundle root.
const (
	GDBusExecutable      = "gdbus.exe"
	SharedLibraryGlob    = "*.dll"
	CompiledSchemasFile  = "gschemas.compiled"
	CompiledSchemasDir   = "share/glib-2.0/schemas"
	GTKSettingsDir       = "share/gtk-4.0"
	GTKSettingsFile      = "settings.ini"
	GTKSettingsContent   = "[Settings]\ngtk-font-name=Segoe UI 10\n"
	CargoArtifactReason  = "compiler-artifact"
	CargoReleaseDir      = "release"
	PkgConfigPathEnvVar  = "PKG_CONFIG_PATH"
	ExecutablePathEnvVar = "PATH"
	LibraryPathEnvVar    = "LIB"
)
