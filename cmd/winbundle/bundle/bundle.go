package bundle

import (
	"fmt"
	"os"
	"path/filepath"

	glog "github.com/magicsong/color-glog"
	"github.com/relm4-tools/winbundle/cmd/winbundle/constants"
	"github.com/relm4-tools/winbundle/cmd/winbundle/types"
	"github.com/relm4-tools/winbundle/cmd/winbundle/utils"
)

// Dir is <target>/release/<package>-bundled.
func Dir(meta *types.CargoMetadata) string {
	return filepath.Join(meta.TargetDirectory, constants.CargoReleaseDir, meta.PackageName+constants.BundleDirSuffix)
}

// ZipPath is the archive written next to the bundle directory.
func ZipPath(bundleDir string) string {
	return filepath.Clean(bundleDir) + constants.ZipFileExtension
}

// Assemble copies the GTK runtime and the built binary into bundleDir and
// returns the path of the bundled binary. Existing files are overwritten.
func Assemble(gtkBinDir, bundleDir, binaryPath string) (string, error) {
	glog.Infof("Creating bundle directory at: %s", bundleDir)
	if err := os.MkdirAll(bundleDir, 0755); err != nil {
		return "", fmt.Errorf("could not create bundle directory: %w", err)
	}

	if err := copyLibraries(gtkBinDir, bundleDir); err != nil {
		return "", err
	}

	// https://discourse.gnome.org/t/gtk-warning-about-gdbus-exe-not-being-found-on-windows-msys2/2893/4
	glog.Infof("Copying ancillary binaries...")
	gdbus := filepath.Join(gtkBinDir, constants.GDBusExecutable)
	glog.Infof("\t%s", gdbus)
	if _, err := utils.CopyFileInto(gdbus, bundleDir); err != nil {
		return "", fmt.Errorf("could not copy %s: %w", constants.GDBusExecutable, err)
	}

	// https://www.gtk.org/docs/installations/windows
	glog.Infof("Copying glib compiled schemas...")
	binDir, err := filepath.Abs(gtkBinDir)
	if err != nil {
		return "", err
	}
	schemas := filepath.Join(binDir, "..", filepath.FromSlash(constants.CompiledSchemasDir), constants.CompiledSchemasFile)
	schemasOut := filepath.Join(bundleDir, filepath.FromSlash(constants.CompiledSchemasDir))
	if err := os.MkdirAll(schemasOut, 0755); err != nil {
		return "", err
	}
	glog.Infof("\t%s", schemas)
	if _, err := utils.CopyFileInto(schemas, schemasOut); err != nil {
		return "", fmt.Errorf("could not copy glib compiled schemas: %w", err)
	}

	if err := WriteSettings(bundleDir); err != nil {
		return "", err
	}

	glog.Infof("Copying binary to bundle directory")
	glog.Infof("\tFrom: %s", binaryPath)
	bundled, err := utils.CopyFileInto(binaryPath, bundleDir)
	if err != nil {
		return "", fmt.Errorf("could not copy binary: %w", err)
	}
	glog.Infof("\tTo:   %s", bundled)
	return bundled, nil
}

func copyLibraries(gtkBinDir, bundleDir string) error {
	glog.Infof("Copying DLL files...")
	dlls, err := filepath.Glob(filepath.Join(gtkBinDir, constants.SharedLibraryGlob))
	if err != nil {
		return err
	}
	for _, dll := range dlls {
		glog.Infof("\t%s", dll)
		if _, err := utils.CopyFileInto(dll, bundleDir); err != nil {
			return fmt.Errorf("could not copy %s: %w", filepath.Base(dll), err)
		}
	}
	glog.V(5).Infof("copied %d libraries", len(dlls))
	return nil
}

// WriteSettings writes share/gtk-4.0/settings.ini to pick the UI font.
func WriteSettings(bundleDir string) error {
	settings := filepath.Join(bundleDir, filepath.FromSlash(constants.GTKSettingsDir), constants.GTKSettingsFile)
	glog.Infof("Creating %q to specify font", constants.GTKSettingsDir+"/"+constants.GTKSettingsFile)
	glog.Infof("\tAt: %s", settings)
	if err := os.MkdirAll(filepath.Dir(settings), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(settings, []byte(constants.GTKSettingsContent), 0644); err != nil {
		return fmt.Errorf("could not write %s: %w", constants.GTKSettingsFile, err)
	}
	return nil
}
