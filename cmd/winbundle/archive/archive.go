package archive

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	glog "github.com/magicsong/color-glog"
	"github.com/relm4-tools/winbundle/cmd/winbundle/utils"
)

// ZipDir compresses everything below srcDir into the zip file dst. Entry
// names are relative to srcDir. An existing dst is replaced.
func ZipDir(srcDir, dst string) error {
	glog.Infof("Zipping %q to %q", srcDir, dst)
	return utils.WriteFileAtomic(dst, func(w io.Writer) error {
		zw := zip.NewWriter(w)
		err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(srcDir, path)
			if err != nil {
				return err
			}
			if rel == "." {
				return nil
			}
			return addEntry(zw, path, filepath.ToSlash(rel), d)
		})
		if err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	})
}

func addEntry(zw *zip.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	if d.IsDir() {
		header.Name = name + "/"
		_, err = zw.CreateHeader(header)
		return err
	}
	header.Name = name
	header.Method = zip.Deflate
	glog.V(9).Infof("adding %s", name)
	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(w, file)
	return err
}

// ExtractAll extracts every entry of the in-memory zip data below dst and
// returns the number of files written.
func ExtractAll(data []byte, dst string) (int, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to create zip reader: %w", err)
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return 0, err
	}
	count := 0
	for _, file := range zipReader.File {
		written, err := extractFile(file, dst)
		if err != nil {
			return count, fmt.Errorf("failed to extract file %s: %w", file.Name, err)
		}
		if written {
			count++
		}
	}
	glog.V(5).Infof("extracted %d files to %q", count, dst)
	return count, nil
}

func extractFile(file *zip.File, destDir string) (bool, error) {
	name := strings.ReplaceAll(file.Name, "\\", "/")
	destPath := filepath.Join(destDir, filepath.FromSlash(name))
	// "./" names the extraction root itself
	if destPath == filepath.Clean(destDir) {
		return false, nil
	}
	if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return false, fmt.Errorf("invalid file path detected: file=%s, dest=%s", file.Name, destPath)
	}

	if file.FileInfo().IsDir() || strings.HasSuffix(name, "/") {
		return false, os.MkdirAll(destPath, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return false, fmt.Errorf("failed to create parent directories %s: %w", filepath.Dir(destPath), err)
	}

	rc, err := file.Open()
	if err != nil {
		return false, err
	}
	defer rc.Close()

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	glog.V(9).Infof("extracting to %q", destPath)
	outfile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return false, err
	}
	if _, err := io.Copy(outfile, rc); err != nil {
		outfile.Close()
		return false, err
	}
	return true, outfile.Close()
}
