package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	glog "github.com/magicsong/color-glog"
	"github.com/relm4-tools/winbundle/cmd/winbundle/constants"
)

func IsFileExists(path string) bool {
	glog.V(6).Infof("Checking if file exists at path=%q", path)
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func IsDirExists(path string) bool {
	glog.V(6).Infof("Checking if directory exists at path=%q", path)
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// HTTPStatusError is returned when a download answers with anything but 200.
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d while downloading %q", e.StatusCode, e.URL)
}

// DownloadBytes fetches url into memory.
func DownloadBytes(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	glog.Infof("Downloading %s", url)
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	glog.V(9).Infof("Response statusCode=%d", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, URL: url}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read body of %q: %w", url, err)
	}
	glog.V(5).Infof("Downloaded %d bytes from %s", buf.Len(), url)
	return buf.Bytes(), nil
}

// CopyFile copies src to dst, keeping the permission bits and the
// modification time of src. dst is truncated if it exists.
func CopyFile(src, dst string) error {
	glog.V(7).Infof("copying %q to %q", src, dst)
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("cannot copy %q: is a directory", src)
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// CopyFileInto copies src into dir under its own base name and returns the
// destination path.
func CopyFileInto(src, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))
	return dst, CopyFile(src, dst)
}

// WriteFileAtomic writes through a sibling temp file and renames it over path.
func WriteFileAtomic(path string, write func(w io.Writer) error) error {
	tempPath := path + constants.TempFileSuffix
	out, err := os.Create(tempPath)
	if err != nil {
		return err
	}
	if err := write(out); err != nil {
		out.Close()
		os.Remove(tempPath)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}
	return os.Rename(tempPath, path)
}
