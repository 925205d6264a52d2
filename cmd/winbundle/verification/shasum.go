package verification

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	glog "github.com/magicsong/color-glog"
)

// SHA256Hex returns the lowercase hex sha256 digest of everything read from r.
func SHA256Hex(r io.Reader) (string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

func SHA256File(path string) (string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return "", 0, err
	}
	sum, err := SHA256Hex(file)
	if err != nil {
		return "", 0, fmt.Errorf("failed to calculate hash for %s: %w", path, err)
	}
	return sum, info.Size(), nil
}

// VerifySHA256Digest fails unless data hashes to want (hex, any case).
func VerifySHA256Digest(data []byte, want string) error {
	got, err := SHA256Hex(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if !strings.EqualFold(got, strings.TrimSpace(want)) {
		glog.Errorf("sha256 mismatch: got=%s want=%s", got, want)
		return fmt.Errorf("sha256 mismatch: got %s, want %s", got, want)
	}
	glog.V(5).Infof("sha256 verified: %s", got)
	return nil
}
