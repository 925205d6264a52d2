package e2e

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"testing"
)

type cliParams struct {
	MinioImage string
}

var params cliParams

func init() {
	flag.StringVar(&params.MinioImage, "minio-image", "quay.io/minio/minio", "Docker image to use for the object store")
}

func randomString(prefix string) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	const length = 8

	res := make([]byte, length)
	for i := 0; i < length; i++ {
		res[i] = charset[rand.Intn(len(charset))]
	}
	return fmt.Sprintf("%s%s", prefix, string(res))
}

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(m.Run())
}
