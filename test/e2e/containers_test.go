package e2e

import (
	"context"
	"fmt"
	"testing"

	glog "github.com/magicsong/color-glog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	minioPort = "9000"
	username  = "ROOTNAME"
	password  = "CHANGEME123"
	region    = "us-east-1"
)

type logConsumer struct {
	name string
}

func (lc *logConsumer) Accept(l testcontainers.Log) {
	glog.Infof("[%s] %s", lc.name, string(l.Content))
}

type minioContainer struct {
	testcontainers.Container
	hostname string
	port     string
}

func (c *minioContainer) Terminate(ctx context.Context) {
	c.Container.Terminate(ctx)
}

// endpoint is the host:port the object store answers on from the test host.
func (c *minioContainer) endpoint() string {
	return fmt.Sprintf("127.0.0.1:%s", c.port)
}

func tcp(p string) string {
	return fmt.Sprintf("%s/tcp", p)
}

func createMinio(ctx context.Context, t *testing.T, image string) *minioContainer {
	hostname := randomString("minio-")
	envVars := map[string]string{"MINIO_ROOT_USER": username, "MINIO_ROOT_PASSWORD": password}
	req := testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{tcp(minioPort)},
		Hostname:     hostname,
		Name:         hostname,
		Env:          envVars,
		Cmd:          []string{"server", "/data"},
		WaitingFor:   wait.ForHTTP("/minio/health/live").WithPort(minioPort + "/tcp"),
	}
	// Redirect container logs to the standard logger
	req.LogConsumerCfg = &testcontainers.LogConsumerConfig{
		Consumers: []testcontainers.LogConsumer{&logConsumer{name: hostname}},
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	minio := &minioContainer{
		Container: container,
		hostname:  hostname,
	}

	mappedPort, err := container.MappedPort(ctx, minioPort)
	require.NoError(t, err)
	minio.port = mappedPort.Port()

	return minio
}
