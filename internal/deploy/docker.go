package deploy

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/docker/cli/cli/connhelper"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// EngineClient is the slice of the Docker Engine API the deployer needs:
// enough to decide whether an image build can be skipped and to report
// what is running on the instance.
type EngineClient interface {
	ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error)
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
}

// NewEngineClient opens a Docker Engine API client that tunnels over SSH to
// the daemon on the instance, reusing the same key the provisioner wrote.
func NewEngineClient(ctx context.Context, host, user, keyPath string, port int32) (EngineClient, error) {
	url := fmt.Sprintf("ssh://%s", net.JoinHostPort(host, strconv.Itoa(int(port))))

	opts := []string{
		"-o", "StrictHostKeyChecking=no",
		"-o", "UserKnownHostsFile=/dev/null",
		"-o", "ServerAliveInterval=30",
		"-o", "ServerAliveCountMax=10",
		"-i", keyPath,
		"-l", user,
	}

	helper, err := connhelper.GetConnectionHelperWithSSHOpts(url, opts)
	if err != nil {
		return nil, fmt.Errorf("creating SSH connection helper: %w", err)
	}

	cli, err := client.NewClientWithOpts(
		client.WithHTTPClient(&http.Client{
			Transport: &http.Transport{DialContext: helper.Dialer},
		}),
		client.WithHost(url),
		client.WithAPIVersionNegotiation(),
		client.WithDialContext(helper.Dialer),
	)
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}

	clog.FromContext(ctx).Info("created Docker SSH client", "target", url)
	return cli, nil
}

// HasImage reports whether any image on the daemon carries a tag that
// references name, with or without an explicit tag suffix.
func HasImage(ctx context.Context, engine EngineClient, name string) (bool, error) {
	summaries, err := engine.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, fmt.Errorf("listing images: %w", err)
	}
	for _, s := range summaries {
		for _, tag := range s.RepoTags {
			if tag == name || strings.HasPrefix(tag, name+":") {
				return true, nil
			}
		}
	}
	return false, nil
}
