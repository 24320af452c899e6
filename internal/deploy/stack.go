package deploy

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/docker/docker/api/types/container"

	"github.com/airstackdev/airstack/internal/config"
	"github.com/airstackdev/airstack/internal/sshx"
)

// newEngineClient is swapped out in tests.
var newEngineClient = NewEngineClient

// ContainerStatus is one row of a stack status report.
type ContainerStatus struct {
	Name   string
	Image  string
	State  string
	Status string
}

// Deployer drives the Airflow compose stack on a single instance over SSH.
type Deployer struct {
	comm    sshx.Communicator
	cfg     *config.Config
	host    string
	keyPath string
}

func NewDeployer(comm sshx.Communicator, cfg *config.Config, host, keyPath string) *Deployer {
	return &Deployer{comm: comm, cfg: cfg, host: host, keyPath: keyPath}
}

func (d *Deployer) composePath() string {
	return path.Join(d.cfg.Repo.RemotePath, d.cfg.Repo.ComposeFile)
}

// Deploy brings the stack from a bare instance to a running Airflow: sync
// the repository, point the webserver's base URL at the instance's public
// address, build the image unless the daemon already has it, and start the
// stack detached.
func (d *Deployer) Deploy(ctx context.Context) error {
	log := clog.FromContext(ctx)

	if err := EnsureCheckout(ctx, d.comm, d.cfg.Repo); err != nil {
		return err
	}
	if err := d.configureCompose(ctx); err != nil {
		return err
	}

	build, err := d.needsBuild(ctx)
	if err != nil {
		return err
	}
	if build {
		log.Infof("Image %s not present, building", d.cfg.Repo.Image)
		if err := d.compose(ctx, "build"); err != nil {
			return err
		}
	} else {
		log.Infof("Image %s already present, skipping build", d.cfg.Repo.Image)
	}

	return d.compose(ctx, "up", "-d")
}

// Redeploy fast-forwards the checkout to the latest commit and restarts the
// stack so the new code takes effect.
func (d *Deployer) Redeploy(ctx context.Context) error {
	if err := EnsureCheckout(ctx, d.comm, d.cfg.Repo); err != nil {
		return err
	}
	return d.compose(ctx, "restart")
}

// Stop brings the stack down without touching volumes.
func (d *Deployer) Stop(ctx context.Context) error {
	return d.compose(ctx, "down")
}

// Status lists the stack's containers via the Engine API.
func (d *Deployer) Status(ctx context.Context) ([]ContainerStatus, error) {
	engine, err := newEngineClient(ctx, d.host, d.cfg.SSHUser, d.keyPath, config.SSHPort)
	if err != nil {
		return nil, err
	}
	summaries, err := engine.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	statuses := make([]ContainerStatus, 0, len(summaries))
	for _, s := range summaries {
		name := s.ID[:min(12, len(s.ID))]
		if len(s.Names) > 0 {
			name = strings.TrimPrefix(s.Names[0], "/")
		}
		statuses = append(statuses, ContainerStatus{
			Name:   name,
			Image:  s.Image,
			State:  s.State,
			Status: s.Status,
		})
	}
	return statuses, nil
}

// configureCompose downloads the compose file, rewrites the webserver base
// URL for the instance's public address, and uploads it back.
func (d *Deployer) configureCompose(ctx context.Context) error {
	doc, err := d.comm.Download(ctx, d.composePath())
	if err != nil {
		return fmt.Errorf("failed to read compose file: %w", err)
	}
	updated, err := SetWebserverBaseURL(doc, d.host, d.cfg.WebUIPort)
	if err != nil {
		return err
	}
	if err := d.comm.Upload(ctx, updated, d.composePath(), 0o644); err != nil {
		return fmt.Errorf("failed to write compose file: %w", err)
	}
	return nil
}

func (d *Deployer) needsBuild(ctx context.Context) (bool, error) {
	engine, err := newEngineClient(ctx, d.host, d.cfg.SSHUser, d.keyPath, config.SSHPort)
	if err != nil {
		return false, err
	}
	present, err := HasImage(ctx, engine, d.cfg.Repo.Image)
	if err != nil {
		return false, err
	}
	return !present, nil
}

func (d *Deployer) compose(ctx context.Context, args ...string) error {
	cmd := fmt.Sprintf("cd %q && docker compose -f %q %s",
		d.cfg.Repo.RemotePath, d.cfg.Repo.ComposeFile, strings.Join(args, " "))
	if out, err := d.comm.Run(ctx, cmd); err != nil {
		return fmt.Errorf("docker compose %s failed: %w: %s", args[0], err, out)
	}
	return nil
}
