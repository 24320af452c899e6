// Package config defines the airstack environment configuration and its
// loading, defaulting, and validation rules.
package config

import (
	"fmt"
	"regexp"
	"strings"
)

// envNameRegex validates environment name format: 1-32 lowercase alphanumeric with hyphens.
var envNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,30}[a-z0-9])?$`)

// Config is the top-level airstack environment configuration.
type Config struct {
	// Env names the development environment. All AWS resources are tagged
	// and named after it.
	Env string `yaml:"env"`

	// Region is the AWS region resources are created in.
	Region string `yaml:"region"`

	// InstanceType is the EC2 instance type for the single dev node.
	InstanceType string `yaml:"instanceType"`

	// AMI pins the machine image. When empty, the newest Ubuntu LTS image
	// is resolved at launch time.
	AMI string `yaml:"ami"`

	// SSHUser is the login user on the instance.
	SSHUser string `yaml:"sshUser"`

	// AllowedCIDR is the source range admitted by the security group for
	// both SSH and the web UI.
	AllowedCIDR string `yaml:"allowedCIDR"`

	// WebUIPort is the port the Airflow webserver is published on.
	WebUIPort int32 `yaml:"webUIPort"`

	// Repo describes the application checkout deployed onto the instance.
	Repo RepoConfig `yaml:"repo"`

	// DataDir overrides where keys and the state record are stored.
	// Defaults to ~/.airstack.
	DataDir string `yaml:"dataDir"`

	// Metadata configures the optional pipeline metadata database. The
	// 'airstack pipelines' commands are unavailable when it is unset.
	Metadata MetadataConfig `yaml:"metadata"`
}

// RepoConfig describes the version-controlled application stack.
type RepoConfig struct {
	// URL is the clone URL of the repository containing the compose stack.
	URL string `yaml:"url"`

	// Branch is checked out on clone and pulled on deploy.
	Branch string `yaml:"branch"`

	// RemotePath is the checkout directory on the instance, relative to
	// the SSH user's home unless absolute.
	RemotePath string `yaml:"remotePath"`

	// ComposeFile is the compose file within the checkout.
	ComposeFile string `yaml:"composeFile"`

	// Image is the name substring identifying the stack's locally built
	// image. When no cached image matches, deploy runs a full build.
	Image string `yaml:"image"`
}

// MetadataConfig describes the Postgres database holding pipeline
// metadata and the token endpoint used to mint short-lived passwords
// for it.
type MetadataConfig struct {
	// Host is the database server hostname.
	Host string `yaml:"host"`

	// Port is the database server port.
	Port int `yaml:"port"`

	// Database is the database name.
	Database string `yaml:"database"`

	// User is the database login role.
	User string `yaml:"user"`

	// SSLMode is passed to the driver as sslmode.
	SSLMode string `yaml:"sslMode"`

	// AuthEndpoint is the workspace URL whose token API issues the
	// short-lived database password.
	AuthEndpoint string `yaml:"authEndpoint"`

	// TokenLifetimeSeconds bounds the lifetime requested for each token.
	TokenLifetimeSeconds int `yaml:"tokenLifetimeSeconds"`
}

// Enabled reports whether a metadata database is configured.
func (m *MetadataConfig) Enabled() bool {
	return m.Host != ""
}

// InstanceName returns the fixed Name tag value for the dev instance.
func (c *Config) InstanceName() string {
	return c.Env + "-airflow"
}

// SecurityGroupName returns the fixed security group name.
func (c *Config) SecurityGroupName() string {
	return c.Env + "-airflow-sg"
}

// KeyPairName returns the fixed EC2 key pair name.
func (c *Config) KeyPairName() string {
	return c.Env + "-airflow-key"
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Env == "" {
		return fmt.Errorf("env is required")
	}
	if !envNameRegex.MatchString(c.Env) {
		return fmt.Errorf("invalid env name %q: must be 1-32 lowercase alphanumeric characters or hyphens", c.Env)
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.Repo.URL == "" {
		return fmt.Errorf("repo.url is required")
	}
	if c.WebUIPort <= 0 || c.WebUIPort > 65535 {
		return fmt.Errorf("invalid webUIPort %d", c.WebUIPort)
	}
	if strings.Contains(c.Repo.RemotePath, " ") {
		return fmt.Errorf("repo.remotePath must not contain spaces")
	}
	if !strings.Contains(c.AllowedCIDR, "/") {
		return fmt.Errorf("allowedCIDR %q is not CIDR notation", c.AllowedCIDR)
	}
	if c.Metadata.Enabled() {
		if c.Metadata.Database == "" {
			return fmt.Errorf("metadata.database is required when metadata.host is set")
		}
		if c.Metadata.User == "" {
			return fmt.Errorf("metadata.user is required when metadata.host is set")
		}
		if c.Metadata.AuthEndpoint == "" {
			return fmt.Errorf("metadata.authEndpoint is required when metadata.host is set")
		}
	}
	return nil
}
