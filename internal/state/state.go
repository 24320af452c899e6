// Package state persists the identifiers of provisioned AWS resources.
//
// The record replaces "the fixed name tag uniquely identifies at most one
// live instance" with explicit identifiers written at provision time. Every
// command that needs the instance reads the record first and only falls back
// to a tag lookup when no record exists.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Record holds the identifiers of everything airstack provisioned for one
// environment.
type Record struct {
	Env             string    `yaml:"env"`
	Region          string    `yaml:"region"`
	InstanceID      string    `yaml:"instanceID"`
	SecurityGroupID string    `yaml:"securityGroupID"`
	KeyPairName     string    `yaml:"keyPairName"`
	PublicIP        string    `yaml:"publicIP"`
	CreatedAt       time.Time `yaml:"createdAt"`
}

// ErrNotFound is returned by Load when no state record exists.
var ErrNotFound = errors.New("no state record found")

// Store reads and writes state records and key material under a base
// directory, one subdirectory per environment.
type Store struct {
	baseDir string
}

// NewStore returns a Store rooted at baseDir. An empty baseDir means
// ~/.airstack.
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".airstack")
	}
	return &Store{baseDir: baseDir}, nil
}

// EnvDir returns the directory holding an environment's record and key.
func (s *Store) EnvDir(env string) string {
	return filepath.Join(s.baseDir, env)
}

// KeyPath returns the path of the environment's private key file.
func (s *Store) KeyPath(env string) string {
	return filepath.Join(s.EnvDir(env), "id_ed25519")
}

func (s *Store) recordPath(env string) string {
	return filepath.Join(s.EnvDir(env), "state.yaml")
}

// Save writes the record, creating the environment directory as needed.
func (s *Store) Save(rec *Record) error {
	if rec.Env == "" {
		return fmt.Errorf("record has no env name")
	}
	if err := os.MkdirAll(s.EnvDir(rec.Env), 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal state record: %w", err)
	}
	if err := os.WriteFile(s.recordPath(rec.Env), data, 0o600); err != nil {
		return fmt.Errorf("failed to write state record: %w", err)
	}
	return nil
}

// Load reads the record for env. Returns ErrNotFound when none exists.
func (s *Store) Load(env string) (*Record, error) {
	data, err := os.ReadFile(s.recordPath(env))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read state record: %w", err)
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state record: %w", err)
	}
	return &rec, nil
}

// WriteKey writes the private key file with owner-only permissions.
func (s *Store) WriteKey(env string, privateKey []byte) error {
	if err := os.MkdirAll(s.EnvDir(env), 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(s.KeyPath(env), privateKey, 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	return nil
}

// ReadKey reads the environment's private key file.
func (s *Store) ReadKey(env string) ([]byte, error) {
	data, err := os.ReadFile(s.KeyPath(env))
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	return data, nil
}

// Remove deletes the record file. Missing records are not an error.
func (s *Store) Remove(env string) error {
	if err := os.Remove(s.recordPath(env)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state record: %w", err)
	}
	return nil
}

// RemoveAll deletes the environment directory including the key file.
func (s *Store) RemoveAll(env string) error {
	if err := os.RemoveAll(s.EnvDir(env)); err != nil {
		return fmt.Errorf("failed to remove environment directory: %w", err)
	}
	return nil
}
