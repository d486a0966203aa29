package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	lockTimeout       = 3 * time.Second
	lockRetryInterval = 100 * time.Millisecond
)

// credentials is the on-disk layout of the token file.
type credentials struct {
	AdminToken string `yaml:"admin_token"`
}

// File stores the token in a YAML file, guarded by an advisory lock on
// <path>.lock so concurrent shopadmin processes never interleave writes.
type File struct {
	path     string
	fileLock *flock.Flock
	logger   *zap.Logger
}

// NewFile returns a store backed by the file at path. A nil logger disables
// logging.
func NewFile(path string, logger *zap.Logger) *File {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &File{
		path:     path,
		fileLock: flock.New(path + ".lock"),
		logger:   logger.With(zap.String("token_file", path)),
	}
}

// Path returns the credentials file location.
func (f *File) Path() string {
	return f.path
}

func (f *File) lock(shared bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return nil, fmt.Errorf("creating token dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if shared {
		locked, err = f.fileLock.TryRLockContext(ctx, lockRetryInterval)
	} else {
		locked, err = f.fileLock.TryLockContext(ctx, lockRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, errors.New("could not acquire token file lock")
	}
	return func() { _ = f.fileLock.Unlock() }, nil
}

func (f *File) Get() (string, bool) {
	unlock, err := f.lock(true)
	if err != nil {
		f.logger.Warn("reading token", zap.Error(err))
		return "", false
	}
	defer unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warn("reading token", zap.Error(err))
		}
		return "", false
	}

	var creds credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		f.logger.Warn("token file is corrupt, treating as logged out", zap.Error(err))
		return "", false
	}
	if creds.AdminToken == "" {
		return "", false
	}
	return creds.AdminToken, true
}

func (f *File) Set(token string) error {
	unlock, err := f.lock(false)
	if err != nil {
		return err
	}
	defer unlock()

	data, err := yaml.Marshal(credentials{AdminToken: token})
	if err != nil {
		return fmt.Errorf("marshaling token: %w", err)
	}

	tmpFile := f.path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpFile, f.path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

func (f *File) Clear() error {
	unlock, err := f.lock(false)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}
