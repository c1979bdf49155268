// Package git records the history of the notes record in a local Git
// repository. Every overwrite of the record becomes one commit.
package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// LockFile is the name of the lock file guarding git operations.
const LockFile = ".murmur.lock"

// Client wraps git command execution with a file-based lock for process safety.
type Client struct {
	WorkDir string
	Logger  *slog.Logger
	// Identity, when set, is used as "name <email>" for commits instead of the
	// user's git configuration.
	Identity *Identity
	lockPath string
}

// Identity is a commit author.
type Identity struct {
	Name  string
	Email string
}

// NewClient creates a new git client for the given working directory.
func NewClient(workDir string, logger *slog.Logger) *Client {
	return &Client{
		WorkDir:  workDir,
		Logger:   logger,
		lockPath: LockFile,
	}
}

// IsInstalled reports whether a git binary is on PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Lock acquires the file-based lock. It blocks until the lock is acquired or
// ctx is done.
func (c *Client) Lock(ctx context.Context) (func(), error) {
	fullLockPath := filepath.Join(c.WorkDir, c.lockPath)

	for {
		f, err := os.OpenFile(fullLockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(fullLockPath)
			}, nil
		}

		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to acquire lock: %w", ctx.Err())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Run executes a raw git command in the working directory.
// NOTE: It does NOT acquire the lock automatically. The caller must manage safety via Client.Lock().
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// IsRepo reports whether WorkDir is inside a git work tree.
func (c *Client) IsRepo(ctx context.Context) bool {
	out, err := c.Run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Init initializes a new git repository. Re-running it is safe.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.Run(ctx, "init")
	return err
}

// Add adds files to the stage.
func (c *Client) Add(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add"}, files...)
	_, err := c.Run(ctx, args...)
	return err
}

// Commit records staged changes. A commit with nothing staged is skipped.
func (c *Client) Commit(ctx context.Context, msg string) error {
	if out, err := c.Run(ctx, "diff", "--cached", "--name-only"); err == nil && out == "" {
		if c.Logger != nil {
			c.Logger.Debug("nothing staged, skipping commit")
		}
		return nil
	}

	var args []string
	if c.Identity != nil {
		args = append(args, "-c", "user.name="+c.Identity.Name, "-c", "user.email="+c.Identity.Email)
	}
	args = append(args, "commit", "-m", msg)
	_, err := c.Run(ctx, args...)
	return err
}

// Log returns the subjects of the last n commits, newest first.
func (c *Client) Log(ctx context.Context, n int) ([]string, error) {
	out, err := c.Run(ctx, "log", fmt.Sprintf("-%d", n), "--format=%s")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
