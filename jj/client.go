package jj

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matharman/jjsum/jj/internal/execlog"
)

// Error types for jj operations.
var (
	// ErrNotRepo is returned when the working directory is not inside a jj repository.
	ErrNotRepo = errors.New("not a jj repository")
	// ErrCommandNotFound is returned when the jj binary is not found in PATH.
	ErrCommandNotFound = errors.New("jj command not found")
)

// CommandRunner is the function type used to execute commands.
// It can be replaced in tests to mock command execution.
type CommandRunner func(ctx context.Context, dir string, name string, args ...string) (stdout, stderr string, err error)

// defaultCommandRunner executes a command using exec.CommandContext.
func defaultCommandRunner(ctx context.Context, dir string, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Client wraps the jj CLI for a single repository working directory.
type Client struct {
	workDir       string
	binary        string
	commandRunner CommandRunner

	// Extra args for `jj diff`, read once from the user's jj config.
	diffArgs       []string
	diffArgsLoaded bool
}

// NewClient creates a jj client bound to the specified working directory.
// The binary defaults to "jj" when empty.
func NewClient(workDir, binary string) *Client {
	if binary == "" {
		binary = "jj"
	}
	return &Client{
		workDir:       workDir,
		binary:        binary,
		commandRunner: defaultCommandRunner,
	}
}

// SetCommandRunner allows setting a custom command runner (for testing).
func (c *Client) SetCommandRunner(runner CommandRunner) {
	c.commandRunner = runner
}

// InitExecLog routes command-execution logging to a file. An empty path
// leaves logging disabled. Environment variables take precedence because the
// logger only initializes once.
func InitExecLog(path, level string) error {
	return execlog.InitLogger(path, execlog.ParseLevel(level))
}

// Logger exposes the shared file logger so other components can log beside
// the command trace. Returns nil while logging is disabled.
func Logger() *log.Logger {
	return execlog.Logger()
}

// run executes a jj command and returns the captured stdout.
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	done := execlog.Op("jj "+strings.Join(args, " "))
	stdout, stderr, err := c.commandRunner(ctx, c.workDir, c.binary, args...)
	if err != nil {
		err = c.wrapError(args[0], stderr, err)
		done(err)
		return "", err
	}
	done(nil)
	return stdout, nil
}

// wrapError converts exec errors into appropriate jj error types.
func (c *Client) wrapError(subCommand string, stderr string, err error) error {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		if errors.Is(execErr.Err, exec.ErrNotFound) {
			return ErrCommandNotFound
		}
	}

	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return context.DeadlineExceeded
	}

	stderrLower := strings.ToLower(stderr)
	if strings.Contains(stderrLower, "there is no jj repo") ||
		strings.Contains(stderrLower, "not a jj repository") {
		return ErrNotRepo
	}

	return fmt.Errorf("jj %s failed: %s: %w", subCommand, strings.TrimSpace(stderr), err)
}

// Status returns the raw `jj status` output for the working copy.
func (c *Client) Status(ctx context.Context) (string, error) {
	return c.run(ctx, "status")
}

// FileDiff returns the unified diff for a single file in the working copy.
// Rename notation from `jj status` resolves to the new path, since jj only
// accepts real paths as fileset arguments. User-configured diff args
// (jjsum.diff-args in jj config) are honored.
func (c *Client) FileDiff(ctx context.Context, path string) (string, error) {
	_, newPath := SplitRenamePath(path)

	args := []string{"diff", "--color=never"}
	args = append(args, c.userDiffArgs(ctx)...)
	args = append(args, "--", newPath)
	return c.run(ctx, args...)
}

// userDiffArgs fetches the user's extra diff arguments at most once.
// A missing config key is not an error; the diff just runs unadorned.
func (c *Client) userDiffArgs(ctx context.Context) []string {
	if c.diffArgsLoaded {
		return c.diffArgs
	}
	c.diffArgsLoaded = true

	value, err := c.ConfigGet(ctx, "jjsum.diff-args")
	if err != nil {
		return nil
	}
	c.diffArgs = ParseCommandArgs(value)
	return c.diffArgs
}

// ConfigGet returns the raw value of a jj config key.
func (c *Client) ConfigGet(ctx context.Context, key string) (string, error) {
	out, err := c.run(ctx, "config", "get", key)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Describe updates the description of the current change.
func (c *Client) Describe(ctx context.Context, description string) error {
	_, err := c.run(ctx, "describe", "-m", description)
	return err
}

// NewChange creates a new change on top of the working copy.
// An empty description is allowed; jj leaves the change undescribed.
func (c *Client) NewChange(ctx context.Context, description string) error {
	args := []string{"new"}
	if description != "" {
		args = append(args, "-m", description)
	}
	_, err := c.run(ctx, args...)
	return err
}

// Edit switches the working copy to the given revision.
func (c *Client) Edit(ctx context.Context, revision string) error {
	_, err := c.run(ctx, "edit", revision)
	return err
}

// Abandon abandons the given revision.
func (c *Client) Abandon(ctx context.Context, revision string) error {
	_, err := c.run(ctx, "abandon", revision)
	return err
}

// Rebase moves a revision onto a new parent.
func (c *Client) Rebase(ctx context.Context, source, destination string) error {
	_, err := c.run(ctx, "rebase", "-s", source, "-d", destination)
	return err
}

// BookmarkSet points the named bookmark at a revision.
func (c *Client) BookmarkSet(ctx context.Context, name, revision string) error {
	_, err := c.run(ctx, "bookmark", "set", name, "-r", revision)
	return err
}

// BookmarkDelete removes the named bookmark.
func (c *Client) BookmarkDelete(ctx context.Context, name string) error {
	_, err := c.run(ctx, "bookmark", "delete", name)
	return err
}

// GitPush pushes tracked bookmarks to the default remote.
func (c *Client) GitPush(ctx context.Context) (string, error) {
	return c.run(ctx, "git", "push")
}

// GitFetch fetches from the default remote.
func (c *Client) GitFetch(ctx context.Context) (string, error) {
	return c.run(ctx, "git", "fetch")
}
