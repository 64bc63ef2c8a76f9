// Package git discovers repository information with go-git. The changelog
// renderer uses it to find the owner and repository name that PR and issue
// links point at when neither the bundle input nor the settings name one.
package git

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
)

// ErrNoRemote is returned when the repository has no usable remote.
var ErrNoRemote = errors.New("repository has no remote")

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens the git repository containing path, walking up the
// directory tree. An empty path means the current working directory.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// RepositoryRoot returns the worktree root of the repository containing path.
// The CLI falls back to it to discover changelog.yml and docset.yml when run
// from a subdirectory.
func RepositoryRoot(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return worktree.Filesystem.Root(), nil
}

// RemoteRepo identifies a hosted repository.
type RemoteRepo struct {
	Owner string
	Name  string
}

// String returns "owner/name".
func (r RemoteRepo) String() string {
	return r.Owner + "/" + r.Name
}

// OriginRepo returns the owner and name of the repository containing path,
// read from the "origin" remote, or the first remote when there is no origin.
func OriginRepo(path string) (RemoteRepo, error) {
	repo, err := openRepo(path)
	if err != nil {
		return RemoteRepo{}, err
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return RemoteRepo{}, fmt.Errorf("listing remotes: %w", err)
	}
	if len(remotes) == 0 {
		return RemoteRepo{}, ErrNoRemote
	}

	chosen := remotes[0]
	for _, r := range remotes {
		if r.Config().Name == "origin" {
			chosen = r
			break
		}
	}

	urls := chosen.Config().URLs
	if len(urls) == 0 {
		return RemoteRepo{}, ErrNoRemote
	}

	rr, err := ParseRemoteURL(urls[0])
	if err != nil {
		return RemoteRepo{}, err
	}
	logDebug("[git] origin repo for %s: %s", path, rr)
	return rr, nil
}

// ParseRemoteURL extracts owner and repository name from https, ssh and
// scp-like remote URLs.
func ParseRemoteURL(url string) (RemoteRepo, error) {
	trimmed := strings.TrimSpace(url)
	trimmed = strings.TrimSuffix(trimmed, "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")

	var path string
	switch {
	case strings.Contains(trimmed, "://"):
		rest := trimmed[strings.Index(trimmed, "://")+3:]
		slash := strings.Index(rest, "/")
		if slash < 0 {
			return RemoteRepo{}, fmt.Errorf("remote URL %q has no path", url)
		}
		path = rest[slash+1:]
	case strings.Contains(trimmed, ":"):
		path = trimmed[strings.LastIndex(trimmed, ":")+1:]
	default:
		path = trimmed
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return RemoteRepo{}, fmt.Errorf("remote URL %q does not name owner/repo", url)
	}
	return RemoteRepo{Owner: parts[len(parts)-2], Name: parts[len(parts)-1]}, nil
}
