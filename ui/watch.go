package ui

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 350 * time.Millisecond

// repoChangedMsg signals that the repository changed on disk.
type repoChangedMsg struct{}

// watchErrMsg carries a watcher error.
type watchErrMsg struct{ err error }

// NewRepoWatcher watches the repository's .jj directory (falling back to the
// root when it is absent) for changes that should trigger a refresh.
func NewRepoWatcher(repoRoot string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	target := repoRoot
	jjDir := filepath.Join(repoRoot, ".jj")
	if info, err := os.Stat(jjDir); err == nil && info.IsDir() {
		target = jjDir
	}
	if err := watcher.Add(target); err != nil {
		watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// waitForChange blocks until a relevant filesystem event arrives, then
// absorbs the burst that usually follows one jj operation before reporting.
func waitForChange(watcher *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if shouldIgnoreWatchPath(ev.Name) {
					continue
				}

				timer := time.NewTimer(watchDebounce)
				for {
					select {
					case _, ok := <-watcher.Events:
						if !ok {
							timer.Stop()
							return repoChangedMsg{}
						}
					case <-timer.C:
						return repoChangedMsg{}
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err}
			}
		}
	}
}

func shouldIgnoreWatchPath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".ipc"
}
