package session

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the token whenever the session file changes on disk, so a
// session written by eero-login is picked up without a restart. It runs
// until ctx is cancelled.
//
// The parent directory is watched rather than the file: SetToken and most
// editors replace the file by rename, which drops a watch on the old inode.
// If a reload fails the previous token stays active.
func (s *FileStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return err
	}

	slog.Info("session: watching for changes", "path", s.path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			before, _ := s.Token()
			if err := s.reload(); err != nil {
				slog.Error("session: reload failed, keeping previous session", "path", s.path, "err", err)
				continue
			}
			if after, _ := s.Token(); after != before {
				slog.Info("session: reloaded", "path", s.path)
				if onChange != nil {
					onChange()
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("session: watcher error", "err", err)
		}
	}
}
