package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/koustreak/ezschema/internal/errs"
	"github.com/koustreak/ezschema/internal/source"
)

// debounce coalesces the burst of events an editor save produces.
const debounce = 100 * time.Millisecond

// Watch recompiles the document whenever it changes until ctx is done.
// The parent directory is watched because editors often replace the file
// rather than write to it.
func (s *Server) Watch(ctx context.Context) error {
	loc, err := source.Parse(s.location)
	if err != nil {
		return err
	}
	if loc.Remote() {
		return errs.Newf(errs.ErrKindInvalidInput, "cannot watch %s: only local files can be watched", loc)
	}

	target, err := filepath.Abs(loc.Path)
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "cannot resolve "+loc.Path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.Wrap(errs.ErrKindUnknown, "failed to create watcher", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errs.Wrap(errs.ErrKindNotFound, "failed to watch "+filepath.Dir(target), err)
	}
	s.log.Infof("watching %s for changes", target)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				s.log.Debugf("%s changed, recompiling", target)
				_ = s.Reload(ctx)
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.ErrorWith("watcher error", err, nil)
		}
	}
}
