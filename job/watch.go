package job

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/esimov/memegen"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the job file each time it is written or replaced and sends the
// new job on the returned channel. Reloads yielding an unchanged job are skipped.
// Load errors are reported on the error channel and do not stop the watch.
// Both channels are closed once ctx is done.
func Watch(ctx context.Context, path string) (<-chan *Job, <-chan error, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create file watcher: %w", err)
	}

	// Watching the directory catches editors which save by renaming a temporary file.
	name := filepath.Clean(path)
	if err := w.Add(filepath.Dir(name)); err != nil {
		w.Close()
		return nil, nil, fmt.Errorf("unable to watch %s: %w", path, err)
	}

	// A job file which does not load yet is not fatal: the first valid save is delivered.
	last, err := Load(name)
	if err != nil {
		memegen.Logger().Debug("initial job file not loaded", "path", name, "error", err)
	}
	jobs := make(chan *Job)
	errs := make(chan error)

	go func() {
		defer close(errs)
		defer close(jobs)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				select {
				case errs <- err:
				case <-ctx.Done():
					return
				}
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != name || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				j, err := Load(name)
				if err != nil {
					select {
					case errs <- err:
					case <-ctx.Done():
						return
					}
					continue
				}
				if reflect.DeepEqual(j, last) {
					continue
				}
				last = j

				select {
				case jobs <- j:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return jobs, errs, nil
}
