package instance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Change reports an instance directory appearing or going away.
type Change struct {
	Instance string
	Added    bool
}

// Watch reports instance directories created or removed under Dir until ctx
// is done, then closes the channel. onError, when set, receives watcher
// errors; they do not stop the watch.
func (resolver Resolver) Watch(ctx context.Context, onError func(error)) (<-chan Change, error) {
	dir := resolver.Dir()
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch directory %s: %w", dir, err)
	}
	existing, err := resolver.List()
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("list instances: %w", err)
	}
	known := make(instanceSet, len(existing))
	for _, name := range existing {
		known[name] = struct{}{}
	}

	changes := make(chan Change, 8)
	go func() {
		defer close(changes)
		defer func() {
			_ = watcher.Close()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				change, relevant := known.classify(event)
				if !relevant {
					continue
				}
				select {
				case changes <- change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if onError != nil {
					onError(err)
				}
			}
		}
	}()
	return changes, nil
}

// instanceSet holds the instance directories currently present.
type instanceSet map[string]struct{}

func (known instanceSet) classify(event fsnotify.Event) (Change, bool) {
	name := filepath.Base(event.Name)
	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil || !info.IsDir() {
			return Change{}, false
		}
		known[name] = struct{}{}
		return Change{Instance: name, Added: true}, true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if _, ok := known[name]; !ok {
			return Change{}, false
		}
		delete(known, name)
		return Change{Instance: name}, true
	default:
		return Change{}, false
	}
}
