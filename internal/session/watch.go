package session

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// PollInterval is the backup polling period used by Watch in case file system
// events are delayed or missed.
var PollInterval = 500 * time.Millisecond

// Watch parses the rules file at path, hands the result to onChange, and then
// calls onChange again every time the file content changes. It blocks until
// ctx is done and returns ctx.Err().
//
// The parent directory is watched rather than the file itself so editors that
// save by renaming a temporary file are still picked up.
func Watch(ctx context.Context, path string, onChange func(*Session)) (err error) {
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}
	last := string(data)
	onChange(Parse(last))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch rules directory: %w", err)
	}

	reload := func() {
		data, err := os.ReadFile(path)
		if err != nil {
			// Mid-save; the next event or tick picks it up.
			return
		}
		if text := string(data); text != last {
			last = text
			onChange(Parse(text))
		}
	}

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] Rules watcher error: %v", err)
		case <-ticker.C:
			reload()
		}
	}
}
