package segue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Theme is a durable description of transition timing, loadable from a JSON
// or YAML file:
//
//	duration_ms: 250
//	easing: ease-out
type Theme struct {
	// DurationMillis is the animation duration in milliseconds.
	DurationMillis int `json:"duration_ms" yaml:"duration_ms" validate:"gt=0"`

	// Easing is the animation timing function.
	Easing string `json:"easing" yaml:"easing" validate:"required,easing"`
}

// Timing converts the theme to transition timing parameters.
func (t Theme) Timing() Timing {
	return Timing{
		Duration: time.Duration(t.DurationMillis) * time.Millisecond,
		Easing:   t.Easing,
	}
}

// Validate checks the theme's parameters.
func (t Theme) Validate() error {
	return validate.Struct(t)
}

// LoadTheme reads and validates a theme file. JSON and YAML are detected
// from content.
func LoadTheme(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("read theme: %w", err)
	}
	return decodeTheme(data)
}

// decodeTheme unmarshals and validates raw theme bytes. Content starting
// with a JSON delimiter is parsed as JSON, anything else as YAML.
func decodeTheme(data []byte) (Theme, error) {
	var theme Theme

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		if err := json.Unmarshal(data, &theme); err != nil {
			return Theme{}, fmt.Errorf("decode theme: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &theme); err != nil {
		return Theme{}, fmt.Errorf("decode theme: %w", err)
	}

	if err := theme.Validate(); err != nil {
		return Theme{}, fmt.Errorf("invalid theme: %w", err)
	}
	return theme, nil
}

// ThemeWatcher watches a theme file and emits each valid revision. Hosts use
// it to restyle standalone triggers without a redeploy:
//
//	themes, err := segue.NewThemeWatcher("theme.yaml").Watch(ctx)
//	if err != nil {
//	    return err
//	}
//	go func() {
//	    for theme := range themes {
//	        current.Store(&theme)
//	    }
//	}()
type ThemeWatcher struct {
	path string
}

// NewThemeWatcher creates a ThemeWatcher for the given file path.
func NewThemeWatcher(path string) *ThemeWatcher {
	return &ThemeWatcher{path: path}
}

// Watch begins watching the file and returns a channel that emits the theme
// whenever the file is rewritten with valid contents. The current theme is
// emitted immediately if the file is readable and valid. Unreadable and
// invalid revisions are skipped; watching continues until ctx is done.
func (w *ThemeWatcher) Watch(ctx context.Context) (<-chan Theme, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := watcher.Add(w.path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch theme %s: %w", w.path, err)
	}

	out := make(chan Theme)

	go func() {
		defer close(out)
		defer watcher.Close()

		// Emit initial theme
		if theme, err := LoadTheme(w.path); err == nil {
			select {
			case out <- theme:
			case <-ctx.Done():
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				// Only emit on write or create events
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				theme, err := LoadTheme(w.path)
				if err != nil {
					continue
				}

				select {
				case out <- theme:
				case <-ctx.Done():
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Continue watching despite errors
			}
		}
	}()

	return out, nil
}
