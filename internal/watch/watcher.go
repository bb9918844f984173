// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is not set.
const DefaultDebounce = 500 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: already running")

// LimitError stops Run when the OS runs out of watch resources.
type LimitError struct {
	Err  error
	Hint string
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("watch: %v (%s)", e.Err, e.Hint)
}

func (e *LimitError) Unwrap() error { return e.Err }

// builtinIgnores are never watched, whatever the configuration says.
var builtinIgnores = []string{
	".cutekit",
	".cutekit/**",
	"**/.git",
	"**/.git/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the project root. Empty means the working directory.
		Root string

		// Patterns select the files that trigger a rebuild. Empty means every
		// non-ignored file.
		Patterns []string

		// Ignore is added to the built-in ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before Rebuild
		// runs. Zero or negative means DefaultDebounce.
		Debounce time.Duration

		// Initial runs Rebuild once, with no changed paths, before the first
		// event is awaited.
		Initial bool

		// ClearScreen writes an ANSI clear sequence to Stdout before every
		// rebuild.
		ClearScreen bool

		// Rebuild receives the changed paths, relative to Root and sorted.
		// Its errors are logged and do not stop the watcher.
		Rebuild func(ctx context.Context, changed []string) error

		Stdout io.Writer
		Logger *log.Logger
	}

	// Watcher rebuilds on change until its context is cancelled.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		root     string
		ignores  []string
		debounce time.Duration
		logger   *log.Logger
		stdout   io.Writer
		started  atomic.Bool
	}
)

// New validates cfg and registers the directory tree under Root.
func New(cfg Config) (*Watcher, error) {
	if err := validatePatterns("watch", cfg.Patterns); err != nil {
		return nil, err
	}
	if err := validatePatterns("ignore", cfg.Ignore); err != nil {
		return nil, err
	}

	root := cfg.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: working directory: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		root:     root,
		ignores:  append(slices.Clone(builtinIgnores), cfg.Ignore...),
		debounce: cfg.Debounce,
		logger:   cfg.Logger,
		stdout:   cfg.Stdout,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}
	if w.stdout == nil {
		w.stdout = os.Stdout
	}

	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is cancelled. It returns nil on cancellation and an
// error when the underlying watcher breaks. Rebuilds never overlap: events
// arriving during a rebuild are kept and trigger the next one.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close watcher", "err", err)
		}
	}()

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		busy    atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !busy.CompareAndSwap(false, true) {
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer busy.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		w.rebuild(ctx, changed)
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	if w.cfg.Initial {
		busy.Store(true)
		w.rebuild(ctx, nil)
		busy.Store(false)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			rel, ok := w.relevant(ev)
			if !ok {
				continue
			}
			w.logger.Debug("change", "path", rel, "op", ev.Op.String())

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if hint, fatal := limitHint(err); fatal {
				return &LimitError{Err: err, Hint: hint}
			}
			w.logger.Warn("watcher error", "err", err)
		}
	}
}

// Root returns the absolute directory being watched.
func (w *Watcher) Root() string { return w.root }

func (w *Watcher) rebuild(ctx context.Context, changed []string) {
	if w.cfg.ClearScreen {
		fmt.Fprint(w.stdout, "\033[2J\033[H")
	}
	if w.cfg.Rebuild == nil {
		return
	}
	if err := w.cfg.Rebuild(ctx, changed); err != nil {
		w.logger.Error("rebuild failed", "err", err)
	}
}

// relevant maps an event to a root-relative path, registering new
// directories on the way. It reports false for events to ignore.
func (w *Watcher) relevant(ev fsnotify.Event) (string, bool) {
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if w.Ignored(rel) {
		return "", false
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.logger.Warn("watch new directory", "path", rel, "err", err)
			}
		}
	}
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return "", false
	}
	return rel, w.Matches(rel)
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Debug("skip unreadable path", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return nil
		}
		if rel != "." && w.Ignored(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
}

// Ignored reports whether the slash-separated, root-relative path matches an
// ignore pattern.
func (w *Watcher) Ignored(rel string) bool {
	return matchAny(w.ignores, rel)
}

// Matches reports whether rel is selected by the watch patterns.
func (w *Watcher) Matches(rel string) bool {
	return len(w.cfg.Patterns) == 0 || matchAny(w.cfg.Patterns, rel)
}

// BuiltinIgnores returns a copy of the patterns that are always ignored.
func BuiltinIgnores() []string {
	return slices.Clone(builtinIgnores)
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func validatePatterns(label string, patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q", label, pat)
		}
	}
	return nil
}
