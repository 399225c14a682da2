package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	am "github.com/pancsta/asyncmachine-go/pkg/machine"
	"github.com/samber/lo"
	"go.uber.org/zap"

	ss "github.com/pancsta/sway-deskcfg/internal/watcher/states"
)

// PathWatcher watches all dirs in PATH for changes and keeps a list of
// executables for the command prompt.
type PathWatcher struct {
	am.ExceptionHandler

	Mach *am.Machine
	// Dirs are the watched dirs, in PATH order.
	Dirs []string
	// Ignore lists names left out of the results.
	Ignore []string

	watcher *fsnotify.Watcher
	// refreshes in flight
	pending atomic.Int32

	mu      sync.Mutex
	cache   map[string][]string
	results []string
}

// New creates a watcher for the dirs of envPath. Executables named in ignore,
// like the daemon itself, never show up in the results.
func New(
	ctx context.Context, logger *zap.SugaredLogger, envPath string, ignore ...string,
) (*PathWatcher, error) {
	w := &PathWatcher{
		Dirs:   pathDirs(envPath),
		Ignore: ignore,
		cache:  make(map[string][]string),
	}
	w.Mach = am.New(ctx, ss.States, &am.Opts{
		ID: "path-watcher",
	})

	err := w.Mach.VerifyStates(ss.Names)
	if err != nil {
		return nil, err
	}

	err = w.Mach.BindHandlers(w)
	if err != nil {
		return nil, err
	}

	w.Mach.SetTestLogger(logger.Debugf, am.LogChanges)
	w.Mach.SetLogArgs(am.NewArgsMapper([]string{"dirs"}, 0))

	return w, nil
}

func (w *PathWatcher) InitState(e *am.Event) {
	var err error

	w.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		w.Mach.Remove1(ss.Init, nil)
		w.Mach.AddErr(err)
	}
}

func (w *PathWatcher) InitEnd(e *am.Event) {
	w.watcher.Close()
}

func (w *PathWatcher) WatchingState(e *am.Event) {
	ctx := e.Machine.NewStateCtx(ss.Watching)

	var dirs []string
	for _, dir := range w.Dirs {
		// PATH often lists dirs which don't exist
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			e.Machine.AddErr(err)
			continue
		}
		dirs = append(dirs, dir)
	}

	go func() {
		err := debounceEvents(ctx, w.watcher, dirKey, func(changed []string) {
			w.Mach.Add1(ss.Refreshing, am.A{"dirs": changed})
		})
		if err != nil {
			w.Mach.AddErr(err)
		}
	}()

	w.Mach.Add1(ss.Refreshing, am.A{"dirs": dirs})
}

func (w *PathWatcher) WatchingEnd(e *am.Event) {
	for _, path := range w.watcher.WatchList() {
		err := w.watcher.Remove(path)
		if err != nil {
			e.Machine.AddErr(err)
		}
	}
}

func (w *PathWatcher) ExceptionState(e *am.Event) {
	w.ExceptionHandler.ExceptionState(e)
}

func (w *PathWatcher) RefreshingEnter(e *am.Event) bool {
	_, ok := e.Args["dirs"].([]string)
	return ok
}

func (w *PathWatcher) RefreshingState(e *am.Event) {
	w.Mach.Remove1(ss.Refreshing, nil)

	dirs := e.Args["dirs"].([]string)
	ctx := e.Machine.NewStateCtx(ss.Init)
	w.pending.Add(1)

	go func() {
		defer w.Mach.Add1(ss.Ready, nil)
		defer w.pending.Add(-1)

		for _, dir := range dirs {
			if ctx.Err() != nil {
				return // stopped
			}
			executables, err := listExecutables(dir)
			// a removed dir drops its entries
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				w.Mach.AddErr(err)
				continue
			}

			w.mu.Lock()
			w.cache[dir] = executables
			w.mu.Unlock()
		}
	}()
}

func (w *PathWatcher) ReadyEnter(e *am.Event) bool {
	return w.pending.Load() == 0
}

func (w *PathWatcher) ReadyState(e *am.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.results = mergeResults(w.cache, w.Ignore)
}

// Results returns the sorted executable names from the last refresh.
func (w *PathWatcher) Results() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return slices.Clone(w.results)
}

func (w *PathWatcher) Start() {
	w.Mach.Add1(ss.Init, nil)
}

func (w *PathWatcher) Stop() {
	w.Mach.Remove1(ss.Init, nil)
}

// ///// ///// /////
// ///// HELPERS
// ///// ///// /////

func pathDirs(envPath string) []string {
	dirs := lo.Compact(strings.Split(envPath, string(os.PathListSeparator)))

	return lo.Uniq(lo.Map(dirs, func(dir string, _ int) string {
		return filepath.Clean(dir)
	}))
}

// dirKey groups PATH events by dir. Chmod counts, chmod +x adds a command.
func dirKey(event fsnotify.Event) (string, bool) {
	return filepath.Dir(event.Name), true
}

func mergeResults(cache map[string][]string, ignore []string) []string {
	var results []string
	for _, executables := range cache {
		results = append(results, executables...)
	}
	results = lo.Without(lo.Uniq(results), ignore...)
	slices.Sort(results)

	return results
}

func isExecutable(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return info.Mode().Perm()&0111 != 0, nil
}

func listExecutables(dirPath string) ([]string, error) {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var executables []string
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		isExe, err := isExecutable(filepath.Join(dirPath, file.Name()))
		if err != nil {
			continue
		}

		if isExe {
			executables = append(executables, file.Name())
		}
	}

	return executables, nil
}
