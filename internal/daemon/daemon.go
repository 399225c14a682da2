package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/pancsta/sway-deskcfg/internal/config"
	"github.com/pancsta/sway-deskcfg/internal/sway"
	"github.com/pancsta/sway-deskcfg/internal/types"
	"github.com/pancsta/sway-deskcfg/internal/watcher"
	usrCmds "github.com/pancsta/sway-deskcfg/pkg/usr-cmds"
)

var ErrNoFocused = errors.New("no focused workspace")

const (
	lenCombo = 24
	lenKind  = 28
	// how long a PID can hold the prompt
	pidTimeout = time.Second * 3
	// consecutive sway event errors before giving up, systemd restarts us
	maxEventErrors = 5
)

type Daemon struct {
	Loader *config.Loader
	Log    *zap.SugaredLogger
	// Sway is dialed by Start when nil.
	Sway Sway
	// Bin is the executable sway calls back, sway.Bin by default.
	Bin string
	// PathWatcher feeds the command prompt, nil disables it.
	PathWatcher *watcher.PathWatcher

	mu      sync.RWMutex
	cfg     *config.Config
	cycles  map[string]*config.LayoutCycle
	focused int

	openMu      sync.Mutex
	openedByPID int
	openedAt    time.Time
}

// ///// ///// /////
// ///// DAEMON
// ///// ///// /////

// Start loads the config, applies it to sway and handles window events
// until ctx is done.
func (d *Daemon) Start(ctx context.Context) error {
	var err error
	if d.Sway == nil {
		d.Sway, err = Connect()
		if err != nil {
			return err
		}
	}

	d.Loader.OnLoaded(d.onLoaded)
	if _, err := d.Loader.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	events, evErrs, err := d.Sway.Events(ctx)
	if err != nil {
		return err
	}
	if d.PathWatcher != nil {
		d.PathWatcher.Start()
		defer d.PathWatcher.Stop()
	}

	errChan := make(chan error, 3)
	go func() {
		err := d.serveRPC(ctx)
		if err != nil {
			errChan <- fmt.Errorf("rpc: %w", err)
		}
	}()
	go func() {
		err := systemdNotifyLoop(ctx)
		if err != nil {
			errChan <- fmt.Errorf("systemd notify: %w", err)
		}
	}()
	go func() {
		err := watcher.WatchFile(ctx, d.Loader.Path, func() {
			d.Log.Infof("%s changed, reloading", d.Loader.Path)
			_ = d.Reload()
		})
		if err != nil {
			errChan <- fmt.Errorf("watch config: %w", err)
		}
	}()

	d.Log.Info("Listening for sway events...")
	return d.listen(ctx, events, evErrs, errChan)
}

// listen dispatches window events until ctx is done, a worker fails, or sway
// keeps erroring.
func (d *Daemon) listen(
	ctx context.Context, events <-chan WindowEvent, evErrs, errChan <-chan error,
) error {
	failed := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-errChan:
			return err

		case event := <-events:
			failed = 0
			d.HandleEvent(event)

		case err := <-evErrs:
			failed++
			d.Log.Errorf("sway event (%d/%d): %s", failed, maxEventErrors, err)
			if failed >= maxEventErrors {
				return fmt.Errorf("sway events: %w", err)
			}
		}
	}
}

func (d *Daemon) onLoaded(cfg *config.Config) {
	d.mu.Lock()
	prev := d.cfg
	d.cfg = cfg
	if d.cycles == nil {
		d.cycles = make(map[string]*config.LayoutCycle)
	}
	d.mu.Unlock()

	d.Log.Infow("config loaded", "keys", len(cfg.Keys), "groups", cfg.GroupNames(),
		"terminal", cfg.Terminal)
	if err := d.apply(prev, cfg); err != nil {
		d.Log.Errorf("apply config: %s", err)
	}
}

// apply pushes the runtime part of cfg to sway, unbinding combos prev had
// and cfg dropped.
func (d *Daemon) apply(prev, cfg *config.Config) error {
	var msgs []string
	if prev != nil {
		next := lo.Associate(cfg.Keys, func(k config.KeyBinding) (string, bool) {
			return sway.Combo(k.Modifiers, k.Key), true
		})
		for _, k := range prev.Keys {
			combo := sway.Combo(k.Modifiers, k.Key)
			if !next[combo] {
				msgs = append(msgs, "unbindsym "+combo)
				next[combo] = true
			}
		}
	}
	msgs = append(msgs, sway.Commands(d.bin(), cfg)...)

	// keep going, one rejected command shouldn't drop the rest
	var errs []error
	for _, msg := range msgs {
		if err := d.SwayMsg("%s", msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", msg, err))
		}
	}

	return errors.Join(errs...)
}

// Reload rebuilds the snapshot. A failed build keeps the previous one.
func (d *Daemon) Reload() error {
	if _, err := d.Loader.Load(); err != nil {
		d.Log.Errorf("reload: %s, keeping the previous config", err)
		return err
	}

	return nil
}

// Config returns the active snapshot.
func (d *Daemon) Config() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.cfg
}

func (d *Daemon) bin() string {
	if d.Bin == "" {
		return sway.Bin
	}

	return d.Bin
}

// HandleEvent reacts to a single window event.
func (d *Daemon) HandleEvent(event WindowEvent) {
	if isLog() {
		d.Log.Debugf("Event: %s #%d", event.Change, event.Window.ID)
	}

	switch event.Change {
	case "focus":
		d.mu.Lock()
		d.focused = event.Window.ID
		d.mu.Unlock()

	case "new":
		d.mu.Lock()
		d.focused = event.Window.ID
		d.mu.Unlock()
		d.onNew(event.Window)
		d.refreshDecoration()

	case "close":
		d.refreshDecoration()
	}
}

// onNew floats the window when a rule says so. Rules are evaluated on every
// event, nothing is cached.
func (d *Daemon) onNew(win config.Window) {
	cfg := d.Config()
	if cfg == nil {
		return
	}
	float, rule := cfg.FloatingLayout.FloatRules.Classify(win)
	if !float {
		return
	}
	d.Log.Debugf("floating #%d (%s) by rule %d", win.ID, win.Title, rule)

	err := d.SwayMsg(`[con_id=%d] floating enable`, win.ID)
	if err != nil {
		d.Log.Errorf("float #%d: %s", win.ID, err)
	}
}

// refreshDecoration re-applies the single window margins and borders of the
// focused workspace's layout.
func (d *Daemon) refreshDecoration() {
	ws, err := d.FocusedWorkspace()
	if err != nil {
		d.Log.Debugf("decoration: %s", err)
		return
	}
	l, err := d.layoutOf(ws.Name)
	if err != nil {
		return
	}
	if err := d.SwayMsgs(sway.DecorationCommands(l, ws.Windows)); err != nil {
		d.Log.Errorf("decoration: %s", err)
	}
}

// ///// ///// /////
// ///// ACTIONS
// ///// ///// /////

// Do performs an action on behalf of a key binding or a bar click.
func (d *Daemon) Do(a config.Action) (string, error) {
	if !a.Known() {
		return "", fmt.Errorf("%w: %q", config.ErrUnknownAction, a.Kind)
	}
	d.Log.Infof("action %s", a)

	switch a.Kind {
	case config.ActNextLayout:
		l, err := d.NextLayout()
		return l.Name(), err

	case config.ActNormalize:
		return d.RunUsrCmd("normalize", "")

	case config.ActReloadConfig:
		return "", d.Reload()

	case config.ActSpawnCmd:
		return "", d.SwayMsg("exec %s prompt", d.bin())

	case config.ActUserCmd:
		return d.RunUsrCmd(a.Arg, "")
	}

	cmd, ok := sway.Command(d.bin(), a)
	if !ok {
		return "", fmt.Errorf("%s can't be triggered remotely", a.Kind)
	}

	return "", d.SwayMsg("%s", cmd)
}

// NextLayout advances the focused workspace's layout cursor and applies the
// layout.
func (d *Daemon) NextLayout() (config.Layout, error) {
	ws, err := d.FocusedWorkspace()
	if err != nil {
		return config.Layout{}, err
	}
	cfg := d.Config()

	d.mu.Lock()
	l, idx := d.cycle(ws.Name).Next(cfg.Layouts)
	d.mu.Unlock()
	if idx < 0 {
		return l, fmt.Errorf("%w: no layouts", config.ErrInvalidConfig)
	}

	d.Log.Infof("layout %s on %s", l.Name(), ws.Name)
	return l, d.SwayMsgs(sway.LayoutCommands(l, ws.Windows))
}

// CurrentLayout is the layout under the focused workspace's cursor.
func (d *Daemon) CurrentLayout() (config.Layout, error) {
	ws, err := d.FocusedWorkspace()
	if err != nil {
		return config.Layout{}, err
	}

	return d.layoutOf(ws.Name)
}

func (d *Daemon) layoutOf(space string) (config.Layout, error) {
	cfg := d.Config()
	if cfg == nil {
		return config.Layout{}, fmt.Errorf("%w: not loaded", config.ErrInvalidConfig)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	l, idx := d.cycle(space).Current(cfg.Layouts)
	if idx < 0 {
		return l, fmt.Errorf("%w: no layouts", config.ErrInvalidConfig)
	}

	return l, nil
}

// cycle requires d.mu.
func (d *Daemon) cycle(space string) *config.LayoutCycle {
	if d.cycles == nil {
		d.cycles = make(map[string]*config.LayoutCycle)
	}
	c, ok := d.cycles[space]
	if !ok {
		c = &config.LayoutCycle{}
		d.cycles[space] = c
	}

	return c
}

// RunUsrCmd runs a registered user command.
func (d *Daemon) RunUsrCmd(name, rawArgs string) (string, error) {
	fn, ok := usrCmds.Registered[name]
	if !ok {
		return "", fmt.Errorf("%w: usr_cmd %q", config.ErrUnknownAction, name)
	}
	args := parseFlags(strings.Trim(rawArgs, " \n"))

	return fn(d, args)
}

// ShouldOpen grants the prompt to pid, unless another live process took it
// less than pidTimeout ago.
func (d *Daemon) ShouldOpen(pid int) bool {
	d.openMu.Lock()
	defer d.openMu.Unlock()

	if d.openedByPID != 0 && time.Since(d.openedAt) <= pidTimeout {
		// check if the holding process is alive
		proc, err := os.FindProcess(d.openedByPID)
		if err == nil && proc.Signal(syscall.Signal(0)) == nil {
			return false
		}
	}
	d.openedByPID = pid
	d.openedAt = time.Now()

	return true
}

// ///// ///// /////
// ///// SWAY
// ///// ///// /////

// Workspaces lists the workspaces of all outputs, without the scratchpad.
func (d *Daemon) Workspaces() ([]types.Workspace, error) {
	outputs, err := d.Sway.Tree()
	if err != nil {
		return nil, err
	}
	focused, _, err := d.Sway.FocusedWorkspace()
	if err != nil {
		return nil, err
	}

	var ret []types.Workspace
	for _, output := range outputs {
		for _, space := range output.Nodes {
			if space.Name == scratchpad {
				continue
			}
			ret = append(ret, types.Workspace{
				Name:    space.Name,
				Output:  output.Name,
				Focused: space.Name == focused,
				Windows: space.CountWindows(),
			})
		}
	}

	return ret, nil
}

func (d *Daemon) FocusedWorkspace() (types.Workspace, error) {
	spaces, err := d.Workspaces()
	if err != nil {
		return types.Workspace{}, err
	}
	ws, ok := lo.Find(spaces, func(ws types.Workspace) bool {
		return ws.Focused
	})
	if !ok {
		return types.Workspace{}, ErrNoFocused
	}

	return ws, nil
}

// WorkspaceTree returns the focused workspace node.
func (d *Daemon) WorkspaceTree() (types.Node, error) {
	outputs, err := d.Sway.Tree()
	if err != nil {
		return types.Node{}, err
	}
	focused, _, err := d.Sway.FocusedWorkspace()
	if err != nil {
		return types.Node{}, err
	}
	for _, output := range outputs {
		for _, space := range output.Nodes {
			if space.Name == focused {
				return space, nil
			}
		}
	}

	return types.Node{}, ErrNoFocused
}

// FocusedWindowPath returns the nodes between the focused workspace and the
// focused window, starting with the workspace.
func (d *Daemon) FocusedWindowPath() ([]*types.Node, error) {
	space, err := d.WorkspaceTree()
	if err != nil {
		return nil, err
	}
	d.mu.RLock()
	id := d.focused
	d.mu.RUnlock()

	path := space.PathTo(id)
	if len(path) < 2 {
		return nil, fmt.Errorf("window #%d not on %s", id, space.Name)
	}

	return path, nil
}

func (d *Daemon) SwayMsgs(msgs []string) error {
	for _, msg := range msgs {
		err := d.SwayMsg("%s", msg)
		if err != nil {
			return err
		}
	}

	return nil
}

func (d *Daemon) SwayMsg(msg string, args ...any) error {
	cmd := fmt.Sprintf(msg, args...)

	if isLog() {
		d.Log.Debugf("swaymsg %s", cmd)
	}

	return d.Sway.Command(cmd)
}

// ///// ///// /////
// ///// UTILS
// ///// ///// /////

// formatKeys lists the resolved bindings, one per line.
func formatKeys(keys []config.KeyBinding) string {
	ret := ""
	for _, k := range keys {
		ret += fmt.Sprintf("%-*s %-*s %s\n",
			lenCombo, maxLen(sway.Combo(k.Modifiers, k.Key), lenCombo),
			lenKind, maxLen(k.Action.String(), lenKind),
			k.Desc)
	}

	return ret
}

func maxLen(str string, maxLength int) string {
	if len(str) > maxLength {
		if len(str) > 4 {
			return str[:maxLength-3] + "..."
		} else {
			return str[:maxLength]
		}
	}
	return str
}

func isLog() bool {
	return os.Getenv("DESKCFG_LOG") != ""
}

func isDev() bool {
	return os.Getenv("DESKCFG_DEBUG") != ""
}

// parseFlags parses a string of flags into a map
// input: 23 -a --b=4 foo=2 -bar=1
// output: map[23: -a: --b:4 foo:2 -bar:1]
func parseFlags(input string) map[string]string {
	flagMap := make(map[string]string)
	if input == "" {
		return flagMap
	}

	for _, flag := range strings.Split(input, " ") {
		if flag == "" {
			continue
		}
		name, val, _ := strings.Cut(flag, "=")
		flagMap[name] = val
	}

	return flagMap
}
