package usrCmds

import (
	"github.com/pancsta/sway-deskcfg/internal/config"
	"github.com/pancsta/sway-deskcfg/internal/types"
)

// DaemonAPI is what user commands can do with the running daemon.
type DaemonAPI interface {
	Config() *config.Config
	FocusedWorkspace() (types.Workspace, error)
	WorkspaceTree() (types.Node, error)
	FocusedWindowPath() ([]*types.Node, error)
	CurrentLayout() (config.Layout, error)
	SwayMsgs(msgs []string) error
	SwayMsg(msg string, args ...any) error
}

type UserFunc func(DaemonAPI, map[string]string) (string, error)

var Registered map[string]UserFunc

// register registers a new user command function.
func register(name string, fn UserFunc) {
	if Registered == nil {
		Registered = make(map[string]UserFunc)
	}
	Registered[name] = fn
}
