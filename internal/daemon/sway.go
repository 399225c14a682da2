package daemon

import (
	"context"
	"fmt"

	"github.com/Difrex/gosway/ipc"

	"github.com/pancsta/sway-deskcfg/internal/config"
	"github.com/pancsta/sway-deskcfg/internal/types"
)

const scratchpad = "__i3_scratch"

// Sway is the part of the sway IPC the daemon depends on.
type Sway interface {
	Command(cmd string) error
	Tree() ([]types.Node, error)
	FocusedWorkspace() (name, output string, err error)
	// Events streams window events until ctx is done.
	Events(ctx context.Context) (<-chan WindowEvent, <-chan error, error)
}

// WindowEvent is a sway "window" event.
type WindowEvent struct {
	Change string
	Window config.Window
}

// ipcSway talks to sway over its socket.
type ipcSway struct {
	conn *ipc.SwayConnection
}

// Connect opens the command connection.
func Connect() (Sway, error) {
	conn, err := ipc.NewSwayConnection()
	if err != nil {
		return nil, fmt.Errorf("connect sway: %w", err)
	}

	return &ipcSway{conn: conn}, nil
}

func (s *ipcSway) Command(cmd string) error {
	_, err := s.conn.RunSwayCommand(cmd)
	return err
}

// Tree returns the outputs, each holding its workspaces.
func (s *ipcSway) Tree() ([]types.Node, error) {
	tree, err := s.conn.GetTree()
	if err != nil {
		return nil, err
	}

	var outputs []types.Node
	for i := range tree.Nodes {
		outputs = append(outputs, convertNode(&tree.Nodes[i]))
	}

	return outputs, nil
}

func convertNode(n *ipc.Node) types.Node {
	ret := types.Node{
		ID:     int(n.ID),
		Name:   n.Name,
		Layout: n.Layout,
		App:    n.WindowProperties.Class,
		Border: n.Border,
		Width:  n.Rect.Width,
		Height: n.Rect.Height,
	}
	if app, ok := n.AppID.(string); ok && app != "" {
		ret.App = app
	}
	for i := range n.Nodes {
		ret.Nodes = append(ret.Nodes, convertNode(&n.Nodes[i]))
	}

	return ret
}

func (s *ipcSway) FocusedWorkspace() (string, string, error) {
	space, err := s.conn.GetFocusedWorkspace()
	if err != nil {
		return "", "", err
	}

	return space.Name, space.Output, nil
}

// Events opens a second connection subscribed to window events.
func (s *ipcSway) Events(ctx context.Context) (<-chan WindowEvent, <-chan error, error) {
	subCon, err := ipc.NewSwayConnection()
	if err != nil {
		return nil, nil, fmt.Errorf("connect sway: %w", err)
	}
	_, err = subCon.SendCommand(ipc.IPC_SUBSCRIBE, `["window"]`)
	if err != nil {
		return nil, nil, fmt.Errorf("subscribe: %w", err)
	}

	sub := subCon.Subscribe()
	events := make(chan WindowEvent)
	errs := make(chan error)
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return

			case event := <-sub.Events:
				props := event.Container.WindowProperties
				win := config.Window{
					ID:       event.Container.ID,
					Class:    props.Class,
					Instance: props.Instance,
					Role:     props.WindowRole,
					Title:    event.Container.Name,
				}
				if app, ok := event.Container.AppID.(string); ok {
					win.AppID = app
				}
				select {
				case events <- WindowEvent{Change: string(event.Change), Window: win}:
				case <-ctx.Done():
					return
				}

			case err := <-sub.Errors:
				select {
				case errs <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, errs, nil
}
