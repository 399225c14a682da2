package daemon

import (
	"context"
	"fmt"
	"net"
	"net/rpc"
	"strings"
	"sync"
	"time"

	"github.com/pancsta/sway-deskcfg/internal/config"
	"github.com/pancsta/sway-deskcfg/internal/types"
	ss "github.com/pancsta/sway-deskcfg/internal/watcher/states"
)

// RPC

const (
	rpcHost    = "localhost:7853"
	rpcHostDbg = "localhost:7854"
	rpcTimeout = 5 * time.Second
)

type RPCArgs struct {
	Action  string
	PID     int
	ExePath string
	UsrCmd  string
	UsrArgs string
}

// RemoteAction is an RPC method
func (d *Daemon) RemoteAction(args RPCArgs, reply *string) error {
	a, err := config.ParseAction(args.Action)
	if err != nil {
		return err
	}
	*reply, err = d.Do(a)

	return err
}

// RemoteCurrentLayout is an RPC method
func (d *Daemon) RemoteCurrentLayout(_ RPCArgs, reply *string) error {
	l, err := d.CurrentLayout()
	if err != nil {
		return err
	}
	*reply = l.Name()

	return nil
}

// RemoteKeys is an RPC method
func (d *Daemon) RemoteKeys(_ RPCArgs, reply *string) error {
	*reply = formatKeys(d.Config().Keys)
	return nil
}

// RemoteWorkspaces is an RPC method
func (d *Daemon) RemoteWorkspaces(_ RPCArgs, reply *[]types.Workspace) error {
	spaces, err := d.Workspaces()
	if err != nil {
		return err
	}
	*reply = spaces

	return nil
}

// RemoteShouldOpen is an RPC method
func (d *Daemon) RemoteShouldOpen(args RPCArgs, reply *string) error {
	*reply = fmt.Sprintf("%t", d.ShouldOpen(args.PID))
	return nil
}

// RemoteGetPathFiles is an RPC method
func (d *Daemon) RemoteGetPathFiles(_ RPCArgs, reply *string) error {
	if d.PathWatcher == nil {
		return fmt.Errorf("path watcher disabled")
	}
	d.Log.Debug("RemoteGetPathFiles...")
	<-d.PathWatcher.Mach.When1(ss.Ready, nil)
	d.Log.Debug("PATH ready...")
	*reply = strings.Join(d.PathWatcher.Results(), "\n")

	return nil
}

// RemoteExec is an RPC method
func (d *Daemon) RemoteExec(args RPCArgs, _ *string) error {
	path := strings.TrimSpace(args.ExePath)
	if path == "" {
		return nil
	}
	d.Log.Infof("RemoteExec %s", path)

	return d.SwayMsg("exec %s", path)
}

// RemoteUsrCmd is an RPC method
func (d *Daemon) RemoteUsrCmd(args RPCArgs, reply *string) error {
	d.Log.Infof("RemoteUsrCmd %s", args.UsrCmd)

	ret, err := d.RunUsrCmd(args.UsrCmd, args.UsrArgs)
	if err != nil {
		d.Log.Errorf("usr-cmd %s: %s", args.UsrCmd, err)
		return err
	}
	*reply = ret

	return nil
}

// SERVER

func rpcAddr() string {
	if isDev() {
		return rpcHostDbg
	}

	return rpcHost
}

func (d *Daemon) serveRPC(ctx context.Context) error {
	l, err := net.Listen("tcp", rpcAddr())
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	return d.serve(ctx, l)
}

func (d *Daemon) serve(ctx context.Context, l net.Listener) error {
	server := rpc.NewServer()
	err := server.RegisterName("Daemon", d)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	go func() {
		<-ctx.Done()
		l.Close()
	}()
	server.Accept(l)

	return ctx.Err()
}

// CLIENT

// Client calls a running daemon. The connection is dialed lazily and
// re-dialed after failures.
type Client struct {
	Addr string

	mu     sync.Mutex
	client *rpc.Client
}

func NewClient() *Client {
	return &Client{Addr: rpcAddr()}
}

// Call invokes method with args, waiting at most rpcTimeout.
func (c *Client) Call(method string, args RPCArgs, reply any) error {
	c.mu.Lock()
	if c.client == nil {
		conn, err := net.DialTimeout("tcp", c.Addr, rpcTimeout)
		if err != nil {
			c.mu.Unlock()
			return fmt.Errorf("rpc connection error, is the daemon running? %w", err)
		}
		c.client = rpc.NewClient(conn)
	}
	client := c.client
	c.mu.Unlock()

	call := client.Go(method, args, reply, make(chan *rpc.Call, 1))
	select {
	case <-call.Done:
		// server errors keep the connection usable
		if _, ok := call.Error.(rpc.ServerError); call.Error != nil && !ok {
			c.reset(client)
		}
		return call.Error
	case <-time.After(rpcTimeout):
		c.reset(client)
		return fmt.Errorf("%s: timeout", method)
	}
}

func (c *Client) reset(client *rpc.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == client {
		c.client.Close()
		c.client = nil
	}
}

func (c *Client) Action(a config.Action) (string, error) {
	var reply string
	err := c.Call("Daemon.RemoteAction", RPCArgs{Action: actionArg(a)}, &reply)

	return reply, err
}

func (c *Client) CurrentLayout() (string, error) {
	var reply string
	err := c.Call("Daemon.RemoteCurrentLayout", RPCArgs{}, &reply)

	return reply, err
}

func (c *Client) Workspaces() ([]types.Workspace, error) {
	var reply []types.Workspace
	err := c.Call("Daemon.RemoteWorkspaces", RPCArgs{}, &reply)

	return reply, err
}

func actionArg(a config.Action) string {
	if a.Arg == "" {
		return string(a.Kind)
	}

	return string(a.Kind) + ":" + a.Arg
}

var defaultClient = NewClient()

// RemoteCall calls a string-returning method on the default client.
func RemoteCall(method string, args RPCArgs) (string, error) {
	var reply string
	err := defaultClient.Call(method, args, &reply)

	return reply, err
}
