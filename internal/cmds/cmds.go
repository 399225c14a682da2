package cmds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/pancsta/sway-deskcfg/internal/config"
	"github.com/pancsta/sway-deskcfg/internal/daemon"
	"github.com/pancsta/sway-deskcfg/internal/status"
	"github.com/pancsta/sway-deskcfg/internal/sway"
	"github.com/pancsta/sway-deskcfg/internal/watcher"
)

// NewLogger logs to stderr, stdout belongs to the status protocol and
// command output.
func NewLogger() (*zap.SugaredLogger, error) {
	loggerConfig := zap.NewDevelopmentConfig()

	loggerConfig.OutputPaths = []string{"stderr"}
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger.Sugar(), nil
}

// ///// ///// /////
// ///// COBRAS
// ///// ///// /////

func GetRootCmd(logger *zap.SugaredLogger) *cobra.Command {
	cmdDaemon := &cobra.Command{
		Use:   "daemon",
		Short: "Apply the config to sway and serve the bar and key bindings",
		RunE:  cmdDaemon(logger),
	}
	cmdDaemon.Flags().Bool("path-watcher", true,
		"Watch PATH dirs for the run prompt")

	cmdStatus := &cobra.Command{
		Use:   "status",
		Short: "Produce the swaybar status stream",
		Long: "Produce the swaybar JSON status stream on stdout and read click " +
			"events from stdin. Used as the bar's status_command.",
		RunE: cmdStatus(logger),
	}

	cmdRender := &cobra.Command{
		Use:   "render",
		Short: "Print the sway config fragment",
		Example: "sway-deskcfg render > ~/.config/sway/deskcfg\n" +
			"echo 'include deskcfg' >> ~/.config/sway/config",
		RunE: CmdRender,
	}

	cmdDump := &cobra.Command{
		Use:   "dump",
		Short: "Print the config snapshot",
		RunE:  CmdDump,
	}
	cmdDump.Flags().StringP("format", "f", "yaml", "Output format: yaml or json")

	cmdAction := &cobra.Command{
		Use:     "action",
		Short:   "Run an action in the daemon",
		Example: "sway-deskcfg action next_layout\nsway-deskcfg action group.toscreen:2",
		Args:    cobra.ExactArgs(1),
		RunE:    CmdAction,
	}

	cmdClassify := &cobra.Command{
		Use:   "classify",
		Short: "Check if a window would float",
		RunE:  CmdClassify,
	}
	cmdClassify.Flags().String("class", "", "Window class")
	cmdClassify.Flags().String("instance", "", "Window instance")
	cmdClassify.Flags().String("app-id", "", "Wayland app_id")
	cmdClassify.Flags().String("title", "", "Window title")
	cmdClassify.Flags().String("role", "", "Window role")
	cmdClassify.Flags().String("type", "", "Window type")

	cmdKeys := &cobra.Command{
		Use:   "keys",
		Short: "List the key bindings of the running daemon",
		RunE:  CmdKeys,
	}

	cmdUserCmd := &cobra.Command{
		Use:     "usr-cmd",
		Short:   "Run a user command with a specific name and optional args",
		Example: "sway-deskcfg usr-cmd resize-toggle -- -f=1",
		Args:    cobra.MinimumNArgs(1),
		RunE:    CmdUsrCmd,
	}

	cmdFzfPath := &cobra.Command{
		Use:   "path",
		Short: "Run fzf with a list of executable files from PATH",
		Long: "Run fzf with a list of executable files from PATH, with all the " +
			"dirs being watched for changes.",
		RunE: CmdFzfPath,
	}

	cmdFzf := &cobra.Command{
		Use:   "fzf",
		Short: "Pure FZF versions of the prompt",
		Long: "Pure FZF versions of the prompt, which allows them " +
			"to be rendered directly in the terminal.",
	}
	cmdFzf.AddCommand(cmdFzfPath)

	cmdPrompt := &cobra.Command{
		Use:   "prompt",
		Short: "Show the run prompt using foot",
		Long: "Show the +x files from PATH using foot, with all the dirs being " +
			"watched for changes. Bound to the spawncmd action.",
		RunE: CmdPrompt,
	}

	rootCmd := &cobra.Command{
		Use:          sway.Bin,
		Run:          CmdRoot,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", config.DefaultPath(),
		"Path of the YAML overlay")
	rootCmd.AddCommand(cmdDaemon, cmdStatus, cmdRender, cmdDump, cmdAction,
		cmdClassify, cmdKeys, cmdUserCmd, cmdFzf, cmdPrompt)
	rootCmd.Flags().Bool("version", false,
		"Print version and exit")

	return rootCmd
}

func loader(cmd *cobra.Command) *config.Loader {
	path, _ := cmd.Flags().GetString("config")

	return &config.Loader{Path: path}
}

func notifyContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func cmdDaemon(logger *zap.SugaredLogger) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx, stop := notifyContext(cmd)
		defer stop()

		l := loader(cmd)
		l.OnLoaded(func(*config.Config) {
			logger.Info("Up and Running")
		})
		d := &daemon.Daemon{
			Loader: l,
			Log:    logger,
		}

		if watch, _ := cmd.Flags().GetBool("path-watcher"); watch {
			w, err := watcher.New(ctx, logger, os.Getenv("PATH"), sway.Bin)
			if err != nil {
				return fmt.Errorf("path watcher: %w", err)
			}
			d.PathWatcher = w
		}

		err := d.Start(ctx)
		if errors.Is(err, context.Canceled) {
			logger.Info("shutting down")
			return nil
		}

		return err
	}
}

func cmdStatus(logger *zap.SugaredLogger) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx, stop := notifyContext(cmd)
		defer stop()

		cfg, err := loader(cmd).Load()
		if err != nil {
			return err
		}
		bar, err := status.New(cfg, status.Deps{
			Daemon: daemon.NewClient(),
			Log:    logger,
		})
		if err != nil {
			return err
		}

		return bar.Run(ctx, cmd.OutOrStdout(), cmd.InOrStdin())
	}
}

// ///// ///// /////
// ///// OTHER CMDS
// ///// ///// /////

func CmdRoot(cmd *cobra.Command, _ []string) {
	version, _ := cmd.Flags().GetBool("version")

	if version {
		build, ok := debug.ReadBuildInfo()
		if !ok {
			panic("No build info available")
		}
		fmt.Fprintln(cmd.OutOrStdout(), build.Main.Version)
		return
	}

	fmt.Fprintln(cmd.OutOrStdout(), dedent.Dedent(strings.Trim(`
		sway-deskcfg: personal desktop config for sway

		Builds key bindings, groups, layouts, float rules and a status bar,
		applies them to a running sway and serves the actions sway can't
		express on its own.

		Usage:

		$ sway-deskcfg render > ~/.config/sway/deskcfg
		$ sway-deskcfg daemon
		$ sway-deskcfg action next_layout
		$ sway-deskcfg help`, " \n")))
}

func CmdRender(cmd *cobra.Command, _ []string) error {
	cfg, err := loader(cmd).Load()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), sway.Render(sway.Bin, cfg))

	return nil
}

func CmdDump(cmd *cobra.Command, _ []string) error {
	cfg, err := loader(cmd).Load()
	if err != nil {
		return err
	}

	var out []byte
	switch format, _ := cmd.Flags().GetString("format"); format {
	case "yaml":
		out, err = yaml.Marshal(cfg)
	case "json":
		out, err = json.MarshalIndent(cfg, "", "  ")
		out = append(out, '\n')
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)

	return err
}

func CmdAction(cmd *cobra.Command, args []string) error {
	a, err := config.ParseAction(args[0])
	if err != nil {
		return err
	}
	result, err := daemon.NewClient().Action(a)
	if err != nil {
		return fmt.Errorf("rpc error: %w", err)
	}
	if result != "" {
		fmt.Fprintln(cmd.OutOrStdout(), result)
	}

	return nil
}

func CmdClassify(cmd *cobra.Command, _ []string) error {
	cfg, err := loader(cmd).Load()
	if err != nil {
		return err
	}

	var w config.Window
	w.Class, _ = cmd.Flags().GetString("class")
	w.Instance, _ = cmd.Flags().GetString("instance")
	w.AppID, _ = cmd.Flags().GetString("app-id")
	w.Title, _ = cmd.Flags().GetString("title")
	w.Role, _ = cmd.Flags().GetString("role")
	w.Type, _ = cmd.Flags().GetString("type")

	float, rule := cfg.FloatingLayout.FloatRules.Classify(w)
	if !float {
		fmt.Fprintln(cmd.OutOrStdout(), "tile")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "float (rule %d)\n", rule)

	return nil
}

func CmdKeys(cmd *cobra.Command, _ []string) error {
	keys, err := daemon.RemoteCall("Daemon.RemoteKeys", daemon.RPCArgs{})
	if err != nil {
		return fmt.Errorf("rpc error: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), keys)

	return nil
}

func CmdUsrCmd(cmd *cobra.Command, args []string) error {
	usrArgs := ""
	if len(args) > 1 {
		usrArgs = strings.Join(args[1:], " ")
	}

	result, err := daemon.RemoteCall("Daemon.RemoteUsrCmd", daemon.RPCArgs{
		UsrCmd:  args[0],
		UsrArgs: usrArgs,
	})
	if err != nil {
		return fmt.Errorf("rpc error: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), result)

	return nil
}
