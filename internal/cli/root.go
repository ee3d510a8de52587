package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"taskboard/internal/app"
	"taskboard/internal/config"
	"taskboard/internal/viewmodel"

	"github.com/spf13/cobra"
)

type env struct {
	configPath string
	out        io.Writer
	errOut     io.Writer
	app        *app.App
}

func (e *env) store() *viewmodel.Store {
	return e.app.Store()
}

// notifier prints user-facing notifications to stderr.
func (e *env) notifier() viewmodel.Notifier {
	return viewmodel.NotifierFunc(func(message string) {
		fmt.Fprintf(e.errOut, "! %s\n", message)
	})
}

// load fetches the task list; every command starts from fresh server state.
func (e *env) load(ctx context.Context) error {
	return e.store().Load(ctx)
}

func NewRootCmd(version string, out, errOut io.Writer) *cobra.Command {
	e := &env{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:           "taskboard",
		Short:         "Taskboard - manage tasks on a remote task store",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(e.configPath)
			if err != nil {
				return err
			}
			e.app = app.New(cfg, e.configPath)
			return e.app.Init(cmd.Context(), e.notifier())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.app != nil {
				e.app.Shutdown()
			}
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.PersistentFlags().StringVarP(&e.configPath, "config", "c", config.DefaultPath, "config file path")

	rootCmd.AddCommand(listCmd(e))
	rootCmd.AddCommand(addCmd(e))
	rootCmd.AddCommand(completeCmd(e))
	rootCmd.AddCommand(editCmd(e))
	rootCmd.AddCommand(deleteCmd(e))
	rootCmd.AddCommand(exportCmd(e))
	rootCmd.AddCommand(themeCmd(e))
	rootCmd.AddCommand(watchCmd(e))

	return rootCmd
}

// Execute runs the root command with the process' stdio.
func Execute(ctx context.Context, version string) error {
	rootCmd := NewRootCmd(version, os.Stdout, os.Stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
