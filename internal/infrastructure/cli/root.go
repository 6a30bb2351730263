package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/aihelp/internal/app"
	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose      bool
	SettingsPath string
	Stdout       io.Writer
	Stderr       io.Writer
	// ClientFactory replaces the HTTP completion client, mainly for tests.
	ClientFactory app.ClientFactory
}

type rootFlags struct {
	model      string
	showModel  bool
	setModel   string
	resetModel bool
	logging    bool
	debug      bool
}

// NewRootCmd wires the cobra root command. The returned container must be
// closed by the caller.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, *app.Container, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	container, err := app.BuildContainer(ctx, app.Options{
		Verbose:      opts.Verbose,
		SettingsPath: opts.SettingsPath,
		Diagnostics:  opts.Stderr,
	})
	if err != nil {
		return nil, nil, err
	}
	if opts.ClientFactory != nil {
		container.ClientFactory = opts.ClientFactory
	}

	var flags rootFlags
	root := &cobra.Command{
		Use:   "aihelp [natural language request]",
		Short: "AIHelp - natural language to shell commands",
		Long: "AIHelp translates a natural-language request into a shell command, " +
			"checks it against a denylist and the shell parser, and runs it.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, container, flags, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	f := root.Flags()
	f.StringVarP(&flags.model, "model", "m", "", "Model to use for this request (default from config)")
	f.BoolVar(&flags.showModel, "show-model", false, "Print the current default model and exit")
	f.StringVar(&flags.setModel, "set-model", "", "Persist a new default model and exit")
	f.BoolVar(&flags.resetModel, "reset-model", false, "Restore the built-in default model and exit")
	f.BoolVar(&flags.logging, "log", false, "Append the command to the command log before running it")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable verbose diagnostics (also AIHELP_DEBUG=1)")

	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, container, nil
}

func runRoot(cmd *cobra.Command, container *app.Container, flags rootFlags, args []string) error {
	out := cmd.OutOrStdout()
	renderer := NewRenderer(out, cmd.ErrOrStderr())
	if container.ConfigErr != nil {
		renderer.Warning(container.ConfigErr)
	}

	switch {
	case flags.showModel:
		fmt.Fprintf(out, "Current default model: %s\n", container.Config.ResolveModel(""))
		return nil
	case cmd.Flags().Changed("set-model"):
		cfg := container.Config
		if err := cfg.SetDefaultModel(flags.setModel); err != nil {
			renderer.Warning(err)
			return nil
		}
		if err := container.ConfigStore.Save(cmd.Context(), cfg); err != nil {
			renderer.Warning(err)
			return nil
		}
		fmt.Fprintf(out, "Default model has been set to: %s\n", cfg.DefaultModel)
		return nil
	case flags.resetModel:
		cfg := container.Config
		cfg.ResetDefaultModel()
		if err := container.ConfigStore.Save(cmd.Context(), cfg); err != nil {
			renderer.Warning(err)
			return nil
		}
		fmt.Fprintf(out, "Default model has been reset to: %s\n", cfg.DefaultModel)
		return nil
	}

	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return cmd.Help()
	}

	service, err := container.Pipeline(renderer)
	if err != nil {
		return err
	}
	service.Client = WithSpinner(service.Client, cmd.ErrOrStderr())

	req := domain.CommandRequest{
		Prompt:         prompt,
		Model:          container.Config.ResolveModel(flags.model),
		LoggingEnabled: flags.logging,
	}
	_, err = service.Run(cmd.Context(), req)
	return err
}
