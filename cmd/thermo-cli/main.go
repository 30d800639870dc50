// cmd/thermo-cli/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tamzrod/thermo-cli/internal/logger"
	"github.com/tamzrod/thermo-cli/internal/status"
	"github.com/tamzrod/thermo-cli/internal/thermo"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd(newViper()).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "thermo-cli: %v\n", err)
	}

	stop()
	os.Exit(status.Code(err))
}

// newViper layers THERMO_<FLAG> environment variables over flag defaults.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("THERMO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "thermo-cli",
		Short: "Thermocouple DAQ board reader",
		Long: `thermo-cli reads temperatures, raw ADC voltages, cold-junction
temperatures and board metadata from thermocouple acquisition boards,
once or as a fixed-rate stream, as a text table or JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,

		// unknown subcommands land here
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &thermo.ConfigError{Msg: fmt.Sprintf("unknown command %q", args[0])}
			}
			return cmd.Help()
		},
	}

	// Disable the default help command (use --help flag instead)
	root.SetHelpCommand(&cobra.Command{Hidden: true})

	root.PersistentFlags().String("log-level", logger.WarnLevel, "Log level on stderr (debug|info|warn|error)")

	// flag parse errors are usage errors
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &thermo.ConfigError{Msg: err.Error()}
	})

	root.AddCommand(
		newGetCmd(v),
		newListCmd(v),
		newVersionCmd(),
	)
	return root
}

// bindFlags makes every local and inherited flag of cmd readable through v.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	return v.BindPFlags(cmd.InheritedFlags())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "thermo-cli", version)
		},
	}
}
