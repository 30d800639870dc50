// cmd/thermo-cli/get.go
package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tamzrod/thermo-cli/internal/collector"
	"github.com/tamzrod/thermo-cli/internal/hal"
	"github.com/tamzrod/thermo-cli/internal/logger"
	"github.com/tamzrod/thermo-cli/internal/output"
	"github.com/tamzrod/thermo-cli/internal/session"
)

func newGetCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Read one or more thermocouple channels",
		Long: `Read the requested fields from one source (--address/--channel) or from
every source listed in a YAML config file (--config). With --stream the
dynamic fields are read repeatedly at the given rate until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindFlags(cmd, v); err != nil {
				return err
			}
			req, err := buildRequest(v, cmd.Flags().Changed("stream"))
			if err != nil {
				return err
			}
			log := logger.New(v.GetString("log-level"))
			defer log.Sync()

			return runGet(cmd, req, log)
		},
	}

	f := cmd.Flags()

	// ---- source ----
	f.IntP("address", "a", 0, "Board address (0-7)")
	f.IntP("channel", "c", 0, "Channel number (0-3)")
	f.StringP("key", "k", "", "Key reported with the reading")
	f.StringP("config", "C", "", "YAML config with multiple sources (overrides --address/--channel)")
	f.StringP("tc-type", "t", "K", "Thermocouple type (J|K|T|E|R|S|B|N|DISABLED)")
	f.String("driver", "", "Hardware driver (sim|modbus|ads1115)")

	// ---- fields ----
	f.Bool("temp", false, "Temperature in degC (default when no field is given)")
	f.Bool("adc", false, "Raw ADC voltage in V")
	f.Bool("cjc", false, "Cold-junction temperature in degC")
	f.Bool("serial", false, "Board serial number")
	f.Bool("cali-coeffs", false, "Channel calibration slope and offset")
	f.Bool("cali-date", false, "Channel calibration date")
	f.Bool("update-interval", false, "Board update interval in seconds")

	// ---- output ----
	f.Bool("json", false, "JSON output")
	f.Bool("compact", false, "Compact JSON (forced when streaming)")
	f.Bool("clean", false, "No separator lines in table output")
	f.Float64P("stream", "s", 0, "Stream dynamic fields at this rate in Hz")

	return cmd
}

func runGet(cmd *cobra.Command, req *request, log *logger.Logger) error {
	dev, closeDev, err := hal.Build(req.cfg.Driver)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDev(); err != nil {
			log.Warnw("driver close failed", "err", err)
		}
	}()

	log.Debugw("driver ready", "driver", req.cfg.Driver.Type, "sources", len(req.session.Sources))

	col := collector.New(dev, log)
	out := output.New(cmd.OutOrStdout(), req.format)

	s, err := session.New(req.session, col, dev, out, log)
	if err != nil {
		return err
	}
	defer s.Close()

	if req.stream {
		return s.Stream(cmd.Context())
	}
	return s.Get(cmd.Context())
}
