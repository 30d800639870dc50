// cmd/thermo-cli/list.go
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tamzrod/thermo-cli/internal/collector"
	"github.com/tamzrod/thermo-cli/internal/hal"
	"github.com/tamzrod/thermo-cli/internal/logger"
	"github.com/tamzrod/thermo-cli/internal/output"
	"github.com/tamzrod/thermo-cli/internal/thermo"
)

func newListCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List boards with their serial numbers",
		Long: `List every board the driver reports (sim) or every board address
referenced by the configured sources, with its serial number and update
interval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindFlags(cmd, v); err != nil {
				return err
			}
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			log := logger.New(v.GetString("log-level"))
			defer log.Sync()

			dev, closeDev, err := hal.Build(cfg.Driver)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeDev(); err != nil {
					log.Warnw("driver close failed", "err", err)
				}
			}()

			addrs, err := boardAddresses(dev, cfg.ThermalSources())
			if err != nil {
				return err
			}
			infos, err := listBoards(dev, collector.New(dev, log), addrs, log)
			if err != nil {
				return err
			}
			return writeBoards(cmd.OutOrStdout(), infos, v.GetBool("json"), v.GetBool("compact"))
		},
	}

	f := cmd.Flags()
	f.IntP("address", "a", 0, "Board address (0-7)")
	f.StringP("config", "C", "", "YAML config with multiple sources")
	f.String("driver", "", "Hardware driver (sim|modbus|ads1115)")
	f.Bool("json", false, "JSON output")
	f.Bool("compact", false, "Compact JSON")

	return cmd
}

// boardAddresses prefers the driver's own enumeration and falls back to the
// distinct source addresses in first-seen order.
func boardAddresses(dev hal.Device, sources []thermo.ThermalSource) ([]uint8, error) {
	if l, ok := dev.(hal.Lister); ok {
		return l.Addresses()
	}

	var out []uint8
	seen := make(map[uint8]bool)
	for _, s := range sources {
		if !seen[s.Address] {
			seen[s.Address] = true
			out = append(out, s.Address)
		}
	}
	return out, nil
}

// listBoards opens each address, reads its board-level data and closes it.
func listBoards(dev hal.Device, col *collector.Collector, addrs []uint8, log *logger.Logger) ([]*thermo.BoardInfo, error) {
	fields := thermo.StaticFields{Serial: true, UpdateInterval: true}
	infos := make([]*thermo.BoardInfo, 0, len(addrs))

	for _, a := range addrs {
		if err := dev.Open(a); err != nil {
			return nil, &thermo.HardwareError{Op: "open", Address: a, Channel: -1, Err: err}
		}

		info := thermo.NewBoardInfo(a, col.NumChannels())
		err := col.CollectBoardInfo(info, 0, fields)
		if cerr := dev.Close(a); cerr != nil {
			log.Warnw("board close failed", "address", a, "err", cerr)
		}
		if err != nil {
			return nil, err
		}

		infos = append(infos, info)
	}
	return infos, nil
}

func writeBoards(w io.Writer, infos []*thermo.BoardInfo, asJSON, compact bool) error {
	if asJSON {
		b, err := output.MarshalBoards(infos, compact)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}

	for _, info := range infos {
		sn := "-"
		if info.HasSerial {
			sn = info.Serial
		}
		if info.HasUpdateInterval {
			fmt.Fprintf(w, "Address %d: %s (update interval %d s)\n", info.Address, sn, info.UpdateInterval)
			continue
		}
		fmt.Fprintf(w, "Address %d: %s\n", info.Address, sn)
	}
	return nil
}
