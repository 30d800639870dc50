// cmd/thermo-cli/main_test.go
package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/tamzrod/thermo-cli/internal/collector"
	"github.com/tamzrod/thermo-cli/internal/config"
	"github.com/tamzrod/thermo-cli/internal/hal/sim"
	"github.com/tamzrod/thermo-cli/internal/logger"
	"github.com/tamzrod/thermo-cli/internal/status"
	"github.com/tamzrod/thermo-cli/internal/thermo"
)

func flags(kv map[string]any) *viper.Viper {
	v := viper.New()
	v.Set("tc-type", "K")
	for k, val := range kv {
		v.Set(k, val)
	}
	return v
}

func isConfigError(err error) bool {
	var ce *thermo.ConfigError
	return errors.As(err, &ce)
}

// ---- request building ----

func TestBuildRequest_DefaultsToTemperature(t *testing.T) {
	req, err := buildRequest(flags(map[string]any{"address": 2, "channel": 3}), false)
	if err != nil {
		t.Fatalf("buildRequest err=%v", err)
	}

	if !req.session.Dynamic.Temperature || req.session.Dynamic.ADC || req.session.Static.Any() {
		t.Fatalf("fields: %+v %+v", req.session.Static, req.session.Dynamic)
	}
	if req.stream {
		t.Fatalf("single shot expected")
	}
	if len(req.session.Sources) != 1 {
		t.Fatalf("sources: %+v", req.session.Sources)
	}
	src := req.session.Sources[0]
	if src.Address != 2 || src.Channel != 3 || src.TCType != thermo.TypeK {
		t.Fatalf("source: %+v", src)
	}
	if req.cfg.Driver.Type != config.DriverSim || len(req.cfg.Driver.Sim.Addresses) != 1 || req.cfg.Driver.Sim.Addresses[0] != 2 {
		t.Fatalf("driver: %+v", req.cfg.Driver)
	}
}

func TestBuildRequest_ExplicitFieldsOnly(t *testing.T) {
	req, err := buildRequest(flags(map[string]any{"serial": true, "cjc": true}), false)
	if err != nil {
		t.Fatalf("buildRequest err=%v", err)
	}
	if req.session.Dynamic.Temperature || !req.session.Dynamic.CJC || !req.session.Static.Serial {
		t.Fatalf("fields: %+v %+v", req.session.Static, req.session.Dynamic)
	}
}

func TestBuildRequest_RangeErrors(t *testing.T) {
	cases := []map[string]any{
		{"address": 8},
		{"address": -1},
		{"channel": 4},
		{"tc-type": "Q"},
		{"driver": "spi"},
	}
	for _, kv := range cases {
		if _, err := buildRequest(flags(kv), false); !isConfigError(err) {
			t.Fatalf("%v: expected config error, got %v", kv, err)
		}
	}
}

func TestBuildRequest_Stream(t *testing.T) {
	req, err := buildRequest(flags(map[string]any{"stream": 2.5, "json": true}), true)
	if err != nil {
		t.Fatalf("buildRequest err=%v", err)
	}
	if !req.stream || req.session.Rate != 2.5 {
		t.Fatalf("stream: %v rate=%v", req.stream, req.session.Rate)
	}
	if !req.format.JSON || !req.format.Compact {
		t.Fatalf("streaming json must be compact: %+v", req.format)
	}
}

func TestBuildRequest_StreamInvalid(t *testing.T) {
	if _, err := buildRequest(flags(map[string]any{"stream": 0.0}), true); !isConfigError(err) {
		t.Fatalf("rate 0: expected config error, got %v", err)
	}
	if _, err := buildRequest(flags(map[string]any{"stream": -1.0}), true); !isConfigError(err) {
		t.Fatalf("rate -1: expected config error, got %v", err)
	}
	if _, err := buildRequest(flags(map[string]any{"stream": 1.0, "serial": true}), true); !isConfigError(err) {
		t.Fatalf("static only stream: expected config error, got %v", err)
	}
}

func TestBuildRequest_ConfigFileOverridesAddress(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thermo.yaml")
	yaml := `
sources:
  - address: 0
    channel: 0
    key: X
  - address: 0
    channel: 1
    key: Y
    tc_type: J
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	req, err := buildRequest(flags(map[string]any{"config": path, "address": 5, "channel": 3}), false)
	if err != nil {
		t.Fatalf("buildRequest err=%v", err)
	}
	srcs := req.session.Sources
	if len(srcs) != 2 || srcs[0].Key != "X" || srcs[1].TCType != thermo.TypeJ || srcs[1].Address != 0 {
		t.Fatalf("sources: %+v", srcs)
	}
}

// ---- list ----

func TestListBoards_Sim(t *testing.T) {
	dev := sim.New(sim.Config{Addresses: []uint8{3, 1}, Seed: 1})

	addrs, err := boardAddresses(dev, nil)
	if err != nil {
		t.Fatalf("addresses: %v", err)
	}
	infos, err := listBoards(dev, collector.New(dev, nil), addrs, logger.Nop())
	if err != nil {
		t.Fatalf("listBoards: %v", err)
	}

	var buf bytes.Buffer
	if err := writeBoards(&buf, infos, false, false); err != nil {
		t.Fatalf("writeBoards: %v", err)
	}
	want := "Address 1: SIM00001 (update interval 1 s)\nAddress 3: SIM00003 (update interval 1 s)\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}

	buf.Reset()
	if err := writeBoards(&buf, infos, true, true); err != nil {
		t.Fatalf("writeBoards json: %v", err)
	}
	want = `[{"ADDRESS":1,"SERIAL":"SIM00001","UPDATE_INTERVAL":1},{"ADDRESS":3,"SERIAL":"SIM00003","UPDATE_INTERVAL":1}]` + "\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestListBoards_MissingBoard(t *testing.T) {
	dev := sim.New(sim.Config{Addresses: []uint8{0}, Seed: 1})

	_, err := listBoards(dev, collector.New(dev, nil), []uint8{0, 4}, logger.Nop())
	if status.Code(err) != status.ExitHardware {
		t.Fatalf("expected hardware error, got %v", err)
	}
}

// closeFailDevice is a sim whose boards refuse to close.
type closeFailDevice struct {
	*sim.Device
}

func (d closeFailDevice) Close(uint8) error { return errors.New("bus busy") }

func TestListBoards_CloseFailureLogged(t *testing.T) {
	dev := closeFailDevice{sim.New(sim.Config{Addresses: []uint8{0}, Seed: 1})}
	var logs bytes.Buffer

	infos, err := listBoards(dev, collector.New(dev, nil), []uint8{0}, logger.NewWriter(&logs, logger.WarnLevel))
	if err != nil || len(infos) != 1 {
		t.Fatalf("close failure must not fail list: infos=%v err=%v", infos, err)
	}
	if !strings.Contains(logs.String(), "board close failed") || !strings.Contains(logs.String(), "bus busy") {
		t.Fatalf("close failure not logged: %q", logs.String())
	}
}

// ---- end to end ----

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(viper.New())
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	if args == nil {
		// nil would fall back to os.Args
		args = []string{}
	}
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGetCmd_SerialJSON(t *testing.T) {
	out, err := run(t, "get", "--driver", "sim", "-a", "1", "-c", "2", "--serial", "--json", "--compact")
	if err != nil {
		t.Fatalf("get err=%v", err)
	}
	want := `{"ADDRESS":1,"CHANNEL":2,"SERIAL":"SIM00001"}` + "\n"
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}
}

func TestGetCmd_TableHasTemperature(t *testing.T) {
	out, err := run(t, "get", "-a", "0", "-c", "0", "--log-level", "error")
	if err != nil {
		t.Fatalf("get err=%v", err)
	}
	if !strings.HasPrefix(out, "  Temperature: ") || !strings.Contains(out, " degC\n") {
		t.Fatalf("output: %q", out)
	}
}

func TestGetCmd_ExitCodes(t *testing.T) {
	_, err := run(t, "get", "-a", "9")
	if status.Code(err) != status.ExitConfig {
		t.Fatalf("address 9: got %v", err)
	}

	_, err = run(t, "get", "--no-such-flag")
	if status.Code(err) != status.ExitConfig {
		t.Fatalf("unknown flag: got %v", err)
	}
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	_, err := run(t, "foo")
	if status.Code(err) != status.ExitConfig {
		t.Fatalf("unknown command: got %v", err)
	}
	if !strings.Contains(err.Error(), `"foo"`) {
		t.Fatalf("error must name the command: %v", err)
	}

	out, err := run(t)
	if err != nil || !strings.Contains(out, "get") {
		t.Fatalf("bare root must print help: %q err=%v", out, err)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	if err != nil || out != "thermo-cli dev\n" {
		t.Fatalf("version: %q err=%v", out, err)
	}
}
