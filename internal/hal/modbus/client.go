// internal/hal/modbus/client.go
package modbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/thermo-cli/internal/thermo"
)

// NumChannels is the channel count every gateway board exposes.
const NumChannels = 4

// ---- REGISTER MAP ----
//
// Input registers (FC 4), per channel ch, 6 registers:
//   6*ch+0  temperature  float32 degC
//   6*ch+2  adc          float32 V
//   6*ch+4  cjc          float32 degC
//
// Holding registers (FC 3 / FC 6):
//   100..107       serial, ASCII, 2 chars per register, NUL padded
//   110..114       calibration date, ASCII "YYYY-MM-DD"
//   120+4*ch       calibration slope  float32
//   122+4*ch       calibration offset float32
//   140            update interval, seconds
//   150+ch         thermocouple type code (writable)

const (
	regsPerChannel = 6
	offTemperature = 0
	offADC         = 2
	offCJC         = 4

	regSerial         = 100
	regSerialQty      = 8
	regCalDate        = 110
	regCalDateQty     = 5
	regCalCoeffs      = 120
	regUpdateInterval = 140
	regTCType         = 150
)

// registerClient is the subset of modbus.Client this adapter uses.
type registerClient interface {
	ReadInputRegisters(address, quantity uint16) ([]byte, error)
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteSingleRegister(address, value uint16) ([]byte, error)
}

// Config is minimal transport config.
type Config struct {
	Port      string
	BaudRate  int
	DataBits  int
	Parity    string
	StopBits  int
	Timeout   time.Duration
	SlaveBase uint8
	WordSwap  bool
}

// Client implements hal.Device for boards behind a Modbus RTU gateway.
// One serial line is shared; the slave id is switched per request.
type Client struct {
	handler   *modbus.RTUClientHandler
	cli       registerClient
	setSlave  func(id byte)
	slaveBase uint8
	wordSwap  bool

	connected bool
	open      map[uint8]bool
}

// New creates an RTU client. The serial port is opened on first Open.
func New(cfg Config) (*Client, error) {
	if cfg.Port == "" {
		return nil, errors.New("modbus client: port required")
	}

	h := modbus.NewRTUClientHandler(cfg.Port)
	h.BaudRate = cfg.BaudRate
	h.DataBits = cfg.DataBits
	h.Parity = cfg.Parity
	h.StopBits = cfg.StopBits
	h.Timeout = cfg.Timeout

	c := newClient(modbus.NewClient(h), func(id byte) { h.SlaveId = id }, cfg.SlaveBase, cfg.WordSwap)
	c.handler = h
	return c, nil
}

func newClient(cli registerClient, setSlave func(byte), slaveBase uint8, wordSwap bool) *Client {
	return &Client{
		cli:       cli,
		setSlave:  setSlave,
		slaveBase: slaveBase,
		wordSwap:  wordSwap,
		open:      make(map[uint8]bool),
	}
}

// Shutdown closes the serial port.
func (c *Client) Shutdown() error {
	if c == nil || c.handler == nil || !c.connected {
		return nil
	}
	c.connected = false
	return c.handler.Close()
}

// ---- hal.Device interface ----

func (c *Client) NumChannels() int { return NumChannels }

// Open connects the serial line if needed and probes the board.
func (c *Client) Open(address uint8) error {
	if c.handler != nil && !c.connected {
		if err := c.handler.Connect(); err != nil {
			return fmt.Errorf("modbus client: connect: %w", err)
		}
		c.connected = true
	}

	c.selectBoard(address)
	if _, err := c.cli.ReadHoldingRegisters(regUpdateInterval, 1); err != nil {
		return fmt.Errorf("modbus client: probe slave %d: %w", c.slaveID(address), err)
	}
	c.open[address] = true
	return nil
}

func (c *Client) Close(address uint8) error {
	delete(c.open, address)
	return nil
}

func (c *Client) SetTCType(address uint8, channel int, tc thermo.TCType) error {
	if err := c.check(address, channel); err != nil {
		return err
	}
	_, err := c.cli.WriteSingleRegister(uint16(regTCType+channel), uint16(tc))
	return err
}

func (c *Client) Serial(address uint8) (string, error) {
	if err := c.check(address, 0); err != nil {
		return "", err
	}
	b, err := c.cli.ReadHoldingRegisters(regSerial, regSerialQty)
	if err != nil {
		return "", err
	}
	return decodeASCII(b), nil
}

// CalibrationDate is board-wide on the gateway; channel is range-checked only.
func (c *Client) CalibrationDate(address uint8, channel int) (string, error) {
	if err := c.check(address, channel); err != nil {
		return "", err
	}
	b, err := c.cli.ReadHoldingRegisters(regCalDate, regCalDateQty)
	if err != nil {
		return "", err
	}
	return decodeASCII(b), nil
}

func (c *Client) CalibrationCoeffs(address uint8, channel int) (thermo.CalibrationCoeffs, error) {
	if err := c.check(address, channel); err != nil {
		return thermo.CalibrationCoeffs{}, err
	}
	b, err := c.cli.ReadHoldingRegisters(uint16(regCalCoeffs+4*channel), 4)
	if err != nil {
		return thermo.CalibrationCoeffs{}, err
	}
	if len(b) < 8 {
		return thermo.CalibrationCoeffs{}, fmt.Errorf("modbus client: short calibration response (%d bytes)", len(b))
	}
	return thermo.CalibrationCoeffs{
		Slope:  c.decodeFloat(b[0:4]),
		Offset: c.decodeFloat(b[4:8]),
	}, nil
}

func (c *Client) UpdateInterval(address uint8) (int, error) {
	if err := c.check(address, 0); err != nil {
		return 0, err
	}
	b, err := c.cli.ReadHoldingRegisters(regUpdateInterval, 1)
	if err != nil {
		return 0, err
	}
	if len(b) < 2 {
		return 0, fmt.Errorf("modbus client: short interval response (%d bytes)", len(b))
	}
	return int(binary.BigEndian.Uint16(b)), nil
}

func (c *Client) Temperature(address uint8, channel int) (float64, error) {
	return c.readChannelFloat(address, channel, offTemperature)
}

func (c *Client) ADCVoltage(address uint8, channel int) (float64, error) {
	return c.readChannelFloat(address, channel, offADC)
}

func (c *Client) CJCTemperature(address uint8, channel int) (float64, error) {
	return c.readChannelFloat(address, channel, offCJC)
}

// ---- internal request/response helpers ----

func (c *Client) slaveID(address uint8) byte {
	return c.slaveBase + address
}

func (c *Client) selectBoard(address uint8) {
	if c.setSlave != nil {
		c.setSlave(c.slaveID(address))
	}
}

// check verifies the board is open and selects it on the line.
func (c *Client) check(address uint8, channel int) error {
	if !c.open[address] {
		return fmt.Errorf("modbus client: board %d not open", address)
	}
	if channel < 0 || channel >= NumChannels {
		return fmt.Errorf("modbus client: invalid channel %d", channel)
	}
	c.selectBoard(address)
	return nil
}

func (c *Client) readChannelFloat(address uint8, channel int, off int) (float64, error) {
	if err := c.check(address, channel); err != nil {
		return 0, err
	}
	b, err := c.cli.ReadInputRegisters(uint16(regsPerChannel*channel+off), 2)
	if err != nil {
		return 0, err
	}
	if len(b) < 4 {
		return 0, fmt.Errorf("modbus client: short response (%d bytes)", len(b))
	}
	return c.decodeFloat(b[0:4]), nil
}

// decodeFloat decodes one float32 spread over two registers.
// Default order is high word first.
func (c *Client) decodeFloat(b []byte) float64 {
	hi := binary.BigEndian.Uint16(b[0:2])
	lo := binary.BigEndian.Uint16(b[2:4])
	if c.wordSwap {
		hi, lo = lo, hi
	}
	return float64(math.Float32frombits(uint32(hi)<<16 | uint32(lo)))
}

// decodeASCII unpacks register bytes into a string, dropping NUL padding.
func decodeASCII(b []byte) string {
	return strings.TrimSpace(strings.TrimRight(string(b), "\x00"))
}
