// internal/session/session.go
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tamzrod/thermo-cli/internal/logger"
	"github.com/tamzrod/thermo-cli/internal/output"
	"github.com/tamzrod/thermo-cli/internal/thermo"
)

// Session owns one invocation: the opened boards and the per-address
// BoardInfo set. Single-threaded; not safe for concurrent use.
type Session struct {
	cfg    Config
	col    Collector
	boards Boards
	out    output.Writer
	log    *logger.Logger

	initialized bool
	opened      []uint8

	// at most one BoardInfo per address
	infos map[uint8]*thermo.BoardInfo
	// calibration slots already fetched, per address
	channelsDone map[uint8]map[int]bool

	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a session with immutable config.
func New(cfg Config, col Collector, boards Boards, out output.Writer, log *logger.Logger) (*Session, error) {
	if len(cfg.Sources) == 0 {
		return nil, &thermo.ConfigError{Field: "sources", Msg: "at least one source required"}
	}
	if !cfg.Static.Any() && !cfg.Dynamic.Any() {
		return nil, &thermo.ConfigError{Field: "fields", Msg: "no fields requested"}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Session{
		cfg:          cfg,
		col:          col,
		boards:       boards,
		out:          out,
		log:          log,
		infos:        make(map[uint8]*thermo.BoardInfo),
		channelsDone: make(map[uint8]map[int]bool),
		sleep:        sleepCtx,
	}, nil
}

// Init opens every distinct address once and applies thermocouple types.
// Safe to call more than once.
func (s *Session) Init() error {
	if s.initialized {
		return nil
	}

	for _, src := range s.cfg.Sources {
		if !s.isOpen(src.Address) {
			if err := s.boards.Open(src.Address); err != nil {
				return &thermo.HardwareError{Op: "open", Address: src.Address, Channel: -1, Err: err}
			}
			s.opened = append(s.opened, src.Address)
			s.log.Debugw("board opened", "address", src.Address)
		}
		if err := s.boards.SetTCType(src.Address, src.Channel, src.TCType); err != nil {
			return &thermo.HardwareError{Op: "configure tc type", Address: src.Address, Channel: src.Channel, Err: err}
		}
	}

	s.initialized = true
	return nil
}

// Close closes every opened address. Errors are logged only.
func (s *Session) Close() {
	for _, a := range s.opened {
		if err := s.boards.Close(a); err != nil {
			s.log.Warnw("board close failed", "address", a, "err", err)
		}
	}
	s.opened = nil
	s.initialized = false
}

func (s *Session) isOpen(address uint8) bool {
	for _, a := range s.opened {
		if a == address {
			return true
		}
	}
	return false
}

// ------------------------------------------------------------
// STATIC
// ------------------------------------------------------------

// CollectStatic fetches BoardInfo once per address, plus the calibration
// slot of every further channel referenced on that address.
// Any failure aborts: no partial board info is kept.
func (s *Session) CollectStatic() error {
	if !s.cfg.Static.Any() {
		return nil
	}

	for _, src := range s.cfg.Sources {
		info, seen := s.infos[src.Address]

		if !seen {
			info = thermo.NewBoardInfo(src.Address, s.col.NumChannels())
			if err := s.col.CollectBoardInfo(info, src.Channel, s.cfg.Static); err != nil {
				s.resetStatic()
				return err
			}
			s.infos[src.Address] = info
			s.channelsDone[src.Address] = map[int]bool{src.Channel: true}
			continue
		}

		if s.channelsDone[src.Address][src.Channel] {
			continue
		}
		if err := s.col.CollectChannelConfig(info, src.Channel, s.cfg.Static); err != nil {
			s.resetStatic()
			return err
		}
		s.channelsDone[src.Address][src.Channel] = true
	}

	return nil
}

func (s *Session) resetStatic() {
	s.infos = make(map[uint8]*thermo.BoardInfo)
	s.channelsDone = make(map[uint8]map[int]bool)
}

// BoardInfo returns the collected static data of address, if any.
func (s *Session) BoardInfo(address uint8) (*thermo.BoardInfo, bool) {
	info, ok := s.infos[address]
	return info, ok
}

func (s *Session) staticRecords() []output.Record {
	recs := make([]output.Record, 0, len(s.cfg.Sources))
	for _, src := range s.cfg.Sources {
		recs = append(recs, output.Record{Source: src, Board: s.infos[src.Address]})
	}
	return recs
}

// ------------------------------------------------------------
// DYNAMIC
// ------------------------------------------------------------

// PollOnce performs exactly one collection cycle.
// All-or-nothing: any failure aborts the cycle and returns no records.
// Records carry the collected BoardInfo when static fields were requested.
func (s *Session) PollOnce() ([]output.Record, error) {
	return s.poll(s.cfg.Static.Any())
}

func (s *Session) poll(withBoards bool) ([]output.Record, error) {
	recs := make([]output.Record, 0, len(s.cfg.Sources))

	for _, src := range s.cfg.Sources {
		rec := output.Record{Source: src}

		if withBoards {
			rec.Board = s.infos[src.Address]
		}

		if s.cfg.Dynamic.Any() {
			r, err := s.col.CollectChannelReading(src.Address, src.Channel, s.cfg.Dynamic)
			if err != nil {
				return nil, err
			}
			rec.Reading = &r
		}

		recs = append(recs, rec)
	}

	// Commit only if all reads succeeded
	return recs, nil
}

// ------------------------------------------------------------
// MODES
// ------------------------------------------------------------

// Get runs single-shot mode and writes one document covering every source.
func (s *Session) Get(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	if err := s.CollectStatic(); err != nil {
		return err
	}

	recs, err := s.PollOnce()
	if err != nil {
		return err
	}

	return s.out.Write(recs)
}

// Stream runs streaming mode until ctx is cancelled.
// Static data is written once as a header document. Cancellation is
// observed between cycles only; it ends the session without error.
func (s *Session) Stream(ctx context.Context) error {
	period, err := streamPeriod(s.cfg.Rate)
	if err != nil {
		return err
	}
	if !s.cfg.Dynamic.Any() {
		return &thermo.ConfigError{Field: "stream", Msg: "at least one of temp, adc, cjc required"}
	}
	if err := s.Init(); err != nil {
		return err
	}

	if s.cfg.Static.Any() {
		if err := s.CollectStatic(); err != nil {
			return err
		}
		if err := s.out.Write(s.staticRecords()); err != nil {
			return err
		}
	}

	cycles := 0

	for {
		if ctx.Err() != nil {
			s.log.Infow("stream stopped", "cycles", cycles)
			return nil
		}

		// static data went out in the header
		recs, err := s.poll(false)
		if err != nil {
			s.log.Errorw("stream cycle failed", "cycle", cycles+1, "err", err)
			return err
		}
		if err := s.out.Write(recs); err != nil {
			return err
		}
		cycles++

		if err := s.sleep(ctx, period); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				s.log.Infow("stream stopped", "cycles", cycles)
				return nil
			}
			return err
		}
	}
}

// streamPeriod converts a rate in Hz to the delay between cycles.
// The period must be a positive time.Duration.
func streamPeriod(hz float64) (time.Duration, error) {
	if !(hz > 0) {
		return 0, &thermo.ConfigError{Field: "stream", Msg: "rate must be > 0 Hz"}
	}
	p := float64(time.Second) / hz
	if !(p < float64(math.MaxInt64)) {
		return 0, &thermo.ConfigError{Field: "stream", Msg: fmt.Sprintf("rate %v Hz too low", hz)}
	}
	return time.Duration(p), nil
}

// sleepCtx blocks for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
