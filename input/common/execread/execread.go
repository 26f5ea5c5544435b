// Package execread provides a shared session that reads raw frames from the
// stdout of a command.
package execread

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/noriah/thump/input"
	"github.com/pkg/errors"
)

// Session is a session that reads raw video frames from a Cmd.
type Session struct {
	// OnStart is called when the session starts. Nil by default.
	OnStart func(ctx context.Context, cmd *exec.Cmd) error

	// prevents cmd.Stderr from pointing to os.Stderr. false by default.
	DisconnectedStderr bool

	argv []string
	cfg  input.SessionConfig
}

// NewSession creates a new execread session. It never returns an error.
func NewSession(argv []string, cfg input.SessionConfig) *Session {
	if len(argv) < 1 {
		panic("argv has no arg0")
	}

	return &Session{
		argv: argv,
		cfg:  cfg,
	}
}

// Args returns the command line of the session.
func (s *Session) Args() []string {
	return s.argv
}

func (s *Session) Start(ctx context.Context, sink input.Sink) error {
	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)

	if !s.DisconnectedStderr {
		cmd.Stderr = os.Stderr
	}

	o, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stdout pipe")
	}

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start "+s.argv[0])
	}

	// reap the child however the read ends
	defer cmd.Wait()

	if s.OnStart != nil {
		if err := s.OnStart(ctx, cmd); err != nil {
			return err
		}
	}

	return ReadFrames(ctx, o, s.cfg, sink)
}

type deadliner interface {
	SetReadDeadline(time.Time) error
}

// ReadFrames cuts r into frames of cfg.FrameSize() bytes and submits each one
// to sink, stamped with the time its last byte arrived. It returns nil when
// r runs dry.
//
// When r supports read deadlines, a read that stalls for several frame
// periods is retried so ctx is checked even when the source hangs.
func ReadFrames(ctx context.Context, r io.Reader, cfg input.SessionConfig, sink input.Sink) error {
	size := cfg.FrameSize()
	if size <= 0 {
		return errors.New("invalid frame size")
	}

	raw := make([]byte, size)

	rate := cfg.FrameRate
	if rate <= 0 {
		rate = 30
	}
	timeout := 6 * time.Duration(float64(time.Second)/rate)

	dl, _ := r.(deadliner)

	var n int
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if dl != nil {
			if err := dl.SetReadDeadline(time.Now().Add(timeout)); err != nil {
				// not every file supports deadlines
				dl = nil
			}
		}

		m, err := r.Read(raw[n:])
		n += m

		if n == size {
			sink.Submit(input.Frame{
				Data:   raw,
				Width:  cfg.Width,
				Height: cfg.Height,
				Layout: cfg.Layout,
				Time:   time.Now(),
			})
			n = 0
		}

		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return nil
			case errors.Is(err, os.ErrDeadlineExceeded):
				continue
			default:
				return err
			}
		}
	}
}
