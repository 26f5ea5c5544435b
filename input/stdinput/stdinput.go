// Package stdinput reads raw frames piped on standard input, for example
//
//	ffmpeg -i clip.mp4 -vf scale=320:240 -pix_fmt nv21 -f rawvideo - | thump -b stdin
package stdinput

import (
	"context"
	"io"
	"os"

	"github.com/noriah/thump/input"
	"github.com/noriah/thump/input/common/execread"
)

func init() {
	input.RegisterBackend("stdin", StdinBackend{})
}

type StdinBackend struct{}

func (b StdinBackend) Init() error {
	return nil
}

func (b StdinBackend) Close() error {
	return nil
}

func (b StdinBackend) Devices() ([]input.Device, error) {
	return []input.Device{StdInputDevice{}}, nil
}

func (b StdinBackend) DefaultDevice() (input.Device, error) {
	return StdInputDevice{}, nil
}

func (b StdinBackend) Start(config input.SessionConfig) (input.Session, error) {
	return NewStdinSession(config), nil
}

type StdInputDevice struct{}

func (d StdInputDevice) String() string {
	return "stdin"
}

type Session struct {
	cfg input.SessionConfig
	r   io.Reader
}

func NewStdinSession(cfg input.SessionConfig) *Session {
	return &Session{cfg: cfg, r: os.Stdin}
}

// NewReaderSession reads frames from r instead of standard input.
func NewReaderSession(cfg input.SessionConfig, r io.Reader) *Session {
	return &Session{cfg: cfg, r: r}
}

func (s *Session) Start(ctx context.Context, sink input.Sink) error {
	return execread.ReadFrames(ctx, s.r, s.cfg, sink)
}
