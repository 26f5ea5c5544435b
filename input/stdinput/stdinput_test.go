package stdinput

import (
	"bytes"
	"context"
	"testing"

	"github.com/noriah/thump/input"
)

type countSink struct {
	n      int
	layout input.Layout
}

func (cs *countSink) Submit(f input.Frame) bool {
	cs.n++
	cs.layout = f.Layout
	return true
}

func TestReaderSession(t *testing.T) {
	cfg := input.SessionConfig{Width: 4, Height: 2, Layout: input.LayoutNV21, FrameRate: 30}

	// NV21 4x2 is 8 luma + 4 chroma bytes
	data := make([]byte, 5*cfg.FrameSize())

	sink := &countSink{}
	if err := NewReaderSession(cfg, bytes.NewReader(data)).Start(context.Background(), sink); err != nil {
		t.Fatal(err)
	}

	if sink.n != 5 || sink.layout != input.LayoutNV21 {
		t.Errorf("got %d frames of %v, want 5 nv21", sink.n, sink.layout)
	}
}

func TestRegistered(t *testing.T) {
	if !input.HasBackend("stdin") {
		t.Error("stdin backend not registered")
	}
}
