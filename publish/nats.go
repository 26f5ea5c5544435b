// Package publish sends estimates to a NATS subject as JSON.
package publish

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/noriah/thump/dsp"
	"github.com/noriah/thump/processor"
	"github.com/pkg/errors"
)

var _ processor.Output = (*NATS)(nil)

// Publisher is the part of *nats.Conn the output uses.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Connect dials a NATS server that reconnects forever.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(
		url,
		nats.Name("thump"),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", url)
	}

	return nc, nil
}

// BPMMsg is published on the base subject for every estimate.
type BPMMsg struct {
	Ts     int64  `json:"ts"`
	BPM    int    `json:"bpm"`
	Finger string `json:"finger"`
}

// PresenceMsg is published on <subject>.presence.
type PresenceMsg struct {
	Ts      int64 `json:"ts"`
	Present bool  `json:"present"`
}

// SeriesMsg is published on <subject>.samples and <subject>.peaks.
type SeriesMsg struct {
	Ts     int64        `json:"ts"`
	Points [][2]float64 `json:"points"`
}

// NATS is an output that publishes JSON messages.
type NATS struct {
	pub     Publisher
	subject string
	// Series also publishes the chart samples and peaks.
	Series bool

	now func() time.Time
}

func NewNATS(pub Publisher, subject string) *NATS {
	return &NATS{pub: pub, subject: subject, now: time.Now}
}

func (n *NATS) WritePresence(present bool) error {
	return n.publish(n.subject+".presence", PresenceMsg{
		Ts:      n.ts(),
		Present: present,
	})
}

func (n *NATS) WriteBPM(e dsp.Estimate) error {
	return n.publish(n.subject, BPMMsg{
		Ts:     n.ts(),
		BPM:    e.BPM,
		Finger: e.Presence.String(),
	})
}

func (n *NATS) WriteSamples(pts []dsp.Point) error {
	if !n.Series {
		return nil
	}
	return n.publish(n.subject+".samples", n.series(pts))
}

func (n *NATS) WritePeaks(pts []dsp.Point) error {
	if !n.Series {
		return nil
	}
	return n.publish(n.subject+".peaks", n.series(pts))
}

func (n *NATS) series(pts []dsp.Point) SeriesMsg {
	msg := SeriesMsg{Ts: n.ts(), Points: make([][2]float64, len(pts))}
	for i, p := range pts {
		msg.Points[i] = [2]float64{p.X, p.Y}
	}
	return msg
}

func (n *NATS) ts() int64 {
	return n.now().UnixMilli()
}

func (n *NATS) publish(subject string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to encode message")
	}

	if err := n.pub.Publish(subject, b); err != nil {
		return errors.Wrapf(err, "failed to publish to %s", subject)
	}

	return nil
}
