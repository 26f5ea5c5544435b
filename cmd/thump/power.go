package main

import (
	"log"

	"github.com/noriah/thump/processor"
)

// logPower stands in for a wake lock: it logs when the screen would be
// held awake.
type logPower struct {
	logger *log.Logger
}

var _ processor.PowerPolicy = logPower{}

func (p logPower) Acquire() {
	p.logger.Println("holding wake lock")
}

func (p logPower) Release() {
	p.logger.Println("wake lock released")
}
