package processor

// NewThreaded returns a processor that runs cycles on its own goroutine.
// Submit only stages the frame and hands it over, so the frame source never
// waits on an estimate.
func NewThreaded(cfg Config) *Processor {
	p := New(cfg)
	p.threaded = true
	return p
}

// Threaded reports whether cycles run on a worker goroutine.
func (p *Processor) Threaded() bool {
	return p.threaded
}

func (p *Processor) worker() {
	defer p.wg.Done()

	for range p.kick {
		p.cycle()
		p.guard.Release()
	}
}
