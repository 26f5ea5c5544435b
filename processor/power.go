package processor

// PowerPolicy is told when the finger comes and goes, so the host can keep
// the screen and camera awake while measuring.
type PowerPolicy interface {
	// Acquire is called when the finger is reported present.
	Acquire()
	// Release is called when the finger is reported absent, and by Stop if
	// the resource is still held.
	Release()
}

// NopPower ignores power notifications.
type NopPower struct{}

func (NopPower) Acquire() {}
func (NopPower) Release() {}
