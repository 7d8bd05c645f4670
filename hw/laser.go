package hw

// Laser is the binary laser gate. Called once per sample from the
// sample-clock context.
type Laser struct {
	pin    Pin
	Invert bool
}

// NewLaser returns a laser gate on the given pin.
func NewLaser(pin Pin) *Laser {
	return &Laser{pin: pin}
}

// Set switches the laser on or off.
func (l *Laser) Set(on bool) {
	l.pin.Set(on != l.Invert)
}
