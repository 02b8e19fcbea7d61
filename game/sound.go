package game

// Sounder plays the clock's audible cues
// Calls come from interrupt context and must not block
type Sounder interface {
	// Click acknowledges an accepted move
	Click()
	// Warn signals low remaining time on a tick
	Warn()
	// Alarm signals the flag falling
	Alarm()
}

// Silent is a Sounder that plays nothing
type Silent struct{}

func (Silent) Click() {}
func (Silent) Warn()  {}
func (Silent) Alarm() {}
