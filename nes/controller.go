package nes

// Button is one of the eight inputs on a standard controller, in the order
// the shift register reports them.
type Button byte

const (
	A Button = iota
	B
	Select
	Start
	Up
	Down
	Left
	Right
)

// KeyState reports whether a button is currently held. The host supplies
// one; it is consulted when the strobe falls (and live while it is high).
type KeyState func(Button) bool

// controller models the standard pad's strobe-latched shift register. The
// falling edge of the strobe snapshots all eight buttons; reads then pop
// them out one bit at a time, A first.
type controller struct {
	keys   KeyState
	strobe bool

	// state holds the latched bits with A last, so reads pop from the end.
	state []bool
}

func newController(keys KeyState) *controller {
	if keys == nil {
		keys = func(Button) bool { return false }
	}
	return &controller{keys: keys}
}

func (c *controller) setStrobe(strobe bool) {
	if c.strobe == strobe {
		return
	}
	c.strobe = strobe

	if strobe {
		return
	}

	// latch on the falling edge
	c.state = c.state[:0]
	for i := int(Right); i >= int(A); i-- {
		c.state = append(c.state, c.keys(Button(i)))
	}
}

func (c *controller) read() byte {
	if c.strobe {
		// while the strobe is high every read reports the live A button
		if c.keys(A) {
			return 1
		}
		return 0
	}

	if len(c.state) == 0 {
		// drained; real pads report 0 or 1 here depending on revision
		return 0
	}

	v := c.state[len(c.state)-1]
	c.state = c.state[:len(c.state)-1]
	if v {
		return 1
	}
	return 0
}
