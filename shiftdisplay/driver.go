package shiftdisplay

import "time"

// send transmits one frame and keeps the slowest frame time seen.
func (d *Display) send(codes ...byte) error {
	begin := d.clock.Now()
	err := d.t.Send(d.order, codes...)
	if took := d.clock.Now().Sub(begin); took > d.cost {
		d.cost = took
	}
	return err
}

// Clear blanks the hardware without touching the buffer.
func (d *Display) Clear() error {
	if d.drive == Static {
		codes := make([]byte, len(d.buf.cells))
		for i := range codes {
			codes[i] = d.blank
		}
		return d.send(codes...)
	}
	return d.send(d.blank, d.blank)
}

// cell lights digit i alone.
func (d *Display) cell(i int) error {
	if d.swapped {
		return d.send(d.buf.cells[i], d.indexes[i])
	}
	return d.send(d.indexes[i], d.buf.cells[i])
}

// slot is the time one digit takes: its frames plus the POV slice.
func (d *Display) slot() time.Duration {
	if d.forceClear {
		return d.pov + 2*d.cost
	}
	return d.pov + d.cost
}

// scan lights every digit in turn for one POV slice. With a non-zero
// deadline it stops before a digit whose slot, plus the closing clear
// frame, would end past it; false means the pass was cut short.
func (d *Display) scan(deadline time.Time) (bool, error) {
	for i := range d.buf.cells {
		if !deadline.IsZero() && d.clock.Now().Add(d.slot()+d.cost).After(deadline) {
			return false, nil
		}
		if d.forceClear {
			if err := d.Clear(); err != nil {
				return false, err
			}
		}
		if err := d.cell(i); err != nil {
			return false, err
		}
		d.clock.Sleep(d.pov)
	}
	return true, nil
}

// frame is the static frame: the first register in the chain ends up
// holding the last cell, so cells go out in reverse.
func (d *Display) frame() []byte {
	n := len(d.buf.cells)
	codes := make([]byte, n)
	for i, c := range d.buf.cells {
		codes[n-1-i] = c
	}
	return codes
}

// Update pushes the buffer to the hardware once. A static display keeps
// showing it; a multiplexed one gets a single scanning pass and is
// cleared after it.
func (d *Display) Update() error {
	if d.drive == Static {
		return d.send(d.frame()...)
	}
	if _, err := d.scan(time.Time{}); err != nil {
		return err
	}
	return d.Clear()
}

// estimate is the time a full scanning pass is expected to take.
func (d *Display) estimate() time.Duration {
	pass := d.slot() * time.Duration(len(d.buf.cells))
	if d.pass > pass {
		return d.pass
	}
	return pass
}

// Show displays the buffer for about dur, then clears. A multiplexed
// display is scanned only while another full pass and the clear frame
// still fit in dur, so Show returns early rather than late. Frame times
// are learnt from the transport as it goes; until the first frame has been
// timed only the POV slices are budgeted.
func (d *Display) Show(dur time.Duration) error {
	if d.drive == Static {
		if err := d.Update(); err != nil {
			return err
		}
		d.clock.Sleep(dur)
		return d.Clear()
	}

	deadline := d.clock.Now().Add(dur)
	for {
		begin := d.clock.Now()
		if begin.Add(d.estimate() + d.cost).After(deadline) {
			break
		}
		full, err := d.scan(deadline)
		if err != nil {
			return err
		}
		if !full {
			break
		}
		if took := d.clock.Now().Sub(begin); took > d.pass {
			d.pass = took
		}
	}
	return d.Clear()
}
