package shiftreg

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// Printer is the logging surface Audit writes to; *log.Logger satisfies it.
type Printer interface {
	Printf(format string, v ...interface{})
}

// Frame is one latched transmission.
type Frame struct {
	Order BitOrder
	Codes []byte
	At    time.Time
}

func (f Frame) String() string {
	parts := make([]string, len(f.Codes))
	for i, c := range f.Codes {
		parts[i] = fmt.Sprintf("%02x", c)
	}
	return fmt.Sprintf("%s [%s]", f.Order, strings.Join(parts, " "))
}

// Audit is a Transport that keeps every frame it is sent. It never fails.
type Audit struct {
	Frames []Frame
	// Limit keeps only the most recent frames when positive.
	Limit int
	// Clock stamps frames; nil leaves At zero.
	Clock clockwork.Clock
	// Cost is how long a frame takes on the wire, slept on Clock.
	Cost time.Duration
	// Logger gets one line per frame unless Quiet is set.
	Logger Printer
	Quiet  bool
}

// Send records the frame.
func (a *Audit) Send(order BitOrder, codes ...byte) error {
	f := Frame{Order: order, Codes: append([]byte(nil), codes...)}
	if a.Clock != nil {
		if a.Cost > 0 {
			a.Clock.Sleep(a.Cost)
		}
		f.At = a.Clock.Now()
	}
	a.Frames = append(a.Frames, f)
	if a.Limit > 0 && len(a.Frames) > a.Limit {
		a.Frames = a.Frames[len(a.Frames)-a.Limit:]
	}
	if a.Logger != nil && !a.Quiet {
		a.Logger.Printf("Frame: %v", f)
	}
	return nil
}

// Last returns the most recent frame, or an empty one.
func (a *Audit) Last() Frame {
	if len(a.Frames) == 0 {
		return Frame{}
	}
	return a.Frames[len(a.Frames)-1]
}

// Reset forgets all frames.
func (a *Audit) Reset() {
	a.Frames = nil
}

func (a *Audit) String() string {
	return fmt.Sprintf("shiftreg.Audit{%d frames}", len(a.Frames))
}
