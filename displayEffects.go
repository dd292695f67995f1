package main

import (
	"bytes"
	"fmt"
	"time"

	"dscheirer.com/shiftclock/sevenseg"
	"dscheirer.com/shiftclock/shiftdisplay"
)

type displayEffect struct {
	id  int
	val interface{}
}

type displayPrint struct {
	s string
	d time.Duration
}

type valueKind int

const (
	valueInt valueKind = iota
	valueReal
	valueText
)

// displayValue is a value set from outside, kept until replaced or cleared.
type displayValue struct {
	kind   valueKind
	i      int
	f      float64
	places int
	s      string
	align  shiftdisplay.Alignment
	zeros  bool
}

func (v displayValue) String() string {
	switch v.kind {
	case valueInt:
		return fmt.Sprintf("%d", v.i)
	case valueReal:
		return fmt.Sprintf("%.*f", v.places, v.f)
	}
	return fmt.Sprintf("%q", v.s)
}

const (
	modeClock = iota
	modeCounter
	modeHold
)

var modeNames = map[int]string{
	modeClock:   "clock",
	modeCounter: "counter",
	modeHold:    "hold",
}

const (
	eClock = iota
	eCounter
	eCycle
	eDot
	eDebug
	ePrint
	eValue
	eClear
	eTerminate
)

// channel messaging functions
func clockEffect() displayEffect {
	return displayEffect{id: eClock}
}

func counterEffect() displayEffect {
	return displayEffect{id: eCounter}
}

func cycleEffect() displayEffect {
	return displayEffect{id: eCycle}
}

func dotEffect() displayEffect {
	return displayEffect{id: eDot}
}

func toggleDebugDump(on bool) displayEffect {
	return displayEffect{id: eDebug, val: on}
}

func printEffect(s string, d time.Duration) displayEffect {
	return displayEffect{id: ePrint, val: displayPrint{s: s, d: d}}
}

func valueEffect(v displayValue) displayEffect {
	return displayEffect{id: eValue, val: v}
}

func clearEffect() displayEffect {
	return displayEffect{id: eClear}
}

func terminateEffect() displayEffect {
	return displayEffect{id: eTerminate}
}

func toBool(val interface{}) (bool, error) {
	switch v := val.(type) {
	case bool:
		return v, nil
	default:
		return false, fmt.Errorf("Bad type: %T", v)
	}
}

func toPrint(val interface{}) (*displayPrint, error) {
	switch v := val.(type) {
	case displayPrint:
		return &v, nil
	default:
		return nil, fmt.Errorf("Bad type: %T", v)
	}
}

func toValue(val interface{}) (*displayValue, error) {
	switch v := val.(type) {
	case displayValue:
		return &v, nil
	default:
		return nil, fmt.Errorf("Bad type: %T", v)
	}
}

func replaceAtIndex(in string, r rune, i int) string {
	out := []rune(in)
	out[i] = r
	return string(out)
}

type effectsState struct {
	mode      int
	modeStart time.Time
	value     *displayValue
	dot       bool
	debug     bool
}

func (st *effectsState) setMode(mode int, now time.Time) {
	if mode != st.mode {
		st.modeStart = now
	}
	st.mode = mode
}

func drawValue(d display, s int, v *displayValue) bool {
	if v == nil {
		return d.SetTextAt(s, "", shiftdisplay.AlignDefault)
	}
	switch v.kind {
	case valueInt:
		return d.SetIntAt(s, v.i, v.align, v.zeros)
	case valueReal:
		return d.SetRealAt(s, v.f, v.places, v.align, v.zeros)
	default:
		return d.SetTextAt(s, v.s, v.align)
	}
}

// displayClock shows HHMM in the first section, the dot after the hours
// standing in for the colon.
func displayClock(rt runtimeConfig, now time.Time, blink bool) {
	width := rt.display.Sections()[0]
	t := now.Format("1504")
	if t[0] == '0' {
		t = replaceAtIndex(t, ' ', 0)
	}
	rt.display.SetTextAt(0, t, shiftdisplay.AlignRight)
	rt.display.SetDotAt(0, width-3, !blink || now.Second()%2 == 1)
}

func render(rt runtimeConfig, st *effectsState) {
	d := rt.display
	now := rt.clock.Now()
	sections := d.Sections()

	switch st.mode {
	case modeClock:
		displayClock(rt, now, rt.settings.GetBool(sBlink))
	case modeCounter:
		d.SetIntAt(0, int(now.Sub(st.modeStart)/time.Second), shiftdisplay.AlignRight, false)
	case modeHold:
		drawValue(d, 0, st.value)
	}
	if st.dot {
		d.SetDotAt(0, sections[0]-1, true)
	}

	if len(sections) > 1 {
		if st.mode == modeHold {
			d.SetTextAt(1, "", shiftdisplay.AlignDefault)
		} else {
			drawValue(d, 1, st.value)
		}
	}
}

// handleEffect applies one effect; true means the effect drew the display
// itself and this cycle's render is skipped.
func handleEffect(rt runtimeConfig, st *effectsState, e displayEffect) bool {
	now := rt.clock.Now()
	switch e.id {
	case eClock:
		st.setMode(modeClock, now)
	case eCounter:
		st.setMode(modeCounter, now)
	case eCycle:
		next := (st.mode + 1) % len(modeNames)
		if next == modeHold && st.value == nil {
			next = modeClock
		}
		st.setMode(next, now)
		rt.logger.Printf("Mode: %s", modeNames[st.mode])
	case eDot:
		st.dot = !st.dot
	case eDebug:
		v, _ := toBool(e.val)
		st.debug = v
		if rt.audit != nil {
			rt.audit.Quiet = !v
		}
	case ePrint:
		v, err := toPrint(e.val)
		if err != nil {
			rt.logger.Printf("Error: %v", err)
			return false
		}
		rt.logger.Printf("Print: %s (%v)", v.s, v.d)
		if !rt.display.SetText(v.s, shiftdisplay.AlignDefault) {
			rt.logger.Printf("Print: %q does not fit", v.s)
		}
		publish(rt, st, "print")
		if err := refreshDisplay(rt, v.d); err != nil {
			rt.logger.Printf("Error: %v", err)
		}
		// don't immediately draw the mode over it
		return true
	case eValue:
		v, err := toValue(e.val)
		if err != nil {
			rt.logger.Printf("Error: %v", err)
			return false
		}
		rt.logger.Printf("Value: %v", v)
		st.value = v
		if len(rt.display.Sections()) == 1 {
			st.setMode(modeHold, now)
		}
	case eClear:
		st.value = nil
		if st.mode == modeHold {
			st.setMode(modeClock, now)
		}
	default:
		rt.logger.Printf("Unhandled %d", e.id)
	}
	return false
}

// publish makes the buffer visible to the status readers and dumps it to
// the log when it changed and debug is on.
func publish(rt runtimeConfig, st *effectsState, mode string) {
	codes := rt.display.Codes()
	prev := rt.status.get()
	rt.status.set(statusSnapshot{
		mode:     mode,
		codes:    codes,
		sections: rt.display.Sections(),
		updated:  rt.clock.Now(),
	})
	if st.debug && !bytes.Equal(prev.codes, codes) {
		for _, row := range sevenseg.Render(codes) {
			rt.logger.Println(row)
		}
	}
}

// refreshDisplay keeps the buffer lit for d: a multiplexed display has to be
// scanned the whole time, a static one holds its last frame.
func refreshDisplay(rt runtimeConfig, d time.Duration) error {
	if rt.display.Drive() == shiftdisplay.Multiplexed {
		return rt.display.Show(d)
	}
	err := rt.display.Update()
	rt.clock.Sleep(d)
	return err
}

func runEffects(rt runtimeConfig) {
	rt.logger = &ThreadLogger{name: "Effects"}
	defer rt.logger.Println("exiting runEffects")

	refresh := rt.settings.GetDuration(sRefresh)
	st := &effectsState{
		mode:      modeClock,
		modeStart: rt.clock.Now(),
		debug:     rt.settings.GetBool(sDebug),
	}

	for {
		skip := false

		select {
		case <-rt.comms.quit:
			rt.logger.Println("quit from runEffects")
			rt.display.Clear()
			return
		case e := <-rt.comms.effects:
			if e.id == eTerminate {
				rt.logger.Println("terminate")
				rt.display.Clear()
				rt.comms.shutdown()
				return
			}
			skip = handleEffect(rt, st, e)
		default:
		}

		if skip {
			continue
		}

		render(rt, st)
		publish(rt, st, modeNames[st.mode])
		if err := refreshDisplay(rt, refresh); err != nil {
			rt.logger.Printf("Error: %v", err)
		}
	}
}
