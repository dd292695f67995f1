package main

import (
	"time"

	"github.com/stianeikeland/go-rpio"
)

const (
	dButtonSleep = 30 * time.Millisecond
	// holding the mode button this long clears the value instead
	dLongPress = 2 * time.Second
)

// check the press state, and return the press state
type pressState struct {
	pressed bool      // is it pressed?
	start   time.Time // when did this state start?
	count   int       // # of whole seconds since it started
	changed bool      // did the above data change at all?
}

type buttonPin struct {
	pinNum int
	pullup bool
}

type button struct {
	button buttonPin
	rpin   rpio.Pin
	state  pressState
	held   time.Duration // how long the last press lasted
}

type buttons interface {
	setupButtons(pins map[string]buttonPin, rt runtimeConfig) error
	readButtons(rt runtimeConfig) (map[string]rpio.State, error)
	closeButtons()
}

// buttonPins lists the configured buttons; a negative pin is not wired.
func buttonPins(s configSettings) map[string]buttonPin {
	pins := make(map[string]buttonPin)
	for _, k := range []string{sModeBtn, sDotBtn} {
		if n := s.GetInt(k); n >= 0 {
			pins[k] = buttonPin{pinNum: n, pullup: s.GetBool(sBtnPullup)}
		}
	}
	return pins
}

func checkButtons(rt runtimeConfig, btns map[string]button) (map[string]button, error) {
	now := rt.clock.Now()
	ret := make(map[string]button, len(btns))

	results, err := rt.buttons.readButtons(rt)
	if err != nil {
		return btns, err
	}

	for k, v := range btns {
		btn := v
		btn.state.changed = false

		// pullup: grounded is pressed
		down := results[k] == rpio.High
		if v.button.pullup {
			down = results[k] == rpio.Low
		}

		if down {
			if btn.state.pressed {
				// no button state change, update the duration count
				btn.state.count = int(now.Sub(btn.state.start) / time.Second)
				btn.state.changed = v.state.count != btn.state.count
			} else {
				// just noticed it was pressed
				btn.state = pressState{pressed: true, start: now, changed: true}
			}
		} else if btn.state.pressed {
			// just noticed the release
			btn.held = now.Sub(btn.state.start)
			btn.state = pressState{pressed: false, start: now, changed: true}
		}
		if btn.state.changed {
			rt.logger.Printf("button changed state: %+v", btn.state)
		}
		ret[k] = btn
	}

	return ret, nil
}

// buttonEffect is what a button state change asks the display to do, if
// anything: the mode button cycles on release or clears after a long press,
// the dot button toggles the dot when pushed.
func buttonEffect(name string, btn button) (displayEffect, bool) {
	switch name {
	case sModeBtn:
		if btn.state.pressed {
			return displayEffect{}, false
		}
		if btn.held >= dLongPress {
			return clearEffect(), true
		}
		return cycleEffect(), true
	case sDotBtn:
		if btn.state.pressed && btn.state.count == 0 {
			return dotEffect(), true
		}
	}
	return displayEffect{}, false
}

func runWatchButtons(rt runtimeConfig) {
	rt.logger = &ThreadLogger{name: "Buttons"}
	defer rt.logger.Println("exiting runWatchButtons")

	pins := buttonPins(rt.settings)
	if err := rt.buttons.setupButtons(pins, rt); err != nil {
		rt.logger.Println(err.Error())
		return
	}
	defer rt.buttons.closeButtons()

	btns := make(map[string]button, len(pins))
	now := rt.clock.Now()
	for k, v := range pins {
		btns[k] = button{button: v, state: pressState{start: now}}
	}

	for {
		select {
		case <-rt.comms.quit:
			rt.logger.Println("quit from runWatchButtons")
			return
		default:
		}

		var err error
		btns, err = checkButtons(rt, btns)
		if err != nil {
			rt.logger.Printf("Error: %v", err)
			return
		}

		for k, v := range btns {
			if !v.state.changed {
				continue
			}
			if e, ok := buttonEffect(k, v); ok {
				select {
				case rt.comms.effects <- e:
				case <-rt.comms.quit:
				}
			}
		}

		rt.clock.Sleep(dButtonSleep)
	}
}
