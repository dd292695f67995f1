package main

import (
	"sync"

	"github.com/stianeikeland/go-rpio"
)

// noButtons reads button states set by the test instead of gpio pins.
type noButtons struct {
	mu     sync.Mutex
	pins   map[string]buttonPin
	states map[string]rpio.State
}

func (nb *noButtons) readButtons(rt runtimeConfig) (map[string]rpio.State, error) {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	ret := make(map[string]rpio.State, len(nb.states))
	for k, v := range nb.states {
		ret[k] = v
	}
	return ret, nil
}

func (nb *noButtons) setupButtons(pins map[string]buttonPin, rt runtimeConfig) error {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	nb.pins = pins
	nb.states = make(map[string]rpio.State)
	for k := range pins {
		nb.states[k] = nb.level(k, false)
	}
	return nil
}

func (nb *noButtons) closeButtons() {
}

func (nb *noButtons) level(name string, pressed bool) rpio.State {
	if nb.pins[name].pullup == pressed {
		return rpio.Low
	}
	return rpio.High
}

func (nb *noButtons) press(name string) {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	nb.states[name] = nb.level(name, true)
}

func (nb *noButtons) release(name string) {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	nb.states[name] = nb.level(name, false)
}
