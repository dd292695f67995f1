// utility functions
package main

import (
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"dscheirer.com/shiftclock/sevenseg"
	"dscheirer.com/shiftclock/shiftreg"
)

type commChannels struct {
	quit      chan struct{}
	quitOnce  *sync.Once
	effects   chan displayEffect
	configSvc chan configSvcMsg
}

type runtimeConfig struct {
	comms         commChannels
	clock         clockwork.Clock
	settings      configSettings
	display       display
	audit         *shiftreg.Audit // log and console transports only
	status        *displayStatus
	configService configService
	buttons       buttons
	ntpCheck      ntpCheck
	logger        flogger
}

func initCommChannels() commChannels {
	return commChannels{
		quit:      make(chan struct{}),
		quitOnce:  &sync.Once{},
		effects:   make(chan displayEffect, 10),
		configSvc: make(chan configSvcMsg, 1),
	}
}

func initRuntime(s configSettings, d display) runtimeConfig {
	return runtimeConfig{
		comms:         initCommChannels(),
		clock:         clockwork.NewRealClock(),
		settings:      s,
		display:       d,
		status:        &displayStatus{},
		configService: &httpConfigService{},
		buttons:       &rpioButtons{},
		ntpCheck:      &ntpChecker{},
		logger:        &ThreadLogger{name: "Main"},
	}
}

// shutdown tells every loop to exit; safe to call more than once.
func (c commChannels) shutdown() {
	c.quitOnce.Do(func() {
		close(c.quit)
	})
}

// displayStatus is what the loops outside runEffects know about the
// display: runEffects owns the display itself.
type displayStatus struct {
	mu   sync.Mutex
	snap statusSnapshot
}

type statusSnapshot struct {
	mode     string
	codes    []byte
	sections []int
	updated  time.Time
}

func (s *displayStatus) set(snap statusSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

func (s *displayStatus) get() statusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snap
	snap.codes = append([]byte(nil), snap.codes...)
	snap.sections = append([]int(nil), snap.sections...)
	return snap
}

// displayText reads codes back as characters, a '.' after each lit dot
// and '*' for codes that are not a character.
func displayText(codes []byte) string {
	var b strings.Builder
	for _, c := range codes {
		ch, ok := sevenseg.Decode(c)
		if !ok {
			ch = '*'
		}
		b.WriteByte(ch)
		if c&sevenseg.Dot != 0 {
			b.WriteByte('.')
		}
	}
	return b.String()
}
