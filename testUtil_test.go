package main

import (
	"log"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"gotest.tools/v3/assert"
)

const dTestRefresh = 100 * time.Millisecond

func logCaller(pc uintptr, file string, line int, ok bool) {
	if !ok {
		file = "?"
		line = 0
	}

	fn := runtime.FuncForPC(pc)
	var fnName string
	if fn == nil {
		fnName = "?()"
	} else {
		dotName := filepath.Ext(fn.Name())
		fnName = strings.TrimLeft(dotName, ".") + "()"
	}

	log.Printf("Starting %s (%s:%d)", fnName, filepath.Base(file), line)
}

func testSettings() *settings {
	s := defaultSettings()
	s.settings[sTransport] = "log"
	s.settings[sStaticDrive] = true
	s.settings[sRefresh] = dTestRefresh
	s.settings[sSecret] = "sekrit"
	return s
}

// testRuntimeWith builds a runtime over the log transport with a static
// display, so the effects loop sleeps once per refresh on the fake clock.
func testRuntimeWith(t *testing.T, tweak func(s *settings)) (runtimeConfig, clockwork.FakeClock, commChannels) {
	logCaller(runtime.Caller(1))

	s := testSettings()
	if tweak != nil {
		tweak(s)
	}
	clock := clockwork.NewFakeClock()
	d, audit, _, err := openDisplay(s, clock)
	assert.NilError(t, err)

	rt := runtimeConfig{
		comms:         initCommChannels(),
		clock:         clock,
		settings:      s,
		display:       d,
		audit:         audit,
		status:        &displayStatus{},
		configService: newTestConfigService(),
		buttons:       &noButtons{},
		ntpCheck:      &testNtpChecker{},
		logger:        &ThreadLogger{name: "Test"},
	}
	return rt, clock, rt.comms
}

func testRuntime(t *testing.T) (runtimeConfig, clockwork.FakeClock, commChannels) {
	return testRuntimeWith(t, nil)
}

// testBlockDuration advances the clock by total in steps, waiting for the
// loop under test to be asleep before every step and after the last one.
func testBlockDuration(clock clockwork.FakeClock, step, total time.Duration) {
	for total > 0 {
		clock.BlockUntil(1)
		clock.Advance(step)
		total -= step
	}
	clock.BlockUntil(1)
}

func testQuit(rt runtimeConfig) {
	rt.comms.shutdown()
	// wake a sleeping loop so it sees the quit
	if fc, ok := rt.clock.(clockwork.FakeClock); ok {
		fc.Advance(time.Hour)
	}
}

func testShown(rt runtimeConfig) string {
	return displayText(rt.status.get().codes)
}

func effectRead(t *testing.T, c chan displayEffect) displayEffect {
	select {
	case e := <-c:
		return e
	default:
		assert.Assert(t, false, "Nothing to read from effect channel")
	}
	return displayEffect{}
}

func effectNoRead(t *testing.T, c chan displayEffect) {
	select {
	case e := <-c:
		assert.Assert(t, false, "Got an unexpected value from effect channel: %v", e)
	default:
	}
}
