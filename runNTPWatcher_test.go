package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"gotest.tools/v3/assert"
)

/* things that runNTPWatcher does:

checks clock time against internet availble time (TZ by IP)
displays message when time is off by more than 5m

*/

type testNtpChecker struct {
	mu      sync.Mutex
	curtime time.Time
	err     error
}

func (ntp *testNtpChecker) set(t time.Time, err error) {
	ntp.mu.Lock()
	defer ntp.mu.Unlock()
	ntp.curtime = t
	ntp.err = err
}

func (ntp *testNtpChecker) getIPDateTime(rt runtimeConfig) (time.Time, error) {
	ntp.mu.Lock()
	defer ntp.mu.Unlock()
	return ntp.curtime, ntp.err
}

func doTestCheckTime(t *testing.T, offset time.Duration, err error, want int) {
	rt, clock, comms := testRuntime(t)
	ntp := rt.ntpCheck.(*testNtpChecker)
	ntp.set(clock.Now().Add(offset), err)

	go runNTPWatcher(rt)
	clock.BlockUntil(1)

	n := 0
	for len(comms.effects) > 0 {
		e := effectRead(t, comms.effects)
		assert.Equal(t, e, printEffect(sNeedSync, dNeedSyncShow))
		n++
	}
	assert.Equal(t, n, want)

	testQuit(rt)
}

func TestCheckTimeOK(t *testing.T) {
	doTestCheckTime(t, 0, nil, 0)
}

func TestCheckTimeAhead(t *testing.T) {
	doTestCheckTime(t, time.Hour, nil, 1)
}

func TestCheckTimeBehind(t *testing.T) {
	doTestCheckTime(t, -time.Hour, nil, 1)
}

func TestCheckTimeOffALittle(t *testing.T) {
	doTestCheckTime(t, -time.Second, nil, 0)
}

func TestCheckTimeFetchFails(t *testing.T) {
	doTestCheckTime(t, time.Hour, errors.New("no network"), 0)
}

func TestCheckTimeOffThenOK(t *testing.T) {
	rt, clock, comms := testRuntime(t)
	ntp := rt.ntpCheck.(*testNtpChecker)
	ntp.set(clock.Now().Add(6*time.Minute), nil)

	go runNTPWatcher(rt)
	clock.BlockUntil(1)
	assert.Equal(t, effectRead(t, comms.effects).id, ePrint)

	// the clock got fixed before the next check
	ntp.set(clock.Now().Add(dNTPCheckSleep), nil)
	testBlockDuration(clock, dNTPCheckSleep, dNTPCheckSleep)
	effectNoRead(t, comms.effects)

	testQuit(rt)
}

func TestGetIPDateTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ip" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"abbreviation":"EST","datetime":"2020-02-14T12:34:56.123456-05:00","timezone":"America/New_York"}`)
	}))
	defer srv.Close()

	rt, _, _ := testRuntimeWith(t, func(s *settings) {
		s.settings[sIPTime] = srv.URL + "/api/ip"
	})
	ntp := &ntpChecker{}
	got, err := ntp.getIPDateTime(rt)
	assert.NilError(t, err)
	want := time.Date(2020, 2, 14, 17, 34, 56, 123456000, time.UTC)
	assert.Assert(t, got.Equal(want), "got %v", got)

	rt.settings.(*settings).settings[sIPTime] = srv.URL + "/nope"
	_, err = ntp.getIPDateTime(rt)
	assert.ErrorContains(t, err, "404")
}
