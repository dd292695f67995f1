package main

import "time"

const (
	dNTPCheckSleep = time.Hour
	dNTPMaxSkew    = 5 * time.Minute
	dNeedSyncShow  = 5 * time.Second
	sNeedSync      = "SYNC"
)

// runNTPWatcher flashes a message when the local clock has drifted from
// the time service.
func runNTPWatcher(rt runtimeConfig) {
	rt.logger = &ThreadLogger{name: "NTPWatcher"}
	defer rt.logger.Println("Exiting runNTPWatcher")

	for {
		select {
		case <-rt.comms.quit:
			rt.logger.Println("quit from runNTPWatcher")
			return
		default:
		}

		ipTime, err := rt.ntpCheck.getIPDateTime(rt)
		if err != nil {
			rt.logger.Printf("Error: %v", err)
		} else if diff := rt.clock.Now().Sub(ipTime); diff > dNTPMaxSkew || diff < -dNTPMaxSkew {
			rt.logger.Printf("Clock is off by %v", diff)
			select {
			case rt.comms.effects <- printEffect(sNeedSync, dNeedSyncShow):
			case <-rt.comms.quit:
			}
		}
		rt.clock.Sleep(dNTPCheckSleep)
	}
}
