package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var wg sync.WaitGroup

// startLoop runs one of the long-running loops on its own goroutine.
func startLoop(name string, loop func(runtimeConfig), rt runtimeConfig) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("starting %s", name)
		loop(rt)
	}()
}

// shiftclock -config={config file}
func main() {
	configFile := flag.String("config", "", "config file path")
	flag.Parse()

	settings, err := readSettings(*configFile)
	if err != nil {
		log.Fatal(err.Error())
	}

	console := settings.GetString(sTransport) == "console"
	if logFile := setupLogging(settings, console); logFile != nil {
		defer logFile.Close()
	}

	// dump them (debugging)
	log.Println(">>> Settings <<<")
	settings.Dump()
	log.Println(">>> Settings <<<")

	rt := initRuntime(settings, nil)
	d, audit, closer, err := openDisplay(settings, rt.clock)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer closer()
	rt.display = d
	rt.audit = audit

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case s := <-sigs:
			log.Printf("Got %v, shutting down", s)
			rt.comms.shutdown()
		case <-rt.comms.quit:
		}
	}()

	startLoop("runEffects", runEffects, rt)
	startLoop("runConfigService", runConfigService, rt)
	if console {
		startLoop("runConsole", runConsole, rt)
	}
	if len(buttonPins(settings)) > 0 {
		startLoop("runWatchButtons", runWatchButtons, rt)
	}
	if settings.GetString(sIPTime) != "" {
		startLoop("runNTPWatcher", runNTPWatcher, rt)
	}

	wg.Wait()
}
