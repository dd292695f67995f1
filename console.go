package main

import (
	"fmt"
	"time"

	// keyboard and LEDs for sim mode
	"github.com/nsf/termbox-go"

	"dscheirer.com/shiftclock/sevenseg"
)

const dConsoleRedraw = 50 * time.Millisecond

const consoleHelp = "q quit  m mode  d dot  x clear"

// keyEffect maps a key press to the effect it asks for.
func keyEffect(ev termbox.Event) (displayEffect, bool) {
	if ev.Type != termbox.EventKey {
		return displayEffect{}, false
	}
	switch ev.Key {
	case termbox.KeyCtrlC, termbox.KeyEsc:
		return terminateEffect(), true
	}
	switch ev.Ch {
	case 'q':
		return terminateEffect(), true
	case 'm':
		return cycleEffect(), true
	case 'd':
		return dotEffect(), true
	case 'x':
		return clearEffect(), true
	}
	return displayEffect{}, false
}

func drawString(x, y int, s string, fg termbox.Attribute) {
	for i, ch := range s {
		termbox.SetCell(x+i, y, ch, fg, termbox.ColorDefault)
	}
}

func drawConsole(snap statusSnapshot) {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	rows := sevenseg.Render(snap.codes)
	for y, row := range rows {
		drawString(1, y+1, row, termbox.ColorRed|termbox.AttrBold)
	}
	drawString(1, len(rows)+2, fmt.Sprintf("%-8s %v", snap.mode, snap.sections), termbox.ColorDefault)
	drawString(1, len(rows)+3, consoleHelp, termbox.ColorDefault)
	termbox.Flush()
}

func pollKeys(rt runtimeConfig, keys chan<- termbox.Event) {
	for {
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventKey:
			select {
			case keys <- ev:
			case <-rt.comms.quit:
				return
			}
		case termbox.EventInterrupt, termbox.EventError:
			return
		}
	}
}

// runConsole draws the display on the terminal and turns key presses into
// effects.
func runConsole(rt runtimeConfig) {
	rt.logger = &ThreadLogger{name: "Console"}
	defer rt.logger.Println("exiting runConsole")

	if err := termbox.Init(); err != nil {
		rt.logger.Printf("Error: %v", err)
		return
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc)

	keys := make(chan termbox.Event, 1)
	go pollKeys(rt, keys)

	for {
		drawConsole(rt.status.get())

		select {
		case <-rt.comms.quit:
			termbox.Interrupt()
			return
		case ev := <-keys:
			if e, ok := keyEffect(ev); ok {
				select {
				case rt.comms.effects <- e:
				case <-rt.comms.quit:
				}
			}
		case <-rt.clock.After(dConsoleRedraw):
		}
	}
}
