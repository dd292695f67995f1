package main

import (
	"time"

	"dscheirer.com/shiftclock/shiftdisplay"
)

// display is the part of *shiftdisplay.Display the loops use.
type display interface {
	SetText(text string, align shiftdisplay.Alignment) bool
	SetTextAt(s int, text string, align shiftdisplay.Alignment) bool
	SetIntAt(s int, v int, align shiftdisplay.Alignment, zeros bool) bool
	SetRealAt(s int, v float64, places int, align shiftdisplay.Alignment, zeros bool) bool
	SetDotAt(s, i int, on bool)
	Codes() []byte
	Sections() []int
	Drive() shiftdisplay.Drive
	Update() error
	Show(d time.Duration) error
	Clear() error
}

type configService interface {
	launch(handler *apiHandler, addr string)
	stop()
}
