package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"dscheirer.com/shiftclock/sevenseg"
	"dscheirer.com/shiftclock/shiftdisplay"
	"dscheirer.com/shiftclock/shiftreg"
)

const dStep = 250 * time.Millisecond

func envInt(name string, def int) int {
	s, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		log.Fatalf("%s=%s is not a number", name, s)
	}
	return int(v)
}

// segcheck lights every segment of every cell in turn, then all of them.
// DATA, CLOCK, LATCH and OE are the pin numbers (OE is optional), CELLS the
// number of digits; set ANODE and STATIC to match the wiring.
func main() {
	pins := shiftreg.Pins{
		Data:   envInt("DATA", 17),
		Clock:  envInt("CLOCK", 27),
		Latch:  envInt("LATCH", 22),
		Enable: envInt("OE", -1),
	}
	opts := &shiftdisplay.Opts{Size: envInt("CELLS", 4)}
	if _, ok := os.LookupEnv("ANODE"); ok {
		opts.Polarity = shiftdisplay.CommonAnode
	}
	if _, ok := os.LookupEnv("STATIC"); ok {
		opts.Drive = shiftdisplay.Static
	}

	r, err := shiftreg.OpenRPIO(pins)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer r.Close()

	d, err := shiftdisplay.New(r, opts)
	if err != nil {
		log.Fatal(err.Error())
	}
	log.Printf("Checking %v", d)

	blank := make([]byte, d.Len())
	for cell := 0; cell < d.Len(); cell++ {
		for bit := 7; bit >= 0; bit-- {
			d.SetCodes(blank)
			d.SetCustom(cell, 1<<uint(bit))
			log.Printf("cell %d segment %c", cell, "pgfedcba"[bit])
			if err := d.Show(dStep); err != nil {
				log.Fatal(err.Error())
			}
		}
	}

	all := make([]byte, d.Len())
	for i := range all {
		all[i] = sevenseg.Encode('8') | sevenseg.Dot
	}
	d.SetCodes(all)
	log.Println("all segments")
	if err := d.Show(4 * dStep); err != nil {
		log.Fatal(err.Error())
	}
	if pins.Enable >= 0 {
		// dark for a while, then lit again
		log.Println("output enable off")
		r.Enable(false)
		if err := d.Show(4 * dStep); err != nil {
			log.Fatal(err.Error())
		}
		log.Println("output enable on")
		r.Enable(true)
		if err := d.Show(4 * dStep); err != nil {
			log.Fatal(err.Error())
		}
	}
	d.Clear()
}
