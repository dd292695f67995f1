package shiftreg

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stianeikeland/go-rpio"
	"gotest.tools/v3/assert"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// records the level history of a bit-banged line
type logPin struct {
	name  string
	trace *[]string
	level bool
}

func (p *logPin) High() {
	p.level = true
	*p.trace = append(*p.trace, p.name+"1")
}

func (p *logPin) Low() {
	p.level = false
	*p.trace = append(*p.trace, p.name+"0")
}

func testRPIO() (*RPIO, *[]string) {
	trace := []string{}
	r := &RPIO{
		data:  &logPin{name: "d", trace: &trace},
		clock: &logPin{name: "c", trace: &trace},
		latch: &logPin{name: "l", trace: &trace},
	}
	return r, &trace
}

// sampled returns the data level at each rising clock edge
func sampled(trace []string) []int {
	out := []int{}
	data := 0
	for _, s := range trace {
		switch s {
		case "d0":
			data = 0
		case "d1":
			data = 1
		case "c1":
			out = append(out, data)
		}
	}
	return out
}

func TestRPIOShiftLSBFirst(t *testing.T) {
	r, trace := testRPIO()
	assert.NilError(t, r.Send(LSBFirst, 0x01))

	assert.DeepEqual(t, sampled(*trace), []int{1, 0, 0, 0, 0, 0, 0, 0})
	// latch wraps the frame
	assert.Equal(t, (*trace)[0], "l0")
	assert.Equal(t, (*trace)[len(*trace)-1], "l1")
}

func TestRPIOShiftMSBFirst(t *testing.T) {
	r, trace := testRPIO()
	assert.NilError(t, r.Send(MSBFirst, 0x01, 0xA0))

	assert.DeepEqual(t, sampled(*trace), []int{
		0, 0, 0, 0, 0, 0, 0, 1,
		1, 0, 1, 0, 0, 0, 0, 0,
	})
	// one latch pulse per frame
	latches := 0
	for _, s := range *trace {
		if s == "l1" {
			latches++
		}
	}
	assert.Equal(t, latches, 1)
}

func TestRPIOEnable(t *testing.T) {
	r, trace := testRPIO()
	// no enable line
	r.Enable(false)
	assert.Equal(t, len(*trace), 0)

	oe := &logPin{name: "e", trace: trace}
	r.enable = oe
	r.Enable(false)
	assert.Equal(t, oe.level, true)
	r.Enable(true)
	assert.Equal(t, oe.level, false)
}

func TestRPIOCloseBlanks(t *testing.T) {
	closed := 0
	closeGPIO = func() error {
		closed++
		return nil
	}
	defer func() { closeGPIO = rpio.Close }()

	r, trace := testRPIO()
	oe := &logPin{name: "e", trace: trace}
	r.enable = oe
	r.Enable(true)
	assert.NilError(t, r.Close())
	assert.Equal(t, oe.level, true)
	assert.Equal(t, (*trace)[len(*trace)-1], "e1")
	assert.Equal(t, closed, 1)

	closeGPIO = func() error { return errors.New("busy") }
	assert.Error(t, r.Close(), "shiftreg: close gpio: busy")
}

func TestOpenRPIOBadPins(t *testing.T) {
	_, err := OpenRPIO(Pins{Data: -1, Clock: 2, Latch: 3, Enable: -1})
	assert.ErrorContains(t, err, "shiftreg: bad pins")
}

func TestBitOrderString(t *testing.T) {
	assert.Equal(t, MSBFirst.String(), "MSB")
	assert.Equal(t, LSBFirst.String(), "LSB")
}

func TestAuditRecords(t *testing.T) {
	clock := clockwork.NewFakeClock()
	a := &Audit{Clock: clock}
	start := clock.Now()

	codes := []byte{0x80, 0xFC}
	assert.NilError(t, a.Send(LSBFirst, codes...))
	// the frame is a copy
	codes[0] = 0
	assert.DeepEqual(t, a.Last().Codes, []byte{0x80, 0xFC})
	assert.Equal(t, a.Last().Order, LSBFirst)
	assert.Equal(t, a.Last().At, start)
	assert.Equal(t, a.Last().String(), "LSB [80 fc]")

	a.Reset()
	assert.Equal(t, len(a.Frames), 0)
	assert.DeepEqual(t, a.Last(), Frame{})
}

// auto-advancing so Cost never blocks
type stepClock struct {
	clockwork.FakeClock
}

func (c stepClock) Sleep(d time.Duration) {
	c.Advance(d)
}

func TestAuditCostAndLimit(t *testing.T) {
	clock := stepClock{clockwork.NewFakeClock()}
	start := clock.Now()
	a := &Audit{Clock: clock, Cost: time.Millisecond, Limit: 2}

	for i := 0; i < 5; i++ {
		assert.NilError(t, a.Send(MSBFirst, byte(i)))
	}
	assert.Equal(t, len(a.Frames), 2)
	assert.Equal(t, a.Frames[0].Codes[0], byte(3))
	assert.Equal(t, a.Last().At, start.Add(5*time.Millisecond))
}

type bufLogger struct {
	lines []string
}

func (l *bufLogger) Printf(format string, v ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func TestAuditLogging(t *testing.T) {
	l := &bufLogger{}
	a := &Audit{Logger: l}
	a.Send(MSBFirst, 0x01)
	assert.DeepEqual(t, l.lines, []string{"Frame: MSB [01]"})

	a.Quiet = true
	a.Send(MSBFirst, 0x02)
	assert.Equal(t, len(l.lines), 1)
}

type fakeConn struct {
	writes [][]byte
	fail   error
}

func (c *fakeConn) String() string            { return "fake-spi" }
func (c *fakeConn) Duplex() conn.Duplex       { return conn.Half }
func (c *fakeConn) TxPackets(p []spi.Packet) error { return nil }
func (c *fakeConn) Tx(w, r []byte) error {
	if c.fail != nil {
		return c.fail
	}
	c.writes = append(c.writes, append([]byte(nil), w...))
	return nil
}

type fakePort struct {
	c    *fakeConn
	f    physic.Frequency
	mode spi.Mode
	bits int
}

func (p *fakePort) String() string                      { return "fake-port" }
func (p *fakePort) LimitSpeed(f physic.Frequency) error { return nil }
func (p *fakePort) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	p.f, p.mode, p.bits = f, mode, bits
	return p.c, nil
}

type fakeLatch struct {
	levels []gpio.Level
}

func (l *fakeLatch) String() string   { return "LATCH" }
func (l *fakeLatch) Halt() error      { return nil }
func (l *fakeLatch) Name() string     { return "LATCH" }
func (l *fakeLatch) Number() int      { return 8 }
func (l *fakeLatch) Function() string { return "Out" }
func (l *fakeLatch) Out(lv gpio.Level) error {
	l.levels = append(l.levels, lv)
	return nil
}
func (l *fakeLatch) PWM(duty gpio.Duty, f physic.Frequency) error { return nil }

func TestSPISend(t *testing.T) {
	port := &fakePort{c: &fakeConn{}}
	latch := &fakeLatch{}
	s, err := NewSPI(port, latch, 0)
	assert.NilError(t, err)
	assert.Equal(t, port.f, DefaultSPIFrequency)
	assert.Equal(t, port.mode, spi.Mode0)
	assert.Equal(t, port.bits, 8)

	assert.NilError(t, s.Send(LSBFirst, 0x80, 0x03))
	assert.NilError(t, s.Send(MSBFirst, 0x80))

	// LSB first is reversed for the MSB first port
	assert.DeepEqual(t, port.c.writes, [][]byte{{0x01, 0xC0}, {0x80}})
	assert.DeepEqual(t, latch.levels, []gpio.Level{
		gpio.Low,             // NewSPI
		gpio.Low, gpio.High, // frame 1
		gpio.Low, gpio.High, // frame 2
	})
	assert.Equal(t, s.String(), "shiftreg.SPI{fake-spi, latch:LATCH}")
}

func TestSPISendError(t *testing.T) {
	port := &fakePort{c: &fakeConn{fail: errors.New("bus gone")}}
	s, err := NewSPI(port, &fakeLatch{}, physic.MegaHertz)
	assert.NilError(t, err)

	err = s.Send(MSBFirst, 0x00)
	assert.ErrorContains(t, err, "shiftreg: spi write: bus gone")
}

func TestSPINoLatch(t *testing.T) {
	_, err := NewSPI(&fakePort{c: &fakeConn{}}, nil, 0)
	assert.ErrorContains(t, err, "latch pin is required")
}
