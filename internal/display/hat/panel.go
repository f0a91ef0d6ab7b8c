package hat

import (
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/dannybellieveit/weather-display/internal/display"
)

// controller identifies a panel's driver chip.
type controller int

const (
	st7789 controller = iota
	st7735s
)

const (
	spiHz       = 10 * physic.MegaHertz
	writeChunk  = 4096
	backlightHz = physic.KiloHertz
)

// cmdSeq is one controller command with its parameters and an optional
// settle delay.
type cmdSeq struct {
	cmd  byte
	data []byte
	wait time.Duration
}

var st7789Init = []cmdSeq{
	{cmd: 0x36, data: []byte{0x70}}, // MADCTL
	{cmd: 0x3A, data: []byte{0x05}}, // COLMOD: 16bpp
	{cmd: 0xB2, data: []byte{0x0C, 0x0C, 0x00, 0x33, 0x33}},
	{cmd: 0xB7, data: []byte{0x35}},
	{cmd: 0xBB, data: []byte{0x19}},
	{cmd: 0xC0, data: []byte{0x2C}},
	{cmd: 0xC2, data: []byte{0x01}},
	{cmd: 0xC3, data: []byte{0x12}},
	{cmd: 0xC4, data: []byte{0x20}},
	{cmd: 0xC6, data: []byte{0x0F}},
	{cmd: 0xD0, data: []byte{0xA4, 0xA1}},
	{cmd: 0xE0, data: []byte{0xD0, 0x04, 0x0D, 0x11, 0x13, 0x2B, 0x3F, 0x54, 0x4C, 0x18, 0x0D, 0x0B, 0x1F, 0x23}},
	{cmd: 0xE1, data: []byte{0xD0, 0x04, 0x0C, 0x11, 0x13, 0x2C, 0x3F, 0x44, 0x51, 0x2F, 0x1F, 0x1F, 0x20, 0x23}},
	{cmd: 0x21},                               // INVON
	{cmd: 0x11, wait: 120 * time.Millisecond}, // SLPOUT
	{cmd: 0x29}, // DISPON
}

var st7735sInit = []cmdSeq{
	{cmd: 0x11, wait: 120 * time.Millisecond}, // SLPOUT
	{cmd: 0x21}, // INVON
	{cmd: 0xB1, data: []byte{0x05, 0x3A, 0x3A}},
	{cmd: 0xB2, data: []byte{0x05, 0x3A, 0x3A}},
	{cmd: 0xB3, data: []byte{0x05, 0x3A, 0x3A, 0x05, 0x3A, 0x3A}},
	{cmd: 0xB4, data: []byte{0x03}},
	{cmd: 0xC0, data: []byte{0x62, 0x02, 0x04}},
	{cmd: 0xC1, data: []byte{0xC0}},
	{cmd: 0xC2, data: []byte{0x0D, 0x00}},
	{cmd: 0xC3, data: []byte{0x8D, 0x6A}},
	{cmd: 0xC4, data: []byte{0x8D, 0xEE}},
	{cmd: 0xC5, data: []byte{0x0E}},
	{cmd: 0xE0, data: []byte{0x10, 0x0E, 0x02, 0x03, 0x0E, 0x07, 0x02, 0x07, 0x0A, 0x12, 0x27, 0x37, 0x00, 0x0D, 0x0E, 0x10}},
	{cmd: 0xE1, data: []byte{0x10, 0x0E, 0x03, 0x03, 0x0F, 0x06, 0x02, 0x08, 0x0A, 0x13, 0x26, 0x36, 0x00, 0x0D, 0x0E, 0x10}},
	{cmd: 0x3A, data: []byte{0x05}}, // COLMOD: 16bpp
	{cmd: 0x36, data: []byte{0xA8}}, // MADCTL: landscape
	{cmd: 0x29},                     // DISPON
}

// panel drives one ST77xx screen over SPI plus reset, data/command and
// backlight lines.
type panel struct {
	id   display.ID
	chip controller

	port spi.PortCloser
	conn spi.Conn
	rst  gpio.PinOut
	dc   gpio.PinOut
	bl   gpio.PinOut

	width, height int
	xOff, yOff    int

	pwmBroken bool
	logger    *zap.Logger
}

func openPanel(id display.ID, w wiring, logger *zap.Logger) (*panel, error) {
	port, err := spireg.Open(w.port)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", w.port, err)
	}
	conn, err := port.Connect(spiHz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("configuring %s: %w", w.port, err)
	}

	rst := gpioreg.ByName(w.rst)
	dc := gpioreg.ByName(w.dc)
	bl := gpioreg.ByName(w.bl)
	if rst == nil || dc == nil || bl == nil {
		port.Close()
		return nil, fmt.Errorf("pins %s/%s/%s not available", w.rst, w.dc, w.bl)
	}

	p := &panel{
		id:     id,
		chip:   w.chip,
		port:   port,
		conn:   conn,
		rst:    rst,
		dc:     dc,
		bl:     bl,
		width:  w.width,
		height: w.height,
		xOff:   w.xOff,
		yOff:   w.yOff,
		logger: logger,
	}
	if err := p.init(); err != nil {
		port.Close()
		return nil, err
	}
	return p, nil
}

func (p *panel) init() error {
	if err := p.reset(); err != nil {
		return fmt.Errorf("resetting: %w", err)
	}
	seq := st7789Init
	if p.chip == st7735s {
		seq = st7735sInit
	}
	for _, c := range seq {
		if err := p.command(c.cmd, c.data...); err != nil {
			return fmt.Errorf("init command %#02x: %w", c.cmd, err)
		}
		if c.wait > 0 {
			time.Sleep(c.wait)
		}
	}
	return p.clear()
}

func (p *panel) reset() error {
	if err := p.rst.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(20 * time.Millisecond)
	if err := p.rst.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(20 * time.Millisecond)
	if err := p.rst.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(120 * time.Millisecond)
	return nil
}

func (p *panel) command(cmd byte, data ...byte) error {
	if err := p.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := p.conn.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return p.writeData(data)
}

// writeData streams bytes with the data/command line high, chunked to
// stay under the SPI transfer size limit.
func (p *panel) writeData(data []byte) error {
	if err := p.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(data) > 0 {
		n := len(data)
		if n > writeChunk {
			n = writeChunk
		}
		if err := p.conn.Tx(data[:n], nil); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// setWindow selects the full visible area, offset into controller RAM
// where the glass does not start at the origin.
func (p *panel) setWindow() error {
	x0, x1 := p.xOff, p.xOff+p.width-1
	y0, y1 := p.yOff, p.yOff+p.height-1
	if err := p.command(0x2A, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := p.command(0x2B, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	return p.command(0x2C)
}

func (p *panel) push(frame *image.RGBA) error {
	if err := p.setWindow(); err != nil {
		return err
	}
	return p.writeData(frameBytes(frame))
}

func (p *panel) clear() error {
	if err := p.setWindow(); err != nil {
		return err
	}
	return p.writeData(make([]byte, p.width*p.height*2))
}

func (p *panel) setBacklight(percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if !p.pwmBroken {
		duty := gpio.Duty(int64(gpio.DutyMax) * int64(percent) / 100)
		err := p.bl.PWM(duty, backlightHz)
		if err == nil {
			return nil
		}
		p.pwmBroken = true
		p.logger.Warn("Backlight PWM unavailable, falling back to on/off",
			zap.String("display", string(p.id)),
			zap.Error(err))
	}
	if percent > 0 {
		return p.bl.Out(gpio.High)
	}
	return p.bl.Out(gpio.Low)
}

func (p *panel) close() error {
	err := p.clear()
	if blErr := p.setBacklight(0); err == nil {
		err = blErr
	}
	// DISPOFF then SLPIN, as the controller datasheets ask.
	if cmdErr := p.command(0x28); err == nil {
		err = cmdErr
	}
	if cmdErr := p.command(0x10); err == nil {
		err = cmdErr
	}
	if closeErr := p.port.Close(); err == nil {
		err = closeErr
	}
	return err
}

// frameBytes converts an RGBA frame to the big-endian RGB565 stream the
// ST77xx controllers expect.
func frameBytes(frame *image.RGBA) []byte {
	b := frame.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*2)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := frame.PixOffset(x, y)
			r, g, bl := frame.Pix[i], frame.Pix[i+1], frame.Pix[i+2]
			v := uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(bl)>>3
			out = append(out, byte(v>>8), byte(v))
		}
	}
	return out
}
