package display

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Canvas is a 1-bit frame buffer implementing Surface. It is the drawing half
// of OLED and is usable on its own off-device.
type Canvas struct {
	img *image1bit.VerticalLSB
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{img: image1bit.NewVerticalLSB(image.Rect(0, 0, w, h))}
}

func (c *Canvas) Image() *image1bit.VerticalLSB { return c.img }

func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) Clear() {
	clear(c.img.Pix)
}

func face(f Font) font.Face {
	if f == FontLarge {
		return inconsolata.Bold8x16
	}
	return basicfont.Face7x13
}

func (c *Canvas) DrawText(x, y int, f Font, s string) {
	if s == "" {
		return
	}
	fc := face(f)
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(image1bit.On),
		Face: fc,
		Dot:  fixed.P(x, y+fc.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

func (c *Canvas) TextWidth(f Font, s string) int {
	return font.MeasureString(face(f), s).Ceil()
}

func (c *Canvas) DrawIcon(x, y int, mask image.Image) {
	mb := mask.Bounds()
	r := image.Rect(x, y, x+mb.Dx(), y+mb.Dy())
	draw.DrawMask(c.img, r, image.NewUniform(image1bit.On), image.Point{}, mask, mb.Min, draw.Over)
}

func (c *Canvas) DrawRect(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	for i := x; i < x+w; i++ {
		c.img.SetBit(i, y, image1bit.On)
		c.img.SetBit(i, y+h-1, image1bit.On)
	}
	for j := y; j < y+h; j++ {
		c.img.SetBit(x, j, image1bit.On)
		c.img.SetBit(x+w-1, j, image1bit.On)
	}
}

// Present is a no-op for a bare canvas.
func (c *Canvas) Present() error { return nil }

// OLED is an SSD1306 panel on I2C.
type OLED struct {
	*Canvas
	dev *ssd1306.Dev
}

// OpenOLED initialises the controller. rotated flips the picture by 180°
// for panels mounted upside down.
func OpenOLED(bus i2c.Bus, w, h int, rotated bool) (*OLED, error) {
	opts := ssd1306.DefaultOpts
	opts.W = w
	opts.H = h
	opts.Rotated = rotated
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("ssd1306: %w", err)
	}
	return &OLED{Canvas: NewCanvas(w, h), dev: dev}, nil
}

func (o *OLED) Present() error {
	if err := o.dev.Draw(o.dev.Bounds(), o.img, image.Point{}); err != nil {
		return fmt.Errorf("ssd1306 draw: %w", err)
	}
	return nil
}

func (o *OLED) Halt() error {
	return o.dev.Halt()
}
