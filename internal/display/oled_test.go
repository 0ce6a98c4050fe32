package display

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"cloudpico-panel/internal/weather"
)

func litPixels(c *Canvas, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if c.Image().BitAt(x, y) == image1bit.On {
				n++
			}
		}
	}
	return n
}

func TestCanvas_sizeAndClear(t *testing.T) {
	c := NewCanvas(128, 64)
	w, h := c.Size()
	assert.Equal(t, 128, w)
	assert.Equal(t, 64, h)

	c.DrawRect(0, 0, 10, 10)
	require.NotZero(t, litPixels(c, c.Image().Bounds()))

	c.Clear()
	assert.Zero(t, litPixels(c, c.Image().Bounds()))
}

func TestCanvas_drawRectOutline(t *testing.T) {
	c := NewCanvas(128, 64)
	c.DrawRect(0, 0, 127, 63)

	assert.Equal(t, image1bit.On, c.Image().BitAt(0, 0))
	assert.Equal(t, image1bit.On, c.Image().BitAt(126, 62))
	assert.Equal(t, image1bit.Off, c.Image().BitAt(127, 63))
	assert.Equal(t, image1bit.Off, c.Image().BitAt(64, 32))
	assert.Equal(t, 2*127+2*63-4, litPixels(c, c.Image().Bounds()))
}

func TestCanvas_drawTextLightsPixels(t *testing.T) {
	c := NewCanvas(128, 64)
	c.DrawText(2, 20, FontSmall, "Temp: 21.0 C")

	assert.NotZero(t, litPixels(c, image.Rect(0, 20, 128, 35)))
	assert.Zero(t, litPixels(c, image.Rect(0, 0, 128, 18)), "text is anchored at its top edge")
}

func TestCanvas_clipsOffscreenDrawing(t *testing.T) {
	c := NewCanvas(128, 64)

	assert.NotPanics(t, func() {
		c.DrawText(-300, 0, FontLarge, "Local data")
		c.DrawText(500, 70, FontSmall, "gone")
		c.DrawIcon(-12, 0, IconMask(weather.IconSun))
		c.DrawIcon(140, 0, IconMask(weather.IconRain))
		c.DrawRect(-5, -5, 200, 200)
	})

	assert.NotZero(t, litPixels(c, image.Rect(0, 0, 12, 24)), "visible half of the icon is drawn")
}

func TestCanvas_textWidth(t *testing.T) {
	c := NewCanvas(128, 64)
	assert.Equal(t, 7*5, c.TextWidth(FontSmall, "Hello"))
	assert.Equal(t, 8*5, c.TextWidth(FontLarge, "Hello"))
	assert.Zero(t, c.TextWidth(FontSmall, ""))
}

func TestIconMask(t *testing.T) {
	assert.Nil(t, IconMask(weather.IconNone))
	for _, icon := range []weather.Icon{
		weather.IconSun, weather.IconPartlyCloudy, weather.IconFog,
		weather.IconRain, weather.IconSnow, weather.IconThunderstorm,
	} {
		m := IconMask(icon)
		require.NotNil(t, m, icon.String())
		assert.Equal(t, image.Rect(0, 0, 24, 24), m.Bounds(), icon.String())
	}
}

func TestMustMask_rejectsRaggedRows(t *testing.T) {
	assert.Panics(t, func() { mustMask("##", "#") })
	assert.Panics(t, func() { mustMask() })
}
