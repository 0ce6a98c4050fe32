package display

import "image"

type Font int

const (
	FontSmall Font = iota
	FontLarge
)

// Surface is the drawing target of one frame. Coordinates may fall outside
// the panel; implementations clip. Text is positioned by its top-left corner.
type Surface interface {
	Size() (w, h int)
	Clear()
	DrawText(x, y int, f Font, s string)
	TextWidth(f Font, s string) int
	// DrawIcon paints the opaque pixels of mask with its top-left corner at x,y.
	DrawIcon(x, y int, mask image.Image)
	// DrawRect outlines a w×h rectangle whose top-left corner is x,y.
	DrawRect(x, y, w, h int)
	Present() error
}
