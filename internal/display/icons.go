package display

import (
	"fmt"
	"image"
	"image/color"

	"cloudpico-panel/internal/weather"
)

// Icons are 24x24 masks; '#' marks a lit pixel.
var (
	sunMask = mustMask(
		"...........##...........",
		"...........##...........",
		"...#.......##.......#...",
		"....#..............#....",
		".....#....####....#.....",
		"........########........",
		".......##########.......",
		"......############......",
		"......############......",
		".....##############.....",
		"##...##############...##",
		"##...##############...##",
		".....##############.....",
		"......############......",
		"......############......",
		".......##########.......",
		"........########........",
		".....#....####....#.....",
		"....#..............#....",
		"...#.......##.......#...",
		"...........##...........",
		"...........##...........",
		"........................",
		"........................",
	)
	partlyCloudyMask = mustMask(
		".......#................",
		"...#...#...#............",
		"....#.....#.............",
		"......###...............",
		".....#####..............",
		"##..#######.............",
		"....#######.............",
		".....#####..######......",
		"......###..########.....",
		"....#.....##########....",
		"...#.....############...",
		"........##############..",
		".......################.",
		".....##################.",
		"....###################.",
		"...####################.",
		"...####################.",
		"...####################.",
		"....##################..",
		".....################...",
		"........................",
		"........................",
		"........................",
		"........................",
	)
	fogMask = mustMask(
		"........................",
		"........................",
		"........................",
		"..####################..",
		"..####################..",
		"........................",
		"........................",
		".....################...",
		".....################...",
		"........................",
		"........................",
		"..####################..",
		"..####################..",
		"........................",
		"........................",
		"....#################...",
		"....#################...",
		"........................",
		"........................",
		"..####################..",
		"..####################..",
		"........................",
		"........................",
		"........................",
	)
	rainMask = mustMask(
		"........................",
		".........######.........",
		".......##########.......",
		"......############......",
		"....################....",
		"...##################...",
		"..####################..",
		"..####################..",
		"..####################..",
		"...##################...",
		"....################....",
		"........................",
		".....#.....#.....#......",
		"....#.....#.....#.......",
		"...#.....#.....#........",
		"........................",
		".......#.....#.....#....",
		"......#.....#.....#.....",
		".....#.....#.....#......",
		"........................",
		"....#.....#.....#.......",
		"...#.....#.....#........",
		"........................",
		"........................",
	)
	snowMask = mustMask(
		"...........##...........",
		".......#...##...#.......",
		"........#..##..#........",
		".........#.##.#.........",
		"...#......####......#...",
		"....#......##......#....",
		".....#.....##.....#.....",
		"......#....##....#......",
		".......#...##...#.......",
		"........#..##..#........",
		".........#.##.#.........",
		".####################...",
		".####################...",
		".........#.##.#.........",
		"........#..##..#........",
		".......#...##...#.......",
		"......#....##....#......",
		".....#.....##.....#.....",
		"....#......##......#....",
		"...#......####......#...",
		".........#.##.#.........",
		"........#..##..#........",
		".......#...##...#.......",
		"...........##...........",
	)
	thunderstormMask = mustMask(
		"........................",
		".........######.........",
		".......##########.......",
		"......############......",
		"....################....",
		"...##################...",
		"..####################..",
		"..####################..",
		"..####################..",
		"...##################...",
		"....################....",
		"...........####.........",
		"..........####..........",
		".........####...........",
		"........##########......",
		"...........#####........",
		"..........####..........",
		".........###............",
		"........##..............",
		".......#................",
		"........................",
		"........................",
		"........................",
		"........................",
	)
	wifiMask = mustMask(
		"........................",
		"........................",
		".......##########.......",
		"....################....",
		"..#####..........#####..",
		".####..............####.",
		"##.....##########.....##",
		"......##############....",
		"....####........####....",
		"...##..............##...",
		"........................",
		"........########........",
		".......##########.......",
		"......##........##......",
		"........................",
		"..........####..........",
		".........######.........",
		".........######.........",
		"..........####..........",
		"........................",
		"........................",
		"........................",
		"........................",
		"........................",
	)
)

// IconMask returns the mask for icon, or nil for IconNone.
func IconMask(icon weather.Icon) image.Image {
	switch icon {
	case weather.IconSun:
		return sunMask
	case weather.IconPartlyCloudy:
		return partlyCloudyMask
	case weather.IconFog:
		return fogMask
	case weather.IconRain:
		return rainMask
	case weather.IconSnow:
		return snowMask
	case weather.IconThunderstorm:
		return thunderstormMask
	default:
		return nil
	}
}

func mustMask(rows ...string) *image.Alpha {
	if len(rows) == 0 {
		panic("display: empty mask")
	}
	w := len(rows[0])
	m := image.NewAlpha(image.Rect(0, 0, w, len(rows)))
	for y, row := range rows {
		if len(row) != w {
			panic(fmt.Sprintf("display: mask row %d has width %d, want %d", y, len(row), w))
		}
		for x := 0; x < w; x++ {
			if row[x] == '#' {
				m.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}
	return m
}
