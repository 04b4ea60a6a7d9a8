package players

// Palette is the fixed set of ship colours handed out by join position.
var Palette = []int{
	0x4a9eff, // blue
	0xff6b6b, // red
	0x00ff88, // green
	0xffa500, // orange
	0x9b59b6, // purple
	0x00ffff, // cyan
}

// ColorAt returns the palette colour for the given join position, cycling
// when there are more players than colours.
func ColorAt(index int) int {
	if index < 0 {
		index = 0
	}
	return Palette[index%len(Palette)]
}

type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color int    `json:"color"`
	Ready bool   `json:"ready"`
	Score int    `json:"score"`
	Alive bool   `json:"alive"`
}
