package pages

import (
	"github.com/mcoot/pegjump/internal/web/templates/components"
	"github.com/mcoot/pegjump/internal/web/templates/layout"
)

// HomeData is the data for the home page
type HomeData struct {
	layout.PageData
}

// GameData is the data for the game page
type GameData struct {
	layout.PageData
	Game components.GameView
}

// EventsPath is the session's SSE stream
func (d GameData) EventsPath() string {
	return d.Game.ActionPath("events")
}
