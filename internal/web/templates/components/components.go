//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate -path ..

package components

import "github.com/mcoot/pegjump/internal/model"

// GameBodyID is the element id the game fragment is swapped into
const GameBodyID = "game"

// fragmentTarget is the hx-target of every game action form
const fragmentTarget = "#" + GameBodyID

// GamePath returns the base path of a session's pages and actions
func GamePath(id model.SessionID) string {
	return "/game/" + string(id)
}
