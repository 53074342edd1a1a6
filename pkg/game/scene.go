package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a player scene (e.g., a running story).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Finisher 是一个可选接口，场景播放结束后 App 退出
type Finisher interface {
	Finished() bool
}
