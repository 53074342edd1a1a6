package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// advanceKeys 触发推进的按键
var advanceKeys = []ebiten.Key{ebiten.KeySpace, ebiten.KeyEnter, ebiten.KeyNumpadEnter}

// PollAdvance 检查本帧是否发生推进输入
// 同时支持触摸、鼠标左键和按键，优先检测触摸
func PollAdvance() bool {
	// 触摸（移动设备）
	if len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		return true
	}

	// 鼠标（桌面设备）
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}

	for _, key := range advanceKeys {
		if inpututil.IsKeyJustPressed(key) {
			return true
		}
	}
	return false
}

// IsSkipHeld 跳过键（Ctrl）是否按住
func IsSkipHeld() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl)
}

// IsAutoToggled 本帧是否按下自动模式切换键（A）
func IsAutoToggled() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyA)
}
