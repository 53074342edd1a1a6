package components

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// TextComponent 文本元素
type TextComponent struct {
	Text        string     // 当前显示的文本（可含 '\n'）
	Face        text.Face  // 字体
	Color       color.RGBA // 文字颜色
	LineSpacing float64    // 行高（像素）
	WrapWidth   float64    // 自动换行宽度（像素），<= 0 表示不换行
}
