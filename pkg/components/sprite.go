package components

import "github.com/hajimehoshi/ebiten/v2"

// SpriteComponent 存储实体的视觉表现(当前绘制的图像)
//
// AnchorX/AnchorY 为锚点（0~1），0.5/0.5 表示以图片中心对齐 PositionComponent，
// 背景和角色使用中心锚点，界面元素使用左上角锚点。
type SpriteComponent struct {
	Image   *ebiten.Image
	AnchorX float64
	AnchorY float64
}
