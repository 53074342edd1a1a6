package components

// PositionComponent 实体在屏幕坐标系中的位置（锚点所在位置）
type PositionComponent struct {
	X float64
	Y float64
}
