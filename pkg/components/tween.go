package components

import (
	"github.com/decker502/vnovel/pkg/future"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenProperty 补间动画作用的属性
type TweenProperty int

const (
	// TweenAlpha 透明度
	TweenAlpha TweenProperty = iota
	// TweenX 横坐标
	TweenX
	// TweenY 纵坐标
	TweenY
)

// Tween 单个补间动画
//
// 插值由 gween 完成：延迟结束时按 From/To/Duration 创建 Motion，
// 之后每帧由 TweenSystem 推进并把结果写回实体。
type Tween struct {
	Property TweenProperty
	From     float64
	To       float64
	// FromCurrent 为 true 时，From 在补间开始（延迟结束）时从实体当前值读取
	FromCurrent bool
	Duration    float64 // 时长（秒）
	Delay       float64 // 开始前的延迟（秒）
	Ease        ease.TweenFunc
	Loop        bool           // 循环播放（永不完成）
	Yoyo        bool           // 循环时往返
	Done        *future.Future // 完成信号（循环补间永不完成）

	// Motion 开始后的 gween 序列，nil 表示仍在延迟中
	Motion *gween.Sequence
}

// TweenComponent 实体上正在运行的补间动画
type TweenComponent struct {
	Tweens []*Tween
}
