package utils

import "github.com/tanema/gween/ease"

// Easing Functions (缓动函数)
//
// 缓动函数直接使用 gween/ease 的实现（转场淡入淡出、「点击继续」闪烁等）。
// 签名为 f(t, b, c, d)：t 为已过时间，b 为起始值，c 为变化量，d 为总时长。

// EasingFunc 缓动函数类型
type EasingFunc = ease.TweenFunc

var (
	// EaseLinear 线性缓动（无缓动）
	EaseLinear EasingFunc = ease.Linear
	// EaseInQuad 二次方缓入
	EaseInQuad EasingFunc = ease.InQuad
	// EaseOutQuad 二次方缓出
	EaseOutQuad EasingFunc = ease.OutQuad
	// EaseInOutQuad 二次方缓入缓出
	EaseInOutQuad EasingFunc = ease.InOutQuad
	// EaseOutCubic 三次方缓出
	EaseOutCubic EasingFunc = ease.OutCubic
	// EaseInOutSine 正弦缓入缓出（适合往返闪烁）
	EaseInOutSine EasingFunc = ease.InOutSine
)

// Clamp01 将值限制在 [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
