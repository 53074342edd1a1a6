// Package stage 定义文字显示和转场引擎使用的舞台能力接口，
// 并提供基于 ECS 的 Ebitengine 实现。
//
// 引擎核心（gui、managers、transition）只依赖这里的接口，
// 测试中可以用简单的假实现替换。
package stage

import (
	"image/color"
	"time"

	"github.com/decker502/vnovel/pkg/components"
	"github.com/decker502/vnovel/pkg/future"
	"github.com/decker502/vnovel/pkg/utils"
)

// Point 屏幕坐标
type Point struct {
	X float64
	Y float64
}

// Sprite 舞台上的可见元素
type Sprite interface {
	Name() string
	Visible() bool
	SetVisible(visible bool)
	Alpha() float64
	SetAlpha(alpha float64)
	Position() Point
	SetPosition(p Point)
	// BringToFront 移到同层其他元素之上
	BringToFront()
	// PlayAnimation 播放已注册的帧动画，动画不存在时返回 false
	PlayAnimation(name string, loop bool) bool
	StopAnimation()
}

// Label 文本元素
type Label interface {
	Sprite
	Text() string
	SetText(text string)
	// Wrap 按文本区域宽度将文本拆分为多行
	Wrap(text string) []string
}

// Sound 可播放的音效
// 音效实例由资源缓存共享，使用方只负责播放
type Sound interface {
	Play(volume float64)
	// DurationMS 音效时长（毫秒），未知时返回 0
	DurationMS() int
}

// Property 补间动画作用的属性
type Property = components.TweenProperty

// 补间属性
const (
	PropAlpha = components.TweenAlpha
	PropX     = components.TweenX
	PropY     = components.TweenY
)

// TweenOptions 补间选项
type TweenOptions struct {
	Delay time.Duration
	Loop  bool
	Yoyo  bool
	// From 非 nil 时作为起始值，否则从目标当前值开始
	From *float64
}

// Tweener 补间动画服务
type Tweener interface {
	// Tween 返回的 future 在补间结束时以 true 解析，被停止时以 false 解析；
	// 循环补间永不解析
	Tween(target Sprite, prop Property, to float64, duration time.Duration, ease utils.EasingFunc, opts TweenOptions) *future.Future
	// StopTweens 停止目标上指定属性的补间
	StopTweens(target Sprite, prop Property)
}

// ImageSpec 图片元素参数
type ImageSpec struct {
	Name    string
	Key     string // 图片资源 ID
	Pos     Point
	AnchorX float64
	AnchorY float64
	Layer   int
}

// TextSpec 文本元素参数
type TextSpec struct {
	Name        string
	Font        string // 字体资源 ID，空表示内置字体
	Size        float64
	Color       color.RGBA
	Pos         Point
	Width       float64 // 自动换行宽度，<= 0 表示不换行
	LineSpacing float64 // 行高倍数
	Layer       int
}

// Factory 创建和销毁舞台元素
type Factory interface {
	NewImage(spec ImageSpec) (Sprite, error)
	NewText(spec TextSpec) (Label, error)
	NewRect(name string, width, height int, c color.Color, layer int) Sprite
	// AddAnimation 用资源 key 对应的精灵表帧为元素注册动画
	AddAnimation(target Sprite, name, key string, frameRate int) error
	Destroy(target Sprite)
}
