// Package transition 提供背景、角色切换使用的转场策略注册表
package transition

import (
	"sort"
	"strings"

	"github.com/decker502/vnovel/pkg/config"
	"github.com/decker502/vnovel/pkg/future"
	"github.com/decker502/vnovel/pkg/stage"
)

// Func 转场策略
//
// prev、next 均可为 nil。策略负责把 next 放到 anchor 并显示到 alpha，
// 把 prev 淡出；返回的 future 在视觉动画结束时解析。
// 隐藏 prev（SetVisible(false)）由调用方在 future 解析后完成。
type Func func(prev, next stage.Sprite, anchor stage.Point, alpha float64) *future.Future

// Control 只读的跳过模式
type Control interface {
	Skipping() bool
}

// 内置转场名称
const (
	Cut         = "CUT"
	Fade        = "FADE"
	FadeIn      = "FADEIN"
	FadeOut     = "FADEOUT"
	Fusion      = "FUSION"
	FadeToBlack = "FADETOBLACK"
	FadeToWhite = "FADETOWHITE"
	Move        = "MOVE"
)

// Registry 按名称查找转场策略
type Registry struct {
	funcs   map[string]Func
	control Control
}

// NewRegistry 创建空注册表（只包含 CUT）
// control 可以为 nil；跳过模式下所有转场都按 CUT 执行
func NewRegistry(control Control) *Registry {
	r := &Registry{
		funcs:   make(map[string]Func),
		control: control,
	}
	r.Register(Cut, CutFunc)
	return r
}

// Register 注册转场策略（名称大小写不敏感，重复注册覆盖旧值）
func (r *Registry) Register(name string, fn Func) {
	r.funcs[normalize(name)] = fn
}

// Get 查找转场策略
// 空名称等同于 CUT；未注册的名称返回 ConfigurationError
func (r *Registry) Get(name string) (Func, error) {
	key := normalize(name)
	if key == "" {
		key = Cut
	}
	fn, ok := r.funcs[key]
	if !ok {
		return nil, config.NewConfigurationError("transition", name, nil)
	}
	return func(prev, next stage.Sprite, anchor stage.Point, alpha float64) *future.Future {
		if r.control != nil && r.control.Skipping() {
			return r.funcs[Cut](prev, next, anchor, alpha)
		}
		return fn(prev, next, anchor, alpha)
	}, nil
}

// Has 是否注册了该名称
func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// Names 已注册的名称（排序）
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// CutFunc 立即切换
func CutFunc(prev, next stage.Sprite, anchor stage.Point, alpha float64) *future.Future {
	if prev != nil {
		prev.SetAlpha(0)
	}
	if next != nil {
		next.SetPosition(anchor)
		next.SetAlpha(alpha)
	}
	return future.Resolved(true)
}
