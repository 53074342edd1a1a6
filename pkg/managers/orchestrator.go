package managers

import (
	"log"

	"github.com/decker502/vnovel/pkg/config"
	"github.com/decker502/vnovel/pkg/future"
	"github.com/decker502/vnovel/pkg/stage"
	"github.com/decker502/vnovel/pkg/transition"
)

// Orchestrator 在注册表的当前元素和新元素之间执行转场
//
// 协议：
//  1. 校验转场名称和目标名称，失败时不修改任何状态
//  2. 记录 prev，设置新的当前元素，使其可见并播放循环动画
//  3. 执行转场策略 (prev, next, anchor, 1)
//  4. 策略完成后隐藏 prev（prev 仍为当前元素时除外）
//
// 因为 prev 只在转场动画结束后才隐藏，任何一帧都不会出现两者同时隐藏的情况。
type Orchestrator struct {
	registry    *Registry
	transitions *transition.Registry
	anchor      stage.Point
}

// NewOrchestrator 创建转场调度器
// anchor 为默认锚点（通常是舞台中心）
func NewOrchestrator(registry *Registry, transitions *transition.Registry, anchor stage.Point) *Orchestrator {
	return &Orchestrator{
		registry:    registry,
		transitions: transitions,
		anchor:      anchor,
	}
}

// Registry 调度器管理的注册表
func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

// Show 切换到 name 对应的元素，name 为空表示隐藏当前元素
func (o *Orchestrator) Show(name, transitionName string) (*future.Future, error) {
	return o.ShowAt(name, transitionName, o.anchor)
}

// ShowAt 与 Show 相同，使用指定锚点
func (o *Orchestrator) ShowAt(name, transitionName string, anchor stage.Point) (*future.Future, error) {
	fn, err := o.transitions.Get(transitionName)
	if err != nil {
		return nil, err
	}

	var next *Element
	if name != "" {
		var ok bool
		if next, ok = o.registry.Get(name); !ok {
			return nil, config.NewConfigurationError(o.registry.kind, name, nil)
		}
	}

	prev := o.registry.current
	o.registry.setCurrent(next)

	var prevSprite, nextSprite stage.Sprite
	if prev != nil {
		prevSprite = prev.Sprite
	}
	if next != nil {
		nextSprite = next.Sprite
		nextSprite.SetVisible(true)
		if next.Animated {
			nextSprite.PlayAnimation(runAnimation, true)
		}
	}

	done := future.New()
	fn(prevSprite, nextSprite, anchor, 1).Then(func(ok bool) {
		if prev != nil && prev != next && prev != o.registry.current {
			prev.Sprite.SetVisible(false)
			if prev.Animated {
				prev.Sprite.StopAnimation()
			}
		}
		done.Resolve(ok)
	})
	return done, nil
}

// Hide 隐藏当前元素，transitionName 为空时使用 FADEOUT
func (o *Orchestrator) Hide(transitionName string) (*future.Future, error) {
	if transitionName == "" {
		transitionName = config.TransitionFadeOut
	}
	return o.Show("", transitionName)
}

// Set 不经过转场立即切换到 name 对应的元素
func (o *Orchestrator) Set(name string) error {
	next, ok := o.registry.Get(name)
	if !ok {
		return config.NewConfigurationError(o.registry.kind, name, nil)
	}

	if prev := o.registry.current; prev != nil && prev != next {
		prev.Sprite.SetAlpha(0)
		prev.Sprite.SetVisible(false)
		if prev.Animated {
			prev.Sprite.StopAnimation()
		}
	}

	o.registry.setCurrent(next)
	next.Sprite.SetPosition(o.anchor)
	next.Sprite.SetAlpha(1)
	next.Sprite.SetVisible(true)
	if next.Animated && !next.Sprite.PlayAnimation(runAnimation, true) {
		log.Printf("[Orchestrator] Warning: %s %q has no %q animation", o.registry.kind, name, runAnimation)
	}
	return nil
}
