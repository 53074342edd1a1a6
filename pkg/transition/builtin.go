package transition

import (
	"image/color"
	"time"

	"github.com/decker502/vnovel/pkg/components"
	"github.com/decker502/vnovel/pkg/config"
	"github.com/decker502/vnovel/pkg/future"
	"github.com/decker502/vnovel/pkg/stage"
	"github.com/decker502/vnovel/pkg/utils"
)

// Options 内置转场参数
type Options struct {
	FadeTime time.Duration // 淡入淡出时长
	Width    int           // 幕布尺寸
	Height   int
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{
		FadeTime: config.DefaultFadeTimeMS * time.Millisecond,
		Width:    config.GameWindowWidth,
		Height:   config.GameWindowHeight,
	}
}

// builtins 基于补间实现的内置转场
//
// 每次转场开始时为 prev、next 递增代号。转场链的后续步骤在执行前
// 核对代号，代号已变（元素被更新的转场接管）时以 false 结束，不再改动元素。
type builtins struct {
	tweener stage.Tweener
	factory stage.Factory
	opts    Options
	gens    map[stage.Sprite]uint64
	// curtains 元素 -> 其转场链正在使用的幕布
	curtains map[stage.Sprite]stage.Sprite
}

// claim 某次转场对一组元素的占用
type claim struct {
	b       *builtins
	sprites []stage.Sprite
	gens    []uint64
}

func (c claim) holds(s stage.Sprite) bool {
	for _, held := range c.sprites {
		if held == s {
			return true
		}
	}
	return false
}

// valid 占用的元素是否都没有被后来的转场接管
func (c claim) valid() bool {
	for i, s := range c.sprites {
		if c.b.gens[s] != c.gens[i] {
			return false
		}
	}
	return true
}

// NewDefaultRegistry 创建包含全部内置转场的注册表
// factory 用于创建 FADETOBLACK / FADETOWHITE 的幕布，可以为 nil（此时这两种转场退化为 FADE）
func NewDefaultRegistry(tweener stage.Tweener, factory stage.Factory, control Control, opts Options) *Registry {
	if opts.FadeTime <= 0 {
		opts.FadeTime = config.DefaultFadeTimeMS * time.Millisecond
	}
	b := &builtins{
		tweener:  tweener,
		factory:  factory,
		opts:     opts,
		gens:     make(map[stage.Sprite]uint64),
		curtains: make(map[stage.Sprite]stage.Sprite),
	}

	r := NewRegistry(control)
	r.Register(Cut, b.cut)
	r.Register(Fade, b.fade)
	r.Register(FadeIn, b.fadeIn)
	r.Register(FadeOut, b.fadeOut)
	r.Register(Fusion, b.fusion)
	r.Register(FadeToBlack, b.fadeToColor(color.RGBA{A: 0xff}))
	r.Register(FadeToWhite, b.fadeToColor(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}))
	r.Register(Move, b.move)
	return r
}

// reset 接管元素：旧转场链失效，进行中的补间停止（以 false 结束），
// 旧转场链的幕布被销毁
func (b *builtins) reset(sprites ...stage.Sprite) claim {
	c := claim{b: b}
	for _, s := range sprites {
		if s == nil || c.holds(s) {
			continue
		}
		b.gens[s]++
		c.sprites = append(c.sprites, s)
		c.gens = append(c.gens, b.gens[s])
	}
	for _, s := range c.sprites {
		if curtain, ok := b.curtains[s]; ok {
			b.dropCurtain(curtain)
		}
		b.stop(s)
	}
	return c
}

func (b *builtins) stop(s stage.Sprite) {
	for _, prop := range []stage.Property{stage.PropAlpha, stage.PropX, stage.PropY} {
		b.tweener.StopTweens(s, prop)
	}
}

func (b *builtins) cut(prev, next stage.Sprite, anchor stage.Point, alpha float64) *future.Future {
	b.reset(prev, next)
	return CutFunc(prev, next, anchor, alpha)
}

func (b *builtins) tweenAlpha(s stage.Sprite, from, to float64, d time.Duration) *future.Future {
	return b.tweener.Tween(s, stage.PropAlpha, to, d, utils.EaseLinear, stage.TweenOptions{From: &from})
}

// fadeInSprite 放到 anchor 后从 0 淡入到 alpha
func (b *builtins) fadeInSprite(s stage.Sprite, anchor stage.Point, alpha float64, d time.Duration) *future.Future {
	if s == nil {
		return future.Resolved(true)
	}
	s.SetPosition(anchor)
	s.SetAlpha(0)
	return b.tweenAlpha(s, 0, alpha, d)
}

func (b *builtins) fadeOutSprite(s stage.Sprite, d time.Duration) *future.Future {
	if s == nil {
		return future.Resolved(true)
	}
	return b.tweenAlpha(s, s.Alpha(), 0, d)
}

// fade 先淡出 prev，再淡入 next
func (b *builtins) fade(prev, next stage.Sprite, anchor stage.Point, alpha float64) *future.Future {
	c := b.reset(prev, next)
	if prev == nil {
		return b.fadeInSprite(next, anchor, alpha, b.opts.FadeTime)
	}
	done := future.New()
	if next != nil {
		// 淡出期间 next 保持透明
		next.SetAlpha(0)
	}
	b.fadeOutSprite(prev, b.opts.FadeTime).Then(func(ok bool) {
		if !ok || !c.valid() {
			done.Resolve(false)
			return
		}
		b.fadeInSprite(next, anchor, alpha, b.opts.FadeTime).Then(func(ok bool) {
			done.Resolve(ok)
		})
	})
	return done
}

// fadeIn 淡入 next，结束时 prev 立即消失
func (b *builtins) fadeIn(prev, next stage.Sprite, anchor stage.Point, alpha float64) *future.Future {
	c := b.reset(prev, next)
	if next != nil {
		next.BringToFront()
	}
	done := future.New()
	b.fadeInSprite(next, anchor, alpha, b.opts.FadeTime).Then(func(ok bool) {
		ok = ok && c.valid()
		if ok && prev != nil && prev != next {
			prev.SetAlpha(0)
		}
		done.Resolve(ok)
	})
	return done
}

// fadeOut next 立即出现在下方，prev 在上方淡出
func (b *builtins) fadeOut(prev, next stage.Sprite, anchor stage.Point, alpha float64) *future.Future {
	b.reset(prev, next)
	if next != nil {
		next.SetPosition(anchor)
		next.SetAlpha(alpha)
	}
	if prev == nil || prev == next {
		return future.Resolved(true)
	}
	prev.BringToFront()
	return b.fadeOutSprite(prev, b.opts.FadeTime)
}

// fusion 同时淡出 prev、淡入 next
func (b *builtins) fusion(prev, next stage.Sprite, anchor stage.Point, alpha float64) *future.Future {
	b.reset(prev, next)
	if prev == next {
		return b.fadeInSprite(next, anchor, alpha, b.opts.FadeTime)
	}
	if next != nil {
		next.BringToFront()
	}
	return future.All(
		b.fadeOutSprite(prev, b.opts.FadeTime),
		b.fadeInSprite(next, anchor, alpha, b.opts.FadeTime),
	)
}

// fadeToColor 幕布淡入，切换，幕布淡出
// 每次转场使用自己的幕布，结束或被接管时销毁
func (b *builtins) fadeToColor(col color.RGBA) Func {
	return func(prev, next stage.Sprite, anchor stage.Point, alpha float64) *future.Future {
		if b.factory == nil {
			return b.fade(prev, next, anchor, alpha)
		}

		c := b.reset(prev, next)
		curtain := b.factory.NewRect("curtain", b.opts.Width, b.opts.Height, col, components.LayerCurtain)
		curtain.SetAlpha(0)
		curtain.SetVisible(true)
		for _, s := range c.sprites {
			b.curtains[s] = curtain
		}
		half := b.opts.FadeTime / 2

		done := future.New()
		b.tweenAlpha(curtain, 0, 1, half).Then(func(ok bool) {
			if !ok || !c.valid() {
				done.Resolve(false)
				return
			}
			CutFunc(prev, next, anchor, alpha)
			b.tweenAlpha(curtain, 1, 0, half).Then(func(ok bool) {
				if c.valid() {
					b.dropCurtain(curtain)
				}
				done.Resolve(ok)
			})
		})
		return done
	}
}

// dropCurtain 销毁幕布并解除它与元素的关联
func (b *builtins) dropCurtain(curtain stage.Sprite) {
	for s, c := range b.curtains {
		if c == curtain {
			delete(b.curtains, s)
		}
	}
	b.factory.Destroy(curtain)
}

// move next 从 prev 的位置移动到 anchor；任一方缺失时按 CUT 处理
func (b *builtins) move(prev, next stage.Sprite, anchor stage.Point, alpha float64) *future.Future {
	if prev == nil || next == nil || prev == next {
		return b.cut(prev, next, anchor, alpha)
	}
	b.reset(prev, next)

	from := prev.Position()
	next.SetPosition(from)
	next.SetAlpha(alpha)
	prev.SetAlpha(0)

	return future.All(
		b.tweener.Tween(next, stage.PropX, anchor.X, b.opts.FadeTime, utils.EaseOutQuad, stage.TweenOptions{From: &from.X}),
		b.tweener.Tween(next, stage.PropY, anchor.Y, b.opts.FadeTime, utils.EaseOutQuad, stage.TweenOptions{From: &from.Y}),
	)
}
