package systems

import (
	"github.com/decker502/vnovel/pkg/components"
	"github.com/decker502/vnovel/pkg/ecs"
	"github.com/decker502/vnovel/pkg/future"
	"github.com/decker502/vnovel/pkg/utils"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenSystem 推进所有实体上的补间动画
//
// 补间完成时解析其 Done future。future 的回调在当前帧的补间列表
// 更新完成之后才执行，因此回调里可以安全地为同一实体添加新的补间。
type TweenSystem struct {
	entityManager *ecs.EntityManager
}

// NewTweenSystem 创建补间系统
func NewTweenSystem(em *ecs.EntityManager) *TweenSystem {
	return &TweenSystem{entityManager: em}
}

// Update 推进补间动画
// 参数：deltaTime - 本帧经过的时间（秒）
func (s *TweenSystem) Update(deltaTime float64) {
	var finished []*future.Future

	for _, id := range ecs.GetEntitiesWith1[*components.TweenComponent](s.entityManager) {
		tc, _ := ecs.GetComponent[*components.TweenComponent](s.entityManager, id)
		if len(tc.Tweens) == 0 {
			continue
		}

		kept := tc.Tweens[:0]
		for _, tw := range tc.Tweens {
			if s.step(id, tw, deltaTime) {
				if tw.Done != nil {
					finished = append(finished, tw.Done)
				}
				continue
			}
			kept = append(kept, tw)
		}
		// 清掉尾部残留的指针
		for i := len(kept); i < len(tc.Tweens); i++ {
			tc.Tweens[i] = nil
		}
		tc.Tweens = kept
	}

	for _, f := range finished {
		f.Resolve(true)
	}
}

// Stop 停止实体上指定属性的补间，值停留在当前位置
// 被停止的补间以 false 解析其 Done future
// 返回：停止的补间数量
func (s *TweenSystem) Stop(id ecs.EntityID, property components.TweenProperty) int {
	tc, ok := ecs.GetComponent[*components.TweenComponent](s.entityManager, id)
	if !ok {
		return 0
	}

	var stopped []*future.Future
	kept := tc.Tweens[:0]
	for _, tw := range tc.Tweens {
		if tw.Property == property {
			stopped = append(stopped, tw.Done)
			continue
		}
		kept = append(kept, tw)
	}
	for i := len(kept); i < len(tc.Tweens); i++ {
		tc.Tweens[i] = nil
	}
	tc.Tweens = kept

	for _, f := range stopped {
		if f != nil {
			f.Resolve(false)
		}
	}
	return len(stopped)
}

// step 推进单个补间，返回是否已完成
func (s *TweenSystem) step(id ecs.EntityID, tw *components.Tween, dt float64) bool {
	if tw.Delay > 0 {
		tw.Delay -= dt
		if tw.Delay > 0 {
			return false
		}
		// 延迟结束后剩余的时间计入补间
		dt = -tw.Delay
		tw.Delay = 0
	}

	if tw.Duration <= 0 {
		s.write(id, tw.Property, tw.To)
		return !tw.Loop
	}

	if tw.Motion == nil {
		tw.Motion = s.start(id, tw)
	}

	v, _, finished := tw.Motion.Update(float32(dt))
	s.write(id, tw.Property, float64(v))
	// 无限循环的序列在整圈边界上也会报告完成，忽略之
	return finished && !tw.Loop
}

// start 在延迟结束时创建 gween 序列
func (s *TweenSystem) start(id ecs.EntityID, tw *components.Tween) *gween.Sequence {
	if tw.FromCurrent {
		tw.From = s.read(id, tw.Property)
	}
	easing := tw.Ease
	if easing == nil {
		easing = ease.Linear
	}

	seq := gween.NewSequence(gween.New(float32(tw.From), float32(tw.To), float32(tw.Duration), easing))
	if tw.Loop {
		seq.SetLoop(-1)
		seq.SetYoyo(tw.Yoyo)
	}
	return seq
}

func (s *TweenSystem) read(id ecs.EntityID, property components.TweenProperty) float64 {
	switch property {
	case components.TweenAlpha:
		if rs, ok := ecs.GetComponent[*components.RenderStateComponent](s.entityManager, id); ok {
			return rs.Alpha
		}
	case components.TweenX:
		if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id); ok {
			return pos.X
		}
	case components.TweenY:
		if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id); ok {
			return pos.Y
		}
	}
	return 0
}

func (s *TweenSystem) write(id ecs.EntityID, property components.TweenProperty, v float64) {
	switch property {
	case components.TweenAlpha:
		if rs, ok := ecs.GetComponent[*components.RenderStateComponent](s.entityManager, id); ok {
			rs.Alpha = utils.Clamp01(v)
		}
	case components.TweenX:
		if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id); ok {
			pos.X = v
		}
	case components.TweenY:
		if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id); ok {
			pos.Y = v
		}
	}
}
