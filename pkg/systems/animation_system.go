package systems

import (
	"log"

	"github.com/decker502/vnovel/pkg/components"
	"github.com/decker502/vnovel/pkg/ecs"
)

// AnimationSystem 管理所有实体的帧动画
type AnimationSystem struct {
	entityManager *ecs.EntityManager
}

// NewAnimationSystem 创建一个新的动画系统
func NewAnimationSystem(em *ecs.EntityManager) *AnimationSystem {
	return &AnimationSystem{
		entityManager: em,
	}
}

// Play 开始播放实体上已注册的动画
// 返回：动画不存在时返回 false
func (s *AnimationSystem) Play(id ecs.EntityID, name string, loop bool) bool {
	anim, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id)
	if !ok {
		return false
	}
	clip, ok := anim.Clips[name]
	if !ok || len(clip.Frames) == 0 {
		log.Printf("[AnimationSystem] Warning: 动画 %q 不存在 (实体ID: %d)", name, id)
		return false
	}

	anim.Current = name
	anim.CurrentFrame = 0
	anim.FrameCounter = 0
	anim.IsLooping = loop
	anim.IsPlaying = true
	anim.IsFinished = false

	if sprite, ok := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id); ok {
		sprite.Image = clip.Frames[0]
	}
	return true
}

// Stop 停止实体的动画，停留在当前帧
func (s *AnimationSystem) Stop(id ecs.EntityID) {
	if anim, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id); ok {
		anim.IsPlaying = false
	}
}

// Update 更新所有动画实体的帧
func (s *AnimationSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith2[*components.AnimationComponent, *components.SpriteComponent](s.entityManager)

	for _, id := range entities {
		anim, _ := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id)
		sprite, _ := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id)

		if !anim.IsPlaying || anim.IsFinished {
			continue
		}

		clip, ok := anim.Clips[anim.Current]
		if !ok || len(clip.Frames) == 0 || clip.FrameRate <= 0 {
			continue
		}

		frameDuration := 1.0 / float64(clip.FrameRate)
		anim.FrameCounter += deltaTime

		for anim.FrameCounter >= frameDuration {
			anim.FrameCounter -= frameDuration
			anim.CurrentFrame++

			if anim.CurrentFrame >= len(clip.Frames) {
				if anim.IsLooping {
					anim.CurrentFrame = 0
				} else {
					// 非循环动画: 停在最后一帧并标记完成
					anim.CurrentFrame = len(clip.Frames) - 1
					anim.IsFinished = true
					anim.IsPlaying = false
					break
				}
			}
		}

		sprite.Image = clip.Frames[anim.CurrentFrame]
	}
}
