package stage

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/decker502/vnovel/pkg/components"
	"github.com/decker502/vnovel/pkg/config"
	"github.com/decker502/vnovel/pkg/ecs"
	"github.com/decker502/vnovel/pkg/future"
	"github.com/decker502/vnovel/pkg/systems"
	"github.com/decker502/vnovel/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Stage 基于 ECS 的舞台实现
//
// 每个舞台元素是一个实体，带有位置、渲染状态、图片/文字、动画和补间组件。
// Update 推进补间和帧动画，Draw 按层级绘制。
type Stage struct {
	entityManager *ecs.EntityManager
	assets        AssetSource

	tweenSystem     *systems.TweenSystem
	animationSystem *systems.AnimationSystem
	renderSystem    *systems.RenderSystem

	width  int
	height int

	nextOrder int64
}

var (
	_ Factory = (*Stage)(nil)
	_ Tweener = (*Stage)(nil)
	_ Label   = (*Node)(nil)
)

// NewStage 创建舞台
// 参数：
//   - assets: 资源来源，可以为 nil（此时只能创建文字和纯色元素）
//   - width, height: 舞台尺寸（像素）
func NewStage(assets AssetSource, width, height int) *Stage {
	em := ecs.NewEntityManager()
	return &Stage{
		entityManager:   em,
		assets:          assets,
		tweenSystem:     systems.NewTweenSystem(em),
		animationSystem: systems.NewAnimationSystem(em),
		renderSystem:    systems.NewRenderSystem(em),
		width:           width,
		height:          height,
	}
}

// Size 舞台尺寸
func (s *Stage) Size() (int, int) {
	return s.width, s.height
}

// Center 舞台中心
func (s *Stage) Center() Point {
	return Point{X: float64(s.width) / 2, Y: float64(s.height) / 2}
}

// EntityCount 当前舞台元素数量
func (s *Stage) EntityCount() int {
	return s.entityManager.Count()
}

// Update 推进补间和动画
// 参数：deltaTime - 本帧经过的时间（秒）
func (s *Stage) Update(deltaTime float64) {
	s.tweenSystem.Update(deltaTime)
	s.animationSystem.Update(deltaTime)
	s.entityManager.RemoveMarkedEntities()
}

// Draw 绘制舞台
func (s *Stage) Draw(screen *ebiten.Image) {
	s.renderSystem.Draw(screen)
}

// NewImage 创建图片元素（初始隐藏、透明度 0）
func (s *Stage) NewImage(spec ImageSpec) (Sprite, error) {
	if s.assets == nil {
		return nil, config.NewConfigurationError("image", spec.Key, fmt.Errorf("no asset source"))
	}
	img, err := s.assets.LoadImageByID(spec.Key)
	if err != nil {
		return nil, err
	}

	id := s.newEntity(spec.Name, spec.Pos, spec.Layer)
	ecs.AddComponent(s.entityManager, id, &components.SpriteComponent{
		Image:   img,
		AnchorX: spec.AnchorX,
		AnchorY: spec.AnchorY,
	})
	return &Node{stage: s, id: id, name: spec.Name}, nil
}

// NewText 创建文本元素（初始隐藏、透明度 0）
func (s *Stage) NewText(spec TextSpec) (Label, error) {
	face, err := s.loadFace(spec.Font, spec.Size)
	if err != nil {
		return nil, err
	}

	lineSpacing := spec.LineSpacing
	if lineSpacing <= 0 {
		lineSpacing = config.DefaultLineSpacing
	}

	id := s.newEntity(spec.Name, spec.Pos, spec.Layer)
	ecs.AddComponent(s.entityManager, id, &components.TextComponent{
		Face:        face,
		Color:       spec.Color,
		LineSpacing: faceLineHeight(face) * lineSpacing,
		WrapWidth:   spec.Width,
	})
	return &Node{stage: s, id: id, name: spec.Name}, nil
}

// NewRect 创建纯色矩形（用于转场幕布）
func (s *Stage) NewRect(name string, width, height int, c color.Color, layer int) Sprite {
	img := ebiten.NewImage(width, height)
	img.Fill(c)

	id := s.newEntity(name, Point{}, layer)
	ecs.AddComponent(s.entityManager, id, &components.SpriteComponent{Image: img})
	return &Node{stage: s, id: id, name: name}
}

// AddAnimation 为元素注册精灵表动画
func (s *Stage) AddAnimation(target Sprite, name, key string, frameRate int) error {
	node, ok := s.own(target)
	if !ok {
		return fmt.Errorf("sprite %q does not belong to this stage", target.Name())
	}
	if s.assets == nil {
		return config.NewConfigurationError("animation", key, fmt.Errorf("no asset source"))
	}

	frames, err := s.assets.LoadImageFrames(key)
	if err != nil {
		return err
	}
	if frameRate <= 0 {
		frameRate = 1
	}

	anim, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, node.id)
	if !ok {
		anim = &components.AnimationComponent{Clips: make(map[string]*components.AnimationClip)}
		ecs.AddComponent(s.entityManager, node.id, anim)
	}
	anim.Clips[name] = &components.AnimationClip{Frames: frames, FrameRate: frameRate}
	return nil
}

// Destroy 移除元素，进行中的补间以 false 结束
func (s *Stage) Destroy(target Sprite) {
	node, ok := s.own(target)
	if !ok {
		return
	}
	for _, prop := range []Property{PropAlpha, PropX, PropY} {
		s.tweenSystem.Stop(node.id, prop)
	}
	s.entityManager.DestroyEntity(node.id)
	node.destroyed = true
}

// Tween 为元素添加补间动画
func (s *Stage) Tween(target Sprite, prop Property, to float64, duration time.Duration, ease utils.EasingFunc, opts TweenOptions) *future.Future {
	node, ok := s.own(target)
	if !ok {
		log.Printf("[Stage] Warning: tween target %q does not belong to this stage", target.Name())
		return future.Resolved(false)
	}

	// 无时长、无延迟的补间直接生效
	if duration <= 0 && opts.Delay <= 0 && !opts.Loop {
		node.set(prop, to)
		return future.Resolved(true)
	}

	tc, ok := ecs.GetComponent[*components.TweenComponent](s.entityManager, node.id)
	if !ok {
		tc = &components.TweenComponent{}
		ecs.AddComponent(s.entityManager, node.id, tc)
	}

	done := future.New()
	tw := &components.Tween{
		Property:    prop,
		To:          to,
		FromCurrent: opts.From == nil,
		Duration:    duration.Seconds(),
		Delay:       opts.Delay.Seconds(),
		Ease:        ease,
		Loop:        opts.Loop,
		Yoyo:        opts.Yoyo,
		Done:        done,
	}
	if opts.From != nil {
		tw.From = *opts.From
	}
	tc.Tweens = append(tc.Tweens, tw)
	return done
}

// StopTweens 停止元素上指定属性的补间
func (s *Stage) StopTweens(target Sprite, prop Property) {
	if node, ok := s.own(target); ok {
		s.tweenSystem.Stop(node.id, prop)
	}
}

func (s *Stage) newEntity(name string, pos Point, layer int) ecs.EntityID {
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.PositionComponent{X: pos.X, Y: pos.Y})
	s.nextOrder++
	ecs.AddComponent(s.entityManager, id, &components.RenderStateComponent{
		Name:  name,
		Layer: layer,
		Order: s.nextOrder,
	})
	return id
}

func (s *Stage) own(target Sprite) (*Node, bool) {
	node, ok := target.(*Node)
	if !ok || node.stage != s || node.destroyed {
		return nil, false
	}
	return node, true
}

func (s *Stage) loadFace(fontID string, size float64) (text.Face, error) {
	if fontID == "" {
		return fallbackFace, nil
	}
	if s.assets == nil {
		return nil, config.NewConfigurationError("font", fontID, fmt.Errorf("no asset source"))
	}
	if size <= 0 {
		size = config.DefaultFontSize
	}
	return s.assets.LoadFontByID(fontID, size)
}

// faceLineHeight 字体的自然行高
func faceLineHeight(face text.Face) float64 {
	m := face.Metrics()
	h := m.HAscent + m.HDescent + m.HLineGap
	if h <= 0 {
		return config.DefaultFontSize
	}
	return h
}
