package managers

import (
	"fmt"

	"github.com/decker502/vnovel/pkg/components"
	"github.com/decker502/vnovel/pkg/config"
	"github.com/decker502/vnovel/pkg/future"
	"github.com/decker502/vnovel/pkg/stage"
	"github.com/decker502/vnovel/pkg/transition"
)

// BackgroundManager 背景管理器
//
// 背景以舞台中心为锚点居中显示，同一时间只显示一个背景。
type BackgroundManager struct {
	factory      stage.Factory
	registry     *Registry
	orchestrator *Orchestrator
	center       stage.Point
}

// NewBackgroundManager 创建背景管理器
func NewBackgroundManager(factory stage.Factory, transitions *transition.Registry, center stage.Point) *BackgroundManager {
	registry := NewRegistry("background")
	return &BackgroundManager{
		factory:      factory,
		registry:     registry,
		orchestrator: NewOrchestrator(registry, transitions, center),
		center:       center,
	}
}

// Add 注册背景，图片资源 ID 与名称相同
func (m *BackgroundManager) Add(name string, animated bool, frameRate int) error {
	return m.AddAsset(name, name, animated, frameRate)
}

// AddAsset 注册背景并指定图片资源 ID
// 背景创建后隐藏且完全透明；animated 为 true 时用精灵表注册循环动画
// 重名的背景被拒绝
func (m *BackgroundManager) AddAsset(name, asset string, animated bool, frameRate int) error {
	if m.registry.Has(name) {
		return config.NewConfigurationError("background", name, fmt.Errorf("already registered"))
	}
	sprite, err := m.factory.NewImage(stage.ImageSpec{
		Name:    name,
		Key:     asset,
		Pos:     m.center,
		AnchorX: 0.5,
		AnchorY: 0.5,
		Layer:   components.LayerBackground,
	})
	if err != nil {
		return fmt.Errorf("failed to add background %q: %w", name, err)
	}
	sprite.SetAlpha(0)
	sprite.SetVisible(false)

	if animated {
		if err := m.factory.AddAnimation(sprite, runAnimation, asset, frameRate); err != nil {
			m.factory.Destroy(sprite)
			return fmt.Errorf("failed to add background %q animation: %w", name, err)
		}
	}

	m.registry.Add(&Element{Name: name, Sprite: sprite, Animated: animated, FrameRate: frameRate})
	return nil
}

// Set 不经过转场立即显示背景
func (m *BackgroundManager) Set(name string) error {
	return m.orchestrator.Set(name)
}

// Show 以指定转场显示背景
func (m *BackgroundManager) Show(name, transitionName string) (*future.Future, error) {
	return m.orchestrator.Show(name, transitionName)
}

// Hide 隐藏当前背景，transitionName 为空时使用 FADEOUT
func (m *BackgroundManager) Hide(transitionName string) (*future.Future, error) {
	return m.orchestrator.Hide(transitionName)
}

// IsBackground 是否为已注册的背景
func (m *BackgroundManager) IsBackground(name string) bool {
	return m.registry.Has(name)
}

// Current 当前背景名称
func (m *BackgroundManager) Current() string {
	return m.registry.CurrentName()
}

// Sprite 背景对应的舞台元素
func (m *BackgroundManager) Sprite(name string) (stage.Sprite, bool) {
	e, ok := m.registry.Get(name)
	if !ok {
		return nil, false
	}
	return e.Sprite, true
}
