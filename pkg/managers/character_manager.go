package managers

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/decker502/vnovel/pkg/components"
	"github.com/decker502/vnovel/pkg/config"
	"github.com/decker502/vnovel/pkg/future"
	"github.com/decker502/vnovel/pkg/stage"
	"github.com/decker502/vnovel/pkg/transition"
)

// 角色站位
const (
	PositionLeft   = "left"
	PositionCenter = "center"
	PositionRight  = "right"
)

// defaultLook 未指定表情时优先使用的表情名
const defaultLook = "normal"

// Character 一个角色：每个表情是注册表中的一个元素
type Character struct {
	Name  string
	Voice string

	looks        *Registry
	orchestrator *Orchestrator
	position     stage.Point
}

// Look 当前表情名称，未显示时为空
func (c *Character) Look() string {
	return c.looks.CurrentName()
}

// Visible 角色是否在舞台上
func (c *Character) Visible() bool {
	return c.looks.Current() != nil
}

// Position 角色当前站位
func (c *Character) Position() stage.Point {
	return c.position
}

// CharacterManager 角色管理器
//
// 立绘以底边中点为锚点，站在舞台底部。
// 同一角色切换表情时，旧表情在新表情转场完成后隐藏。
type CharacterManager struct {
	factory     stage.Factory
	transitions *transition.Registry
	width       float64
	height      float64
	characters  map[string]*Character
}

// NewCharacterManager 创建角色管理器
func NewCharacterManager(factory stage.Factory, transitions *transition.Registry, width, height int) *CharacterManager {
	return &CharacterManager{
		factory:     factory,
		transitions: transitions,
		width:       float64(width),
		height:      float64(height),
		characters:  make(map[string]*Character),
	}
}

// Add 注册角色及其全部表情
// 任一表情图片缺失时返回错误，已创建的表情会被释放；重名的角色被拒绝
func (m *CharacterManager) Add(def config.CharacterDef) error {
	if def.Name == "" {
		return config.NewConfigurationError("character", def.Name, fmt.Errorf("name is required"))
	}
	if _, ok := m.characters[def.Name]; ok {
		return config.NewConfigurationError("character", def.Name, fmt.Errorf("already registered"))
	}

	looks := NewRegistry("look")
	center := m.PositionFor(PositionCenter)

	names := make([]string, 0, len(def.Looks))
	for look := range def.Looks {
		names = append(names, look)
	}
	sort.Strings(names)

	for _, look := range names {
		sprite, err := m.factory.NewImage(stage.ImageSpec{
			Name:    def.Name + ":" + look,
			Key:     def.Looks[look],
			Pos:     center,
			AnchorX: 0.5,
			AnchorY: 1,
			Layer:   components.LayerCharacter,
		})
		if err != nil {
			for _, e := range looks.elements {
				m.factory.Destroy(e.Sprite)
			}
			return fmt.Errorf("failed to add character %q look %q: %w", def.Name, look, err)
		}
		sprite.SetAlpha(0)
		sprite.SetVisible(false)
		looks.Add(&Element{Name: look, Sprite: sprite})
	}

	m.characters[def.Name] = &Character{
		Name:         def.Name,
		Voice:        def.Voice,
		looks:        looks,
		orchestrator: NewOrchestrator(looks, m.transitions, center),
		position:     center,
	}
	return nil
}

// Get 查找角色
func (m *CharacterManager) Get(name string) (*Character, bool) {
	c, ok := m.characters[name]
	return c, ok
}

// IsCharacter 是否为已注册的角色
func (m *CharacterManager) IsCharacter(name string) bool {
	_, ok := m.characters[name]
	return ok
}

// Voice 角色语音音效 ID
func (m *CharacterManager) Voice(name string) (string, bool) {
	c, ok := m.characters[name]
	if !ok {
		return "", false
	}
	return c.Voice, true
}

// PositionFor 解析站位
// 支持 left / center / right 和数字横坐标，空字符串为 center
func (m *CharacterManager) PositionFor(position string) stage.Point {
	p, _ := m.parsePosition(position)
	return p
}

func (m *CharacterManager) parsePosition(position string) (stage.Point, error) {
	y := m.height
	switch strings.ToLower(strings.TrimSpace(position)) {
	case "", PositionCenter:
		return stage.Point{X: m.width / 2, Y: y}, nil
	case PositionLeft:
		return stage.Point{X: m.width / 4, Y: y}, nil
	case PositionRight:
		return stage.Point{X: m.width * 3 / 4, Y: y}, nil
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(position), 64)
	if err != nil {
		return stage.Point{X: m.width / 2, Y: y}, config.NewConfigurationError("position", position, err)
	}
	return stage.Point{X: x, Y: y}, nil
}

// Show 以指定表情、站位和转场显示角色
// look 为空时保持当前表情（未显示时使用 "normal" 或第一个表情）
func (m *CharacterManager) Show(name, look, position, transitionName string) (*future.Future, error) {
	c, ok := m.characters[name]
	if !ok {
		return nil, config.NewConfigurationError("character", name, nil)
	}

	anchor := c.position
	if position != "" || !c.Visible() {
		p, err := m.parsePosition(position)
		if err != nil {
			return nil, err
		}
		anchor = p
	}

	if look == "" {
		if look = m.fallbackLook(c); look == "" {
			return nil, config.NewConfigurationError("look", name, fmt.Errorf("character has no looks"))
		}
	}

	done, err := c.orchestrator.ShowAt(look, transitionName, anchor)
	if err != nil {
		return nil, err
	}
	c.position = anchor
	return done, nil
}

func (m *CharacterManager) fallbackLook(c *Character) string {
	if current := c.looks.CurrentName(); current != "" {
		return current
	}
	if c.looks.Has(defaultLook) {
		return defaultLook
	}
	if names := c.looks.Names(); len(names) > 0 {
		return names[0]
	}
	return ""
}

// Hide 隐藏角色，transitionName 为空时使用 FADEOUT
func (m *CharacterManager) Hide(name, transitionName string) (*future.Future, error) {
	c, ok := m.characters[name]
	if !ok {
		return nil, config.NewConfigurationError("character", name, nil)
	}
	return c.orchestrator.Hide(transitionName)
}

// HideAll 隐藏所有在场角色
func (m *CharacterManager) HideAll(transitionName string) (*future.Future, error) {
	var pending []*future.Future
	for _, name := range m.Names() {
		c := m.characters[name]
		if !c.Visible() {
			continue
		}
		done, err := c.orchestrator.Hide(transitionName)
		if err != nil {
			return nil, err
		}
		pending = append(pending, done)
	}
	return future.All(pending...), nil
}

// Names 全部角色名称（排序）
func (m *CharacterManager) Names() []string {
	names := make([]string, 0, len(m.characters))
	for name := range m.characters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
