package systems

import (
	"sort"

	"github.com/decker502/vnovel/pkg/components"
	"github.com/decker502/vnovel/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// RenderSystem 负责绘制舞台上的图片和文字
//
// 绘制顺序：先按 Layer 升序，同层按 Order 升序，再按实体 ID 升序。
type RenderSystem struct {
	entityManager *ecs.EntityManager
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(em *ecs.EntityManager) *RenderSystem {
	return &RenderSystem{entityManager: em}
}

// Draw 绘制所有可见实体
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	for _, id := range s.drawOrder() {
		rs, _ := ecs.GetComponent[*components.RenderStateComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		if sprite, ok := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id); ok && sprite.Image != nil {
			s.drawSprite(screen, sprite, pos, rs.Alpha)
		}
		if txt, ok := ecs.GetComponent[*components.TextComponent](s.entityManager, id); ok {
			s.drawText(screen, txt, pos, rs.Alpha)
		}
	}
}

// drawOrder 返回本帧需要绘制的实体（可见且不透明度大于 0）
func (s *RenderSystem) drawOrder() []ecs.EntityID {
	ids := ecs.GetEntitiesWith2[*components.RenderStateComponent, *components.PositionComponent](s.entityManager)

	visible := ids[:0]
	for _, id := range ids {
		rs, _ := ecs.GetComponent[*components.RenderStateComponent](s.entityManager, id)
		if rs.Visible && rs.Alpha > 0 {
			visible = append(visible, id)
		}
	}

	// ids 已按 ID 升序，稳定排序保持 Order 相同时的创建顺序
	sort.SliceStable(visible, func(i, j int) bool {
		a, _ := ecs.GetComponent[*components.RenderStateComponent](s.entityManager, visible[i])
		b, _ := ecs.GetComponent[*components.RenderStateComponent](s.entityManager, visible[j])
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		return a.Order < b.Order
	})
	return visible
}

func (s *RenderSystem) drawSprite(screen *ebiten.Image, sprite *components.SpriteComponent, pos *components.PositionComponent, alpha float64) {
	bounds := sprite.Image.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(pos.X-w*sprite.AnchorX, pos.Y-h*sprite.AnchorY)
	op.ColorScale.ScaleAlpha(float32(alpha))
	screen.DrawImage(sprite.Image, op)
}

func (s *RenderSystem) drawText(screen *ebiten.Image, txt *components.TextComponent, pos *components.PositionComponent, alpha float64) {
	if txt.Text == "" || txt.Face == nil {
		return
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(pos.X, pos.Y)
	op.LayoutOptions.LineSpacing = txt.LineSpacing
	op.ColorScale.ScaleWithColor(txt.Color)
	op.ColorScale.ScaleAlpha(float32(alpha))
	text.Draw(screen, txt.Text, txt.Face, op)
}
