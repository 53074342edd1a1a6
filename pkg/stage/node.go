package stage

import (
	"strings"

	"github.com/decker502/vnovel/pkg/components"
	"github.com/decker502/vnovel/pkg/ecs"
	"github.com/decker502/vnovel/pkg/utils"
)

// Node 舞台元素句柄，实现 Sprite 和 Label
//
// 元素被销毁后，所有读取返回零值，所有写入被忽略。
type Node struct {
	stage     *Stage
	id        ecs.EntityID
	name      string
	destroyed bool
}

// Name 元素名称
func (n *Node) Name() string {
	return n.name
}

func (n *Node) renderState() *components.RenderStateComponent {
	if n.destroyed {
		return nil
	}
	rs, _ := ecs.GetComponent[*components.RenderStateComponent](n.stage.entityManager, n.id)
	return rs
}

func (n *Node) position() *components.PositionComponent {
	if n.destroyed {
		return nil
	}
	pos, _ := ecs.GetComponent[*components.PositionComponent](n.stage.entityManager, n.id)
	return pos
}

func (n *Node) textComponent() *components.TextComponent {
	if n.destroyed {
		return nil
	}
	txt, _ := ecs.GetComponent[*components.TextComponent](n.stage.entityManager, n.id)
	return txt
}

// Visible 是否可见
func (n *Node) Visible() bool {
	if rs := n.renderState(); rs != nil {
		return rs.Visible
	}
	return false
}

// SetVisible 设置可见性
func (n *Node) SetVisible(visible bool) {
	if rs := n.renderState(); rs != nil {
		rs.Visible = visible
	}
}

// Alpha 透明度
func (n *Node) Alpha() float64 {
	if rs := n.renderState(); rs != nil {
		return rs.Alpha
	}
	return 0
}

// SetAlpha 设置透明度（限制在 0~1）
func (n *Node) SetAlpha(alpha float64) {
	if rs := n.renderState(); rs != nil {
		rs.Alpha = utils.Clamp01(alpha)
	}
}

// Position 位置
func (n *Node) Position() Point {
	if pos := n.position(); pos != nil {
		return Point{X: pos.X, Y: pos.Y}
	}
	return Point{}
}

// SetPosition 设置位置
func (n *Node) SetPosition(p Point) {
	if pos := n.position(); pos != nil {
		pos.X, pos.Y = p.X, p.Y
	}
}

// BringToFront 移到同层最上面
func (n *Node) BringToFront() {
	if rs := n.renderState(); rs != nil {
		n.stage.nextOrder++
		rs.Order = n.stage.nextOrder
	}
}

// PlayAnimation 播放帧动画
func (n *Node) PlayAnimation(name string, loop bool) bool {
	if n.destroyed {
		return false
	}
	return n.stage.animationSystem.Play(n.id, name, loop)
}

// StopAnimation 停止帧动画
func (n *Node) StopAnimation() {
	if !n.destroyed {
		n.stage.animationSystem.Stop(n.id)
	}
}

// Text 当前文本
func (n *Node) Text() string {
	if txt := n.textComponent(); txt != nil {
		return txt.Text
	}
	return ""
}

// SetText 设置文本
func (n *Node) SetText(text string) {
	if txt := n.textComponent(); txt != nil {
		txt.Text = text
	}
}

// Wrap 按文本区域宽度换行
func (n *Node) Wrap(text string) []string {
	txt := n.textComponent()
	if txt == nil || txt.WrapWidth <= 0 {
		return strings.Split(text, "\n")
	}
	return utils.WrapText(text, txt.Face, txt.WrapWidth)
}

func (n *Node) set(prop Property, v float64) {
	switch prop {
	case PropAlpha:
		n.SetAlpha(v)
	case PropX:
		if pos := n.position(); pos != nil {
			pos.X = v
		}
	case PropY:
		if pos := n.position(); pos != nil {
			pos.Y = v
		}
	}
}
