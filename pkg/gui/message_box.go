package gui

import (
	"fmt"
	"image/color"
	"log"
	"strings"
	"time"

	"github.com/decker502/vnovel/pkg/clock"
	"github.com/decker502/vnovel/pkg/components"
	"github.com/decker502/vnovel/pkg/config"
	"github.com/decker502/vnovel/pkg/future"
	"github.com/decker502/vnovel/pkg/input"
	"github.com/decker502/vnovel/pkg/stage"
	"github.com/decker502/vnovel/pkg/utils"
)

// Control 只读的全局演出模式
type Control interface {
	Skipping() bool
	Auto() bool
}

// SoundResolver 按名称查找音效
type SoundResolver interface {
	Sound(name string) (stage.Sound, bool)
}

// MessageBoxDeps 消息框依赖
type MessageBoxDeps struct {
	Factory   stage.Factory
	Tweener   stage.Tweener
	Sounds    SoundResolver // 可以为 nil
	Scheduler clock.Scheduler
	Gate      *input.AdvanceGate
	Control   Control
	// Volume 当前音效音量，每次播放时读取
	Volume func() float64
	// TextSpeed 每字符间隔（毫秒）
	TextSpeed   func() int
	Punctuation PunctuationPolicy
	CharPerCue  config.CharPerCue
}

// revealRun 进行中的一次显示
type revealRun struct {
	session *RevealSession
	done    *future.Future
	timer   clock.TimerID
	gate    input.Registration
	gated   bool
}

// MessageBox 对话框：逐字显示文本、打字音效、点击跳过和「点击继续」图标
//
// 每个消息框同时最多只有一个进行中的显示。
type MessageBox struct {
	id       string
	alwaysOn bool
	deps     MessageBoxDeps

	box   stage.Sprite
	label stage.Label
	ctc   stage.Sprite // 可选

	defaultSfx stage.Sound // 可选
	ctcSfx     stage.Sound // 可选

	run *revealRun
}

// NewMessageBox 根据配置创建消息框
// 背景图片或字体缺失时返回 ConfigurationError；
// 「点击继续」图标和音效缺失时静默跳过。
func NewMessageBox(cfg config.MessageBoxConfig, deps MessageBoxDeps) (*MessageBox, error) {
	if deps.Factory == nil || deps.Scheduler == nil {
		return nil, fmt.Errorf("message box %q: factory and scheduler are required", cfg.ID)
	}
	if deps.Gate == nil {
		deps.Gate = input.NewAdvanceGate()
	}
	if deps.TextSpeed == nil {
		deps.TextSpeed = func() int { return config.DefaultTextSpeedMS }
	}

	box, err := deps.Factory.NewImage(stage.ImageSpec{
		Name:  "messagebox:" + cfg.ID,
		Key:   cfg.Asset,
		Pos:   stage.Point{X: cfg.X, Y: cfg.Y},
		Layer: components.LayerGUI,
	})
	if err != nil {
		return nil, fmt.Errorf("message box %q: %w", cfg.ID, err)
	}
	box.SetAlpha(1)

	textColor := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if cfg.Text.Color != "" {
		if textColor, err = config.ParseHexColor(cfg.Text.Color); err != nil {
			deps.Factory.Destroy(box)
			return nil, config.NewConfigurationError("text color", cfg.ID, err)
		}
	}

	label, err := deps.Factory.NewText(stage.TextSpec{
		Name:        "messagebox:" + cfg.ID + ":text",
		Font:        cfg.Text.Font,
		Size:        cfg.Text.Size,
		Color:       textColor,
		Pos:         stage.Point{X: cfg.Text.X, Y: cfg.Text.Y},
		Width:       cfg.Text.Width,
		LineSpacing: cfg.Text.LineSpacing,
		Layer:       components.LayerGUI + 1,
	})
	if err != nil {
		deps.Factory.Destroy(box)
		return nil, fmt.Errorf("message box %q: %w", cfg.ID, err)
	}
	label.SetAlpha(1)

	m := &MessageBox{
		id:       cfg.ID,
		alwaysOn: cfg.AlwaysOn,
		deps:     deps,
		box:      box,
		label:    label,
	}
	m.defaultSfx = m.lookupSound(cfg.Sfx)
	if cfg.Ctc != nil {
		m.createCtc(*cfg.Ctc)
	}
	return m, nil
}

func (m *MessageBox) createCtc(cfg config.CtcConfig) {
	ctc, err := m.deps.Factory.NewImage(stage.ImageSpec{
		Name:  "messagebox:" + m.id + ":ctc",
		Key:   cfg.Asset,
		Pos:   stage.Point{X: cfg.X, Y: cfg.Y},
		Layer: components.LayerGUI + 2,
	})
	if err != nil {
		log.Printf("[MessageBox] Warning: ctc for %q not available: %v", m.id, err)
		return
	}
	m.ctc = ctc
	m.ctcSfx = m.lookupSound(cfg.Sfx)

	if cfg.AnimationStyle == config.CtcAnimationSpritesheet {
		ctc.SetAlpha(1)
		if err := m.deps.Factory.AddAnimation(ctc, "ctc", cfg.Asset, cfg.FrameRate); err != nil {
			log.Printf("[MessageBox] Warning: ctc animation for %q: %v", m.id, err)
			return
		}
		ctc.PlayAnimation("ctc", true)
		return
	}

	// 闪烁：透明度 0 -> 1 往返循环
	if m.deps.Tweener == nil {
		ctc.SetAlpha(1)
		return
	}
	from := 0.0
	ctc.SetAlpha(0)
	m.deps.Tweener.Tween(ctc, stage.PropAlpha, 1, config.CtcBlinkDurationMS*time.Millisecond, utils.EaseLinear,
		stage.TweenOptions{Loop: true, Yoyo: true, From: &from})
}

func (m *MessageBox) lookupSound(name string) stage.Sound {
	if name == "" || name == config.VoiceNone || m.deps.Sounds == nil {
		return nil
	}
	sound, ok := m.deps.Sounds.Sound(name)
	if !ok {
		log.Printf("[MessageBox] Warning: sound %q not found, cue disabled", name)
		return nil
	}
	return sound
}

// resolveVoice "none" 静音，空字符串使用默认音效，其他名称查找音效
func (m *MessageBox) resolveVoice(voice string) stage.Sound {
	switch voice {
	case config.VoiceNone:
		return nil
	case "":
		return m.defaultSfx
	default:
		return m.lookupSound(voice)
	}
}

// ID 消息框 ID
func (m *MessageBox) ID() string {
	return m.id
}

// Active 是否有进行中的显示
func (m *MessageBox) Active() bool {
	return m.run != nil
}

// Text 当前显示的文本
func (m *MessageBox) Text() string {
	return m.label.Text()
}

// Visible 消息框是否可见
func (m *MessageBox) Visible() bool {
	return m.box.Visible()
}

// CtcVisible 「点击继续」图标是否可见
func (m *MessageBox) CtcVisible() bool {
	return m.ctc != nil && m.ctc.Visible()
}

// Layout 将文本换行，并在每行末尾加上换行符
func (m *MessageBox) Layout(text string) string {
	var sb strings.Builder
	for _, line := range m.label.Wrap(text) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Show 显示一段文本
//
// voice 为 "none" 时静音，为空时使用消息框默认音效。
// 返回的 future 在文本完全显示（自然结束或被跳过）时以 true 解析；
// 跳过模式或间隔过短时直接显示全文，返回已解析的 future。
// 已有进行中的显示时，先将其结束（以 true 解析，不显示图标也不播放图标音效）。
func (m *MessageBox) Show(text, voice string) *future.Future {
	if m.run != nil {
		m.complete(m.run, false)
	}

	final := m.Layout(text)
	interval := m.deps.TextSpeed()
	skipping := m.deps.Control != nil && m.deps.Control.Skipping()

	if skipping || interval < config.MinTextSpeedMS {
		m.label.SetText(final)
		m.setVisible(true)
		if m.ctc != nil {
			m.ctc.SetVisible(true)
		}
		return future.Resolved(true)
	}

	cue := m.resolveVoice(voice)
	cadence := ResolveCadence(m.deps.CharPerCue, cue, interval)
	session := NewRevealSession(final, m.deps.Punctuation, NewCueCoordinator(cue, cadence, m.deps.Punctuation, m.deps.Volume))

	m.label.SetText("")
	if m.ctc != nil {
		m.ctc.SetVisible(false)
	}
	m.setVisible(true)

	run := &revealRun{session: session, done: future.New()}
	m.run = run

	if session.Len() == 0 {
		m.complete(run, true)
		return run.done
	}

	run.timer = m.deps.Scheduler.Every(time.Duration(interval)*time.Millisecond, func() {
		m.tick(run)
	})
	if m.deps.Control == nil || !m.deps.Control.Auto() {
		run.gate = m.deps.Gate.WaitForAdvance(func() {
			m.complete(run, true)
		})
		run.gated = true
	}
	return run.done
}

func (m *MessageBox) tick(run *revealRun) {
	if m.run != run {
		return
	}
	appended, done := run.session.Tick()
	if appended != "" {
		m.label.SetText(run.session.Shown())
	}
	if done {
		m.complete(run, true)
	}
}

// complete 结束显示；同一次显示只生效一次
// showCtc 为 false 时（Clear）不显示图标也不播放音效
func (m *MessageBox) complete(run *revealRun, showCtc bool) {
	if m.run != run {
		return
	}
	m.run = nil

	m.deps.Scheduler.Cancel(run.timer)
	if run.gated {
		m.deps.Gate.Cancel(run.gate)
	}

	if showCtc {
		m.label.SetText(run.session.Final())
		if m.ctc != nil {
			m.ctc.SetVisible(true)
			if m.ctcSfx != nil {
				m.ctcSfx.Play(m.volume())
			}
		}
	}
	run.done.Resolve(true)
}

// Skip 立即完成进行中的显示（与点击跳过相同）
func (m *MessageBox) Skip() {
	if m.run != nil {
		m.complete(m.run, true)
	}
}

// Clear 清空文本并隐藏消息框（alwaysOn 的消息框保持可见）
// 进行中的显示会被结束，其 future 以 true 解析但不播放图标音效
func (m *MessageBox) Clear() {
	if m.run != nil {
		m.complete(m.run, false)
	}
	if !m.alwaysOn {
		m.setVisible(false)
	}
	m.label.SetText("")
	if m.ctc != nil {
		m.ctc.SetVisible(false)
	}
}

// Destroy 销毁消息框的所有舞台元素
// 音效由资源缓存共享，不在这里停止
func (m *MessageBox) Destroy() {
	if m.run != nil {
		m.complete(m.run, false)
	}
	if m.ctc != nil {
		if m.deps.Tweener != nil {
			m.deps.Tweener.StopTweens(m.ctc, stage.PropAlpha)
		}
		m.deps.Factory.Destroy(m.ctc)
	}
	m.deps.Factory.Destroy(m.label)
	m.deps.Factory.Destroy(m.box)
}

func (m *MessageBox) setVisible(visible bool) {
	m.box.SetVisible(visible)
	m.label.SetVisible(visible)
}

func (m *MessageBox) volume() float64 {
	if m.deps.Volume == nil {
		return 1
	}
	return m.deps.Volume()
}
