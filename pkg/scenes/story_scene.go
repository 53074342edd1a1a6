package scenes

import (
	"fmt"
	"log"
	"time"

	"github.com/decker502/vnovel/pkg/clock"
	"github.com/decker502/vnovel/pkg/config"
	"github.com/decker502/vnovel/pkg/future"
	"github.com/decker502/vnovel/pkg/gui"
	"github.com/decker502/vnovel/pkg/input"
	"github.com/decker502/vnovel/pkg/managers"
	"github.com/hajimehoshi/ebiten/v2"
)

// defaultBox 未指定消息框时使用的消息框 ID
const defaultBox = "default"

// StageRunner 场景驱动的舞台（更新补间和动画、绘制）
type StageRunner interface {
	Update(deltaTime float64)
	Draw(screen *ebiten.Image)
}

// MusicPlayer 背景音乐
type MusicPlayer interface {
	PlayMusic(id string) bool
	StopMusic()
}

// SoundPlayer 一次性音效
type SoundPlayer interface {
	PlaySound(id string) bool
}

// StoryDeps 故事场景依赖
type StoryDeps struct {
	Stage       StageRunner
	Backgrounds *managers.BackgroundManager
	Characters  *managers.CharacterManager
	Boxes       map[string]*gui.MessageBox
	Music       MusicPlayer // 可以为 nil
	Sounds      SoundPlayer // 可以为 nil
	Scheduler   clock.Scheduler
	Gate        *input.AdvanceGate
	Control     gui.Control
	// AutoDelay 自动模式下消息显示完毕后的停留时长
	AutoDelay time.Duration
}

// advanceWait 消息显示完毕后等待玩家继续
type advanceWait struct {
	fire  func()
	reg   input.Registration
	timer clock.TimerID
	delay time.Duration
	timed bool
}

// StoryScene 按顺序执行演示脚本的步骤
//
// 每个步骤返回一个 future，完成后执行下一步。
// 配置错误（未知背景、角色、转场、消息框）记录日志后跳过该步骤。
type StoryScene struct {
	deps  StoryDeps
	steps []config.StoryStep

	index    int
	started  bool
	finished bool

	activeBox *gui.MessageBox
	wait      *advanceWait
}

// NewStoryScene 创建故事场景，并把脚本中的背景和角色注册到管理器
// 参数：
//   - deps: 场景依赖
//   - script: 已解码的演示脚本
//
// 返回：背景或角色资源缺失时返回错误
func NewStoryScene(deps StoryDeps, script *config.StoryScript) (*StoryScene, error) {
	if deps.Stage == nil || deps.Backgrounds == nil || deps.Characters == nil ||
		deps.Scheduler == nil || deps.Gate == nil || deps.Control == nil {
		return nil, fmt.Errorf("story scene: missing dependencies")
	}
	if deps.AutoDelay < 0 {
		deps.AutoDelay = 0
	}

	for _, bg := range script.Backgrounds {
		asset := bg.Asset
		if asset == "" {
			asset = bg.Name
		}
		if err := deps.Backgrounds.AddAsset(bg.Name, asset, bg.Animated, bg.FrameRate); err != nil {
			return nil, fmt.Errorf("story scene: background %q: %w", bg.Name, err)
		}
	}
	for _, ch := range script.Characters {
		if err := deps.Characters.Add(ch); err != nil {
			return nil, fmt.Errorf("story scene: character %q: %w", ch.Name, err)
		}
	}

	log.Printf("[StoryScene] Loaded %d backgrounds, %d characters, %d steps",
		len(script.Backgrounds), len(script.Characters), len(script.Steps))

	return &StoryScene{
		deps:  deps,
		steps: script.Steps,
	}, nil
}

// Finished 所有步骤是否已经执行完毕
func (s *StoryScene) Finished() bool {
	return s.finished
}

// StepIndex 下一个要执行的步骤序号
func (s *StoryScene) StepIndex() int {
	return s.index
}

// WaitingForAdvance 是否在等待玩家继续
func (s *StoryScene) WaitingForAdvance() bool {
	return s.wait != nil
}

// Update 第一次调用时开始执行脚本，之后每帧检查演出模式并推进舞台
func (s *StoryScene) Update(deltaTime float64) {
	if !s.started {
		s.started = true
		s.advance()
	}
	if s.deps.Control.Skipping() && s.activeBox != nil && s.activeBox.Active() {
		s.activeBox.Skip()
	}
	s.checkWait()
	s.deps.Stage.Update(deltaTime)
}

// Draw 绘制舞台
func (s *StoryScene) Draw(screen *ebiten.Image) {
	s.deps.Stage.Draw(screen)
}

// advance 依次执行步骤，直到遇到未完成的步骤
func (s *StoryScene) advance() {
	for s.index < len(s.steps) {
		step := s.steps[s.index]
		s.index++

		done, err := s.run(step)
		if err != nil {
			log.Printf("[StoryScene] Warning: step %d (%s %q) skipped: %v", s.index, step.Action, step.Target, err)
			continue
		}
		if done == nil || done.IsResolved() {
			continue
		}
		done.Then(func(bool) {
			s.advance()
		})
		return
	}

	if !s.finished {
		s.finished = true
		log.Printf("[StoryScene] Story finished after %d steps", len(s.steps))
	}
}

// run 执行单个步骤，返回步骤完成的 future（nil 表示立即完成）
func (s *StoryScene) run(step config.StoryStep) (*future.Future, error) {
	switch step.Action {
	case config.StepShow:
		return s.deps.Backgrounds.Show(step.Target, step.Transition)
	case config.StepSet:
		return nil, s.deps.Backgrounds.Set(step.Target)
	case config.StepHide:
		return s.hide(step)
	case config.StepCharacter:
		return s.deps.Characters.Show(step.Target, step.Look, step.Position, step.Transition)
	case config.StepSay:
		return s.say(step)
	case config.StepWait:
		return s.delay(time.Duration(step.Duration) * time.Millisecond), nil
	case config.StepMusic:
		s.music(step.Target)
		return nil, nil
	case config.StepSound:
		s.sound(step.Target)
		return nil, nil
	case config.StepClear:
		return s.clear(step.Transition)
	default:
		return nil, config.NewConfigurationError("step", step.Action, nil)
	}
}

// hide 目标是角色时隐藏角色，否则隐藏当前背景
func (s *StoryScene) hide(step config.StoryStep) (*future.Future, error) {
	if s.deps.Characters.IsCharacter(step.Target) {
		return s.deps.Characters.Hide(step.Target, step.Transition)
	}
	if step.Target != "" && !s.deps.Backgrounds.IsBackground(step.Target) {
		return nil, config.NewConfigurationError("hide target", step.Target, nil)
	}
	return s.deps.Backgrounds.Hide(step.Transition)
}

// say 显示消息，文字显示完毕后等待玩家继续
func (s *StoryScene) say(step config.StoryStep) (*future.Future, error) {
	id := step.Box
	if id == "" {
		id = defaultBox
	}
	box, ok := s.deps.Boxes[id]
	if !ok {
		return nil, config.NewConfigurationError("message box", id, nil)
	}

	if s.activeBox != nil && s.activeBox != box {
		s.activeBox.Clear()
	}
	s.activeBox = box

	voice := step.Voice
	if voice == "" && step.Target != "" {
		if v, ok := s.deps.Characters.Voice(step.Target); ok {
			voice = v
		}
	}

	done := future.New()
	box.Show(step.Text, voice).Then(func(bool) {
		s.waitAdvance(func() {
			done.Resolve(true)
		})
	})
	return done, nil
}

// delay wait 步骤；快进模式下立即完成
func (s *StoryScene) delay(d time.Duration) *future.Future {
	if d <= 0 || s.deps.Control.Skipping() {
		return nil
	}
	done := future.New()
	s.deps.Scheduler.After(d, func() {
		done.Resolve(true)
	})
	return done
}

// music 播放背景音乐，目标为空或 "stop" 时停止
func (s *StoryScene) music(id string) {
	if s.deps.Music == nil {
		return
	}
	if id == "" || id == "stop" {
		s.deps.Music.StopMusic()
		return
	}
	if !s.deps.Music.PlayMusic(id) {
		log.Printf("[StoryScene] Warning: music %q not played", id)
	}
}

// sound 播放一次音效
func (s *StoryScene) sound(id string) {
	if s.deps.Sounds == nil {
		return
	}
	if !s.deps.Sounds.PlaySound(id) {
		log.Printf("[StoryScene] Warning: sound %q not played", id)
	}
}

// clear 清空所有消息框并隐藏所有在场角色
func (s *StoryScene) clear(transitionName string) (*future.Future, error) {
	for _, box := range s.deps.Boxes {
		box.Clear()
	}
	s.activeBox = nil
	return s.deps.Characters.HideAll(transitionName)
}

// waitAdvance 等待点击；自动模式下 AutoDelay 后、快进模式下 SkipDelayMS 后自动继续
func (s *StoryScene) waitAdvance(then func()) {
	w := &advanceWait{}
	w.fire = func() {
		if s.wait != w {
			return
		}
		s.wait = nil
		s.deps.Gate.Cancel(w.reg)
		if w.timed {
			s.deps.Scheduler.Cancel(w.timer)
		}
		then()
	}
	s.wait = w
	w.reg = s.deps.Gate.WaitForAdvance(w.fire)
	s.checkWait()
}

// checkWait 根据当前演出模式安排或取消自动继续的计时器
func (s *StoryScene) checkWait() {
	w := s.wait
	if w == nil {
		return
	}

	var (
		delay time.Duration
		want  bool
	)
	switch {
	case s.deps.Control.Skipping():
		delay, want = config.SkipDelayMS*time.Millisecond, true
	case s.deps.Control.Auto():
		delay, want = s.deps.AutoDelay, true
	}

	if !want {
		if w.timed {
			s.deps.Scheduler.Cancel(w.timer)
			w.timed = false
		}
		return
	}
	if w.timed && w.delay == delay {
		return
	}
	if w.timed {
		s.deps.Scheduler.Cancel(w.timer)
	}
	w.timer = s.deps.Scheduler.After(delay, w.fire)
	w.delay = delay
	w.timed = true
}
