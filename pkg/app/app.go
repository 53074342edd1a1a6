// Package app 提供播放器应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来：读取故事目录中的配置，
// 装配舞台、转场、管理器和消息框，并驱动故事场景。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"log"
	"os"
	"sort"
	"time"

	"github.com/decker502/vnovel/pkg/clock"
	"github.com/decker502/vnovel/pkg/config"
	"github.com/decker502/vnovel/pkg/game"
	"github.com/decker502/vnovel/pkg/gui"
	"github.com/decker502/vnovel/pkg/input"
	"github.com/decker502/vnovel/pkg/managers"
	"github.com/decker502/vnovel/pkg/scenes"
	"github.com/decker502/vnovel/pkg/stage"
	"github.com/decker502/vnovel/pkg/transition"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// 故事目录中的配置文件
const (
	ResourcesFile    = "resources.yaml"
	GUIFile          = "gui.yaml"
	StoryConfigFile  = "story.yaml"
	DefaultStoryFile = "script.yaml"
)

// frameDuration 每个 tick 推进的虚拟时间
const frameDuration = time.Second / config.TicksPerSecond

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Dir 故事目录，为空时使用当前目录
	Dir string
	// Story 演示脚本文件（相对 Dir），为空时使用 script.yaml
	Story string
	// Skip 以快进模式启动并保持快进
	Skip bool
	// Auto 以自动模式启动
	Auto bool
	// Fullscreen 以全屏启动（覆盖已保存的设置）
	Fullscreen bool
}

// frameInput 单帧的输入状态
type frameInput struct {
	advance     bool
	skipHeld    bool
	autoToggled bool
	settings    input.SettingsInput
}

// App 是播放器应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	clock        *clock.Clock
	gate         *input.AdvanceGate
	control      *game.Control
	settings     *game.SettingsManager
	audio        *game.AudioManager
	resources    *game.ResourceManager
	stage        *stage.Stage
	boxes        map[string]*gui.MessageBox

	width, height int
	skipLocked    bool // --skip 启动时始终快进
	verbose       bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化播放器应用
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}

	// 初始化音频上下文
	audioContext := audio.NewContext(game.DefaultSampleRate)

	// 用户设置保存在 gdata 目录，打开失败时降级为仅内存设置
	gdataManager, err := gdata.Open(gdata.Config{AppName: "vnovel"})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (settings will not persist)", err)
		gdataManager = nil
	}
	settings, _ := game.NewSettingsManager(gdataManager)

	return newApp(os.DirFS(dir), audioContext, settings, cfg)
}

// newApp 从故事文件系统装配应用
// audioContext 可以为 nil（静音，音效仍按解码时长计算节奏）
func newApp(fsys fs.FS, audioContext *audio.Context, settings *game.SettingsManager, cfg Config) (*App, error) {
	storyCfg, err := loadStoryConfig(fsys)
	if err != nil {
		return nil, err
	}
	guiCfg, err := loadGUIConfig(fsys)
	if err != nil {
		return nil, err
	}

	// 创建资源管理器
	resourceManager := game.NewResourceManager(fsys, audioContext)
	if err := resourceManager.LoadResourceConfig(ResourcesFile); err != nil {
		return nil, fmt.Errorf("资源配置加载失败: %w", err)
	}

	if cfg.Fullscreen {
		settings.SetFullscreen(true)
	}

	audioManager := game.NewAudioManager(resourceManager, settings)
	audioManager.PreloadSounds(resourceManager.SoundIDs())
	log.Printf("[App] AudioManager initialized")

	a := &App{
		clock:      clock.NewClock(),
		gate:       input.NewAdvanceGate(),
		control:    game.NewControl(cfg.Skip, cfg.Auto),
		settings:   settings,
		audio:      audioManager,
		resources:  resourceManager,
		width:      storyCfg.Width,
		height:     storyCfg.Height,
		skipLocked: cfg.Skip,
		verbose:    cfg.Verbose,
	}

	st := stage.NewStage(resourceManager, storyCfg.Width, storyCfg.Height)
	a.stage = st
	transitions := transition.NewDefaultRegistry(st, st, a.control, transition.Options{
		FadeTime: time.Duration(storyCfg.FadeTime) * time.Millisecond,
		Width:    storyCfg.Width,
		Height:   storyCfg.Height,
	})

	boxes, err := a.newMessageBoxes(guiCfg, storyCfg, st)
	if err != nil {
		return nil, err
	}
	a.boxes = boxes

	// 创建场景管理器，场景名称即脚本路径
	a.sceneManager = game.NewSceneManager()
	a.sceneManager.SetSceneFactory(func(name string) (game.Scene, error) {
		script, err := config.LoadStoryScript(fsys, name)
		if err != nil {
			return nil, err
		}
		if err := a.preload(script.Preload); err != nil {
			return nil, err
		}
		return scenes.NewStoryScene(scenes.StoryDeps{
			Stage:       st,
			Backgrounds: managers.NewBackgroundManager(st, transitions, st.Center()),
			Characters:  managers.NewCharacterManager(st, transitions, storyCfg.Width, storyCfg.Height),
			Boxes:       boxes,
			Music:       audioManager,
			Sounds:      audioManager,
			Scheduler:   a.clock,
			Gate:        a.gate,
			Control:     a.control,
			AutoDelay:   time.Duration(storyCfg.AutoDelay) * time.Millisecond,
		}, script)
	})

	storyFile := cfg.Story
	if storyFile == "" {
		storyFile = DefaultStoryFile
	}
	if err := a.sceneManager.Load(storyFile); err != nil {
		return nil, err
	}

	log.Printf("[App] Starting story: %s (skip=%v, auto=%v)", storyFile, cfg.Skip, cfg.Auto)
	return a, nil
}

// newMessageBoxes 按 ID 顺序创建界面配置中的所有消息框
func (a *App) newMessageBoxes(guiCfg *config.GUIConfig, storyCfg *config.StoryConfig, st *stage.Stage) (map[string]*gui.MessageBox, error) {
	ids := make([]string, 0, len(guiCfg.MessageBoxes))
	for id := range guiCfg.MessageBoxes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	punctuation := gui.PolicyFromStoryConfig(storyCfg)
	boxes := make(map[string]*gui.MessageBox, len(ids))
	for _, id := range ids {
		boxCfg, err := guiCfg.MessageBox(id)
		if err != nil {
			return nil, err
		}
		box, err := gui.NewMessageBox(boxCfg, gui.MessageBoxDeps{
			Factory:     st,
			Tweener:     st,
			Sounds:      a.audio,
			Scheduler:   a.clock,
			Gate:        a.gate,
			Control:     a.control,
			Volume:      a.audio.SoundVolume,
			TextSpeed:   a.settings.TextSpeed,
			Punctuation: punctuation,
			CharPerCue:  storyCfg.CharPerSfx,
		})
		if err != nil {
			return nil, err
		}
		boxes[id] = box
	}
	return boxes, nil
}

// preload 预加载脚本声明的资源组
func (a *App) preload(groups []string) error {
	for _, group := range groups {
		if err := a.resources.LoadResourceGroup(group); err != nil {
			return fmt.Errorf("资源组预加载失败: %w", err)
		}
	}
	return nil
}

// loadStoryConfig 读取 story.yaml，文件不存在时使用默认值
func loadStoryConfig(fsys fs.FS) (*config.StoryConfig, error) {
	cfg, err := config.LoadStoryConfig(fsys, StoryConfigFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[App] %s not found, using default story config", StoryConfigFile)
		return config.DefaultStoryConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("故事配置加载失败: %w", err)
	}
	return cfg, nil
}

func loadGUIConfig(fsys fs.FS) (*config.GUIConfig, error) {
	cfg, err := config.LoadGUIConfig(fsys, GUIFile)
	if err != nil {
		return nil, fmt.Errorf("界面配置加载失败: %w", err)
	}
	return cfg, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）；故事结束时返回 ebiten.Termination
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.width, a.height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.width, a.height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	return a.step(frameInput{
		advance:     input.PollAdvance(),
		skipHeld:    input.IsSkipHeld(),
		autoToggled: input.IsAutoToggled(),
		settings:    input.PollSettings(),
	})
}

// step 处理一帧：更新演出模式，分发推进输入，推进虚拟时钟，再更新场景
func (a *App) step(in frameInput) error {
	a.control.SetSkipping(a.skipLocked || in.skipHeld)
	if in.autoToggled {
		log.Printf("[App] Auto mode: %v", a.control.ToggleAuto())
	}
	if !in.settings.Empty() {
		a.adjustSettings(in.settings)
	}

	if in.advance {
		a.gate.Dispatch()
	}
	a.clock.Advance(frameDuration)
	a.sceneManager.Update(frameDuration.Seconds())

	if a.sceneManager.Finished() {
		log.Printf("[App] Story finished")
		return ebiten.Termination
	}
	return nil
}

// adjustSettings 应用设置快捷键；音量对进行中的打字音效立即生效，退出时保存
func (a *App) adjustSettings(in input.SettingsInput) {
	s := a.settings.GetSettings()
	if in.SoundVolume != 0 {
		a.audio.SetSoundVolume(s.SoundVolume + in.SoundVolume)
	}
	if in.ToggleSound {
		a.settings.SetSoundEnabled(!s.SoundEnabled)
	}
	if in.ToggleMusic {
		a.settings.SetMusicEnabled(!s.MusicEnabled)
	}
	if in.MusicVolume != 0 || in.ToggleMusic {
		a.audio.SetMusicVolume(s.MusicVolume + in.MusicVolume)
	}
	if in.TextSpeed != 0 {
		a.settings.SetTextSpeed(a.settings.TextSpeed() + in.TextSpeed)
	}
	s = a.settings.GetSettings()
	log.Printf("[App] Settings: sound=%.1f (on=%v) music=%.1f (on=%v) textSpeed=%dms",
		s.SoundVolume, s.SoundEnabled, s.MusicVolume, s.MusicEnabled, s.TextSpeed)
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		// 退出全屏
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	} else {
		ebiten.SetFullscreen(true)
	}
	a.settings.SetFullscreen(!a.settings.GetSettings().Fullscreen)
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	// 先填充黑色背景（全屏时左右两边为黑色）
	screen.Fill(color.Black)
	// 使用线性滤波绘制游戏画面，提高缩放质量
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}

// WindowSize 逻辑屏幕尺寸，用于设置初始窗口大小
func (a *App) WindowSize() (int, int) {
	return a.width, a.height
}

// Fullscreen 是否应以全屏启动（已保存的设置）
func (a *App) Fullscreen() bool {
	return a.settings.GetSettings().Fullscreen
}

// Close 销毁消息框，停止所有音频并保存设置
func (a *App) Close() error {
	for _, box := range a.boxes {
		box.Destroy()
	}
	a.boxes = nil
	a.audio.StopAll()
	if err := a.settings.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
