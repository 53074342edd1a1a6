package config

// 舞台和文字演出相关的常量配置

const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 800

	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 600

	// TicksPerSecond 游戏循环频率（与 Ebitengine 默认 TPS 一致）
	TicksPerSecond = 60
)

const (
	// MinTextSpeedMS 每字符间隔低于该值时视为"瞬间显示"
	MinTextSpeedMS = 10

	// DefaultTextSpeedMS 默认每字符间隔（毫秒）
	DefaultTextSpeedMS = 50

	// DefaultPunctuationWait 标点后默认停顿的 tick 数
	DefaultPunctuationWait = 5

	// DefaultFadeTimeMS 默认转场时长（毫秒）
	DefaultFadeTimeMS = 750

	// DefaultAutoDelayMS 自动模式下默认的消息停留时长（毫秒）
	DefaultAutoDelayMS = 1500

	// SkipDelayMS 快进模式下每条消息的停留时长（毫秒）
	SkipDelayMS = 50

	// CtcBlinkDurationMS 「点击继续」图标闪烁周期（毫秒）
	CtcBlinkDurationMS = 400

	// DefaultFontSize 未配置字号时使用的字号
	DefaultFontSize = 20.0

	// DefaultLineSpacing 未配置行距时的行高倍数
	DefaultLineSpacing = 1.4
)

// VoiceNone 语音名为该值时表示显式静音
const VoiceNone = "none"

// TransitionFadeOut 隐藏元素时默认使用的转场
const TransitionFadeOut = "FADEOUT"

// CtcAnimationSpritesheet ctc 使用精灵表帧动画（否则使用透明度闪烁）
const CtcAnimationSpritesheet = "spritesheet"
