package gui

import (
	"math"

	"github.com/decker502/vnovel/pkg/config"
	"github.com/decker502/vnovel/pkg/stage"
)

// PunctuationPolicy 标点停顿策略
//
// 显示到 Marks 中的字符后，接下来 Wait 个 tick 不显示新字符。
type PunctuationPolicy struct {
	Marks []string
	Wait  int
}

// NewPunctuationPolicy 创建标点策略（复制 marks，之后对配置的修改不影响已创建的策略）
func NewPunctuationPolicy(marks []string, wait int) PunctuationPolicy {
	if wait < 0 {
		wait = 0
	}
	return PunctuationPolicy{
		Marks: append([]string(nil), marks...),
		Wait:  wait,
	}
}

// PolicyFromStoryConfig 从故事配置创建标点策略
func PolicyFromStoryConfig(cfg *config.StoryConfig) PunctuationPolicy {
	if cfg == nil {
		return NewPunctuationPolicy(nil, config.DefaultPunctuationWait)
	}
	return NewPunctuationPolicy(cfg.PunctuationMarks, cfg.PunctuationWait)
}

// IsMark 字符是否为停顿标点
func (p PunctuationPolicy) IsMark(ch string) bool {
	for _, m := range p.Marks {
		if m == ch {
			return true
		}
	}
	return false
}

// ResolveCadence 计算本次显示使用的音效节奏（每多少个字符播放一次）
//
//   - 固定值 n：使用 n
//   - auto 且有音效：ceil(音效时长 / 每字符间隔)，至少为 1
//   - 其他情况：1
func ResolveCadence(c config.CharPerCue, cue stage.Sound, intervalMS int) int {
	if c.Auto {
		if cue == nil || intervalMS <= 0 {
			return 1
		}
		n := int(math.Ceil(float64(cue.DurationMS()) / float64(intervalMS)))
		if n < 1 {
			return 1
		}
		return n
	}
	if c.N < 1 {
		return 1
	}
	return c.N
}
