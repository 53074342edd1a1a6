package gui

import (
	"strings"
	"unicode"

	"github.com/decker502/vnovel/pkg/stage"
)

// CueCoordinator 决定每个新显示的字符是否播放打字音效
//
// 计数规则（顺序即契约）：
//  1. 空白、停顿标点，或计数等于节奏值：计数置为 -1，不播放
//  2. 否则计数为 0 时播放音效（音量在播放时读取）
//  3. 计数加一
//
// 节奏为 C 且没有空白和标点时，音效在第 1、C+2、2C+3… 个字符播放。
type CueCoordinator struct {
	cue     stage.Sound
	cadence int
	count   int
	policy  PunctuationPolicy
	volume  func() float64
}

// NewCueCoordinator 创建音效协调器
// 参数：
//   - cue: 音效，nil 表示静音
//   - cadence: 节奏值
//   - policy: 标点策略
//   - volume: 当前音效音量（每次播放时调用）
func NewCueCoordinator(cue stage.Sound, cadence int, policy PunctuationPolicy, volume func() float64) *CueCoordinator {
	return &CueCoordinator{
		cue:     cue,
		cadence: cadence,
		policy:  policy,
		volume:  volume,
	}
}

// OnCharacterAppended 每个显示字符的 tick 调用一次（停顿 tick 不调用）
func (c *CueCoordinator) OnCharacterAppended(ch string) {
	if c == nil || c.cue == nil {
		return
	}

	if isBlank(ch) || c.policy.IsMark(ch) || c.count == c.cadence {
		c.count = -1
	} else if c.count == 0 {
		vol := 1.0
		if c.volume != nil {
			vol = c.volume()
		}
		c.cue.Play(vol)
	}
	c.count++
}

// Cadence 节奏值
func (c *CueCoordinator) Cadence() int {
	return c.cadence
}

func isBlank(ch string) bool {
	return strings.TrimFunc(ch, unicode.IsSpace) == ""
}
