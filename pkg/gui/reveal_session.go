package gui

import (
	"strings"

	"github.com/decker502/vnovel/pkg/utils"
)

// RevealSession 一次逐字显示的状态机
//
// 只由 Tick 推进，不依赖具体的定时器实现。
type RevealSession struct {
	final      string
	chars      []string
	index      int
	waitingFor int
	policy     PunctuationPolicy
	cue        *CueCoordinator
	shown      strings.Builder
}

// NewRevealSession 创建显示会话
// 参数：
//   - final: 已换行的完整文本
//   - policy: 标点策略
//   - cue: 音效协调器，可以为 nil
func NewRevealSession(final string, policy PunctuationPolicy, cue *CueCoordinator) *RevealSession {
	return &RevealSession{
		final:  final,
		chars:  utils.Graphemes(final),
		policy: policy,
		cue:    cue,
	}
}

// Tick 推进一步
// 返回：
//   - appended: 本次显示的字符，停顿 tick 为空
//   - done: 是否已显示完全部字符
func (s *RevealSession) Tick() (appended string, done bool) {
	if s.Done() {
		return "", true
	}
	if s.waitingFor > 0 {
		s.waitingFor--
		return "", false
	}

	ch := s.chars[s.index]
	s.shown.WriteString(ch)
	s.cue.OnCharacterAppended(ch)
	if s.policy.IsMark(ch) {
		s.waitingFor = s.policy.Wait
	}
	s.index++
	return ch, s.Done()
}

// Done 是否已显示完
func (s *RevealSession) Done() bool {
	return s.index >= len(s.chars)
}

// Index 已显示的字符数
func (s *RevealSession) Index() int {
	return s.index
}

// Len 总字符数
func (s *RevealSession) Len() int {
	return len(s.chars)
}

// Remaining 尚未显示的字符数
func (s *RevealSession) Remaining() int {
	return len(s.chars) - s.index
}

// Shown 已显示的文本
func (s *RevealSession) Shown() string {
	return s.shown.String()
}

// Final 完整文本
func (s *RevealSession) Final() string {
	return s.final
}
