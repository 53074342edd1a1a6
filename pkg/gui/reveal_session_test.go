package gui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ticksToComplete 推进会话直到完成，返回 tick 次数
func ticksToComplete(t *testing.T, s *RevealSession) int {
	t.Helper()
	for ticks := 1; ticks <= 10000; ticks++ {
		if _, done := s.Tick(); done {
			return ticks
		}
	}
	t.Fatal("会话未完成")
	return 0
}

func TestRevealSessionNaturalCompletion(t *testing.T) {
	for _, text := range []string{"a", "Hello\n", "你好，世界\n", strings.Repeat("x", 57)} {
		s := NewRevealSession(text, NewPunctuationPolicy(nil, 5), nil)
		assert.Equal(t, s.Len(), ticksToComplete(t, s), "无标点时 L 个 tick 完成: %q", text)
		assert.Equal(t, text, s.Shown())
		assert.Equal(t, text, s.Final())
		assert.Equal(t, 0, s.Remaining())
	}
}

func TestRevealSessionPunctuationWait(t *testing.T) {
	s := NewRevealSession("ab.cd", NewPunctuationPolicy([]string{"."}, 2), nil)

	var appended []string
	for {
		ch, done := s.Tick()
		appended = append(appended, ch)
		if done {
			break
		}
	}
	// 标点后 2 个 tick 不显示字符
	assert.Equal(t, []string{"a", "b", ".", "", "", "c", "d"}, appended)
}

func TestRevealSessionTrailingMarkCompletesImmediately(t *testing.T) {
	s := NewRevealSession("ok!", NewPunctuationPolicy([]string{"!"}, 4), nil)
	assert.Equal(t, 3, ticksToComplete(t, s))
}

func TestRevealSessionIndexMonotoneAndBounded(t *testing.T) {
	s := NewRevealSession("a,b", NewPunctuationPolicy([]string{","}, 1), nil)

	last := 0
	for i := 0; i < 10; i++ {
		s.Tick()
		require.GreaterOrEqual(t, s.Index(), last)
		require.LessOrEqual(t, s.Index(), s.Len())
		last = s.Index()
	}

	ch, done := s.Tick()
	assert.Empty(t, ch, "完成后 Tick 无效果")
	assert.True(t, done)
	assert.Equal(t, "a,b", s.Shown())
}

func TestRevealSessionGraphemes(t *testing.T) {
	s := NewRevealSession("👍🏽a", NewPunctuationPolicy(nil, 0), nil)
	assert.Equal(t, 2, s.Len(), "按字素簇计数")
	ch, _ := s.Tick()
	assert.Equal(t, "👍🏽", ch)
}

func TestRevealSessionDrivesCue(t *testing.T) {
	sound := &fakeSound{}
	policy := NewPunctuationPolicy(nil, 0)
	s := NewRevealSession("aaaaa", policy, NewCueCoordinator(sound, 3, policy, nil))
	ticksToComplete(t, s)
	assert.Equal(t, 2, sound.Plays(), "第 1、5 个字符播放")
}
