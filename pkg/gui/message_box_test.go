package gui

import (
	"errors"
	"testing"
	"time"

	"github.com/decker502/vnovel/pkg/clock"
	"github.com/decker502/vnovel/pkg/config"
	"github.com/decker502/vnovel/pkg/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 50 * time.Millisecond

type boxFixture struct {
	box     *MessageBox
	factory *fakeFactory
	tweener *fakeTweener
	clock   *clock.Clock
	gate    *input.AdvanceGate
	control *fakeControl
	sounds  fakeSounds
	speed   int
	volume  float64
}

func newBoxFixture(t *testing.T, mutate func(cfg *config.MessageBoxConfig, deps *MessageBoxDeps)) *boxFixture {
	t.Helper()
	f := &boxFixture{
		factory: newFakeFactory("IMAGE_BOX", "IMAGE_CTC"),
		tweener: &fakeTweener{},
		clock:   clock.NewClock(),
		gate:    input.NewAdvanceGate(),
		control: &fakeControl{},
		sounds: fakeSounds{
			"SOUND_TYPE": {name: "SOUND_TYPE", duration: 120},
			"SOUND_CTC":  {name: "SOUND_CTC"},
			"VOICE_ANNA": {name: "VOICE_ANNA", duration: 100},
		},
		speed:  50,
		volume: 0.7,
	}

	cfg := config.MessageBoxConfig{
		ID:    "default",
		Asset: "IMAGE_BOX",
		Sfx:   "SOUND_TYPE",
		Text:  config.TextConfig{X: 40, Y: 450, Width: 720},
		Ctc:   &config.CtcConfig{X: 740, Y: 560, Asset: "IMAGE_CTC", Sfx: "SOUND_CTC"},
	}
	deps := MessageBoxDeps{
		Factory:     f.factory,
		Tweener:     f.tweener,
		Sounds:      f.sounds,
		Scheduler:   f.clock,
		Gate:        f.gate,
		Control:     f.control,
		Volume:      func() float64 { return f.volume },
		TextSpeed:   func() int { return f.speed },
		Punctuation: NewPunctuationPolicy([]string{"."}, 2),
		CharPerCue:  config.FixedCharPerCue(1),
	}
	if mutate != nil {
		mutate(&cfg, &deps)
	}

	box, err := NewMessageBox(cfg, deps)
	require.NoError(t, err)
	f.box = box
	return f
}

func (f *boxFixture) ticks(n int) {
	for i := 0; i < n; i++ {
		f.clock.Advance(tick)
	}
}

func TestMessageBoxNaturalCompletion(t *testing.T) {
	f := newBoxFixture(t, nil)

	done := f.box.Show("Hello", "")
	assert.True(t, f.box.Visible())
	assert.False(t, f.box.CtcVisible())
	assert.Equal(t, "", f.box.Text())
	assert.True(t, f.gate.Armed())

	// "Hello\n" 共 6 个字符：5 个 tick 后仍未完成
	f.ticks(5)
	assert.False(t, done.IsResolved())
	assert.Equal(t, "Hello", f.box.Text())

	f.ticks(1)
	require.True(t, done.IsResolved())
	assert.True(t, done.Value())
	assert.Equal(t, "Hello\n", f.box.Text())
	assert.True(t, f.box.CtcVisible())
	assert.False(t, f.box.Active())
	assert.Equal(t, 0, f.clock.Pending(), "完成后定时器被取消")
	assert.False(t, f.gate.Armed(), "完成后取消点击监听")
	assert.Equal(t, []float64{0.7}, f.sounds["SOUND_CTC"].volumes)
}

func TestMessageBoxPunctuationPause(t *testing.T) {
	f := newBoxFixture(t, nil)

	done := f.box.Show("a.b", "none")
	f.ticks(2)
	assert.Equal(t, "a.", f.box.Text())

	// 标点后 2 个 tick 不显示字符
	f.ticks(2)
	assert.Equal(t, "a.", f.box.Text())

	f.ticks(1)
	assert.Equal(t, "a.b", f.box.Text())
	f.ticks(1)
	assert.True(t, done.IsResolved(), "3 个字符 + 换行 + 2 个停顿 tick")
}

func TestMessageBoxInterrupt(t *testing.T) {
	f := newBoxFixture(t, nil)
	reference := f.box.Layout("Hello world")

	done := f.box.Show("Hello world", "")
	f.ticks(3)
	assert.Equal(t, "Hel", f.box.Text())

	require.True(t, f.gate.Dispatch())
	require.True(t, done.IsResolved())
	assert.Equal(t, reference, f.box.Text(), "跳过后的文本与自然完成一致")
	assert.True(t, f.box.CtcVisible())
	assert.Equal(t, 0, f.clock.Pending())

	history := len(f.factory.labels[0].history)
	f.ticks(20)
	assert.Len(t, f.factory.labels[0].history, history, "跳过后不再追加字符")
	assert.False(t, f.gate.Dispatch(), "第二次点击无效果")

	// 再次 Skip 是幂等的
	f.box.Skip()
	assert.Len(t, f.sounds["SOUND_CTC"].volumes, 1)
}

// naturalTicks 不打断时完整显示 text 需要的 tick 数
func naturalTicks(t *testing.T, text string) int {
	t.Helper()
	f := newBoxFixture(t, nil)
	done := f.box.Show(text, "")
	n := 0
	for !done.IsResolved() {
		require.Less(t, n, 1000)
		f.ticks(1)
		n++
	}
	return n
}

func TestMessageBoxInterruptAtEveryTick(t *testing.T) {
	const text = "a.b c."
	total := naturalTicks(t, text)
	require.Greater(t, total, len(text), "文本包含标点停顿")

	for k := 0; k < total; k++ {
		f := newBoxFixture(t, nil)
		reference := f.box.Layout(text)

		done := f.box.Show(text, "")
		f.ticks(k)
		require.False(t, done.IsResolved(), "tick %d", k)

		require.True(t, f.gate.Dispatch(), "tick %d", k)
		require.True(t, done.IsResolved(), "tick %d", k)
		assert.Equal(t, reference, f.box.Text(), "tick %d 打断后的文本与自然完成一致", k)
		assert.Equal(t, 0, f.clock.Pending(), "tick %d", k)
		assert.False(t, f.gate.Armed(), "tick %d", k)

		history := len(f.factory.labels[0].history)
		f.ticks(total + 5)
		assert.Len(t, f.factory.labels[0].history, history, "tick %d 打断后不再写入文本", k)
	}
}

func TestMessageBoxSkipMode(t *testing.T) {
	f := newBoxFixture(t, nil)
	f.control.skipping = true

	done := f.box.Show("Hello", "")
	require.True(t, done.IsResolved(), "跳过模式返回已完成的 future")
	assert.True(t, done.Value())
	assert.Equal(t, "Hello\n", f.box.Text())
	assert.True(t, f.box.Visible())
	assert.True(t, f.box.CtcVisible())
	assert.Equal(t, 0, f.clock.Pending(), "不调度任何 tick")
	assert.False(t, f.gate.Armed())
	assert.Zero(t, f.sounds["SOUND_TYPE"].Plays())
}

func TestMessageBoxInstantSpeed(t *testing.T) {
	f := newBoxFixture(t, nil)
	f.speed = config.MinTextSpeedMS - 1

	done := f.box.Show("Hi", "")
	assert.True(t, done.IsResolved())
	assert.Equal(t, "Hi\n", f.box.Text())
	assert.Equal(t, 0, f.clock.Pending())
}

func TestMessageBoxAutoMode(t *testing.T) {
	f := newBoxFixture(t, nil)
	f.control.auto = true

	done := f.box.Show("Hi", "")
	assert.False(t, f.gate.Armed(), "自动模式不注册点击监听")

	f.ticks(3)
	assert.True(t, done.IsResolved())
}

func TestMessageBoxShowWhileActive(t *testing.T) {
	f := newBoxFixture(t, nil)

	first := f.box.Show("first", "")
	f.ticks(2)
	second := f.box.Show("second", "")

	require.True(t, first.IsResolved(), "新的显示先结束旧的显示")
	assert.True(t, first.Value())
	assert.Zero(t, f.sounds["SOUND_CTC"].Plays(), "被替换的显示不播放图标音效")
	assert.False(t, f.box.CtcVisible())
	assert.False(t, second.IsResolved())
	assert.Equal(t, "", f.box.Text())
	assert.Equal(t, 1, f.clock.Pending(), "同一时间只有一个定时器")

	f.ticks(7)
	assert.True(t, second.IsResolved())
	assert.Equal(t, "second\n", f.box.Text())
}

func TestMessageBoxClear(t *testing.T) {
	f := newBoxFixture(t, nil)

	done := f.box.Show("Hello", "")
	f.ticks(2)
	f.box.Clear()

	assert.True(t, done.IsResolved())
	assert.Equal(t, "", f.box.Text())
	assert.False(t, f.box.Visible())
	assert.False(t, f.box.CtcVisible())
	assert.Equal(t, 0, f.clock.Pending())
	assert.False(t, f.gate.Armed())
	assert.Zero(t, f.sounds["SOUND_CTC"].Plays(), "Clear 不播放图标音效")
}

func TestMessageBoxClearAlwaysOn(t *testing.T) {
	f := newBoxFixture(t, func(cfg *config.MessageBoxConfig, _ *MessageBoxDeps) {
		cfg.AlwaysOn = true
	})

	f.box.Show("Hi", "")
	f.box.Skip()
	f.box.Clear()
	assert.True(t, f.box.Visible(), "alwaysOn 消息框保持可见")
	assert.Equal(t, "", f.box.Text())
}

func TestMessageBoxVoices(t *testing.T) {
	tests := []struct {
		name    string
		voice   string
		plays   string
		silence []string
	}{
		{name: "默认音效", voice: "", plays: "SOUND_TYPE", silence: []string{"VOICE_ANNA"}},
		{name: "角色语音", voice: "VOICE_ANNA", plays: "VOICE_ANNA", silence: []string{"SOUND_TYPE"}},
		{name: "显式静音", voice: "none", silence: []string{"SOUND_TYPE", "VOICE_ANNA"}},
		{name: "未知语音静默降级", voice: "VOICE_MISSING", silence: []string{"SOUND_TYPE", "VOICE_ANNA"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBoxFixture(t, nil)
			done := f.box.Show("abc", tt.voice)
			f.ticks(4)
			require.True(t, done.IsResolved())

			if tt.plays != "" {
				// 节奏 1：第 1、3 个字符播放，换行不播放
				assert.Equal(t, 2, f.sounds[tt.plays].Plays())
			}
			for _, name := range tt.silence {
				assert.Zero(t, f.sounds[name].Plays(), name)
			}
		})
	}
}

func TestMessageBoxVolumeReadLive(t *testing.T) {
	f := newBoxFixture(t, nil)

	f.box.Show("abcde", "")
	f.ticks(1)
	f.volume = 0.1
	f.ticks(5)

	assert.Equal(t, []float64{0.7, 0.1, 0.1}, f.sounds["SOUND_TYPE"].volumes)
	assert.Equal(t, []float64{0.1}, f.sounds["SOUND_CTC"].volumes)
}

func TestMessageBoxAutoCadence(t *testing.T) {
	f := newBoxFixture(t, func(_ *config.MessageBoxConfig, deps *MessageBoxDeps) {
		deps.CharPerCue = config.AutoCharPerCue
	})

	// ceil(120 / 50) = 3：第 1、5、9 个字符播放
	f.box.Show("aaaaaaaaaa", "")
	f.ticks(11)
	assert.Equal(t, 3, f.sounds["SOUND_TYPE"].Plays())
}

func TestMessageBoxCtc(t *testing.T) {
	t.Run("闪烁", func(t *testing.T) {
		f := newBoxFixture(t, nil)
		require.Len(t, f.tweener.calls, 1)
		call := f.tweener.calls[0]
		assert.Equal(t, 1.0, call.to)
		assert.True(t, call.opts.Loop)
		assert.True(t, call.opts.Yoyo)
	})

	t.Run("精灵表动画", func(t *testing.T) {
		f := newBoxFixture(t, func(cfg *config.MessageBoxConfig, _ *MessageBoxDeps) {
			cfg.Ctc.AnimationStyle = config.CtcAnimationSpritesheet
			cfg.Ctc.FrameRate = 8
		})
		assert.Empty(t, f.tweener.calls)
		assert.Equal(t, "ctc", f.factory.sprites["messagebox:default:ctc"].playing)
	})

	t.Run("图标缺失时静默跳过", func(t *testing.T) {
		f := newBoxFixture(t, func(cfg *config.MessageBoxConfig, _ *MessageBoxDeps) {
			cfg.Ctc.Asset = "IMAGE_MISSING"
		})
		f.control.skipping = true
		assert.NotPanics(t, func() { f.box.Show("Hi", "") })
		assert.False(t, f.box.CtcVisible())

		f.control.skipping = false
		done := f.box.Show("Hi", "")
		f.gate.Dispatch()
		assert.True(t, done.IsResolved())
	})
}

func TestMessageBoxMissingAsset(t *testing.T) {
	_, err := NewMessageBox(config.MessageBoxConfig{ID: "default", Asset: "IMAGE_NONE"}, MessageBoxDeps{
		Factory:   newFakeFactory(),
		Scheduler: clock.NewClock(),
	})
	assert.True(t, errors.Is(err, config.ErrConfiguration))

	factory := newFakeFactory("IMAGE_BOX")
	_, err = NewMessageBox(config.MessageBoxConfig{ID: "default", Asset: "IMAGE_BOX", Text: config.TextConfig{Font: "FONT_NONE"}}, MessageBoxDeps{
		Factory:   factory,
		Scheduler: clock.NewClock(),
	})
	assert.True(t, errors.Is(err, config.ErrConfiguration))
	assert.True(t, factory.sprites["messagebox:default"].destroyed, "创建失败时释放已创建的元素")
}

func TestMessageBoxDestroy(t *testing.T) {
	f := newBoxFixture(t, nil)
	done := f.box.Show("Hello", "")
	f.box.Destroy()

	assert.True(t, done.IsResolved())
	assert.Equal(t, 0, f.clock.Pending())
	assert.True(t, f.factory.sprites["messagebox:default"].destroyed)
	assert.True(t, f.factory.sprites["messagebox:default:ctc"].destroyed)
	assert.Equal(t, 1, f.tweener.stopped)
}

func TestMessageBoxDestroyKeepsSharedCues(t *testing.T) {
	f := newBoxFixture(t, nil)
	other, err := NewMessageBox(config.MessageBoxConfig{ID: "top", Asset: "IMAGE_BOX", Sfx: "SOUND_TYPE"}, f.box.deps)
	require.NoError(t, err)

	done := other.Show("abcde", "")
	f.ticks(1)
	f.box.Destroy()
	f.ticks(5)

	require.True(t, done.IsResolved())
	assert.Equal(t, "abcde\n", other.Text())
	assert.Equal(t, 3, f.sounds["SOUND_TYPE"].Plays(), "销毁一个消息框不影响其他消息框的打字音效")
}
