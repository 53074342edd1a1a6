package managers

import (
	"errors"
	"testing"
	"time"

	"github.com/decker502/vnovel/pkg/config"
	"github.com/decker502/vnovel/pkg/stage"
	"github.com/decker502/vnovel/pkg/transition"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryAssets 内存中的图片资源
type memoryAssets map[string]int

func (a memoryAssets) LoadImageByID(id string) (*ebiten.Image, error) {
	if _, ok := a[id]; !ok {
		return nil, config.NewConfigurationError("image", id, nil)
	}
	return ebiten.NewImage(4, 4), nil
}

func (a memoryAssets) LoadImageFrames(id string) ([]*ebiten.Image, error) {
	n, ok := a[id]
	if !ok || n <= 1 {
		return nil, config.NewConfigurationError("image frames", id, nil)
	}
	frames := make([]*ebiten.Image, n)
	for i := range frames {
		frames[i] = ebiten.NewImage(4, 4)
	}
	return frames, nil
}

func (a memoryAssets) LoadFontByID(id string, size float64) (text.Face, error) {
	return nil, config.NewConfigurationError("font", id, nil)
}

type skipControl struct{ skipping bool }

func (c *skipControl) Skipping() bool { return c.skipping }

const frame = time.Second / 64 // 1/64 秒在二进制下精确

type world struct {
	stage       *stage.Stage
	control     *skipControl
	backgrounds *BackgroundManager
	characters  *CharacterManager
}

func newWorld(t *testing.T) *world {
	t.Helper()
	assets := memoryAssets{"bg1": 1, "bg2": 1, "bg3": 1, "rain": 4, "anna_normal": 1, "anna_happy": 1}
	s := stage.NewStage(assets, 800, 600)
	control := &skipControl{}
	transitions := transition.NewDefaultRegistry(s, s, control, transition.Options{FadeTime: 250 * time.Millisecond, Width: 800, Height: 600})

	w := &world{
		stage:       s,
		control:     control,
		backgrounds: NewBackgroundManager(s, transitions, s.Center()),
		characters:  NewCharacterManager(s, transitions, 800, 600),
	}
	for _, name := range []string{"bg1", "bg2", "bg3"} {
		require.NoError(t, w.backgrounds.Add(name, false, 0))
	}
	return w
}

// frames 推进 n 帧，每帧后调用 check
func (w *world) frames(n int, check func()) {
	for i := 0; i < n; i++ {
		w.stage.Update(frame.Seconds())
		if check != nil {
			check()
		}
	}
}

func (w *world) sprite(t *testing.T, name string) stage.Sprite {
	t.Helper()
	s, ok := w.backgrounds.Sprite(name)
	require.True(t, ok, name)
	return s
}

func TestShowNullWhenNothingCurrent(t *testing.T) {
	for _, name := range []string{"FADEOUT", "FADE", "FUSION", "CUT", "FADETOBLACK"} {
		t.Run(name, func(t *testing.T) {
			w := newWorld(t)
			done, err := w.backgrounds.Hide(name)
			require.NoError(t, err)
			w.frames(64, nil)

			assert.True(t, done.IsResolved())
			assert.Equal(t, "", w.backgrounds.Current())
		})
	}
}

func TestBackgroundSwapKeepsOneVisible(t *testing.T) {
	w := newWorld(t)
	bg1, bg2 := w.sprite(t, "bg1"), w.sprite(t, "bg2")

	first, err := w.backgrounds.Show("bg1", "FADEOUT")
	require.NoError(t, err)
	w.frames(1, nil)
	require.True(t, first.IsResolved())
	assert.True(t, bg1.Visible())
	assert.Equal(t, 1.0, bg1.Alpha())

	second, err := w.backgrounds.Show("bg2", "FADEOUT")
	require.NoError(t, err)
	assert.Equal(t, "bg2", w.backgrounds.Current(), "当前指针立即切换")

	w.frames(32, func() {
		assert.True(t, bg1.Visible() || bg2.Visible(), "任何一帧都不能两者同时隐藏")
		if !second.IsResolved() {
			assert.True(t, bg1.Visible(), "转场完成前旧背景保持可见")
		}
	})

	require.True(t, second.IsResolved())
	assert.False(t, bg1.Visible())
	assert.True(t, bg2.Visible())
	assert.Equal(t, 1.0, bg2.Alpha())
	assert.Equal(t, "bg2", w.backgrounds.Current())
}

func TestInterruptedFadeDoesNotRevealReplacedBackground(t *testing.T) {
	w := newWorld(t)
	require.NoError(t, w.backgrounds.Set("bg1"))
	bg1, bg2, bg3 := w.sprite(t, "bg1"), w.sprite(t, "bg2"), w.sprite(t, "bg3")

	first, err := w.backgrounds.Show("bg2", "FADE")
	require.NoError(t, err)
	w.frames(4, nil)

	second, err := w.backgrounds.Show("bg3", "FADE")
	require.NoError(t, err)

	w.frames(64, func() {
		assert.Equal(t, 0.0, bg2.Alpha(), "被替换的背景不能再淡入")
	})

	require.True(t, first.IsResolved())
	assert.False(t, first.Value(), "被打断的转场以 false 结束")
	require.True(t, second.IsResolved())
	assert.True(t, second.Value())

	assert.Equal(t, "bg3", w.backgrounds.Current())
	assert.Equal(t, 1.0, bg3.Alpha())
	assert.True(t, bg3.Visible())
	assert.False(t, bg2.Visible())
	assert.False(t, bg1.Visible())
}

func TestShowValidatesBeforeMutating(t *testing.T) {
	w := newWorld(t)
	require.NoError(t, w.backgrounds.Set("bg1"))
	bg2 := w.sprite(t, "bg2")

	_, err := w.backgrounds.Show("bg2", "SPIRAL")
	assert.True(t, errors.Is(err, config.ErrConfiguration), "未知转场")
	assert.Equal(t, "bg1", w.backgrounds.Current())
	assert.False(t, bg2.Visible())

	_, err = w.backgrounds.Show("nowhere", "FADE")
	assert.True(t, errors.Is(err, config.ErrConfiguration), "未知背景")
	assert.Equal(t, "bg1", w.backgrounds.Current())
}

func TestSetIsInstant(t *testing.T) {
	w := newWorld(t)
	bg1, bg2 := w.sprite(t, "bg1"), w.sprite(t, "bg2")

	require.NoError(t, w.backgrounds.Set("bg1"))
	assert.True(t, bg1.Visible())
	assert.Equal(t, 1.0, bg1.Alpha())

	require.NoError(t, w.backgrounds.Set("bg2"))
	assert.False(t, bg1.Visible())
	assert.Equal(t, 0.0, bg1.Alpha())
	assert.True(t, bg2.Visible())
	assert.Equal(t, stage.Point{X: 400, Y: 300}, bg2.Position())

	assert.Error(t, w.backgrounds.Set("missing"))
}

func TestHideDefaultsToFadeOut(t *testing.T) {
	w := newWorld(t)
	require.NoError(t, w.backgrounds.Set("bg1"))
	bg1 := w.sprite(t, "bg1")

	done, err := w.backgrounds.Hide("")
	require.NoError(t, err)
	assert.Equal(t, "", w.backgrounds.Current())

	w.frames(8, nil)
	assert.True(t, bg1.Visible(), "淡出中仍可见")
	assert.Less(t, bg1.Alpha(), 1.0)

	w.frames(8, nil)
	assert.True(t, done.IsResolved())
	assert.False(t, bg1.Visible())
}

func TestStaleTransitionDoesNotHideCurrent(t *testing.T) {
	w := newWorld(t)
	require.NoError(t, w.backgrounds.Set("bg1"))
	bg1 := w.sprite(t, "bg1")

	// bg1 -> bg2 转场未完成时又切回 bg1
	slow, err := w.backgrounds.Show("bg2", "FADE")
	require.NoError(t, err)
	w.frames(4, nil)
	back, err := w.backgrounds.Show("bg1", "CUT")
	require.NoError(t, err)

	w.frames(64, nil)
	require.True(t, slow.IsResolved())
	require.True(t, back.IsResolved())
	assert.Equal(t, "bg1", w.backgrounds.Current())
	assert.True(t, bg1.Visible(), "过期的转场不能隐藏当前背景")
	assert.Equal(t, 1.0, bg1.Alpha(), "被打断的淡出不能继续修改当前背景")
	assert.False(t, w.sprite(t, "bg2").Visible())
}

func TestSkippingCutsImmediately(t *testing.T) {
	w := newWorld(t)
	w.control.skipping = true
	require.NoError(t, w.backgrounds.Set("bg1"))

	done, err := w.backgrounds.Show("bg2", "FADE")
	require.NoError(t, err)
	assert.True(t, done.IsResolved())
	assert.False(t, w.sprite(t, "bg1").Visible())
	assert.Equal(t, 1.0, w.sprite(t, "bg2").Alpha())
}

func TestAnimatedBackground(t *testing.T) {
	w := newWorld(t)
	require.NoError(t, w.backgrounds.Add("rain", true, 12))
	assert.True(t, w.backgrounds.IsBackground("rain"))

	done, err := w.backgrounds.Show("rain", "CUT")
	require.NoError(t, err)
	assert.True(t, done.IsResolved())

	err = w.backgrounds.Add("static", true, 12)
	assert.Error(t, err, "图片缺失")
	err = w.backgrounds.AddAsset("broken", "bg3", true, 12)
	assert.Error(t, err, "单帧图片无法作为动画")
	assert.False(t, w.backgrounds.IsBackground("broken"))
}

func TestDuplicateBackgroundRejected(t *testing.T) {
	w := newWorld(t)
	require.NoError(t, w.backgrounds.Set("bg1"))
	bg1 := w.sprite(t, "bg1")
	before := w.stage.EntityCount()

	err := w.backgrounds.AddAsset("bg1", "bg2", false, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfiguration))
	assert.Equal(t, before, w.stage.EntityCount(), "不创建新的舞台元素")
	assert.Same(t, bg1, w.sprite(t, "bg1"))
	assert.Equal(t, "bg1", w.backgrounds.Current())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry("background")
	r.Add(&Element{Name: "b"})
	r.Add(&Element{Name: "a"})

	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.True(t, r.Has("a"))
	assert.Nil(t, r.Current())
	assert.Equal(t, "", r.CurrentName())
	assert.Equal(t, "background", r.Kind())

	old, _ := r.Get("a")
	r.setCurrent(old)
	replacement := &Element{Name: "a"}
	r.Add(replacement)
	assert.Same(t, replacement, r.Current(), "替换当前元素时指针跟随")
}
