package managers

import (
	"errors"
	"testing"

	"github.com/decker502/vnovel/pkg/config"
	"github.com/decker502/vnovel/pkg/stage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addAnna(t *testing.T, w *world) {
	t.Helper()
	require.NoError(t, w.characters.Add(config.CharacterDef{
		Name:  "anna",
		Voice: "VOICE_ANNA",
		Looks: map[string]string{"normal": "anna_normal", "happy": "anna_happy"},
	}))
}

func TestCharacterShowAndChangeLook(t *testing.T) {
	w := newWorld(t)
	addAnna(t, w)

	done, err := w.characters.Show("anna", "", "left", "CUT")
	require.NoError(t, err)
	assert.True(t, done.IsResolved())

	anna, ok := w.characters.Get("anna")
	require.True(t, ok)
	assert.Equal(t, "normal", anna.Look(), "未指定表情时使用 normal")
	assert.Equal(t, stage.Point{X: 200, Y: 600}, anna.Position())

	normal, _ := anna.looks.Get("normal")
	happy, _ := anna.looks.Get("happy")
	assert.Equal(t, stage.Point{X: 200, Y: 600}, normal.Sprite.Position())

	// 换表情时保持站位
	done, err = w.characters.Show("anna", "happy", "", "FUSION")
	require.NoError(t, err)
	w.frames(8, func() {
		assert.True(t, normal.Sprite.Visible() || happy.Sprite.Visible())
	})
	w.frames(16, nil)
	require.True(t, done.IsResolved())
	assert.Equal(t, "happy", anna.Look())
	assert.False(t, normal.Sprite.Visible())
	assert.Equal(t, stage.Point{X: 200, Y: 600}, happy.Sprite.Position())

	voice, ok := w.characters.Voice("anna")
	assert.True(t, ok)
	assert.Equal(t, "VOICE_ANNA", voice)
}

func TestCharacterHide(t *testing.T) {
	w := newWorld(t)
	addAnna(t, w)

	_, err := w.characters.Show("anna", "normal", "right", "CUT")
	require.NoError(t, err)

	done, err := w.characters.HideAll("CUT")
	require.NoError(t, err)
	assert.True(t, done.IsResolved())

	anna, _ := w.characters.Get("anna")
	assert.False(t, anna.Visible())

	done, err = w.characters.Hide("anna", "")
	require.NoError(t, err, "隐藏未显示的角色不是错误")
	w.frames(20, nil)
	assert.True(t, done.IsResolved())
}

func TestCharacterErrors(t *testing.T) {
	w := newWorld(t)
	addAnna(t, w)

	_, err := w.characters.Show("bob", "", "", "CUT")
	assert.True(t, errors.Is(err, config.ErrConfiguration))

	_, err = w.characters.Show("anna", "angry", "", "CUT")
	assert.True(t, errors.Is(err, config.ErrConfiguration), "未知表情")

	_, err = w.characters.Show("anna", "normal", "upstage", "CUT")
	assert.True(t, errors.Is(err, config.ErrConfiguration), "未知站位")

	_, err = w.characters.Hide("bob", "")
	assert.Error(t, err)

	err = w.characters.Add(config.CharacterDef{Name: "ghost", Looks: map[string]string{"normal": "missing"}})
	assert.True(t, errors.Is(err, config.ErrConfiguration))
	assert.False(t, w.characters.IsCharacter("ghost"))

	before := w.stage.EntityCount()
	err = w.characters.Add(config.CharacterDef{Name: "anna", Looks: map[string]string{"normal": "anna_happy"}})
	assert.True(t, errors.Is(err, config.ErrConfiguration), "重名角色被拒绝")
	assert.Equal(t, before, w.stage.EntityCount(), "不创建新的表情元素")
	anna, _ := w.characters.Get("anna")
	assert.Equal(t, []string{"happy", "normal"}, anna.looks.Names(), "保留原有表情")

	err = w.characters.Add(config.CharacterDef{Name: "empty"})
	require.NoError(t, err)
	_, err = w.characters.Show("empty", "", "", "CUT")
	assert.Error(t, err, "没有表情的角色无法显示")
}

func TestCharacterPositions(t *testing.T) {
	w := newWorld(t)

	assert.Equal(t, stage.Point{X: 400, Y: 600}, w.characters.PositionFor(""))
	assert.Equal(t, stage.Point{X: 600, Y: 600}, w.characters.PositionFor("RIGHT"))
	assert.Equal(t, stage.Point{X: 123, Y: 600}, w.characters.PositionFor("123"))
	assert.Equal(t, stage.Point{X: 400, Y: 600}, w.characters.PositionFor("nowhere"))
}
