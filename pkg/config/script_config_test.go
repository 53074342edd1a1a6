package config

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScript = `
preload: [chapter1]
backgrounds:
  - name: room
  - name: sky
    asset: sky_sheet
    animated: true
    frameRate: 8
characters:
  - name: anna
    voice: voice_anna
    looks:
      normal: anna_normal
      smile: anna_smile
steps:
  - action: show
    target: room
    transition: fade
  - action: character
    target: anna
    look: smile
    position: left
  - action: say
    target: anna
    text: "Hello!"
    box: top
  - action: wait
    duration: 500
  - action: sound
    target: door
  - action: clear
    transition: fade
`

func TestParseStoryScript(t *testing.T) {
	script, err := ParseStoryScript([]byte(testScript))
	require.NoError(t, err)

	require.Len(t, script.Backgrounds, 2)
	assert.Equal(t, "room", script.Backgrounds[0].Asset, "asset 默认与名称相同")
	assert.Equal(t, "sky_sheet", script.Backgrounds[1].Asset)
	assert.True(t, script.Backgrounds[1].Animated)
	assert.Equal(t, 8, script.Backgrounds[1].FrameRate)

	require.Len(t, script.Characters, 1)
	assert.Equal(t, "anna_smile", script.Characters[0].Looks["smile"])

	assert.Equal(t, []string{"chapter1"}, script.Preload)

	require.Len(t, script.Steps, 6)
	assert.Equal(t, StoryStep{Action: StepSay, Target: "anna", Text: "Hello!", Box: "top"}, script.Steps[2])
	assert.Equal(t, 500, script.Steps[3].Duration)
	assert.Equal(t, StoryStep{Action: StepSound, Target: "door"}, script.Steps[4])
	assert.Equal(t, StoryStep{Action: StepClear, Transition: "fade"}, script.Steps[5])
}

func TestParseStoryScriptErrors(t *testing.T) {
	_, err := ParseStoryScript([]byte("steps: ["))
	assert.Error(t, err)

	_, err = LoadStoryScript(fstest.MapFS{}, "missing.yaml")
	assert.Error(t, err)
}

func TestLoadStoryScriptFromFS(t *testing.T) {
	fsys := fstest.MapFS{"chapter1/script.yaml": {Data: []byte(testScript)}}

	script, err := LoadStoryScript(fsys, "chapter1/script.yaml")
	require.NoError(t, err)
	assert.Len(t, script.Steps, 6)
}
