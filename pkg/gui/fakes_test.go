package gui

import (
	"image/color"
	"strings"
	"time"

	"github.com/decker502/vnovel/pkg/config"
	"github.com/decker502/vnovel/pkg/future"
	"github.com/decker502/vnovel/pkg/stage"
	"github.com/decker502/vnovel/pkg/utils"
)

type fakeSprite struct {
	name       string
	visible    bool
	alpha      float64
	pos        stage.Point
	animations map[string]bool
	playing    string
	destroyed  bool
}

func (s *fakeSprite) Name() string              { return s.name }
func (s *fakeSprite) Visible() bool             { return s.visible }
func (s *fakeSprite) SetVisible(v bool)         { s.visible = v }
func (s *fakeSprite) Alpha() float64            { return s.alpha }
func (s *fakeSprite) SetAlpha(a float64)        { s.alpha = a }
func (s *fakeSprite) Position() stage.Point     { return s.pos }
func (s *fakeSprite) SetPosition(p stage.Point) { s.pos = p }
func (s *fakeSprite) BringToFront()             {}
func (s *fakeSprite) StopAnimation()            { s.playing = "" }
func (s *fakeSprite) PlayAnimation(name string, loop bool) bool {
	if !s.animations[name] {
		return false
	}
	s.playing = name
	return true
}

type fakeLabel struct {
	fakeSprite
	text    string
	history []string
}

func (l *fakeLabel) Text() string { return l.text }
func (l *fakeLabel) SetText(t string) {
	l.text = t
	l.history = append(l.history, t)
}
func (l *fakeLabel) Wrap(t string) []string { return strings.Split(t, "\n") }

type fakeFactory struct {
	keys    map[string]bool
	sprites map[string]*fakeSprite
	labels  []*fakeLabel
}

func newFakeFactory(keys ...string) *fakeFactory {
	f := &fakeFactory{keys: map[string]bool{}, sprites: map[string]*fakeSprite{}}
	for _, k := range keys {
		f.keys[k] = true
	}
	return f
}

func (f *fakeFactory) NewImage(spec stage.ImageSpec) (stage.Sprite, error) {
	if !f.keys[spec.Key] {
		return nil, config.NewConfigurationError("image", spec.Key, nil)
	}
	s := &fakeSprite{name: spec.Name, pos: spec.Pos, animations: map[string]bool{}}
	f.sprites[spec.Name] = s
	return s, nil
}

func (f *fakeFactory) NewText(spec stage.TextSpec) (stage.Label, error) {
	if spec.Font != "" && !f.keys[spec.Font] {
		return nil, config.NewConfigurationError("font", spec.Font, nil)
	}
	l := &fakeLabel{fakeSprite: fakeSprite{name: spec.Name, pos: spec.Pos}}
	f.labels = append(f.labels, l)
	return l, nil
}

func (f *fakeFactory) NewRect(name string, w, h int, c color.Color, layer int) stage.Sprite {
	s := &fakeSprite{name: name}
	f.sprites[name] = s
	return s
}

func (f *fakeFactory) AddAnimation(target stage.Sprite, name, key string, frameRate int) error {
	if !f.keys[key] {
		return config.NewConfigurationError("image", key, nil)
	}
	target.(*fakeSprite).animations[name] = true
	return nil
}

func (f *fakeFactory) Destroy(target stage.Sprite) {
	switch s := target.(type) {
	case *fakeSprite:
		s.destroyed = true
	case *fakeLabel:
		s.destroyed = true
	}
}

type tweenCall struct {
	target stage.Sprite
	prop   stage.Property
	to     float64
	opts   stage.TweenOptions
}

type fakeTweener struct {
	calls   []tweenCall
	stopped int
}

func (t *fakeTweener) Tween(target stage.Sprite, prop stage.Property, to float64, d time.Duration, ease utils.EasingFunc, opts stage.TweenOptions) *future.Future {
	t.calls = append(t.calls, tweenCall{target: target, prop: prop, to: to, opts: opts})
	return future.New()
}

func (t *fakeTweener) StopTweens(target stage.Sprite, prop stage.Property) {
	t.stopped++
}

type fakeSound struct {
	name     string
	duration int
	volumes  []float64
}

func (s *fakeSound) Play(volume float64) { s.volumes = append(s.volumes, volume) }
func (s *fakeSound) DurationMS() int     { return s.duration }
func (s *fakeSound) Plays() int          { return len(s.volumes) }

type fakeSounds map[string]*fakeSound

func (f fakeSounds) Sound(name string) (stage.Sound, bool) {
	s, ok := f[name]
	if !ok {
		return nil, false
	}
	return s, true
}

type fakeControl struct {
	skipping bool
	auto     bool
}

func (c *fakeControl) Skipping() bool { return c.skipping }
func (c *fakeControl) Auto() bool     { return c.auto }
