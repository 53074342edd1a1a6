package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 设置快捷键的调整步长
const (
	VolumeStep      = 0.1
	TextSpeedStepMS = 10
)

// SettingsInput 本帧的设置调整
type SettingsInput struct {
	SoundVolume float64 // 音效音量增量
	MusicVolume float64 // 音乐音量增量
	TextSpeed   int     // 每字符间隔增量（毫秒），正数变慢
	ToggleMusic bool
	ToggleSound bool
}

// Empty 本帧没有任何设置调整
func (in SettingsInput) Empty() bool {
	return in == SettingsInput{}
}

// PollSettings 检查本帧按下的设置快捷键
//
//	= / -   音效音量
//	] / [   音乐音量
//	. / ,   文字变慢 / 变快
//	M       音乐开关
//	S       音效开关
func PollSettings() SettingsInput {
	var in SettingsInput
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		in.SoundVolume += VolumeStep
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		in.SoundVolume -= VolumeStep
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		in.MusicVolume += VolumeStep
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		in.MusicVolume -= VolumeStep
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		in.TextSpeed += TextSpeedStepMS
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		in.TextSpeed -= TextSpeedStepMS
	}
	in.ToggleMusic = inpututil.IsKeyJustPressed(ebiten.KeyM)
	in.ToggleSound = inpututil.IsKeyJustPressed(ebiten.KeyS)
	return in
}
