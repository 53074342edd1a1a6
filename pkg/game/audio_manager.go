package game

import (
	"log"

	"github.com/decker502/vnovel/pkg/stage"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// AudioManager 音频管理器
// 职责：
//   - 按名称解析打字音效、角色语音和「点击继续」音效（供消息框使用）
//   - 播放/停止背景音乐
//   - 音量从 SettingsManager 读取
type AudioManager struct {
	resourceManager *ResourceManager // 资源管理器（用于加载音频）
	settingsManager *SettingsManager // 设置管理器（用于读取音量设置，可为 nil）
	missing         map[string]bool  // 已经报告过缺失的音效，避免重复日志
	currentMusic    *audio.Player    // 当前播放的背景音乐
	currentMusicID  string           // 当前播放的背景音乐ID
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - rm: ResourceManager 实例（用于加载音频文件）
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
//
// 返回：
//   - *AudioManager: 音频管理器实例
func NewAudioManager(rm *ResourceManager, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		resourceManager: rm,
		settingsManager: sm,
		missing:         make(map[string]bool),
	}
}

// Sound 按资源 ID 查找音效
// 音效不存在或无法解码时返回 false（只记录一次日志）
func (am *AudioManager) Sound(name string) (stage.Sound, bool) {
	sound, err := am.resourceManager.LoadSound(name)
	if err != nil {
		if !am.missing[name] {
			log.Printf("[AudioManager] Warning: Sound %s not available: %v", name, err)
			am.missing[name] = true
		}
		return nil, false
	}
	return sound, true
}

// PlaySound 以当前音效音量播放一次
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlaySound(soundID string) bool {
	sound, ok := am.Sound(soundID)
	if !ok {
		return false
	}
	volume := am.SoundVolume()
	if volume <= 0 {
		return false
	}
	sound.Play(volume)
	return true
}

// PlayMusic 播放背景音乐
// 背景音乐使用 MusicVolume 设置控制音量，循环播放
// 同一时间只能播放一首背景音乐
//
// 参数：
//   - musicID: 音乐资源ID
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlayMusic(musicID string) bool {
	// 如果已经在播放同一首音乐，不重复播放
	if am.currentMusicID == musicID && am.currentMusic != nil && am.currentMusic.IsPlaying() {
		return true
	}

	am.StopMusic()

	sound, err := am.resourceManager.LoadSound(musicID)
	if err != nil {
		log.Printf("[AudioManager] Warning: Music not found: %s: %v", musicID, err)
		return false
	}
	player, err := sound.newLoopPlayer()
	if err != nil {
		log.Printf("[AudioManager] Warning: Failed to play music %s: %v", musicID, err)
		return false
	}

	volume := am.MusicVolume()
	player.SetVolume(volume)
	player.Play()

	am.currentMusic = player
	am.currentMusicID = musicID

	log.Printf("[AudioManager] Playing music: %s (volume: %.2f)", musicID, volume)
	return true
}

// StopMusic 停止当前背景音乐
func (am *AudioManager) StopMusic() {
	if am.currentMusic != nil {
		am.currentMusic.Pause()
		if err := am.currentMusic.Close(); err != nil {
			log.Printf("[AudioManager] Warning: Failed to close music %s: %v", am.currentMusicID, err)
		}
		am.currentMusic = nil
		am.currentMusicID = ""
	}
}

// StopAll 停止背景音乐和所有正在播放的音效（退出时调用）
func (am *AudioManager) StopAll() {
	am.StopMusic()
	am.resourceManager.StopSounds()
}

// SetMusicVolume 设置音乐音量
// 此方法立即应用到当前播放的背景音乐
func (am *AudioManager) SetMusicVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetMusicVolume(volume)
	}
	if am.currentMusic != nil {
		am.currentMusic.SetVolume(am.MusicVolume())
	}
}

// SetSoundVolume 设置音效音量
// 消息框在每次播放时读取音量，修改对进行中的打字音效立即生效
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetSoundVolume(volume)
	}
}

// MusicVolume 当前音乐音量
func (am *AudioManager) MusicVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.MusicVolume()
	}
	return DefaultSettings().MusicVolume
}

// SoundVolume 当前音效音量
func (am *AudioManager) SoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.SoundVolume()
	}
	return DefaultSettings().SoundVolume
}

// PreloadSounds 预加载音效
// 在场景初始化时调用，避免首次播放时的解码延迟
func (am *AudioManager) PreloadSounds(soundIDs []string) {
	loaded := 0
	for _, soundID := range soundIDs {
		if _, ok := am.Sound(soundID); ok {
			loaded++
		}
	}
	log.Printf("[AudioManager] Preloaded %d/%d sounds", loaded, len(soundIDs))
}
