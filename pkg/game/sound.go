package game

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// bytesPerFrame Ebitengine 解码后的 PCM 格式：16 位立体声
const bytesPerFrame = 4

// Sound 已解码的音效
//
// 解码后的 PCM 数据常驻内存，每次 Play 创建一个新的播放器，
// 同一音效可以重叠播放（打字音效节奏较快时常见）。
// 没有音频上下文时（测试、无声卡环境）Play 不做任何事，时长仍然可用。
type Sound struct {
	id         string
	ctx        *audio.Context
	pcm        []byte
	sampleRate int
	players    []*audio.Player
}

// ID 音效资源 ID
func (s *Sound) ID() string {
	return s.id
}

// Duration 音效时长
func (s *Sound) Duration() time.Duration {
	if s.sampleRate <= 0 {
		return 0
	}
	frames := int64(len(s.pcm) / bytesPerFrame)
	return time.Duration(frames) * time.Second / time.Duration(s.sampleRate)
}

// DurationMS 音效时长（毫秒）
func (s *Sound) DurationMS() int {
	return int(s.Duration() / time.Millisecond)
}

// Play 以指定音量播放一次
func (s *Sound) Play(volume float64) {
	if s.ctx == nil || len(s.pcm) == 0 {
		return
	}
	s.prune()

	player := s.ctx.NewPlayerFromBytes(s.pcm)
	player.SetVolume(clampVolume(volume))
	player.Play()
	s.players = append(s.players, player)
}

// Stop 停止该音效所有正在播放的实例
func (s *Sound) Stop() {
	for _, p := range s.players {
		p.Pause()
		if err := p.Close(); err != nil {
			log.Printf("[Sound] Warning: Failed to close player for %s: %v", s.id, err)
		}
	}
	s.players = nil
}

// Playing 正在播放的实例数
func (s *Sound) Playing() int {
	s.prune()
	return len(s.players)
}

// prune 释放已经播放完毕的播放器
func (s *Sound) prune() {
	alive := s.players[:0]
	for _, p := range s.players {
		if p.IsPlaying() {
			alive = append(alive, p)
			continue
		}
		_ = p.Close()
	}
	s.players = alive
}

// newLoopPlayer 创建循环播放器（背景音乐）
func (s *Sound) newLoopPlayer() (*audio.Player, error) {
	if s.ctx == nil {
		return nil, fmt.Errorf("no audio context")
	}
	loop := audio.NewInfiniteLoop(bytes.NewReader(s.pcm), int64(len(s.pcm)))
	player, err := s.ctx.NewPlayer(loop)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", s.id, err)
	}
	return player, nil
}

// decodeAudio 将音频文件解码为指定采样率的 PCM 数据
// Supported formats: MP3 (.mp3), OGG Vorbis (.ogg) and WAV (.wav).
func decodeAudio(filePath string, data []byte, sampleRate int) ([]byte, error) {
	reader := bytes.NewReader(data)

	var stream io.Reader
	switch ext := strings.ToLower(path.Ext(filePath)); ext {
	case ".mp3":
		decoded, err := mp3.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 audio %s: %w", filePath, err)
		}
		stream = decoded
	case ".ogg":
		decoded, err := vorbis.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG audio %s: %w", filePath, err)
		}
		stream = decoded
	case ".wav":
		decoded, err := wav.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode WAV audio %s: %w", filePath, err)
		}
		stream = decoded
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .ogg, .wav)", ext)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read decoded audio %s: %w", filePath, err)
	}
	return pcm, nil
}
