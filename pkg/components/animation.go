package components

import "github.com/hajimehoshi/ebiten/v2"

// AnimationClip 一段基于精灵表的帧动画
type AnimationClip struct {
	Frames    []*ebiten.Image // 动画的所有帧图片
	FrameRate int             // 每秒帧数
}

// AnimationComponent 管理实体上注册的帧动画及当前播放状态
type AnimationComponent struct {
	Clips        map[string]*AnimationClip // 动画名 -> 动画
	Current      string                    // 当前播放的动画名
	FrameCounter float64                   // 当前帧计时器(秒)
	CurrentFrame int                       // 当前显示的帧索引(0-based)
	IsLooping    bool                      // 是否循环播放
	IsPlaying    bool                      // 是否正在播放
	IsFinished   bool                      // 动画是否已完成(仅对非循环动画有效)
}
