package config

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// 演示脚本：已解码的线性步骤列表
// 完整的剧本解析器不在本引擎范围内，这里只支持播放器驱动演出所需的最小结构。

// 步骤类型
const (
	StepShow      = "show"      // 显示背景
	StepSet       = "set"       // 不经过转场立即切换背景
	StepHide      = "hide"      // 隐藏背景
	StepSay       = "say"       // 显示消息
	StepCharacter = "character" // 显示/隐藏角色
	StepWait      = "wait"      // 等待指定毫秒
	StepMusic     = "music"     // 播放/停止背景音乐
	StepSound     = "sound"     // 播放一次音效
	StepClear     = "clear"     // 隐藏所有角色并清空消息框
)

// StoryScript 演示脚本
type StoryScript struct {
	// Preload 开始前预加载的资源组（resources.yaml 中的组名）
	Preload     []string        `yaml:"preload"`
	Backgrounds []BackgroundDef `yaml:"backgrounds"`
	Characters  []CharacterDef  `yaml:"characters"`
	Steps       []StoryStep     `yaml:"steps"`
}

// BackgroundDef 背景定义
type BackgroundDef struct {
	Name      string `yaml:"name"`
	Asset     string `yaml:"asset"`     // 图片资源 ID，默认与 Name 相同
	Animated  bool   `yaml:"animated"`  // 是否为精灵表循环动画
	FrameRate int    `yaml:"frameRate"` // 动画帧率
}

// CharacterDef 角色定义
type CharacterDef struct {
	Name  string            `yaml:"name"`
	Voice string            `yaml:"voice"` // 角色语音音效 ID，"none" 表示静音
	Looks map[string]string `yaml:"looks"` // 表情名 -> 图片资源 ID
}

// StoryStep 单个演出步骤
type StoryStep struct {
	Action     string `yaml:"action"`
	Target     string `yaml:"target"`     // 背景名 / 角色名 / 音乐或音效 ID
	Look       string `yaml:"look"`       // 角色表情
	Position   string `yaml:"position"`   // 角色位置 left / center / right
	Transition string `yaml:"transition"` // 转场名称
	Text       string `yaml:"text"`       // 消息文本
	Voice      string `yaml:"voice"`      // 语音音效，空表示使用角色或消息框默认值
	Box        string `yaml:"box"`        // 消息框 ID，空表示 "default"
	Duration   int    `yaml:"duration"`   // wait 步骤的毫秒数
}

// LoadStoryScript 从故事目录的 YAML 文件加载演示脚本
func LoadStoryScript(fsys fs.FS, path string) (*StoryScript, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story script %s: %w", path, err)
	}
	return ParseStoryScript(data)
}

// ParseStoryScript 解析演示脚本，背景未指定 asset 时使用其名称
func ParseStoryScript(data []byte) (*StoryScript, error) {
	var script StoryScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse story script YAML: %w", err)
	}

	for i := range script.Backgrounds {
		if script.Backgrounds[i].Asset == "" {
			script.Backgrounds[i].Asset = script.Backgrounds[i].Name
		}
	}
	return &script, nil
}
