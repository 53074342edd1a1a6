package config

import (
	"fmt"
	"image/color"
	"io/fs"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// GUIConfig 界面配置（GUI.yaml）
//
// 结构:
//
//	messageBoxes:
//	  default:
//	    x: 0
//	    y: 420
//	    asset: IMAGE_MESSAGEBOX
//	    sfx: SOUND_TYPE
//	    text: {x: 40, y: 450, width: 720, font: FONT_MAIN, size: 20, color: "#ffffff"}
//	    ctc: {x: 740, y: 560, asset: IMAGE_CTC, animationStyle: tween, sfx: SOUND_CTC}
//
// 所有坐标均为屏幕坐标。
type GUIConfig struct {
	MessageBoxes map[string]MessageBoxConfig `yaml:"messageBoxes"`
}

// MessageBoxConfig 消息框配置
type MessageBoxConfig struct {
	ID       string     `yaml:"-"`        // 消息框 ID（取自 map key）
	X        float64    `yaml:"x"`        // 消息框 X 坐标
	Y        float64    `yaml:"y"`        // 消息框 Y 坐标
	Asset    string     `yaml:"asset"`    // 背景图片资源 ID（必需）
	Sfx      string     `yaml:"sfx"`      // 默认打字音效资源 ID，"none" 或空表示无
	AlwaysOn bool       `yaml:"alwaysOn"` // Clear 时是否保持可见
	Text     TextConfig `yaml:"text"`     // 文字区域
	Ctc      *CtcConfig `yaml:"ctc"`      // 「点击继续」图标（可选）
}

// TextConfig 文字区域配置
type TextConfig struct {
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	Width       float64 `yaml:"width"`       // 自动换行宽度（像素）
	Font        string  `yaml:"font"`        // 字体资源 ID，空表示使用内置字体
	Size        float64 `yaml:"size"`        // 字号
	Color       string  `yaml:"color"`       // 文字颜色 "#rrggbb" 或 "#rrggbbaa"
	LineSpacing float64 `yaml:"lineSpacing"` // 行高倍数
}

// CtcConfig 「点击继续」图标配置
type CtcConfig struct {
	X              float64 `yaml:"x"`
	Y              float64 `yaml:"y"`
	Asset          string  `yaml:"asset"`          // 图片资源 ID
	AnimationStyle string  `yaml:"animationStyle"` // "spritesheet" 播放帧动画，否则闪烁
	FrameRate      int     `yaml:"frameRate"`      // 精灵表帧率
	Sfx            string  `yaml:"sfx"`            // 显示时播放的音效（可选）
}

// LoadGUIConfig 从故事目录的 YAML 文件加载界面配置
func LoadGUIConfig(fsys fs.FS, path string) (*GUIConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read GUI config %s: %w", path, err)
	}
	return ParseGUIConfig(data)
}

// ParseGUIConfig 解析界面配置
func ParseGUIConfig(data []byte) (*GUIConfig, error) {
	var cfg GUIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse GUI config YAML: %w", err)
	}

	for id, box := range cfg.MessageBoxes {
		box.ID = id
		if box.Asset == "" {
			return nil, NewConfigurationError("message box asset", id, fmt.Errorf("asset is required"))
		}
		if box.Text.Size <= 0 {
			box.Text.Size = DefaultFontSize
		}
		if box.Text.LineSpacing <= 0 {
			box.Text.LineSpacing = DefaultLineSpacing
		}
		if box.Text.Color != "" {
			if _, err := ParseHexColor(box.Text.Color); err != nil {
				return nil, NewConfigurationError("text color", id, err)
			}
		}
		cfg.MessageBoxes[id] = box
	}
	return &cfg, nil
}

// MessageBox 获取指定 ID 的消息框配置
func (c *GUIConfig) MessageBox(id string) (MessageBoxConfig, error) {
	box, ok := c.MessageBoxes[id]
	if !ok {
		return MessageBoxConfig{}, NewConfigurationError("message box", id, nil)
	}
	return box, nil
}

// ParseHexColor 解析 "#rrggbb" / "#rrggbbaa" 颜色
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
