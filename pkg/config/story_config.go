package config

import (
	"fmt"
	"io/fs"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// CharPerCue 每播放一次语音/打字音效对应的字符数
// 取值为固定整数，或 "auto"（由音效时长 / 每字符间隔推导）
type CharPerCue struct {
	N    int  // 固定字符数（Auto 为 true 时忽略）
	Auto bool // 是否自动推导
}

// AutoCharPerCue 自动推导的节奏
var AutoCharPerCue = CharPerCue{Auto: true}

// FixedCharPerCue 固定字符数的节奏
func FixedCharPerCue(n int) CharPerCue {
	return CharPerCue{N: n}
}

// IsZero 是否未配置
func (c CharPerCue) IsZero() bool {
	return !c.Auto && c.N == 0
}

func (c CharPerCue) String() string {
	if c.Auto {
		return "auto"
	}
	return strconv.Itoa(c.N)
}

// ParseCharPerCue 从 YAML 原始值解析节奏配置
// 支持整数、数字字符串和 "auto"
func ParseCharPerCue(v interface{}) (CharPerCue, error) {
	switch val := v.(type) {
	case nil:
		return CharPerCue{}, nil
	case CharPerCue:
		return val, nil
	case int:
		return FixedCharPerCue(val), nil
	case int64:
		return FixedCharPerCue(int(val)), nil
	case float64:
		return FixedCharPerCue(int(val)), nil
	case string:
		s := strings.TrimSpace(val)
		if strings.EqualFold(s, "auto") {
			return AutoCharPerCue, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return CharPerCue{}, fmt.Errorf("charPerSfx must be an integer or \"auto\", got %q", val)
		}
		return FixedCharPerCue(n), nil
	default:
		return CharPerCue{}, fmt.Errorf("charPerSfx must be an integer or \"auto\", got %T", v)
	}
}

// UnmarshalYAML 支持直接用 yaml.v3 解码
func (c *CharPerCue) UnmarshalYAML(node *yaml.Node) error {
	var raw interface{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseCharPerCue(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// StoryConfig 故事级别的演出配置（只读）
//
// 对应故事配置文件中的演出相关字段，其余字段（章节列表、资源等）
// 由外部的脚本加载器处理，这里只挑出文字显示和转场需要的部分。
type StoryConfig struct {
	// PunctuationMarks 触发停顿的标点符号集合
	PunctuationMarks []string `mapstructure:"punctuationMarks"`

	// PunctuationWait 标点后的停顿长度（tick 数）
	PunctuationWait int `mapstructure:"punctuationWait"`

	// CharPerSfx 每次音效对应的字符数（整数或 "auto"）
	CharPerSfx CharPerCue `mapstructure:"charPerSfx"`

	// FadeTime 转场淡入淡出时长（毫秒）
	FadeTime int `mapstructure:"fadetime"`

	// AutoDelay 自动模式下消息显示完毕后的等待时长（毫秒）
	AutoDelay int `mapstructure:"autoDelay"`

	// Width/Height 舞台逻辑尺寸
	Width  int `mapstructure:"w"`
	Height int `mapstructure:"h"`
}

// DefaultStoryConfig 返回默认故事配置
func DefaultStoryConfig() *StoryConfig {
	return &StoryConfig{
		PunctuationMarks: nil,
		PunctuationWait:  DefaultPunctuationWait,
		CharPerSfx:       FixedCharPerCue(1),
		FadeTime:         DefaultFadeTimeMS,
		AutoDelay:        DefaultAutoDelayMS,
		Width:            GameWindowWidth,
		Height:           GameWindowHeight,
	}
}

// LoadStoryConfig 从故事目录的 YAML 文件加载故事配置
func LoadStoryConfig(fsys fs.FS, path string) (*StoryConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story config %s: %w", path, err)
	}
	return ParseStoryConfig(data)
}

// ParseStoryConfig 解析故事配置
// 文件先解码为通用 map，再用 mapstructure 挑出演出字段（弱类型，允许 "5" 这类写法）
func ParseStoryConfig(data []byte) (*StoryConfig, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse story config YAML: %w", err)
	}

	cfg := DefaultStoryConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       charPerCueHook,
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create story config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, NewConfigurationError("story config", "decode", err)
	}

	if err := validateStoryConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// charPerCueHook 把整数 / "auto" 转换为 CharPerCue
func charPerCueHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(CharPerCue{}) {
		return data, nil
	}
	return ParseCharPerCue(data)
}

// validateStoryConfig 验证配置的有效性
func validateStoryConfig(cfg *StoryConfig) error {
	if cfg.PunctuationWait < 0 {
		return NewConfigurationError("punctuationWait", strconv.Itoa(cfg.PunctuationWait),
			fmt.Errorf("must be >= 0"))
	}
	if cfg.CharPerSfx.IsZero() {
		cfg.CharPerSfx = FixedCharPerCue(1)
	}
	if !cfg.CharPerSfx.Auto && cfg.CharPerSfx.N < 1 {
		return NewConfigurationError("charPerSfx", cfg.CharPerSfx.String(), fmt.Errorf("must be >= 1 or \"auto\""))
	}
	if cfg.FadeTime < 0 {
		return NewConfigurationError("fadetime", strconv.Itoa(cfg.FadeTime), fmt.Errorf("must be >= 0"))
	}
	for _, mark := range cfg.PunctuationMarks {
		if mark == "" {
			return NewConfigurationError("punctuationMarks", mark, fmt.Errorf("empty mark"))
		}
	}
	return nil
}
