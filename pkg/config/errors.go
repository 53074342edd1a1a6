package config

import (
	"errors"
	"fmt"
)

// ErrConfiguration 配置错误的哨兵值，用于 errors.Is 判断
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError 配置错误
//
// 使用场景:
//   - 未注册的转场名称
//   - 精灵、音效、字体等必需资源 key 不存在
//   - 配置文件中的非法取值
//
// 这类错误在调用时同步返回，不会自动重试。
type ConfigurationError struct {
	Kind string // 出错的配置类别，如 "transition"、"image"、"sound"
	Name string // 出错的名称或 key
	Err  error  // 底层错误（可为 nil）
}

// NewConfigurationError 创建配置错误
func NewConfigurationError(kind, name string, err error) *ConfigurationError {
	return &ConfigurationError{Kind: kind, Name: name, Err: err}
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s %q: %v", e.Kind, e.Name, e.Err)
	}
	return fmt.Sprintf("configuration error: unknown %s %q", e.Kind, e.Name)
}

// Is 使 errors.Is(err, ErrConfiguration) 成立
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
