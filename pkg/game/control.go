package game

// Control 全局演出模式：快进和自动播放
//
// 消息框和转场只读取 Skipping/Auto，由 App 根据输入修改。
type Control struct {
	skipping bool
	auto     bool
}

// NewControl 创建演出模式
func NewControl(skipping, auto bool) *Control {
	return &Control{skipping: skipping, auto: auto}
}

// Skipping 是否处于快进模式
func (c *Control) Skipping() bool {
	return c.skipping
}

// Auto 是否处于自动播放模式
func (c *Control) Auto() bool {
	return c.auto
}

// SetSkipping 设置快进模式
func (c *Control) SetSkipping(skipping bool) {
	c.skipping = skipping
}

// SetAuto 设置自动播放模式
func (c *Control) SetAuto(auto bool) {
	c.auto = auto
}

// ToggleAuto 切换自动播放，返回切换后的状态
func (c *Control) ToggleAuto() bool {
	c.auto = !c.auto
	return c.auto
}
