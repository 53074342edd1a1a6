package components

// 渲染层级，数值越大越靠上
const (
	LayerBackground = 0
	LayerCharacter  = 10
	LayerGUI        = 20
	LayerCurtain    = 30
)

// RenderStateComponent 舞台元素的可见性、透明度和层级
//
// 所有可绘制实体都带有此组件；RenderSystem 只绘制 Visible 且 Alpha > 0 的实体。
type RenderStateComponent struct {
	Name    string  // 元素名称（调试和日志用）
	Visible bool    // 是否可见
	Alpha   float64 // 透明度 0.0 ~ 1.0
	Layer   int     // 渲染层级
	Order   int64   // 同层内的绘制顺序，越大越靠上
}
