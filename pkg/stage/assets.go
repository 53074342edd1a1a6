package stage

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// AssetSource 舞台加载图片和字体的资源接口（由 game.ResourceManager 实现）
type AssetSource interface {
	LoadImageByID(id string) (*ebiten.Image, error)
	// LoadImageFrames 按资源配置中的行列数切分精灵表
	LoadImageFrames(id string) ([]*ebiten.Image, error)
	LoadFontByID(id string, size float64) (text.Face, error)
}

// fallbackFace 未配置字体时使用的内置位图字体
var fallbackFace text.Face = text.NewGoXFace(basicfont.Face7x13)

// FallbackFace 返回内置字体
func FallbackFace() text.Face {
	return fallbackFace
}
