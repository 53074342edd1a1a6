package game

import (
	"path"
	"strings"
)

// ResourceConfig represents the top-level resource configuration loaded from YAML.
// It defines the structure of <story dir>/resources.yaml.
//
// Structure:
//
//	version: "1.0"
//	base_path: assets
//	groups:
//	  group_name:
//	    images: [...]
//	    sounds: [...]
//	    fonts: [...]
type ResourceConfig struct {
	Version  string                   `yaml:"version"`   // Configuration file version
	BasePath string                   `yaml:"base_path"` // Base path for all resources (e.g., "assets")
	Groups   map[string]ResourceGroup `yaml:"groups"`    // Resource groups keyed by group name
}

// ResourceGroup represents a collection of related resources that can be loaded together.
//
// Example:
//
//	chapter1:
//	  images:
//	    - id: room
//	      path: backgrounds/room.png
type ResourceGroup struct {
	Images []ImageResource `yaml:"images"` // List of image resources in this group
	Sounds []SoundResource `yaml:"sounds"` // List of sound resources in this group
	Fonts  []FontResource  `yaml:"fonts"`  // List of font resources in this group
}

// ImageResource represents a single image resource definition.
// It can be a simple image or a sprite sheet with rows/cols.
//
// Examples:
//
//	Simple image:
//	  - id: room
//	    path: backgrounds/room
//
//	Sprite sheet (frames are read row by row):
//	  - id: ctc
//	    path: gui/ctc.png
//	    cols: 4
//	    rows: 2
type ImageResource struct {
	ID   string `yaml:"id"`             // Resource ID (unique identifier)
	Path string `yaml:"path"`           // Relative file path from base_path
	Cols int    `yaml:"cols,omitempty"` // Sprite sheet columns (0 if not a sprite sheet)
	Rows int    `yaml:"rows,omitempty"` // Sprite sheet rows (0 if not a sprite sheet)
}

// FrameCount 精灵表的帧数（普通图片为 1）
func (r ImageResource) FrameCount() int {
	cols, rows := r.grid()
	return cols * rows
}

func (r ImageResource) grid() (int, int) {
	cols, rows := r.Cols, r.Rows
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// SoundResource represents a single sound/audio resource definition.
// Supported formats: .mp3, .ogg, .wav
//
// Example:
//   - id: click
//     path: sfx/click.ogg
type SoundResource struct {
	ID   string `yaml:"id"`   // Resource ID (unique identifier)
	Path string `yaml:"path"` // Relative file path from base_path
}

// FontResource represents a single font resource definition (TrueType/OpenType).
//
// Example:
//   - id: main
//     path: fonts/NotoSansSC.ttf
type FontResource struct {
	ID   string `yaml:"id"`   // Resource ID (unique identifier)
	Path string `yaml:"path"` // Relative file path from base_path
}

// buildFullPath constructs the full file path for a resource inside the story file system.
// fs.FS paths are slash separated and unrooted, so a leading "/" is dropped.
//
// Parameters:
//   - basePath: The base path from ResourceConfig (e.g., "assets")
//   - relativePath: The resource's relative path (e.g., "images/background1.png")
//
// Returns:
//   - The full file path (e.g., "assets/images/background1.png")
func buildFullPath(basePath, relativePath string) string {
	relativePath = strings.TrimPrefix(relativePath, "/")
	if basePath == "" {
		return path.Clean(relativePath)
	}
	return path.Join(strings.TrimPrefix(basePath, "/"), relativePath)
}
