package game

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io/fs"
	"log"
	"path"
	"sort"

	"github.com/decker502/vnovel/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"gopkg.in/yaml.v3"
)

// DefaultSampleRate 未提供音频上下文时解码使用的采样率
const DefaultSampleRate = 48000

// ResourceManager is responsible for centralized management of story resources.
// Resources are addressed by the IDs declared in resources.yaml and read from
// the story file system (a directory on disk, or an fstest.MapFS in tests).
//
// The ResourceManager implements the following key features:
//   - Image loading and caching (PNG/JPEG), sprite sheets split into frames
//   - Sound loading with decoded duration (MP3/OGG/WAV)
//   - Font faces per (id, size)
//   - Unknown IDs reported as *config.ConfigurationError
//
// Thread Safety Note:
// This implementation is NOT thread-safe. It is only used from the game loop.
//
// Usage:
//
//	rm := NewResourceManager(os.DirFS(storyDir), audio.NewContext(48000))
//	if err := rm.LoadResourceConfig("resources.yaml"); err != nil {
//	    return err
//	}
//	img, err := rm.LoadImageByID("room")
type ResourceManager struct {
	fsys         fs.FS
	audioContext *audio.Context // 可以为 nil（只解码，不播放）
	sampleRate   int

	// YAML resource configuration
	config *ResourceConfig
	images map[string]ImageResource // Resource ID -> image definition (path resolved)
	sounds map[string]string        // Resource ID -> file path
	fonts  map[string]string        // Resource ID -> file path

	imageCache      map[string]*ebiten.Image   // path -> Image
	frameCache      map[string][]*ebiten.Image // resource ID -> frames
	soundCache      map[string]*Sound          // resource ID -> Sound
	fontSourceCache map[string]*text.GoTextFaceSource
	fontFaceCache   map[string]text.Face // "id:size" -> face
}

// NewResourceManager creates and initializes a new ResourceManager instance.
//
// Parameters:
//   - fsys: 故事目录的文件系统
//   - audioContext: 全局音频上下文，可以为 nil（音效可以解码和计算时长，但不会播放）
//
// Returns:
//   - A pointer to a newly initialized ResourceManager with empty caches.
func NewResourceManager(fsys fs.FS, audioContext *audio.Context) *ResourceManager {
	sampleRate := DefaultSampleRate
	if audioContext != nil {
		sampleRate = audioContext.SampleRate()
	}
	return &ResourceManager{
		fsys:            fsys,
		audioContext:    audioContext,
		sampleRate:      sampleRate,
		images:          make(map[string]ImageResource),
		sounds:          make(map[string]string),
		fonts:           make(map[string]string),
		imageCache:      make(map[string]*ebiten.Image),
		frameCache:      make(map[string][]*ebiten.Image),
		soundCache:      make(map[string]*Sound),
		fontSourceCache: make(map[string]*text.GoTextFaceSource),
		fontFaceCache:   make(map[string]text.Face),
	}
}

// LoadResourceConfig loads and parses the YAML resource configuration file.
// After loading, resource IDs can be resolved with LoadImageByID, LoadSound and LoadFontByID.
func (rm *ResourceManager) LoadResourceConfig(configPath string) error {
	data, err := fs.ReadFile(rm.fsys, configPath)
	if err != nil {
		return fmt.Errorf("failed to read resource config %s: %w", configPath, err)
	}

	var cfg ResourceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse resource config %s: %w", configPath, err)
	}

	rm.config = &cfg
	rm.buildResourceMap()
	log.Printf("[ResourceManager] Loaded %d images, %d sounds, %d fonts from %s",
		len(rm.images), len(rm.sounds), len(rm.fonts), configPath)
	return nil
}

// buildResourceMap builds the resource ID -> path mapping for quick lookup.
// Groups are visited in name order so that a duplicated ID resolves deterministically
// (the last group in name order wins).
func (rm *ResourceManager) buildResourceMap() {
	rm.images = make(map[string]ImageResource)
	rm.sounds = make(map[string]string)
	rm.fonts = make(map[string]string)
	if rm.config == nil {
		return
	}

	groupNames := make([]string, 0, len(rm.config.Groups))
	for name := range rm.config.Groups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	for _, name := range groupNames {
		group := rm.config.Groups[name]
		for _, img := range group.Images {
			fullPath := buildFullPath(rm.config.BasePath, img.Path)
			// Add file extension if not present
			if path.Ext(fullPath) == "" {
				fullPath += ".png"
			}
			img.Path = fullPath
			rm.warnDuplicate("image", img.ID, rm.images[img.ID].Path != "")
			rm.images[img.ID] = img
		}
		for _, sound := range group.Sounds {
			fullPath := buildFullPath(rm.config.BasePath, sound.Path)
			if path.Ext(fullPath) == "" {
				fullPath += ".ogg"
			}
			_, dup := rm.sounds[sound.ID]
			rm.warnDuplicate("sound", sound.ID, dup)
			rm.sounds[sound.ID] = fullPath
		}
		for _, font := range group.Fonts {
			_, dup := rm.fonts[font.ID]
			rm.warnDuplicate("font", font.ID, dup)
			rm.fonts[font.ID] = buildFullPath(rm.config.BasePath, font.Path)
		}
	}
}

func (rm *ResourceManager) warnDuplicate(kind, id string, dup bool) {
	if dup {
		log.Printf("[ResourceManager] Warning: duplicate %s id %q, later definition wins", kind, id)
	}
}

// HasImage 是否声明了该图片 ID
func (rm *ResourceManager) HasImage(id string) bool {
	_, ok := rm.images[id]
	return ok
}

// HasSound 是否声明了该音效 ID
func (rm *ResourceManager) HasSound(id string) bool {
	_, ok := rm.sounds[id]
	return ok
}

// SoundIDs 所有已声明的音效 ID（排序）
func (rm *ResourceManager) SoundIDs() []string {
	ids := make([]string, 0, len(rm.sounds))
	for id := range rm.sounds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadImage loads an image file from the story file system and caches it.
// Supported formats: PNG and JPEG.
func (rm *ResourceManager) LoadImage(filePath string) (*ebiten.Image, error) {
	if cachedImage, exists := rm.imageCache[filePath]; exists {
		return cachedImage, nil
	}

	data, err := fs.ReadFile(rm.fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", filePath, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filePath, err)
	}

	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[filePath] = ebitenImg
	return ebitenImg, nil
}

// LoadImageByID loads an image using its resource ID from the YAML configuration.
//
// Returns *config.ConfigurationError if the ID is not declared.
func (rm *ResourceManager) LoadImageByID(resourceID string) (*ebiten.Image, error) {
	res, exists := rm.images[resourceID]
	if !exists {
		return nil, config.NewConfigurationError("image", resourceID, nil)
	}
	return rm.LoadImage(res.Path)
}

// LoadImageFrames 按资源配置中的行列数切分精灵表，帧按行优先排列
//
// Returns *config.ConfigurationError if the ID is not declared or is not a sprite sheet.
func (rm *ResourceManager) LoadImageFrames(resourceID string) ([]*ebiten.Image, error) {
	if frames, ok := rm.frameCache[resourceID]; ok {
		return frames, nil
	}

	res, exists := rm.images[resourceID]
	if !exists {
		return nil, config.NewConfigurationError("image", resourceID, nil)
	}
	if res.FrameCount() < 2 {
		return nil, config.NewConfigurationError("spritesheet", resourceID,
			fmt.Errorf("image has no cols/rows"))
	}

	sheet, err := rm.LoadImage(res.Path)
	if err != nil {
		return nil, err
	}

	cols, rows := res.grid()
	bounds := sheet.Bounds()
	frameW, frameH := bounds.Dx()/cols, bounds.Dy()/rows
	if frameW == 0 || frameH == 0 {
		return nil, config.NewConfigurationError("spritesheet", resourceID,
			fmt.Errorf("%dx%d image cannot be split into %dx%d frames", bounds.Dx(), bounds.Dy(), cols, rows))
	}

	frames := make([]*ebiten.Image, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x0 := bounds.Min.X + col*frameW
			y0 := bounds.Min.Y + row*frameH
			frame := sheet.SubImage(image.Rect(x0, y0, x0+frameW, y0+frameH)).(*ebiten.Image)
			frames = append(frames, frame)
		}
	}

	rm.frameCache[resourceID] = frames
	return frames, nil
}

// LoadSound 加载并解码音效
//
// Returns *config.ConfigurationError if the ID is not declared.
func (rm *ResourceManager) LoadSound(resourceID string) (*Sound, error) {
	if sound, ok := rm.soundCache[resourceID]; ok {
		return sound, nil
	}

	filePath, exists := rm.sounds[resourceID]
	if !exists {
		return nil, config.NewConfigurationError("sound", resourceID, nil)
	}

	data, err := fs.ReadFile(rm.fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file %s: %w", filePath, err)
	}
	pcm, err := decodeAudio(filePath, data, rm.sampleRate)
	if err != nil {
		return nil, err
	}

	sound := &Sound{
		id:         resourceID,
		ctx:        rm.audioContext,
		pcm:        pcm,
		sampleRate: rm.sampleRate,
	}
	rm.soundCache[resourceID] = sound
	return sound, nil
}

// LoadFontByID 按资源 ID 和字号创建字体
//
// Returns *config.ConfigurationError if the ID is not declared.
func (rm *ResourceManager) LoadFontByID(resourceID string, size float64) (text.Face, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", resourceID, size)
	if face, ok := rm.fontFaceCache[cacheKey]; ok {
		return face, nil
	}

	filePath, exists := rm.fonts[resourceID]
	if !exists {
		return nil, config.NewConfigurationError("font", resourceID, nil)
	}

	source, ok := rm.fontSourceCache[filePath]
	if !ok {
		fontData, err := fs.ReadFile(rm.fsys, filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", filePath, err)
		}
		source, err = text.NewGoTextFaceSource(bytes.NewReader(fontData))
		if err != nil {
			return nil, fmt.Errorf("failed to create font source for %s: %w", filePath, err)
		}
		rm.fontSourceCache[filePath] = source
	}

	face := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = face
	return face, nil
}

// StopSounds stops every playing instance of the cached sounds.
func (rm *ResourceManager) StopSounds() {
	for _, sound := range rm.soundCache {
		sound.Stop()
	}
}

// LoadResourceGroup preloads all images and sounds of a resource group.
// Fonts are created lazily because they depend on the requested size.
func (rm *ResourceManager) LoadResourceGroup(groupName string) error {
	if rm.config == nil {
		return fmt.Errorf("resource config not loaded - call LoadResourceConfig first")
	}
	group, exists := rm.config.Groups[groupName]
	if !exists {
		return config.NewConfigurationError("resource group", groupName, nil)
	}

	for _, img := range group.Images {
		if _, err := rm.LoadImageByID(img.ID); err != nil {
			return fmt.Errorf("failed to load image %s in group %s: %w", img.ID, groupName, err)
		}
	}
	for _, sound := range group.Sounds {
		if _, err := rm.LoadSound(sound.ID); err != nil {
			return fmt.Errorf("failed to load sound %s in group %s: %w", sound.ID, groupName, err)
		}
	}

	log.Printf("[ResourceManager] Loaded resource group: %s", groupName)
	return nil
}
