package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 按名称（故事脚本路径）创建场景，避免 game 包依赖 scenes 包
type SceneFactory func(name string) (Scene, error)

// SceneManager manages the player's high-level state by controlling which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory // 场景工厂函数，用于创建新场景
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{
		currentScene: nil,
		sceneFactory: nil,
	}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
// The new scene's Update and Draw methods will be called on subsequent game loop iterations.
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景
//
// 返回：
//   - Scene: 当前场景，如果没有活动场景则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Load 通过场景工厂创建并切换到指定场景
// 创建失败时保持当前场景不变并返回错误
func (sm *SceneManager) Load(name string) error {
	log.Printf("[SceneManager] 加载场景: %s", name)

	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set")
	}

	newScene, err := sm.sceneFactory(name)
	if err != nil {
		return fmt.Errorf("failed to create scene %s: %w", name, err)
	}
	sm.SwitchTo(newScene)
	log.Printf("[SceneManager] 成功切换到场景: %s", name)
	return nil
}

// Finished 当前场景是否已经播放结束
func (sm *SceneManager) Finished() bool {
	if f, ok := sm.currentScene.(Finisher); ok {
		return f.Finished()
	}
	return false
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
