// Package managers 管理背景、角色等具名舞台元素，并负责它们之间的转场切换
package managers

import (
	"log"
	"sort"

	"github.com/decker502/vnovel/pkg/stage"
)

// runAnimation 动画背景/立绘循环播放的动画名
const runAnimation = "run"

// Element 注册表中的一个舞台元素
type Element struct {
	Name      string
	Sprite    stage.Sprite
	Animated  bool // 显示时循环播放 runAnimation
	FrameRate int
}

// Registry 具名元素注册表
//
// 同一时间最多一个元素为「当前」元素。current 只能由同一个包内的
// Orchestrator 修改，外部只读。
type Registry struct {
	kind     string
	elements map[string]*Element
	current  *Element
}

// NewRegistry 创建注册表
// kind 用于日志和错误信息，如 "background"
func NewRegistry(kind string) *Registry {
	return &Registry{
		kind:     kind,
		elements: make(map[string]*Element),
	}
}

// Kind 注册表类别
func (r *Registry) Kind() string {
	return r.kind
}

// Add 注册元素，同名元素会被替换
func (r *Registry) Add(e *Element) {
	if old, ok := r.elements[e.Name]; ok {
		log.Printf("[Registry] Warning: %s %q registered twice, replacing", r.kind, e.Name)
		if r.current == old {
			r.current = e
		}
	}
	r.elements[e.Name] = e
}

// Get 按名称查找
func (r *Registry) Get(name string) (*Element, bool) {
	e, ok := r.elements[name]
	return e, ok
}

// Has 是否注册了该名称
func (r *Registry) Has(name string) bool {
	_, ok := r.elements[name]
	return ok
}

// Names 全部名称（排序）
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.elements))
	for name := range r.elements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Current 当前元素，没有时返回 nil
func (r *Registry) Current() *Element {
	return r.current
}

// CurrentName 当前元素名称，没有时返回空字符串
func (r *Registry) CurrentName() string {
	if r.current == nil {
		return ""
	}
	return r.current.Name
}

func (r *Registry) setCurrent(e *Element) {
	r.current = e
}
