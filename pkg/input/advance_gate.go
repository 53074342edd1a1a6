// Package input 处理"推进"输入（点击/触摸/按键）的分发
package input

import "log"

// Registration 监听器注册句柄，0 为无效句柄
type Registration uint64

// AdvanceGate 推进信号闸门
//
// 整个应用只有一个分发点：App 每帧检测到点击/触摸/按键后调用 Dispatch。
// 同一时间最多只有一个监听器处于等待状态，监听器触发一次后即失效，
// 下一条消息需要重新调用 WaitForAdvance 注册。
type AdvanceGate struct {
	nextID  Registration
	armed   Registration
	handler func()
}

// NewAdvanceGate 创建推进信号闸门
func NewAdvanceGate() *AdvanceGate {
	return &AdvanceGate{nextID: 1}
}

// WaitForAdvance 注册一次性监听器，替换之前未触发的监听器
func (g *AdvanceGate) WaitForAdvance(fn func()) Registration {
	if g.armed != 0 {
		log.Printf("[AdvanceGate] Replacing pending listener %d", g.armed)
	}
	id := g.nextID
	g.nextID++
	g.armed = id
	g.handler = fn
	return id
}

// Cancel 取消注册；只有该注册仍处于等待状态时才生效
func (g *AdvanceGate) Cancel(reg Registration) bool {
	if reg == 0 || g.armed != reg {
		return false
	}
	g.armed = 0
	g.handler = nil
	return true
}

// Armed 是否有监听器在等待
func (g *AdvanceGate) Armed() bool {
	return g.armed != 0
}

// Dispatch 分发一次推进信号
// 监听器在执行前被清除，因此回调内部可以重新注册
//
// 返回：
//   - bool: 是否有监听器被触发
func (g *AdvanceGate) Dispatch() bool {
	if g.armed == 0 {
		return false
	}
	fn := g.handler
	g.armed = 0
	g.handler = nil
	if fn != nil {
		fn()
	}
	return true
}
