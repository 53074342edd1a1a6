// Package future 提供单次完成信号（Future）
//
// 引擎运行在 Ebitengine 的单线程游戏循环上：文字显示、转场动画等异步操作
// 通过 Future 通知调用方"已完成"。延续回调（Then）在 Resolve 的同一个
// goroutine 中同步执行，无需加锁即可安全修改游戏状态。
package future

import (
	"context"
	"sync"
)

// Future 单次完成信号
//
// 注意事项:
//   - Resolve 只有第一次调用生效，后续调用为空操作（先到先得）
//   - Then 注册的回调在 Resolve 时按注册顺序同步执行
//   - 已完成的 Future 上调用 Then 会立即执行回调
type Future struct {
	mu        sync.Mutex
	resolved  bool
	value     bool
	callbacks []func(bool)
	done      chan struct{}
}

// New 创建一个未完成的 Future
func New() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved 创建一个已完成的 Future（快速路径使用）
func Resolved(value bool) *Future {
	f := New()
	f.Resolve(value)
	return f
}

// Resolve 完成 Future 并触发所有回调
//
// 返回：
//   - bool: 本次调用是否真正完成了 Future（false 表示之前已完成）
func (f *Future) Resolve(value bool) bool {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return false
	}
	f.resolved = true
	f.value = value
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(value)
	}
	return true
}

// IsResolved 是否已完成
func (f *Future) IsResolved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved
}

// Value 返回完成值（未完成时为 false）
func (f *Future) Value() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Then 注册完成回调
func (f *Future) Then(fn func(bool)) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	if !f.resolved {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	value := f.value
	f.mu.Unlock()
	fn(value)
}

// Done 返回完成时关闭的通道
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait 阻塞等待完成或 ctx 取消
// 仅供工具和测试在游戏循环之外使用；游戏循环内必须使用 Then
func (f *Future) Wait(ctx context.Context) (bool, error) {
	select {
	case <-f.done:
		return f.Value(), nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// All 所有输入完成后完成，结果为各输入结果的逻辑与
// 无输入时返回已完成的 Future
func All(fs ...*Future) *Future {
	out := New()
	remaining := 0
	for _, f := range fs {
		if f != nil {
			remaining++
		}
	}
	if remaining == 0 {
		out.Resolve(true)
		return out
	}

	result := true
	for _, f := range fs {
		if f == nil {
			continue
		}
		f.Then(func(v bool) {
			result = result && v
			remaining--
			if remaining == 0 {
				out.Resolve(result)
			}
		})
	}
	return out
}
