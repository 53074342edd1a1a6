// Package clock 提供帧驱动的虚拟计时器服务
//
// 游戏循环每个 tick 调用 Clock.Advance(1/TPS)，到期的回调按截止时间顺序
// 在游戏循环 goroutine 中同步执行。测试直接调用 Advance 推进虚拟时间，
// 无需真实计时器。
package clock

import (
	"log"
	"sort"
	"time"
)

// TimerID 计时器句柄，0 为无效句柄
type TimerID uint64

// Scheduler 计时器服务能力接口
type Scheduler interface {
	// Every 按固定间隔重复执行 fn
	Every(interval time.Duration, fn func()) TimerID
	// After 延迟 delay 后执行一次 fn
	After(delay time.Duration, fn func()) TimerID
	// Cancel 取消计时器，返回计时器是否仍处于活动状态
	Cancel(id TimerID) bool
}

type timer struct {
	id       TimerID
	next     time.Duration // 下次触发的虚拟时间
	interval time.Duration // 0 表示一次性计时器
	fn       func()
}

// Clock 虚拟时钟（非线程安全，只在游戏循环中使用）
type Clock struct {
	now    time.Duration
	nextID TimerID
	timers map[TimerID]*timer
}

// NewClock 创建虚拟时钟，起始时间为 0
func NewClock() *Clock {
	return &Clock{
		nextID: 1,
		timers: make(map[TimerID]*timer),
	}
}

// Now 返回当前虚拟时间
func (c *Clock) Now() time.Duration {
	return c.now
}

// Pending 返回活动计时器数量
func (c *Clock) Pending() int {
	return len(c.timers)
}

// Every 注册重复计时器，首次触发在 interval 之后
func (c *Clock) Every(interval time.Duration, fn func()) TimerID {
	if interval <= 0 {
		log.Printf("[Clock] Warning: non-positive interval %v, clamped to 1ms", interval)
		interval = time.Millisecond
	}
	return c.add(interval, interval, fn)
}

// After 注册一次性计时器
// delay <= 0 时在下一次 Advance 中触发
func (c *Clock) After(delay time.Duration, fn func()) TimerID {
	if delay < 0 {
		delay = 0
	}
	return c.add(delay, 0, fn)
}

func (c *Clock) add(delay, interval time.Duration, fn func()) TimerID {
	id := c.nextID
	c.nextID++
	c.timers[id] = &timer{
		id:       id,
		next:     c.now + delay,
		interval: interval,
		fn:       fn,
	}
	return id
}

// Cancel 取消计时器
// 在回调内部取消自身或其他计时器同样生效：被取消的计时器不会再触发
func (c *Clock) Cancel(id TimerID) bool {
	if _, ok := c.timers[id]; !ok {
		return false
	}
	delete(c.timers, id)
	return true
}

// Advance 推进虚拟时间 dt，并按截止时间顺序触发所有到期回调
// 同一截止时间的计时器按注册顺序触发；重复计时器在 dt 覆盖多个间隔时触发多次
func (c *Clock) Advance(dt time.Duration) {
	if dt < 0 {
		return
	}
	target := c.now + dt

	for {
		t := c.earliestDue(target)
		if t == nil {
			break
		}
		c.now = t.next
		if t.interval > 0 {
			t.next += t.interval
		} else {
			delete(c.timers, t.id)
		}
		if t.fn != nil {
			t.fn()
		}
	}

	c.now = target
}

// earliestDue 查找截止时间 <= target 的最早计时器
func (c *Clock) earliestDue(target time.Duration) *timer {
	var due []*timer
	for _, t := range c.timers {
		if t.next <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].next != due[j].next {
			return due[i].next < due[j].next
		}
		return due[i].id < due[j].id
	})
	return due[0]
}
