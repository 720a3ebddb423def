package kernel

import (
	"sync/atomic"
	"time"
)

const maxTasks = 16

type TaskID uint8

// Task is a cooperative unit of execution.
//
// Step must return promptly; it is called once per kernel pass.
type Task interface {
	Step(*Context)
}

// Kernel is a minimal cooperative scheduler: every Step runs each
// registered task once, in registration order.
type Kernel struct {
	tasks     [maxTasks]Task
	taskCount TaskID

	nowMillis atomic.Uint64
	passes    uint64

	panicActive  atomic.Bool
	panicHandler func(PanicInfo)
}

// New creates a kernel instance.
func New() *Kernel {
	return &Kernel{}
}

// AddTask registers a task and returns its ID.
func (k *Kernel) AddTask(t Task) TaskID {
	if k.taskCount >= maxTasks || t == nil {
		return 0
	}
	id := k.taskCount
	k.taskCount++
	k.tasks[id] = t
	return id
}

// Step runs one pass over all tasks.
//
// A panicking task puts the kernel into panic mode; no further steps run.
func (k *Kernel) Step() {
	if k.panicActive.Load() {
		return
	}
	ctx := Context{k: k}
	for id := TaskID(0); id < k.taskCount; id++ {
		ctx.taskID = id
		if !k.stepTask(&ctx) {
			return
		}
	}
	k.passes++
}

func (k *Kernel) stepTask(ctx *Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			k.triggerPanic(PanicInfo{TaskID: ctx.taskID, Value: r})
			ok = false
		}
	}()
	k.tasks[ctx.taskID].Step(ctx)
	return true
}

// TickTo advances the millisecond time base. Older values are ignored.
func (k *Kernel) TickTo(ms uint64) {
	for {
		cur := k.nowMillis.Load()
		if ms <= cur {
			return
		}
		if k.nowMillis.CompareAndSwap(cur, ms) {
			return
		}
	}
}

// Now returns the time since boot as last published by TickTo.
func (k *Kernel) Now() time.Duration {
	return time.Duration(k.nowMillis.Load()) * time.Millisecond
}

// Passes reports how many complete passes Step has run.
func (k *Kernel) Passes() uint64 { return k.passes }
