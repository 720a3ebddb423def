package kernel

// PanicInfo contains details about a recovered panic.
type PanicInfo struct {
	TaskID TaskID
	Value  any
	Stack  []byte
}

// InPanicMode reports whether a task has panicked.
func (k *Kernel) InPanicMode() bool {
	return k.panicActive.Load()
}

// SetPanicHandler installs the panic handler.
//
// The handler is invoked at most once (on the first panic), from the
// goroutine calling Step. It must not panic.
func (k *Kernel) SetPanicHandler(fn func(PanicInfo)) {
	k.panicHandler = fn
}

func (k *Kernel) triggerPanic(info PanicInfo) {
	if !k.panicActive.CompareAndSwap(false, true) {
		return
	}
	info.Stack = captureStack()
	if fn := k.panicHandler; fn != nil {
		fn(info)
	}
}
