package kernel

import "time"

// Context provides task-local access to kernel state.
type Context struct {
	k      *Kernel
	taskID TaskID
}

// TaskID returns the current task ID.
func (c *Context) TaskID() TaskID { return c.taskID }

// Now returns the time since boot.
func (c *Context) Now() time.Duration {
	if c.k == nil {
		return 0
	}
	return c.k.Now()
}

// NowMillis returns the time since boot in whole milliseconds.
func (c *Context) NowMillis() uint64 {
	if c.k == nil {
		return 0
	}
	return c.k.nowMillis.Load()
}
