package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"c201/firmware/kernel"
	"c201/firmware/screen"
)

func installPanicHandler(k *kernel.Kernel, surf screen.Surface, log *slog.Logger) {
	k.SetPanicHandler(func(info kernel.PanicInfo) {
		ctx := context.Background()
		log.LogAttrs(ctx, slog.LevelError, "panic",
			slog.Int("task", int(info.TaskID)),
			slog.Any("value", info.Value),
		)

		lines := []string{
			"C201 Panic:",
			fmt.Sprintf("task: %d", info.TaskID),
			fmt.Sprintf("panic: %v", info.Value),
		}
		if len(info.Stack) > 0 {
			lines = append(lines, "stack:")
			for _, line := range strings.Split(string(info.Stack), "\n") {
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				log.LogAttrs(ctx, slog.LevelError, "stack", slog.String("frame", line))
				lines = append(lines, line)
			}
		} else {
			lines = append(lines, "stack: unavailable")
		}

		if surf == nil {
			return
		}
		screen.Panic(surf, lines)
		if err := surf.Flush(); err != nil {
			log.LogAttrs(ctx, slog.LevelError, "panic display", slog.Any("err", err))
		}
	})
}
