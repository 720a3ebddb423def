//go:build !tinygo

// Command hostlink drives a c201 controller's command link from a PC.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"c201/internal/hostlink"
)

const usage = `usage: hostlink [flags] <command> [args]

commands:
  send LINE...     send each line and print the reply
  selftest         run every command and report pass/fail
  heartbeat        send PING every -interval
  monitor          send LOAD with the CPU usage every -interval
  ports            list serial ports

flags:
`

func main() {
	port := flag.String("port", "", "serial port of the controller link")
	baud := flag.Int("baud", 9600, "serial baud rate")
	timeout := flag.Duration("timeout", hostlink.DefaultTimeout, "reply timeout")
	interval := flag.Duration("interval", 2*time.Second, "heartbeat and monitor period")
	count := flag.Int("count", 0, "monitor samples to send (0 = run until interrupted)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if args[0] == "ports" {
		ports, err := hostlink.Ports()
		if err != nil {
			fatal(log, "ports", err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	if *port == "" {
		fmt.Fprintln(os.Stderr, "hostlink: -port is required")
		os.Exit(2)
	}
	c, err := hostlink.Open(*port, *baud, log)
	if err != nil {
		fatal(log, "open", err)
	}
	defer c.Close()
	c.SetTimeout(*timeout)

	switch args[0] {
	case "send":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "hostlink: send needs at least one line")
			os.Exit(2)
		}
		for _, line := range args[1:] {
			reply, err := c.Send(ctx, line)
			if err != nil {
				fatal(log, "send", err)
			}
			fmt.Printf("%s -> %s\n", line, reply)
		}
	case "selftest":
		results := c.Run(ctx, hostlink.SelfTest)
		fmt.Print(hostlink.Report(results))
		if hostlink.Failed(results) > 0 {
			os.Exit(1)
		}
	case "heartbeat":
		if err := c.Heartbeat(ctx, *interval); err != nil && ctx.Err() == nil {
			fatal(log, "heartbeat", err)
		}
	case "monitor":
		if err := c.Monitor(ctx, hostlink.CPUSampler(*interval), *count); err != nil && ctx.Err() == nil {
			fatal(log, "monitor", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "hostlink: unknown command %q (want %s)\n", args[0],
			strings.Join([]string{"send", "selftest", "heartbeat", "monitor", "ports"}, ", "))
		os.Exit(2)
	}
}

func fatal(log *slog.Logger, op string, err error) {
	log.LogAttrs(context.Background(), slog.LevelError, op, slog.Any("err", err))
	os.Exit(1)
}
