//go:build tinygo

package main

import (
	"c201/app"
	"c201/hal"
)

func main() {
	app.Run(hal.New())
}
