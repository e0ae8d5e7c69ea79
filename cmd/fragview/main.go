package main

import (
	"runtime"

	"github.com/ThatOtherAndrew/fragview/cmd"
)

// glfw and GL calls must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	cmd.Execute()
}
