// log/stack.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

type StackFrame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

func (f StackFrame) String() string {
	return fmt.Sprintf("%s:%d:%s", f.File, f.Line, f.Function)
}

// maxStackDepth bounds the number of frames in a call stack.
const maxStackDepth = 16

// Callstack returns the calling goroutine's stack, skipping the given
// number of frames above the caller of Callstack. Frames stop at
// main.main so that runtime frames aren't included.
func Callstack(skip int) []StackFrame {
	var pcs [maxStackDepth]uintptr
	// Skip runtime.Callers and Callstack.
	n := runtime.Callers(skip+2, pcs[:])

	stack := make([]StackFrame, 0, n)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.Function == "" {
			break
		}

		fn := strings.TrimPrefix(frame.Function, "github.com/mmp/spritebench/")
		stack = append(stack, StackFrame{
			File:     filepath.Base(frame.File),
			Line:     frame.Line,
			Function: strings.TrimPrefix(fn, "main."),
		})

		if !more || frame.Function == "main.main" {
			break
		}
	}
	return stack
}
