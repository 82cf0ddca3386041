// cmd/bunnymark/flags.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// lenientInt is a flag.Value for integer options that never rejects its
// argument: the value is the leading decimal integer of the argument, or
// 0 if there is none.
type lenientInt struct {
	v *int
}

func (l lenientInt) String() string {
	if l.v == nil {
		return "0"
	}
	return strconv.Itoa(*l.v)
}

func (l lenientInt) Set(s string) error {
	*l.v = atoi(s)
	return nil
}

func atoi(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Out of range.
		return 0
	}
	return n
}

// lenientArgs returns args with an empty value inserted after each of
// the named integer flags that is missing its value, either because it's
// last or because it is directly followed by another flag. The flag
// package would otherwise report an error or consume the next flag as the
// value.
func lenientArgs(args []string, names []string) []string {
	isLenient := func(arg string) bool {
		if strings.Contains(arg, "=") {
			return false
		}
		name := strings.TrimLeft(arg, "-")
		return strings.HasPrefix(arg, "-") && len(arg)-len(name) <= 2 && slices.Contains(names, name)
	}
	isFlag := func(arg string) bool {
		// Negative numbers are values.
		return strings.HasPrefix(arg, "-") && len(arg) > 1 && (arg[1] < '0' || arg[1] > '9')
	}

	var out []string
	for i, arg := range args {
		out = append(out, arg)
		if arg == "--" {
			return append(out, args[i+1:]...)
		}
		if isLenient(arg) && (i+1 == len(args) || isFlag(args[i+1])) {
			out = append(out, "")
		}
	}
	return out
}
