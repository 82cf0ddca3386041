// util/prof.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/mmp/spritebench/log"
)

// Profiler writes CPU and heap profiles for a benchmark run. Either may be
// disabled by passing an empty filename to CreateProfiler.
type Profiler struct {
	cpu, mem *os.File
	lg       *log.Logger
}

func CreateProfiler(cpu, mem string, lg *log.Logger) (Profiler, error) {
	p := Profiler{lg: lg}

	var err error
	if cpu != "" {
		if p.cpu, err = os.Create(cpu); err != nil {
			return Profiler{}, fmt.Errorf("%s: unable to create CPU profile file: %w", cpu, err)
		} else if err = pprof.StartCPUProfile(p.cpu); err != nil {
			p.cpu.Close()
			return Profiler{}, fmt.Errorf("unable to start CPU profile: %w", err)
		}
		lg.Infof("%s: writing CPU profile", cpu)
	}

	if mem != "" {
		if p.mem, err = os.Create(mem); err != nil {
			if p.cpu != nil {
				pprof.StopCPUProfile()
				p.cpu.Close()
			}
			return Profiler{}, fmt.Errorf("%s: unable to create memory profile file: %w", mem, err)
		}
		lg.Infof("%s: will write heap profile at exit", mem)
	}

	if p.cpu != nil || p.mem != nil {
		// Write out the profiles if the run is interrupted with ctrl-c.
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)

		go func() {
			<-sig
			p.Cleanup()
			os.Exit(0)
		}()
	}

	return p, nil
}

// Cleanup stops CPU profiling and writes the heap profile. It is safe to
// call more than once.
func (p *Profiler) Cleanup() {
	if p.cpu != nil {
		pprof.StopCPUProfile()
		p.cpu.Close()
		p.cpu = nil
	}
	if p.mem != nil {
		if err := pprof.WriteHeapProfile(p.mem); err != nil {
			p.lg.Errorf("unable to write memory profile file: %v", err)
			fmt.Fprintf(os.Stderr, "unable to write memory profile file: %v\n", err)
		}
		p.mem.Close()
		p.mem = nil
	}
}
