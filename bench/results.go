// bench/results.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bench

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mmp/spritebench/util"
)

// WriteResults writes one line per frame with the CPU and GPU times in
// nanoseconds, in frame order.
func WriteResults(w io.Writer, results []FrameResult) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		if _, err := fmt.Fprintf(bw, "frame_time=%d gpu_time=%d\n", r.CPU.Nanoseconds(), r.GPU.Nanoseconds()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Summary holds statistics of the per-frame times of a run.
type Summary struct {
	Frames int
	CPU    util.Stats[time.Duration]
	GPU    util.Stats[time.Duration]
}

func Summarize(results []FrameResult) Summary {
	cpu := util.MapSlice(results, func(r FrameResult) time.Duration { return r.CPU })
	gpu := util.MapSlice(results, func(r FrameResult) time.Duration { return r.GPU })
	return Summary{
		Frames: len(results),
		CPU:    util.ComputeStats(cpu),
		GPU:    util.ComputeStats(gpu),
	}
}

func statsGroup(name string, s util.Stats[time.Duration]) slog.Attr {
	return slog.Group(name,
		slog.Duration("mean", s.Mean),
		slog.Duration("min", s.Min),
		slog.Duration("max", s.Max),
		slog.Duration("p50", s.P50),
		slog.Duration("p95", s.P95),
		slog.Duration("p99", s.P99))
}

func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", s.Frames),
		statsGroup("cpu", s.CPU),
		statsGroup("gpu", s.GPU))
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d frames\n", s.Frames)
	fmt.Fprintf(&b, "%-4s %12s %12s %12s %12s %12s %12s\n", "", "mean", "min", "p50", "p95", "p99", "max")
	for _, st := range []struct {
		name string
		s    util.Stats[time.Duration]
	}{{"cpu", s.CPU}, {"gpu", s.GPU}} {
		fmt.Fprintf(&b, "%-4s %12s %12s %12s %12s %12s %12s\n", st.name, st.s.Mean, st.s.Min, st.s.P50,
			st.s.P95, st.s.P99, st.s.Max)
	}
	return b.String()
}
