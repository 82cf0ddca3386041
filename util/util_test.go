// util/util_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func TestSelect(t *testing.T) {
	if Select(true, 1, 2) != 1 {
		t.Errorf("Select(true) gave wrong value")
	}
	if Select(false, "a", "b") != "b" {
		t.Errorf("Select(false) gave wrong value")
	}
}

func TestMapReduceSlice(t *testing.T) {
	s := []int{1, 2, 3, 4}
	sq := MapSlice(s, func(v int) int { return v * v })
	if !slices.Equal(sq, []int{1, 4, 9, 16}) {
		t.Errorf("MapSlice gave %v", sq)
	}
	sum := ReduceSlice(sq, func(v int, r int) int { return v + r }, 0)
	if sum != 30 {
		t.Errorf("ReduceSlice gave %d, expected 30", sum)
	}
}

type testOptions struct {
	Frames  int    `json:"frames"`
	Type    string `json:"type"`
	Texture string `json:"texture"`
}

func TestUnmarshalJSONBytes(t *testing.T) {
	var opt testOptions
	if err := UnmarshalJSONBytes([]byte(`{"frames": 10, "type": "batch"}`), &opt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.Frames != 10 || opt.Type != "batch" {
		t.Errorf("decoded %+v", opt)
	}

	for _, test := range []struct {
		name   string
		json   string
		expect string
	}{
		{name: "syntax", json: "{\n  \"frames\": 1,\n  \"type\": }", expect: "line 3"},
		{name: "unknown field", json: `{"frame": 1}`, expect: "unknown field"},
		{name: "type", json: `{"frames": "ten"}`, expect: "line 1"},
		{name: "trailing", json: `{"frames": 1} {"frames": 2}`, expect: "unexpected data"},
		{name: "empty", json: ``, expect: "empty"},
	} {
		t.Run(test.name, func(t *testing.T) {
			var opt testOptions
			err := UnmarshalJSONBytes([]byte(test.json), &opt)
			if err == nil {
				t.Fatalf("expected error for %q", test.json)
			}
			if !strings.Contains(err.Error(), test.expect) {
				t.Errorf("error %q doesn't contain %q", err.Error(), test.expect)
			}
		})
	}
}

func TestErrorLogger(t *testing.T) {
	var e ErrorLogger
	if e.HaveErrors() || e.Err() != nil {
		t.Errorf("empty ErrorLogger reports errors")
	}

	e.Push("options")
	e.ErrorString("num_frames must be positive, got %d", 0)
	e.Push("batch_size")
	e.ErrorString("too large")
	e.Pop()
	e.Pop()

	if !e.HaveErrors() {
		t.Fatalf("expected errors")
	}
	expected := "options: num_frames must be positive, got 0\noptions / batch_size: too large"
	if e.String() != expected {
		t.Errorf("got %q, expected %q", e.String(), expected)
	}
	if e.Err().Error() != expected {
		t.Errorf("Err() gave %q, expected %q", e.Err().Error(), expected)
	}
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats([]time.Duration{5, 1, 4, 2, 3})
	if s.N != 5 || s.Mean != 3 || s.Min != 1 || s.Max != 5 || s.P50 != 3 || s.P95 != 5 || s.P99 != 5 {
		t.Errorf("unexpected stats %+v", s)
	}

	var samples []int
	for i := range 100 {
		samples = append(samples, 100-i)
	}
	s2 := ComputeStats(samples)
	if s2.P50 != 50 || s2.P95 != 95 || s2.P99 != 99 || s2.Min != 1 || s2.Max != 100 {
		t.Errorf("unexpected stats %+v", s2)
	}
	if samples[0] != 100 {
		t.Errorf("ComputeStats modified its input")
	}

	if z := ComputeStats[float32](nil); z != (Stats[float32]{}) {
		t.Errorf("expected zero stats for no samples, got %+v", z)
	}
}
