// cmd/bunnymark/flags_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"flag"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/mmp/spritebench/bench"
)

func TestAtoi(t *testing.T) {
	for _, test := range []struct {
		s    string
		want int
	}{
		{"100", 100},
		{"  42", 42},
		{"-7", -7},
		{"+8", 8},
		{"12abc", 12},
		{"abc", 0},
		{"", 0},
		{"-", 0},
		{"99999999999999999999999", 0},
	} {
		if got := atoi(test.s); got != test.want {
			t.Errorf("atoi(%q) = %d, expected %d", test.s, got, test.want)
		}
	}
}

func TestLenientArgs(t *testing.T) {
	for _, test := range []struct {
		args, want []string
	}{
		{[]string{"--num_frames", "10"}, []string{"--num_frames", "10"}},
		{[]string{"--num_frames"}, []string{"--num_frames", ""}},
		{[]string{"--num_frames", "--num_bunnies", "5"}, []string{"--num_frames", "", "--num_bunnies", "5"}},
		{[]string{"-batch_size", "-3"}, []string{"-batch_size", "-3"}},
		{[]string{"--num_frames=", "--summary"}, []string{"--num_frames=", "--summary"}},
		{[]string{"--texture", "--num_bunnies"}, []string{"--texture", "--num_bunnies", ""}},
		{[]string{"--", "--num_frames"}, []string{"--", "--num_frames"}},
	} {
		if got := lenientArgs(test.args, lenientFlags); !slices.Equal(got, test.want) {
			t.Errorf("lenientArgs(%q) = %q, expected %q", test.args, got, test.want)
		}
	}
}

func parseFlags(t *testing.T, args ...string) (*flag.FlagSet, bench.Options) {
	t.Helper()
	fs := flag.NewFlagSet("bunnymark", flag.ContinueOnError)
	var opts bench.Options
	optionFlags(fs, &opts)
	if err := fs.Parse(lenientArgs(args, lenientFlags)); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return fs, opts
}

func TestFlagParsing(t *testing.T) {
	_, opts := parseFlags(t, "--num_frames", "120", "--num_bunnies", "10x", "--batch_size",
		"--renderer_type", "instance")
	if opts.NumFrames != 120 || opts.NumBunnies != 10 || opts.BatchSize != 0 || opts.RendererType != "instance" {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.Width != 1280 || opts.Height != 720 || opts.Texture != "res/rabbit.png" {
		t.Errorf("defaults not applied: %+v", opts)
	}
}

func TestResolveOptions(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "opts.json")
	config := `{"num_frames": 500, "num_bunnies": 2000, "renderer_type": "batch", "batch_size": 1000}`
	if err := os.WriteFile(fn, []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}

	fs, cl := parseFlags(t, "--num_bunnies", "50", "--headless")
	opts, err := resolveOptions(fs, fn, cl)
	if err != nil {
		t.Fatal(err)
	}
	want := bench.DefaultOptions()
	want.NumFrames, want.NumBunnies, want.RendererType, want.BatchSize = 500, 50, "batch", 1000
	want.Headless = true
	if opts != want {
		t.Errorf("got %+v, expected %+v", opts, want)
	}

	// Flags alone
	fs, cl = parseFlags(t, "--renderer_type", "geometry")
	if opts, err = resolveOptions(fs, "", cl); err != nil {
		t.Fatal(err)
	} else if opts.RendererType != "geometry" || opts.NumFrames != 0 {
		t.Errorf("unexpected options %+v", opts)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"num_frame": 10}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveOptions(fs, bad, cl); err == nil {
		t.Errorf("expected error for unknown field")
	}
	if _, err := resolveOptions(fs, filepath.Join(dir, "missing.json"), cl); err == nil {
		t.Errorf("expected error for missing file")
	}
}
