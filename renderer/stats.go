// renderer/stats.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"log/slog"
)

// DeviceStats encapsulates assorted statistics about the work submitted to
// a Device.
type DeviceStats struct {
	DrawCalls     int
	BufferUploads int
	UploadBytes   int
	Vertices      int
	Instances     int
	Points        int
	TextureBinds  int
}

func (ds *DeviceStats) String() string {
	return fmt.Sprintf("%d draw calls, %d uploads (%.2f MB), %d vertices, %d instances, %d points, %d texture binds",
		ds.DrawCalls, ds.BufferUploads, float32(ds.UploadBytes)/(1024*1024), ds.Vertices, ds.Instances,
		ds.Points, ds.TextureBinds)
}

func (ds *DeviceStats) Merge(s DeviceStats) {
	ds.DrawCalls += s.DrawCalls
	ds.BufferUploads += s.BufferUploads
	ds.UploadBytes += s.UploadBytes
	ds.Vertices += s.Vertices
	ds.Instances += s.Instances
	ds.Points += s.Points
	ds.TextureBinds += s.TextureBinds
}

func (ds DeviceStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("draw_calls", ds.DrawCalls),
		slog.Int("buffer_uploads", ds.BufferUploads),
		slog.Int("upload_bytes", ds.UploadBytes),
		slog.Int("vertices", ds.Vertices),
		slog.Int("instances", ds.Instances),
		slog.Int("points", ds.Points),
		slog.Int("texture_binds", ds.TextureBinds),
	)
}

func (ds *DeviceStats) upload(n int) {
	ds.BufferUploads++
	ds.UploadBytes += n
}

func (ds *DeviceStats) draw(p Primitive, count, instances int32) {
	ds.DrawCalls++
	ds.Vertices += int(count) * int(max(instances, 1))
	ds.Instances += int(instances)
	if p == Points {
		ds.Points += int(count)
	}
}
