package codec

import (
	"testing"
)

type benchRoute struct {
	Path    string   `json:"path"`
	Methods []string `json:"methods"`
	Auth    bool     `json:"auth"`
}

type benchSnapshot struct {
	Version int                   `json:"version"`
	Entries map[string]benchRoute `json:"entries"`
	Order   []string              `json:"order"`
}

func benchmarkCodecMarshal(b *testing.B, c Codec, v any) {
	b.Helper()
	b.ReportAllocs()

	warm, err := c.Marshal(v)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(warm)))

	var sink []byte
	b.ResetTimer()
	for b.Loop() {
		out, err := c.Marshal(v)
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func benchmarkCodecUnmarshal[T any](b *testing.B, c Codec, data []byte, dst *T) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	var v T
	b.ResetTimer()
	for b.Loop() {
		if err := c.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
	if dst != nil {
		*dst = v
	}
}

func benchSnapshotValue() benchSnapshot {
	return benchSnapshot{
		Version: 1,
		Entries: map[string]benchRoute{
			"app.UserController":  {Path: "/users", Methods: []string{"GET", "POST"}, Auth: true},
			"app.OrderController": {Path: "/orders", Methods: []string{"GET"}, Auth: true},
			"app.PingController":  {Path: "/ping", Methods: []string{"GET"}, Auth: false},
		},
		Order: []string{"app.UserController", "app.OrderController", "app.PingController"},
	}
}

func BenchmarkCodec_Marshal_Snapshot(b *testing.B) {
	snapshot := benchSnapshotValue()

	b.Run("stdlib", func(b *testing.B) { benchmarkCodecMarshal(b, JSON{}, snapshot) })
	b.Run("go-json", func(b *testing.B) { benchmarkCodecMarshal(b, GoJSON{}, snapshot) })
}

func BenchmarkCodec_Unmarshal_Snapshot(b *testing.B) {
	snapshot := benchSnapshotValue()

	jsonData := MustMarshal(JSON{}, snapshot)

	b.Run("stdlib", func(b *testing.B) {
		var sink benchSnapshot
		benchmarkCodecUnmarshal(b, JSON{}, jsonData, &sink)
		_ = sink
	})
	b.Run("go-json", func(b *testing.B) {
		var sink benchSnapshot
		benchmarkCodecUnmarshal(b, GoJSON{}, jsonData, &sink)
		_ = sink
	})
}
