package ffmpeg

import "testing"

func TestParseShowinfoTimestamps(t *testing.T) {
	output := `
[Parsed_showinfo_1 @ 0x7f9] n:   0 pts:  12345 pts_time:12.345 duration_time:0.04
frame=  100 fps= 25 q=-0.0 size=N/A time=00:00:12.00 bitrate=N/A
[Parsed_showinfo_1 @ 0x7f9] n:   1 pts:  45678 pts_time:45.678 duration_time:0.04
[Parsed_showinfo_1 @ 0x7f9] color_range:tv
`
	got := ParseShowinfoTimestamps(output)
	want := []float64{12.345, 45.678}
	if len(got) != len(want) {
		t.Fatalf("expected %d timestamps, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("timestamp %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestParseShowinfoIgnoresNoise(t *testing.T) {
	output := "frame=  100 fps=25\nsize=N/A time=00:00:12.00\n"
	if got := ParseShowinfoTimestamps(output); len(got) != 0 {
		t.Fatalf("expected no timestamps, got %v", got)
	}
}

func TestParseAudioChunks(t *testing.T) {
	output := `frame:0    pts:0       pts_time:0
lavfi.astats.Overall.RMS_level=-23.500000
frame:1    pts:44100   pts_time:1
lavfi.astats.Overall.RMS_level=-inf
frame:2    pts:88200   pts_time:2
lavfi.astats.Overall.RMS_level=-18.250000
`
	chunks := ParseAudioChunks(output)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %+v", len(chunks), chunks)
	}
	if chunks[0].PtsTime != 0 || chunks[0].RMSLevel != -23.5 {
		t.Fatalf("unexpected first chunk %+v", chunks[0])
	}
	// Silence maps to the -96 dBFS floor.
	if chunks[1].RMSLevel != -96 {
		t.Fatalf("expected silence floor -96, got %v", chunks[1].RMSLevel)
	}
	if chunks[2].PtsTime != 2 {
		t.Fatalf("unexpected third chunk %+v", chunks[2])
	}
}

func TestParseAudioChunksWithoutHeaderLineSkipsLevel(t *testing.T) {
	output := "lavfi.astats.Overall.RMS_level=-20.0\n"
	if got := ParseAudioChunks(output); len(got) != 0 {
		t.Fatalf("expected orphan level line to be skipped, got %+v", got)
	}
}
