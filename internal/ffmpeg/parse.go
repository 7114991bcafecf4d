package ffmpeg

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// AudioChunk is one fixed-length audio measurement from SampleAudioLevels.
type AudioChunk struct {
	PtsTime  float64 // chunk start, seconds
	RMSLevel float64 // dBFS; more negative is quieter
}

var (
	ptsTimeRe  = regexp.MustCompile(`pts_time:\s*([0-9]+(?:\.[0-9]+)?)`)
	rmsLevelRe = regexp.MustCompile(`lavfi\.astats\.Overall\.RMS_level=(-?[0-9]+(?:\.[0-9]+)?|-inf|inf)`)
)

// ParseShowinfoTimestamps extracts the pts_time values from ffmpeg showinfo
// filter output. ffmpeg interleaves showinfo lines with progress noise, so
// the parse is line-by-line and tolerant.
func ParseShowinfoTimestamps(output string) []float64 {
	var timestamps []float64
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "Parsed_showinfo") {
			continue
		}
		m := ptsTimeRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ts, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		timestamps = append(timestamps, ts)
	}
	return timestamps
}

// ParseAudioChunks pairs ametadata frame headers with their RMS_level lines.
// Silent chunks report "-inf"; those map to a floor of -96 dBFS so downstream
// arithmetic stays finite.
func ParseAudioChunks(output string) []AudioChunk {
	const silenceFloorDB = -96.0

	var chunks []AudioChunk
	pts := math.NaN()
	for _, line := range strings.Split(output, "\n") {
		if m := ptsTimeRe.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				pts = v
			}
			continue
		}
		m := rmsLevelRe.FindStringSubmatch(line)
		if m == nil || math.IsNaN(pts) {
			continue
		}
		level := silenceFloorDB
		if m[1] != "-inf" && m[1] != "inf" {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				level = math.Max(v, silenceFloorDB)
			}
		}
		chunks = append(chunks, AudioChunk{PtsTime: pts, RMSLevel: level})
		pts = math.NaN()
	}
	return chunks
}
