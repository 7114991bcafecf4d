package signals

import (
	"math"

	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/ffmpeg"
	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/highlights"
)

const (
	// silenceFloorDB matches the floor the ffmpeg parser substitutes for
	// fully silent chunks.
	silenceFloorDB = -96.0
	// speechLevelDB is the RMS level above which a chunk counts as speech.
	speechLevelDB = -40.0
	// spikeLevelDB is the RMS level a chunk must reach for a window to count
	// as a volume spike.
	spikeLevelDB = -20.0
	// quietSpeechRatio marks a window as mostly silent.
	quietSpeechRatio = 0.2
)

// WindowsFromChunks aggregates per-chunk RMS measurements into fixed-size
// audio descriptor windows.
//
// AverageVolume is normalized to [0,1] over the -96..0 dBFS range.
// VolumeVariance is the standard deviation of chunk levels scaled so 1.0
// corresponds to a 10 dB swing, which puts conversational speech around
// 0.2-0.3 and emphatic delivery above 0.5. SilenceBeforeSpike is set when a
// mostly-silent window is followed by one containing a loud chunk.
func WindowsFromChunks(chunks []ffmpeg.AudioChunk, windowSize float64) []highlights.AudioWindow {
	if len(chunks) == 0 || windowSize <= 0 {
		return nil
	}

	end := chunks[len(chunks)-1].PtsTime
	windowCount := int(math.Floor(end/windowSize)) + 1

	type bucket struct {
		levels []float64
	}
	buckets := make([]bucket, windowCount)
	for _, c := range chunks {
		i := int(math.Floor(c.PtsTime / windowSize))
		if i < 0 || i >= windowCount {
			continue
		}
		buckets[i].levels = append(buckets[i].levels, c.RMSLevel)
	}

	windows := make([]highlights.AudioWindow, 0, windowCount)
	prevQuiet := false
	for i, b := range buckets {
		start := float64(i) * windowSize
		stop := start + windowSize
		if len(b.levels) == 0 {
			prevQuiet = true
			continue
		}

		var sum, speech, peak float64
		peak = silenceFloorDB
		for _, lv := range b.levels {
			sum += lv
			if lv > speechLevelDB {
				speech++
			}
			if lv > peak {
				peak = lv
			}
		}
		mean := sum / float64(len(b.levels))

		var variance float64
		for _, lv := range b.levels {
			d := lv - mean
			variance += d * d
		}
		stddevDB := math.Sqrt(variance / float64(len(b.levels)))

		speechRatio := speech / float64(len(b.levels))
		windows = append(windows, highlights.AudioWindow{
			StartTime:          start,
			EndTime:            stop,
			SpeechRatio:        speechRatio,
			AverageVolume:      (mean - silenceFloorDB) / -silenceFloorDB,
			VolumeVariance:     stddevDB / 10,
			SilenceBeforeSpike: prevQuiet && peak >= spikeLevelDB,
		})
		prevQuiet = speechRatio < quietSpeechRatio
	}
	return windows
}
