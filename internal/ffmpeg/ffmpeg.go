package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// FFProbeOutput defines the structure for ffprobe JSON output relevant to duration.
type FFProbeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// GetVideoDuration uses ffprobe to get the duration of a video file.
func GetVideoDuration(ctx context.Context, filePath string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %v\nStderr: %s", err, stderr.String())
	}

	var ffprobeOutput FFProbeOutput
	if err := json.Unmarshal(out.Bytes(), &ffprobeOutput); err != nil {
		return 0, fmt.Errorf("error unmarshalling ffprobe output: %v\nOutput: %s", err, out.String())
	}

	if ffprobeOutput.Format.Duration == "" {
		return 0, fmt.Errorf("could not retrieve duration from ffprobe output\nOutput: %s", out.String())
	}

	durationFloat, err := strconv.ParseFloat(ffprobeOutput.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing duration string '%s': %v", ffprobeOutput.Format.Duration, err)
	}

	return time.Duration(durationFloat * float64(time.Second)), nil
}

// ExtractClip creates a video clip from the inputFile, starting at startTime
// and lasting for clipDuration. The output is saved to outputFile. The clip
// is re-encoded for frame accuracy; '-c copy' would snap to keyframes.
func ExtractClip(ctx context.Context, inputFile, outputFile string, startTime, clipDuration time.Duration) error {
	startSeconds := fmt.Sprintf("%.3f", startTime.Seconds())
	durationSeconds := fmt.Sprintf("%.3f", clipDuration.Seconds())

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y", // Overwrite output file if it exists
		"-i", inputFile,
		"-ss", startSeconds,
		"-t", durationSeconds,
		outputFile,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg -ss failed: %v\nStderr: %s", err, stderr.String())
	}
	return nil
}

// DetectSceneChanges runs the ffmpeg scene filter over the input and returns
// the timestamps (seconds) of frames whose scene score exceeds threshold.
func DetectSceneChanges(ctx context.Context, inputFile string, threshold float64) ([]float64, error) {
	filter := fmt.Sprintf("select='gt(scene,%.3f)',showinfo", threshold)
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", inputFile,
		"-vf", filter,
		"-f", "null",
		"-",
	)

	// showinfo reports on stderr.
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg scene detection failed: %v\nStderr: %s", err, truncate(stderr.String(), 2000))
	}

	return ParseShowinfoTimestamps(stderr.String()), nil
}

// SampleAudioLevels measures per-chunk RMS audio levels across the input.
// chunkSeconds controls the resolution; levels come back in dBFS, one entry
// per chunk in timeline order.
func SampleAudioLevels(ctx context.Context, inputFile string, chunkSeconds float64, sampleRate int) ([]AudioChunk, error) {
	if chunkSeconds <= 0 {
		chunkSeconds = 1
	}
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	nsamples := int(chunkSeconds * float64(sampleRate))
	filter := fmt.Sprintf(
		"aresample=%d,asetnsamples=n=%d,astats=metadata=1:reset=1,ametadata=mode=print:key=lavfi.astats.Overall.RMS_level:file=-",
		sampleRate, nsamples,
	)
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", inputFile,
		"-vn",
		"-af", filter,
		"-f", "null",
		"-",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg audio sampling failed: %v\nStderr: %s", err, truncate(stderr.String(), 2000))
	}

	return ParseAudioChunks(stdout.String()), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
