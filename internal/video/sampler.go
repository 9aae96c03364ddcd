package video

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"attest/internal/services"
)

// Mode selects how frames are sampled from a recording.
type Mode string

const (
	// ModeInterval extracts one frame every Interval seconds.
	ModeInterval Mode = "interval"
	// ModeScene extracts the first frame plus every frame whose scene-change
	// score exceeds SceneThreshold.
	ModeScene Mode = "scene"
)

// Frame is one extracted frame image with its position in the recording.
type Frame struct {
	Number    int
	Timestamp float64
	Source    string
	Path      string
}

// Sampler extracts frames from recordings via ffmpeg.
type Sampler struct {
	FFmpegBinary string
	Mode         Mode
	// Interval is the spacing between samples in seconds (interval mode).
	Interval float64
	// SceneThreshold is the scene-change sensitivity in (0, 1] (scene mode).
	SceneThreshold float64
}

var showinfoPattern = regexp.MustCompile(`pts_time:([0-9]+(?:\.[0-9]+)?)`)

// Sample extracts frames from videoPath into workDir and returns them in
// timestamp order. workDir must exist and should be empty; frame images are
// named after the video so multiple sources can share a directory.
func (s Sampler) Sample(ctx context.Context, videoPath, workDir string) ([]Frame, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return nil, services.Wrap(services.ErrNotFound, "video", "sample", videoPath, err)
	}
	binary := strings.TrimSpace(s.FFmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}
	prefix := framePrefix(videoPath)
	pattern := filepath.Join(workDir, prefix+"-%06d.jpg")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, s.buildArgs(videoPath, pattern)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "video", "sample",
			lastLine(stderr.String()), err)
	}

	paths, err := filepath.Glob(filepath.Join(workDir, prefix+"-*.jpg"))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "video", "sample", "list frames", err)
	}
	sort.Strings(paths)

	timestamps := s.frameTimestamps(len(paths), stderr.String())
	frames := make([]Frame, 0, len(paths))
	for i, path := range paths {
		ts := 0.0
		if i < len(timestamps) {
			ts = timestamps[i]
		}
		frames = append(frames, Frame{
			Number:    i,
			Timestamp: ts,
			Source:    filepath.Base(videoPath),
			Path:      path,
		})
	}
	return frames, nil
}

func (s Sampler) buildArgs(videoPath, outputPattern string) []string {
	args := []string{"-hide_banner", "-i", videoPath}
	switch s.Mode {
	case ModeScene:
		filter := fmt.Sprintf("select='eq(n\\,0)+gt(scene\\,%s)',showinfo", formatFloat(s.SceneThreshold))
		args = append(args, "-vf", filter, "-fps_mode", "passthrough")
	default:
		interval := s.Interval
		if interval <= 0 {
			interval = 2.0
		}
		args = append(args, "-vf", "fps=1/"+formatFloat(interval))
	}
	return append(args, "-f", "image2", outputPattern)
}

// frameTimestamps assigns a timestamp to each extracted frame. Interval mode
// spaces them evenly from zero; scene mode reads the exact presentation times
// from ffmpeg's showinfo log.
func (s Sampler) frameTimestamps(count int, ffmpegLog string) []float64 {
	if s.Mode == ModeScene {
		return parseShowinfoTimestamps(ffmpegLog)
	}
	interval := s.Interval
	if interval <= 0 {
		interval = 2.0
	}
	timestamps := make([]float64, count)
	for i := range timestamps {
		timestamps[i] = float64(i) * interval
	}
	return timestamps
}

// parseShowinfoTimestamps extracts pts_time values from showinfo filter
// output, one per emitted frame, in order.
func parseShowinfoTimestamps(ffmpegLog string) []float64 {
	var timestamps []float64
	for _, line := range strings.Split(ffmpegLog, "\n") {
		if !strings.Contains(line, "Parsed_showinfo") {
			continue
		}
		match := showinfoPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		if ts, err := strconv.ParseFloat(match[1], 64); err == nil {
			timestamps = append(timestamps, ts)
		}
	}
	return timestamps
}

func framePrefix(videoPath string) string {
	base := filepath.Base(videoPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var cleaned strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			cleaned.WriteRune(r)
		default:
			cleaned.WriteRune('_')
		}
	}
	if cleaned.Len() == 0 {
		return "frame"
	}
	return cleaned.String()
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
