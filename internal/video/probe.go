package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"attest/internal/services"
)

// Info captures the video metadata relevant to sampling.
type Info struct {
	Duration   float64
	FrameRate  float64
	FrameCount int
	Width      int
	Height     int
}

type probeResult struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	RFrameRate string `json:"r_frame_rate"`
	NBFrames   string `json:"nb_frames"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

// Inspect executes ffprobe against the provided path and extracts the first
// video stream's metadata.
func Inspect(ctx context.Context, binary, path string) (Info, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Info{}, services.Wrap(services.ErrInput, "video", "inspect", "empty path", nil)
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Info{}, services.Wrap(services.ErrExternalTool, "video", "inspect",
			strings.TrimSpace(string(output)), err)
	}

	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return Info{}, services.Wrap(services.ErrExternalTool, "video", "inspect", "parse ffprobe output", err)
	}

	info := Info{}
	if result.Format.Duration != "" {
		if duration, err := strconv.ParseFloat(result.Format.Duration, 64); err == nil {
			info.Duration = duration
		}
	}
	for _, stream := range result.Streams {
		if !strings.EqualFold(stream.CodecType, "video") {
			continue
		}
		info.Width = stream.Width
		info.Height = stream.Height
		if rate, err := parseFrameRate(stream.RFrameRate); err == nil {
			info.FrameRate = rate
		}
		if frames, err := strconv.Atoi(stream.NBFrames); err == nil {
			info.FrameCount = frames
		}
		break
	}
	if info.FrameRate == 0 && info.Duration == 0 {
		return info, services.Wrap(services.ErrInput, "video", "inspect",
			fmt.Sprintf("%s has no usable video stream", path), nil)
	}
	return info, nil
}

// parseFrameRate converts ffprobe's rational frame rate ("30000/1001") to a
// float. A zero denominator is treated as malformed.
func parseFrameRate(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("empty frame rate")
	}
	num, den, found := strings.Cut(value, "/")
	if !found {
		return strconv.ParseFloat(value, 64)
	}
	numerator, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("parse frame rate %q: %w", value, err)
	}
	denominator, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("parse frame rate %q: %w", value, err)
	}
	if denominator == 0 {
		return 0, fmt.Errorf("frame rate %q has zero denominator", value)
	}
	return numerator / denominator, nil
}
