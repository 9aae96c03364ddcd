package config

const (
	defaultWorkDir   = "~/.local/share/attest/work"
	defaultDataDir   = "~/.local/share/attest"
	defaultReportDir = "~/.local/share/attest/reports"

	defaultSamplingMode     = "interval"
	defaultSamplingInterval = 2.0
	defaultSceneThreshold   = 0.3
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"

	defaultMatchThreshold = 0.5
	defaultLowBand        = 0.3
	defaultActionWeight   = 0.6
	defaultObjectWeight   = 0.4
	defaultWorkers        = 1

	defaultVisionBaseURL        = "https://api.openai.com/v1"
	defaultVisionModel          = "gpt-4o-mini"
	defaultVisionTimeoutSeconds = 60

	defaultReportFormat = "markdown"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			DataDir:   defaultDataDir,
			ReportDir: defaultReportDir,
		},
		Sampling: Sampling{
			Mode:           defaultSamplingMode,
			Interval:       defaultSamplingInterval,
			SceneThreshold: defaultSceneThreshold,
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
		},
		Matching: Matching{
			Threshold:    defaultMatchThreshold,
			LowBand:      defaultLowBand,
			ActionWeight: defaultActionWeight,
			ObjectWeight: defaultObjectWeight,
			Workers:      defaultWorkers,
		},
		Vision: Vision{
			BaseURL:        defaultVisionBaseURL,
			Model:          defaultVisionModel,
			TimeoutSeconds: defaultVisionTimeoutSeconds,
		},
		Report: Report{
			Format: defaultReportFormat,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
