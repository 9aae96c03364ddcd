package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSampling(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSampling() error {
	switch c.Sampling.Mode {
	case "interval", "scene":
	default:
		return fmt.Errorf("sampling.mode must be \"interval\" or \"scene\", got %q", c.Sampling.Mode)
	}
	if c.Sampling.Interval <= 0 {
		return errors.New("sampling.interval must be positive (seconds)")
	}
	if c.Sampling.Mode == "scene" && (c.Sampling.SceneThreshold <= 0 || c.Sampling.SceneThreshold > 1) {
		return errors.New("sampling.scene_threshold must be in (0, 1] when sampling.mode is \"scene\"")
	}
	return nil
}

func (c *Config) validateMatching() error {
	m := c.Matching
	if m.Threshold < 0 || m.Threshold > 1 {
		return errors.New("matching.threshold must be between 0 and 1")
	}
	if m.LowBand < 0 || m.LowBand >= m.Threshold {
		return errors.New("matching.low_band must satisfy 0 <= low_band < threshold")
	}
	if m.ActionWeight < 0 || m.ObjectWeight < 0 {
		return errors.New("matching.action_weight and matching.object_weight must be >= 0")
	}
	if sum := m.ActionWeight + m.ObjectWeight; sum <= 0 || sum > 1 {
		return errors.New("matching.action_weight + matching.object_weight must be in (0, 1]")
	}
	if m.Workers < 1 {
		return errors.New("matching.workers must be >= 1")
	}
	return nil
}

func (c *Config) validateReport() error {
	switch c.Report.Format {
	case "markdown", "html":
		return nil
	default:
		return fmt.Errorf("report.format must be \"markdown\" or \"html\", got %q", c.Report.Format)
	}
}
