package cmd

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"pdf-summarizer-mcp/config"
)

// ConfigCmd prints the effective configuration.
type ConfigCmd struct{}

// Run loads application settings and prints a masked YAML.
func (c *ConfigCmd) Run(cli *CLI) error {
	// Use shared loader without validation so a bad value is still visible.
	cfg, err := config.LoadConfigNoValidate(cli.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	out, err := renderMaskedConfigYAML(cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(cli.out(), out)
	return nil
}

// renderMaskedConfigYAML returns YAML of config with secrets masked.
func renderMaskedConfigYAML(cfg *config.Config) (string, error) {
	safe := *cfg
	safe.LLM.Gemini.APIKey = maskSecret(cfg.LLM.Gemini.APIKey)
	safe.LLM.OpenAI.APIKey = maskSecret(cfg.LLM.OpenAI.APIKey)
	safe.Weather.APIKey = maskSecret(cfg.Weather.APIKey)
	if cfg.Telemetry.SentryDSN != "" {
		safe.Telemetry.SentryDSN = "[masked DSN]"
	}

	b, err := yaml.Marshal(&safe)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(b), nil
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	// Keep last 4 characters if reasonably long, else mask fully
	if len(s) > 8 {
		return "[masked]…" + s[len(s)-4:]
	}
	return "[masked]"
}
