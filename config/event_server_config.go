package config

type EventServerConfig struct {
	Port        string `yaml:"port"`
	Path        string `yaml:"path"`
	MetricsPath string `yaml:"metrics_path"`
}
