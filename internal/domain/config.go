package domain

import "time"

// Config holds the complete ringwatch process configuration: the HTTP
// server, the ambient cache and event bus, logging/tracing, and the
// detector tunables the engine is constructed with.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Cache    CacheConfig    `json:"cache"`
	EventBus EventBusConfig `json:"eventBus"`
	Logging  LoggingConfig  `json:"logging"`
	Tracing  TracingConfig  `json:"tracing"`
	Detector DetectorConfig `json:"detector"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	ReadTimeout  int    `json:"readTimeout"`  // seconds
	WriteTimeout int    `json:"writeTimeout"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled      bool   `json:"enabled"`
	ServiceName  string `json:"serviceName"`
	ExporterType string `json:"exporterType"` // stdout, otlp, jaeger
	Endpoint     string `json:"endpoint"`
}

// DetectorConfig carries the numeric constants of the detection pipeline
// as overridable fields instead of literals scattered through the code.
// DefaultDetectorConfig returns exactly the values the engine is
// contractually required to use in production; tests may override
// individual fields to probe boundary behavior in isolation.
type DetectorConfig struct {
	VelocityWindow time.Duration
	VelocityScore  int

	SmurfWindow      time.Duration
	SmurfMinFanEdges int
	SmurfScoreBump   int

	CycleMinLength int
	CycleMaxLength int
	CycleScoreBump int

	ShellScoreBump int

	MultiPatternMultiplier float64
	ScoreCap               float64
	RingRiskScore          float64
}

// DefaultDetectorConfig returns the literal thresholds and score bumps
// the engine must use so report values match the documented contract.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		VelocityWindow:   time.Hour,
		VelocityScore:    10,
		SmurfWindow:      72 * time.Hour,
		SmurfMinFanEdges: 10,
		SmurfScoreBump:   30,
		CycleMinLength:   3,
		CycleMaxLength:   5,
		CycleScoreBump:   40,
		ShellScoreBump:   20,

		MultiPatternMultiplier: 1.2,
		ScoreCap:               100.0,
		RingRiskScore:          95.3,
	}
}

// DefaultConfig returns a default process configuration: in-memory cache,
// in-process channel bus, JSON logging, tracing disabled, and the
// contractual detector defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Cache: CacheConfig{
			Type:         "memory",
			LocalMaxSize: 10000,
			LocalTTL:     5 * time.Minute,
		},
		EventBus: EventBusConfig{
			Type:              "channel",
			ChannelBufferSize: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "ringwatch",
		},
		Detector: DefaultDetectorConfig(),
	}
}
