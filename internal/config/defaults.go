package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Detector.BaseURL == "" {
		cfg.Detector.BaseURL = "http://localhost:8000"
	}
	if cfg.Detector.ThresholdHigh == 0 {
		cfg.Detector.ThresholdHigh = 0.85
	}
	if cfg.Detector.ThresholdMedium == 0 {
		cfg.Detector.ThresholdMedium = 0.7
	}
	if cfg.Detector.HealthSchedule == "" {
		cfg.Detector.HealthSchedule = "@every 1m"
	}
	if cfg.Report.HighlightThreshold == 0 {
		cfg.Report.HighlightThreshold = 0.5
	}
	if cfg.Report.PreviewChars == 0 {
		cfg.Report.PreviewChars = 2000
	}
	if cfg.Risk.Low == 0 {
		cfg.Risk.Low = 80
	}
	if cfg.Risk.Medium == 0 {
		cfg.Risk.Medium = 50
	}
	if cfg.History.Capacity == 0 {
		cfg.History.Capacity = 50
	}
	if cfg.Analytics.TrendWindow == 0 {
		cfg.Analytics.TrendWindow = 7
	}
	if cfg.Analytics.TrendLabelLen == 0 {
		cfg.Analytics.TrendLabelLen = 8
	}
	if cfg.Analytics.RecentLimit == 0 {
		cfg.Analytics.RecentLimit = 5
	}
	if cfg.Extraction.Mode == "" {
		cfg.Extraction.Mode = ExtractionRemote
	}
	if cfg.Intake.Extensions == nil {
		cfg.Intake.Extensions = []string{".txt", ".md", ".pdf", ".docx", ".xlsx"}
	}
}
