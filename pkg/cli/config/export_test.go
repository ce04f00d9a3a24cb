package config

// NewAppForTest creates an App config for testing purposes
func NewAppForTest(configPath, authSecret string) *App {
	return &App{
		configPath: configPath,
		authSecret: authSecret,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, sentryDSN string) *Logger {
	return &Logger{
		level:     level,
		format:    format,
		sentryDSN: sentryDSN,
	}
}
