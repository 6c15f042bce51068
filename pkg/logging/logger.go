package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds the process logger for the given environment. Production
// gets zap's JSON encoder; everything else gets the console development
// encoder with debug enabled.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("building production logger: %w", err)
		}
		return logger, nil
	}

	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	logger, err := logConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("building development logger: %w", err)
	}
	return logger, nil
}
