package logging

import (
	"go.uber.org/zap"
)

// New builds the process-wide logger. Local environments get the
// human-readable development encoder; everything else logs structured JSON.
func New(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
