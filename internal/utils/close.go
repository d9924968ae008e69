package utils

import (
	"io"

	"github.com/MrSnakeDoc/keeplater/internal/logger"
)

// Close closes c and logs any error under name.
// Use in defer and shutdown paths where the error cannot change the outcome.
func Close(c io.Closer, log logger.Logger, name string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("failed to close",
			logger.String("resource", name),
			logger.Error(err))
		return
	}
	log.Debug("closed", logger.String("resource", name))
}
