package logger

import (
	"strings"

	"github.com/rs/zerolog"
)

// RestyLogger routes resty's printf-style client logs into zerolog.
// It satisfies resty.Logger.
type RestyLogger struct {
	log zerolog.Logger
}

func NewRestyLogger(log zerolog.Logger) *RestyLogger {
	return &RestyLogger{log: log}
}

func (r *RestyLogger) Errorf(format string, v ...interface{}) {
	r.log.Error().Msgf(strings.TrimSpace(format), v...)
}

func (r *RestyLogger) Warnf(format string, v ...interface{}) {
	r.log.Warn().Msgf(strings.TrimSpace(format), v...)
}

func (r *RestyLogger) Debugf(format string, v ...interface{}) {
	r.log.Debug().Msgf(strings.TrimSpace(format), v...)
}
