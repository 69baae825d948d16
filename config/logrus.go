package config

import (
	"context"
	"os"

	"bitbucket.org/stepfield/shoes_backend/appctx"
	"github.com/sirupsen/logrus"
)

var (
	logg *logrus.Logger
)

func GetLogger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logg.SetLevel(level)
}

// LogError emits a structured error line. The request's correlation id
// travels in ctx and is attached when present.
func LogError(ctx context.Context, logger *logrus.Logger, moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	if ctx != nil {
		if correlationId, ok := appctx.GetString(ctx, appctx.ContextKeyCorrelationId); ok {
			fields["correlationId"] = correlationId
		}
	}
	logger.WithFields(fields).Error(err.Error())
}
