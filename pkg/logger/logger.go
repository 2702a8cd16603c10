package logger

import (
	"os"
	"time"

	azlog "github.com/Azure/azure-sdk-for-go/sdk/azcore/log"
	log "github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

func ZapLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func SetupLogrus(format string, debug bool) {
	var formatter log.Formatter = &log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	}
	if format == FormatJSON {
		formatter = &log.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		}
	}
	log.SetFormatter(formatter)
	log.SetOutput(os.Stderr)

	log.SetLevel(log.InfoLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
	}
}

// SetupAzureSDK routes the Azure SDK's request/response diagnostics to a zap logger.
// The returned function flushes the logger and detaches the listener.
func SetupAzureSDK() (func(), error) {
	zl, err := ZapLogger()
	if err != nil {
		return nil, err
	}

	azlog.SetEvents(azlog.EventRequest, azlog.EventResponse, azlog.EventResponseError, azlog.EventRetryPolicy, azlog.EventLRO)
	azlog.SetListener(func(event azlog.Event, msg string) {
		zl.Debug(msg, zap.String("event", string(event)))
	})

	return func() {
		azlog.SetListener(nil)
		_ = zl.Sync()
	}, nil
}
