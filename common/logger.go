package common

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger 根据配置生成 logger, format 为 json 或 text
func NewLogger(cfg H) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	format, _ := cfg["format"].(string)
	if format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: TIME_FORMAT})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: TIME_FORMAT,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	level, _ := cfg["level"].(string)
	if lv, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lv)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

// DiscardLogger 测试里用
func DiscardLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}
