package global

import (
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

// InitLogger sends logrus output to stderr and, when a data dir is set, to a rotating file in it.
func InitLogger(cfg *Config) {
	writers := []io.Writer{os.Stderr}
	if cfg.DataDir != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(cfg.DataDir, "streamgate.log"),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     1, //days
			Compress:   true,
		})
	}
	logrus.SetOutput(io.MultiWriter(writers...))
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
