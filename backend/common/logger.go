package common

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

// SetupLog configures the process logger and points gin's writers at it.
func SetupLog() {
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})
	if os.Getenv("GIN_MODE") != "debug" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}
	gin.DefaultWriter = logger.Writer()
	gin.DefaultErrorWriter = logger.WriterLevel(logrus.ErrorLevel)
}

func SysLog(s string) {
	logger.Info(s)
}

func SysError(s string) {
	logger.Error(s)
}

func FatalLog(v any) {
	logger.Fatal(v)
}
