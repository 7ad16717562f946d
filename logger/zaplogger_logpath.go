// logger/zaplogger_logpath.go

package logger

import (
	"os"
	"path/filepath"
	"time"
)

const logFileTimeLayout = "20060102_150405"

// EnsureLogFilePath prepares logPath for use as a zap output path.
// A directory (existing or not) gets a timestamped file name appended; an existing file
// is used as is. An empty path resolves to a timestamped file in the working directory.
func EnsureLogFilePath(logPath string) (string, error) {
	name := "apisession_" + time.Now().Format(logFileTimeLayout) + ".log"

	if logPath == "" {
		logPath = filepath.Join(".", name)
	} else {
		info, err := os.Stat(logPath)
		switch {
		case os.IsNotExist(err), err == nil && info.IsDir():
			logPath = filepath.Join(logPath, name)
		case err != nil:
			return "", err
		}
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return "", err
	}

	return logPath, nil
}
