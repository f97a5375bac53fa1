//go:build !unix

package burstgen

import (
	log "github.com/sirupsen/logrus"
	"os"
)

func CheckReadable(path string) error {
	return access(path, os.O_RDONLY, "read")
}

func CheckWritable(path string) error {
	return access(path, os.O_WRONLY, "write")
}

func access(path string, flag int, op string) error {
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		log.WithField("file", path).
			WithField("error", err).
			Errorf("no %s permission for file", op)
		return &PermissionError{Path: path, Op: op, Err: err}
	}

	log.WithField("file", path).
		Debugf("%s permission granted for file", op)
	return f.Close()
}
