//go:build unix

package burstgen

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// CheckReadable reports whether the process may read path.
func CheckReadable(path string) error {
	return access(path, unix.R_OK, "read")
}

// CheckWritable reports whether the process may write path.
func CheckWritable(path string) error {
	return access(path, unix.W_OK, "write")
}

func access(path string, mode uint32, op string) error {
	if err := unix.Access(path, mode); err != nil {
		log.WithField("file", path).
			WithField("error", err).
			Errorf("no %s permission for file", op)
		return &PermissionError{Path: path, Op: op, Err: err}
	}

	log.WithField("file", path).
		Debugf("%s permission granted for file", op)
	return nil
}
