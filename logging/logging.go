// Package logging configures the standard logrus logger for a generator run.
package logging

import (
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"
	"io"
	"os"
	"path/filepath"
)

// LogFileName is the name of the run log inside the log directory.
const LogFileName = "log.txt"

type Options struct {
	Dir   string
	Level string

	// Console receives a copy of every line. os.Stderr when nil.
	Console io.Writer
}

// Setup clears the run log in opts.Dir and sends logrus output both to it and
// to the console. The returned closer releases the log file.
func Setup(opts Options) (io.Closer, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		var err error
		if level, err = log.ParseLevel(opts.Level); err != nil {
			return nil, err
		}
	}

	if opts.Dir == "" {
		opts.Dir = "logs"
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, err
	}

	path := filepath.Join(opts.Dir, LogFileName)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return nil, err
	}

	file := &lumberjack.Logger{
		Filename: path,
		MaxSize:  10, // megabytes
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	log.SetFormatter(&prefixed.TextFormatter{
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
		FullTimestamp:   true,
		ForceFormatting: true,
	})
	log.SetLevel(level)
	log.SetOutput(io.MultiWriter(console, file))

	return file, nil
}
