package main

import (
	"burstgen"
	"burstgen/config"
	"burstgen/logging"
	"burstgen/metrics"
	"burstgen/sink"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"io"
)

type burstSink interface {
	burstgen.Sink
	io.Closer
}

func run(cmd *cobra.Command, s settings, configPath, outputPath string) (err error) {
	logFile, err := logging.Setup(logging.Options{
		Dir:     s.LogDir,
		Level:   s.LogLevel,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger := log.WithField("prefix", "burstgen").
		WithField("run", uuid.New().String())

	if err := burstgen.CheckReadable(configPath); err != nil {
		return err
	}

	out, err := openSink(s.Format, outputPath)
	if err != nil {
		logger.WithField("file", outputPath).
			WithField("error", err).
			Error("failed to open output file")
		return &burstgen.PermissionError{Path: outputPath, Op: "write", Err: err}
	}
	defer func() {
		if cErr := out.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	if err := burstgen.CheckWritable(outputPath); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.WithField("file", configPath).
			WithField("error", err).
			Error("failed to load config")
		return err
	}

	spec, err := cfg.PacketSpec()
	if err != nil {
		return err
	}
	logger.WithField("payload_type", cfg.PayloadType).
		WithField("resolved", spec.PayloadType).
		Info("resolved payload type")

	codec, err := burstgen.NewCodec(spec.PayloadType)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	stream := burstgen.NewStream(spec, codec, out, burstgen.SystemClock)
	stream.Metrics = recorder
	stream.Log = logger.WithField("prefix", "stream")

	if err := stream.Run(); err != nil {
		return err
	}

	if s.MetricsFile != "" {
		if err := recorder.WriteTextfile(s.MetricsFile); err != nil {
			return err
		}
		logger.WithField("file", s.MetricsFile).Debug("wrote metrics")
	}

	return nil
}

func openSink(format, path string) (burstSink, error) {
	if format == formatPcap {
		return sink.CreatePcapFile(path, burstgen.SystemClock)
	}
	return sink.CreateHexFile(path)
}
