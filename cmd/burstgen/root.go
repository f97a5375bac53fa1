package main

import (
	"fmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
)

const (
	formatHex  = "hex"
	formatPcap = "pcap"
)

type settings struct {
	Format      string
	LogDir      string
	LogLevel    string
	MetricsFile string
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "burstgen <config-file> <output-file>",
		Short: "Generate bursts of synthetic Ethernet or eCPRI frames",
		Long: `burstgen reads a KEY = VALUE packet configuration and writes timed bursts of
Ethernet or eCPRI frames to the output file until the stream duration elapses.

Examples:
  burstgen config.txt out.txt                   # hex text output, log in ./logs/log.txt
  burstgen config.txt out.pcap --format pcap    # libpcap capture
  BURSTGEN_LOG_LEVEL=trace burstgen config.txt out.txt
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			s := settings{
				Format:      strings.ToLower(v.GetString("format")),
				LogDir:      v.GetString("log-dir"),
				LogLevel:    v.GetString("log-level"),
				MetricsFile: v.GetString("metrics-file"),
			}
			if s.Format != formatHex && s.Format != formatPcap {
				return fmt.Errorf("unsupported output format %q (must be %s or %s)", s.Format, formatHex, formatPcap)
			}

			return run(cmd, s, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.StringP("format", "f", formatHex, "output format: hex or pcap")
	flags.String("log-dir", "logs", "directory holding the run log")
	flags.String("log-level", "info", "log level: trace, debug, info, warn, error")
	flags.String("metrics-file", "", "write prometheus counters to this textfile when the run ends")

	v.SetEnvPrefix("BURSTGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)

	return cmd
}
