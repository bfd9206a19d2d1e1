// File: cmd/ringgauge/root.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/momentics/hioload-ring/control"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "ringgauge",
		Short: "Drive an owning ring buffer from stdin and render its occupancy",
		Long: `Each input line is written into the ring as a new element. A line
consisting of "<" reads the oldest element back out. After every operation
the ring's occupancy is drawn as a segment gauge.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := control.LoadConfig(v, configFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	flags.Int("capacity", 8, "ring capacity in slots")
	flags.String("overflow", "overwrite-head", "overflow policy: overwrite-head or drop-oldest")
	flags.String("allocator", control.AllocatorHeap, "element allocator: heap, recycling or mmap")
	flags.Int("recycle-limit", 0, "free-list bound for the recycling allocator")
	flags.Int("segments", 8, "gauge width in segments")
	flags.String("metrics-addr", "", "serve prometheus metrics on this address")
	flags.String("log-level", "info", "log level")
	cobra.CheckErr(control.BindFlags(v, flags))

	return cmd
}
