// ev3simd - TCP daemon exposing the driver protocol (create/start/step/
// trigger_event) over newline-delimited JSON, one Simulator per
// connection.

package main

import (
	"fmt"
	"net"
	"os"

	"github.com/gmofishsauce/ev3sim/internal/config"
	"github.com/gmofishsauce/ev3sim/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	var logLevel string

	root := &cobra.Command{
		Use:   "ev3simd",
		Short: "Serve the EV3 block-simulator driver protocol over TCP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if err := logging.Configure(logging.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty}); err != nil {
				return err
			}
			return serve(cfg.Addr, cfg.MaxRunSteps)
		},
	}
	root.Flags().StringVar(&logLevel, "log-level", "", "override configured log level")
	root.Flags().String("addr", "", "TCP listen address (overrides config)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ev3simd: %v\n", err)
		os.Exit(1)
	}
}

func serve(addr string, maxRunSteps int) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	log.Info().Str("addr", addr).Msg("ev3simd: listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Error().Err(err).Msg("ev3simd: accept failed")
			continue
		}
		go handleConnection(conn, maxRunSteps)
	}
}
