// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.

// Package config loads ev3simd/ev3extract configuration from flags,
// environment variables (EV3SIM_ prefix), and an optional config file via
// github.com/spf13/viper.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the resolved configuration for the simulator daemon.
type Config struct {
	Addr         string // TCP listen address, e.g. ":7654"
	LogLevel     string
	LogPretty    bool
	OutputDir    string // ev3extract's recovered-files root
	MaxRunSteps  int    // upper bound on one ev3simd "step" command's count
}

func defaults(v *viper.Viper) {
	v.SetDefault("addr", ":7654")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("output_dir", "./files")
	v.SetDefault("max_run_steps", 1_000_000)
}

// Load resolves configuration from, in increasing precedence: defaults,
// an optional ./ev3sim.yaml config file, EV3SIM_
// environment variables, and flags already bound to fs.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix("ev3sim")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("ev3sim")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "config: reading config file")
		}
	}

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, errors.Wrap(err, "config: binding flags")
		}
	}

	return &Config{
		Addr:        v.GetString("addr"),
		LogLevel:    v.GetString("log_level"),
		LogPretty:   v.GetBool("log_pretty"),
		OutputDir:   v.GetString("output_dir"),
		MaxRunSteps: v.GetInt("max_run_steps"),
	}, nil
}
