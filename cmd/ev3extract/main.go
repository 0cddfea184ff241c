// ev3extract - recover the MakeCode project source embedded in an EV3 UF2.
//
// Usage: ev3extract <path-to-uf2>
//
// Writes every recovered source file under ./files/<project-name>/...,
// mirroring the name→content map the project extractor produces.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gmofishsauce/ev3sim/internal/config"
	"github.com/gmofishsauce/ev3sim/internal/logging"
	"github.com/gmofishsauce/ev3sim/project"
	"github.com/gmofishsauce/ev3sim/uf2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	var logLevel string

	root := &cobra.Command{
		Use:   "ev3extract <uf2-path>",
		Short: "Recover MakeCode project source from an EV3 UF2 file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if err := logging.Configure(logging.Options{Level: cfg.LogLevel}); err != nil {
				return err
			}
			return run(args[0], cfg.OutputDir)
		},
	}
	root.Flags().StringVar(&logLevel, "log-level", "", "override configured log level")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ev3extract: %v\n", err)
		os.Exit(1)
	}
}

func run(path, outputDir string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	archive, err := uf2.Parse(raw)
	if err != nil {
		return err
	}

	binary := archive.ExtractBinary()
	p, err := project.First(binary)
	if err != nil {
		return err
	}

	name := p.Name()
	if name == "" {
		name = "unnamed-project"
	}
	dest := filepath.Join(outputDir, name)
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}

	for filename, content := range p.Source {
		target := filepath.Join(dest, filepath.FromSlash(filename))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(target, []byte(content), 0644); err != nil {
			return err
		}
		log.Debug().Str("file", target).Msg("ev3extract: wrote file")
	}

	log.Info().Str("project", name).Int("files", len(p.Source)).Str("dest", dest).Msg("ev3extract: extraction complete")
	fmt.Printf("ev3extract: recovered %d files for project %q into %s\n", len(p.Source), name, dest)
	return nil
}
