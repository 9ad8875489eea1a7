package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cursos-uc/cursos-app/internal/pkg/config"
	"github.com/cursos-uc/cursos-app/pkg/logger"
)

var (
	jsonOut     bool
	envFile     string
	fakeBackend bool

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cursosuc",
	Short: "Browse UC courses, comments and lists from the terminal",
	Long: `cursosuc talks to the Cursos UC backend. It can serve a local JSON API
over the catalog, comments, lists, session and chat, or answer one-off
queries directly.

Examples:
  cursosuc serve
  cursosuc courses list --sort rating --order desc
  cursosuc search IIC --difficulty 3
  cursosuc chat "¿Qué OFGs me recomiendas?"`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print JSON instead of tables")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolVar(&fakeBackend, "fake-backend", false, "run against an in-process demo backend")
}

func setup(cmd *cobra.Command, _ []string) error {
	envErr := godotenv.Load(envFile)

	loaded, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	cfg = loaded

	log = logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
		App:    "cursosuc",
	})
	if envErr != nil {
		log.Debug().Str("file", envFile).Msg("no dotenv file loaded")
	}
	return nil
}
