package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var rootCmd = &cobra.Command{
	Use:   "chatdorobertinsouzah",
	Short: "Multi-turn Gemini chat with image and video generation",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// reinitialize the logger now that flags are parsed
		initLogger()
	},
}

func initLogger() {
	initLoggerWith(&logConfig{
		Level:     viper.GetString("log-level"),
		LogFile:   viper.GetString("log-file"),
		LogFormat: viper.GetString("log-format"),
	})
}

type logConfig struct {
	Level     string
	LogFormat string
	LogFile   string
}

func initLoggerWith(config *logConfig) {
	var logWriter io.Writer
	if config.LogFormat == "text" {
		logWriter = zerolog.ConsoleWriter{Out: os.Stderr}
	} else {
		logWriter = os.Stderr
	}

	if config.LogFile != "" {
		logWriter = io.MultiWriter(
			logWriter,
			zerolog.ConsoleWriter{
				NoColor: true,
				Out: &lumberjack.Logger{
					Filename:   config.LogFile,
					MaxSize:    10, // megabytes
					MaxBackups: 3,
					MaxAge:     28, // days
				},
			})
	}

	log.Logger = log.Output(logWriter)

	switch config.Level {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func defaultDataDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(configDir, "chatdorobertinsouzah")
}

func initConfig() error {
	viper.SetEnvPrefix("chatdo")

	viper.AddConfigPath(".")
	viper.AddConfigPath(defaultDataDir())

	err := viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// no config file is fine
	} else if err != nil {
		return err
	}
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return err
	}

	initLogger()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (json, text)")
	rootCmd.PersistentFlags().String("log-file", "", "Log file (default: stderr)")

	rootCmd.PersistentFlags().String("api-key", "", "Gemini API key")
	rootCmd.PersistentFlags().String("data-dir", defaultDataDir(), "Directory for persisted sessions and search history")
	rootCmd.PersistentFlags().String("language", "en", "Response language (en, pt-BR)")
	rootCmd.PersistentFlags().String("chat-model", "", "Chat model override")
	rootCmd.PersistentFlags().String("image-model", "", "Image model override")
	rootCmd.PersistentFlags().String("video-model", "", "Video model override")
	rootCmd.PersistentFlags().String("title-model", "", "Title model override")

	if err := initConfig(); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(historyCmd)
}
