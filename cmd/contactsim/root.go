package main

import (
	"os"

	"github.com/akmonengine/collision"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string // YAML config file
	logLevel   string // Log verbosity level
	workers    int    // Narrowphase goroutines
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "contactsim",
	Short: "Discrete contact manager scenarios",
}

// loadConfig merges the config file with the flags set on the command line.
func loadConfig(cmd *cobra.Command) collision.Config {
	cfg := collision.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = collision.LoadConfig(configPath)
		if err != nil {
			logrus.Fatalf("Invalid config: %v", err)
		}
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid config: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", cfg.LogLevel)
	}
	logrus.SetLevel(level)

	return cfg
}

// logEvents prints the pair and contact events of a manager.
func logEvents(m *collision.DiscreteManager) {
	events := m.Events()
	events.Subscribe(collision.PAIR_FOUND, func(e collision.Event) {
		ev := e.(collision.PairFoundEvent)
		logrus.WithFields(logrus.Fields{"pair": ev.PairID, "a": ev.Links.First, "b": ev.Links.Second}).Info("pair found")
	})
	events.Subscribe(collision.PAIR_LOST, func(e collision.Event) {
		ev := e.(collision.PairLostEvent)
		logrus.WithFields(logrus.Fields{"pair": ev.PairID, "a": ev.Links.First, "b": ev.Links.Second}).Info("pair lost")
	})
	events.Subscribe(collision.CONTACT_BEGIN, func(e collision.Event) {
		ev := e.(collision.ContactBeginEvent)
		logrus.WithFields(logrus.Fields{"a": ev.Links.First, "b": ev.Links.Second, "distance": ev.Contact.Distance}).Info("contact begin")
	})
	events.Subscribe(collision.CONTACT_END, func(e collision.Event) {
		ev := e.(collision.ContactEndEvent)
		logrus.WithFields(logrus.Fields{"a": ev.Links.First, "b": ev.Links.Second}).Info("contact end")
	})
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 1, "Number of narrowphase workers")

	rootCmd.AddCommand(kinematicCmd)
	rootCmd.AddCommand(boxSphereCmd)
}
