// Package cmd wires up the taskfarmer command-line interface.
package cmd

import (
	"strings"

	"github.com/lohedges/taskfarmer/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "taskfarmer",
	Short: "A simple task farmer for running serial jobs in parallel",
	Long: `Taskfarmer executes a list of shell commands from a shared job file,
one line per job. Start one worker per core in your allocation (for
example with mpirun or srun); each worker repeatedly claims the first
line of the file under an exclusive lock, runs it, and goes back for
more. There is no master process: the job file is the only shared
state, and it can be appended to while the farm is running.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/taskfarmer/config.yaml)")
	rootCmd.PersistentFlags().StringP("file", "f", "", "location of the job file")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("queue.file", rootCmd.PersistentFlags().Lookup("file"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/taskfarmer")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TASKFARMER")
	// Replace dots with underscores for nested keys in env vars
	// e.g., TASKFARMER_WORKER_SLEEP_TIME for worker.sleep_time
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
