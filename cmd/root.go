package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ktportal",
	Short: "K&T Textiles vendor tracking portal.",
	Long: `Redeems tracking deep links into a local device registry, shows the
location feed of registered devices and serves the tracking data endpoint.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ktportal.yaml)")
	rootCmd.PersistentFlags().String("backend", "", "registry backend: bolt, badger or memory")
	rootCmd.PersistentFlags().Bool("debug", false, "verbose logging")

	viper.BindPFlag("registry.backend", rootCmd.PersistentFlags().Lookup("backend"))
	viper.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// .env is optional
	_ = godotenv.Load()

	setDefaults()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".ktportal" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".ktportal")
	}

	viper.SetEnvPrefix("KTPORTAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "failed to read config file %s: %s\n", cfgFile, err)
			os.Exit(1)
		}
	}
}

func setDefaults() {
	viper.SetDefault("registry.backend", "bolt")
	viper.SetDefault("registry.path", "")
	viper.SetDefault("registry.cache", false)
	viper.SetDefault("feed.endpoint", "http://localhost:8080/api/tracking/data")
	viper.SetDefault("feed.timeout", "30s")
	viper.SetDefault("portal.base_url", "https://www.kandttextiles.com")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.debug", false)
}
