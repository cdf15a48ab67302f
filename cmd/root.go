/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rotblauer/dashmap/common"
	"github.com/rotblauer/dashmap/params"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   params.AppName,
	Short: "Map GPS tracks embedded in dashcam videos",
	Long: `dashmap extracts the GPS stream embedded in dashcam videos (via exiftool),
GPX tracks or GeoJSON sample dumps, and renders them as one interactive HTML map:
path segments colored by speed, time waypoints, and an animated vehicle marker.

Examples:

  dashmap render ~/Videos/dashcam/*.MP4 -o trip.html --chart-path trip_speed.html
  dashmap samples front.MP4 -o front.geojson.gz --gpx front.gpx
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pFlags := rootCmd.PersistentFlags()
	pFlags.StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is $HOME/%s.yaml)", params.ConfigName))
	pFlags.String("verbosity", "info", "Log level: debug, info, warn, error")
	cobra.CheckErr(viper.BindPFlag("verbosity", pFlags.Lookup("verbosity")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(params.ConfigName)
	}

	viper.SetEnvPrefix(params.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaultSlog installs a text handler on stderr at the configured verbosity.
func setDefaultSlog(cmd *cobra.Command, args []string) {
	level := common.SlogLevel(viper.GetString("verbosity"))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	slog.Debug("Logging configured", "command", cmd.Name(), "args", len(args), "level", level)
}

// bindFlags binds a command's own flags to viper keys of the same name,
// so config file and DASHMAP_* env values fill in unset flags.
// Bound at run time, not init, since subcommands share flag names.
func bindFlags(cmd *cobra.Command, args []string) {
	cobra.CheckErr(viper.BindPFlags(cmd.Flags()))
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
