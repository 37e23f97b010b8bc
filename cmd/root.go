/*
Copyright © 2021 Edmond Cotterell

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
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/Daskott/rolodex/colors"
	"github.com/Daskott/rolodex/dev/config"
	"github.com/Daskott/rolodex/utils"
	"github.com/Daskott/rolodex/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "ROLODEX"

var (
	cfgFile  string
	isDevEnv bool

	warningLabel = colors.Yellow("Warning:")
)

// rootCmd represents the base command when called without any subcommands
var rootCmd *cobra.Command

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd = createRootCmd()
	rootCmd.Version = fmt.Sprintf("v%s", version.Version)
}

func createRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "rolodex",
		Short: `rolodex keeps users and the contacts each of them owns.

Emails are unique among users and, separately, among contacts.
Run 'rolodex server' to serve them over http.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/rolodex/server.yml)")
	cmd.PersistentFlags().BoolVarP(&isDevEnv, "dev", "", false, "run in development mode")

	return cmd
}

// loadConfig reads in the config file and ENV variables if set.
// ENV vars use the ROLODEX_ prefix, e.g. ROLODEX_DATABASE_DRIVER overrides database.driver.
func loadConfig() (*viper.Viper, error) {
	configFilePath := cfgFile
	if configFilePath == "" {
		var err error
		configFilePath, err = defaultConfigFilePath()
		if err != nil {
			return nil, err
		}
	}

	// Dev mode gets a working config out of the box
	if isDevEnv {
		if err := ensureConfigFile(configFilePath, config.SERVER_YML); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigFile(configFilePath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, formattedError("error reading config file %s: %v", configFilePath, err)
	}

	fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	return v, nil
}

func defaultConfigFilePath() (string, error) {
	if isDevEnv {
		configDir, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(configDir, "dev", "config", "server.yml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, "rolodex", "server.yml"), nil
}

// ensureConfigFile writes content to configFilePath if no file exists there.
func ensureConfigFile(configFilePath, content string) error {
	if utils.FileExist(configFilePath) {
		return nil
	}

	err := os.MkdirAll(filepath.Dir(configFilePath), 0755)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, warningLabel, "creating config file", configFilePath)
	return ioutil.WriteFile(configFilePath, []byte(content), 0600)
}

func formattedError(format string, a ...interface{}) error {
	return fmt.Errorf(colors.Red(format), a...)
}
