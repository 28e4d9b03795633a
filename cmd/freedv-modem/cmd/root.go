/*
Copyright (c) FreeDV OFDM Core Contributors

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
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/freedv/ofdmcore/buildinfo"
)

// RootCmd is freedv-modem's entry point, exported so it can be extended
// without touching the subcommands it wires together.
var RootCmd = &cobra.Command{
	Use:   "freedv-modem",
	Short: "Run an OFDM modem instance as a long-lived daemon",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if rootRequireVersionFlag != "" {
			if err := buildinfo.CheckMinimum(rootRequireVersionFlag); err != nil {
				return err
			}
		}
		return nil
	},
}

var rootVerboseFlag bool
var rootRequireVersionFlag string

func init() {
	RootCmd.PersistentFlags().BoolVarP(&rootVerboseFlag, "verbose", "v", false, "verbose output")
	RootCmd.PersistentFlags().StringVar(&rootRequireVersionFlag, "require-version", "", "refuse to run if this binary is older than the given semver")
}

// ConfigureVerbosity applies the parsed verbosity flag. Subcommands call
// this before doing any work.
func ConfigureVerbosity() {
	log.SetLevel(log.InfoLevel)
	if rootVerboseFlag {
		log.SetLevel(log.DebugLevel)
	}
}

// Execute runs the root command, exiting non-zero on error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
