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
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/freedv/ofdmcore/modetable"
)

func init() {
	RootCmd.AddCommand(modesCmd)
}

func modesRun() error {
	all, err := modetable.Modes()
	if err != nil {
		return fmt.Errorf("listing modes: %w", err)
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetColWidth(16)
	table.SetHeader([]string{"mode", "Nc", "Ns", "bps", "bits/packet", "samples/packet", "state machine"})
	for _, name := range names {
		r := all[name]
		table.Append([]string{
			name,
			fmt.Sprintf("%d", r.Cfg.Nc),
			fmt.Sprintf("%d", r.Cfg.Ns),
			fmt.Sprintf("%d", r.Cfg.Bps),
			fmt.Sprintf("%d", r.Derived.BitsPerPacket),
			fmt.Sprintf("%d", r.Derived.SamplesPerFrame*r.Cfg.Np),
			string(r.Cfg.StateMachine),
		})
	}
	table.Render()
	return nil
}

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List every mode in the reference table",
	RunE: func(_ *cobra.Command, _ []string) error {
		return modesRun()
	},
}
