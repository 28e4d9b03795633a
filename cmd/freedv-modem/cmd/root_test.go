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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/buildinfo"
)

func TestPersistentPreRunEAllowsEmptyRequireVersion(t *testing.T) {
	rootRequireVersionFlag = ""
	require.NoError(t, RootCmd.PersistentPreRunE(RootCmd, nil))
}

func TestPersistentPreRunERejectsTooOldRequirement(t *testing.T) {
	old := buildinfo.Version
	buildinfo.Version = "1.0.0"
	defer func() { buildinfo.Version = old }()

	rootRequireVersionFlag = "2.0.0"
	defer func() { rootRequireVersionFlag = "" }()

	require.Error(t, RootCmd.PersistentPreRunE(RootCmd, nil))
}
