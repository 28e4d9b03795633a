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

package buildinfo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freedv/ofdmcore/buildinfo"
)

func TestCheckMinimumAcceptsNewerVersion(t *testing.T) {
	old := buildinfo.Version
	defer func() { buildinfo.Version = old }()

	buildinfo.Version = "1.2.0"
	require.NoError(t, buildinfo.CheckMinimum("1.0.0"))
}

func TestCheckMinimumRejectsOlderVersion(t *testing.T) {
	old := buildinfo.Version
	defer func() { buildinfo.Version = old }()

	buildinfo.Version = "0.9.0"
	require.Error(t, buildinfo.CheckMinimum("1.0.0"))
}
