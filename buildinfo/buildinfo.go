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

// Package buildinfo carries this module's own version and checks it
// against the minimum a config file or remote peer declares it needs,
// the way calnex/firmware compares device firmware against a floor.
package buildinfo

import (
	"fmt"

	"github.com/hashicorp/go-version"
)

// Version is overridden at release build time via -ldflags.
var Version = "0.0.0-dev"

// CheckMinimum returns an error if Version is older than min.
func CheckMinimum(min string) error {
	cur, err := version.NewVersion(Version)
	if err != nil {
		return fmt.Errorf("buildinfo: parsing running version %q: %w", Version, err)
	}
	floor, err := version.NewVersion(min)
	if err != nil {
		return fmt.Errorf("buildinfo: parsing required minimum %q: %w", min, err)
	}
	if cur.LessThan(floor) {
		return fmt.Errorf("buildinfo: running version %s is older than required minimum %s", cur, floor)
	}
	return nil
}
