// Copyright 2021 Rigetti Computing
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// AppPaths resolves the per-user directories quilc reads configuration from
// and writes log output to.
type AppPaths interface {
	ConfigDir() string
	LogDir() string
}

// DefaultAppPaths resolves platform-dependent default directories for the
// application identified by appTag.
func DefaultAppPaths(appTag string) (AppPaths, error) {
	config, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return nil, err
		}
		config = filepath.Join(home, ".config")
	}
	cache, err := os.UserCacheDir()
	if err != nil {
		cache = config
	}
	return appPaths{tag: strings.ToLower(appTag), config: config, cache: cache}, nil
}

type appPaths struct {
	tag    string
	config string
	cache  string
}

var _ AppPaths = appPaths{}

func (a appPaths) ConfigDir() string {
	return filepath.Join(a.config, a.tag)
}

func (a appPaths) LogDir() string {
	return filepath.Join(a.cache, "logs", a.tag)
}
