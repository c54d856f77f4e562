// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/joho/godotenv"
)

// LoadEnv reads KEY=value files such as .env into the process environment.
// Variables already set are left alone. Missing files are skipped. It
// returns the names of the variables it set, sorted.
func LoadEnv(paths ...string) ([]string, error) {
	var set []string
	for _, p := range paths {
		vals, err := godotenv.Read(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		for k, v := range vals {
			if _, ok := os.LookupEnv(k); ok {
				continue
			}
			if err := os.Setenv(k, v); err != nil {
				return nil, fmt.Errorf("setting %s: %w", k, err)
			}
			set = append(set, k)
		}
	}
	sort.Strings(set)
	return set, nil
}
