// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package axum

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Detect checks if axum is a dependency of the crate rooted at projectRoot
// by examining its Cargo.toml.
func Detect(projectRoot string) (bool, error) {
	return checkCargoForDependency(filepath.Join(projectRoot, "Cargo.toml"), "axum")
}

// checkCargoForDependency checks if Cargo.toml lists dep under a
// dependencies table.
func checkCargoForDependency(path, dep string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	inDependencies := false

	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))

		if strings.HasPrefix(line, "[") {
			inDependencies = strings.Contains(line, "dependencies")
			// [dependencies.axum]
			if strings.HasSuffix(strings.TrimSuffix(line, "]"), "dependencies."+dep) {
				return true, nil
			}
			continue
		}

		if !inDependencies {
			continue
		}
		name, _, ok := strings.Cut(line, "=")
		if ok && strings.Trim(strings.TrimSpace(name), `"`) == dep {
			return true, nil
		}
	}

	return false, scanner.Err()
}
