// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// add_license_header.go: Add or check license headers in project files
// Usage: go run add_license_header.go -dir <dir> [--check]

package main

import (
	"bufio"
	"bytes"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

//go:embed license_header.txt
var licenseHeader string

func main() {
	checkOnly := flag.Bool("check", false,
		"Check mode: only verify headers, do not modify files")

	var targetDir string
	flag.StringVar(&targetDir, "dir", "",
		"Target directory to start processing files from. This flag is required to run.")

	flag.Parse()

	if len(targetDir) <= 0 {
		log.Fatal("Please provide a directory to look for files, use -dir\n")
	}
	if _, err := os.Stat(targetDir); os.IsNotExist(err) {
		log.Fatalf("Invalid target directory: '%s'\n", targetDir)
	}
	fmt.Printf("Processing files in directory: %s\n", targetDir)

	// File patterns and the comment prefix prepended to the header lines.
	// Patterns starting with a dot are file extensions, others file names.
	patterns := map[string]string{
		".go":    "//",
		".yml":   "#",
		"go.mod": "//",
	}

	ignore := []string{"/build/", "/_examples/"}

	for ext, prefix := range patterns {
		fmt.Printf("Processing files with extension %s using prefix '%s'\n", ext, prefix)
		err := processFiles(targetDir, ext, prefix, licenseHeader, *checkOnly, ignore)
		if err != nil {
			log.Fatalf("Error processing files with extension %s: %v\n", ext, err)
		}
	}
}

// processFiles walks through the directory tree starting from dir, finds
// files with the specified extension and processes them by adding or
// checking the license header.
func processFiles(dir, ext, prefix, license string, checkOnly bool, ignore []string) error {
	licenseHeader := addPrefix(license, prefix)
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if shouldIgnore(path, ignore) {
			return nil
		}
		if matchPattern(path, ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk directory %s: %v", dir, err)
	}
	anyFails := false
	for _, f := range files {
		if err := processFile(f, licenseHeader, checkOnly); err != nil {
			fmt.Println(err)
			if !checkOnly {
				return err
			}
			anyFails = true
		}
		if checkOnly {
			if err := checkDoubleHeader(f, prefix); err != nil {
				fmt.Println(err)
				anyFails = true
			}
		}
	}
	if anyFails {
		return fmt.Errorf("some files do not have the correct license header or have double headers")
	}
	return nil
}

// processFile checks if the file given has the correct license header and
// corrects it if requested. Outdated headers are replaced, missing ones
// added, and correct ones left untouched.
func processFile(file, licenseHeader string, checkOnly bool) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %v", file, err)
	}

	if strings.HasPrefix(string(content), "// Code generated") {
		return nil // skip generated files
	}

	lines := strings.Split(string(content), "\n")
	licenseLines := strings.Split(strings.TrimSuffix(licenseHeader, "\n"), "\n")
	needsUpdate := false

	for i, l := range licenseLines {
		if i >= len(lines) || strings.TrimSpace(lines[i]) != strings.TrimSpace(l) {
			needsUpdate = true
			break
		}
	}
	if !needsUpdate {
		return nil
	}
	if checkOnly {
		return fmt.Errorf("missing or incorrect license header: %s", file)
	}

	// An old header is removed up to the first empty line before adding the
	// current one.
	if strings.Contains(lines[0], "Sonic Operations Ltd") {
		for i, line := range lines {
			if strings.TrimSpace(line) == "" {
				content = []byte(strings.Join(lines[i+1:], "\n"))
				break
			}
		}
	}

	newContent := licenseHeader + "\n" + string(content)
	return os.WriteFile(file, []byte(newContent), 0644)
}

func checkDoubleHeader(path, prefix string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %v", path, err)
	}

	lines := strings.Split(string(content), "\n")

	if !strings.Contains(lines[0], "Copyright") {
		return nil
	}
	for i, line := range lines[1:] {
		if strings.Contains(line, prefix+" Copyright") {
			return fmt.Errorf("double license header found in %s at line %d: %s", path, i+1, line)
		}
	}
	return nil
}

func shouldIgnore(path string, ignoredPaths []string) bool {
	for _, pathFragment := range ignoredPaths {
		if strings.Contains(path, pathFragment) {
			return true
		}
	}
	return false
}

func matchPattern(path, pat string) bool {
	if pat[0] == '.' {
		return strings.HasSuffix(path, pat)
	}
	return filepath.Base(path) == pat
}

func addPrefix(license, prefix string) string {
	var buf bytes.Buffer
	s := bufio.NewScanner(strings.NewReader(license))
	for s.Scan() {
		line := s.Text()
		if line == "" {
			buf.WriteString(prefix + "\n")
		} else {
			buf.WriteString(prefix + " " + line + "\n")
		}
	}
	return buf.String()
}
