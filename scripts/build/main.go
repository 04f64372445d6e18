// Package main builds the checker binaries into bin/.
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

var commands = []string{"clang-format-check", "clang-tidy-check"}

func main() {
	version := describe()
	ldflags := "-X github.com/andyballingall/clang-checks/internal/app.Version=" + version

	if err := os.MkdirAll("bin", 0o755); err != nil {
		fmt.Printf("❌ Failed to create bin directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Building %s...\n", version)
	for _, name := range commands {
		binaryName := name
		if runtime.GOOS == "windows" {
			binaryName += ".exe"
		}
		outputPath := filepath.Join("bin", binaryName)

		cmd := exec.Command("go", "build", "-ldflags", ldflags, "-o", outputPath, "./cmd/"+name)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			fmt.Printf("❌ Build of %s failed: %v\n", name, err)
			os.Exit(1)
		}
		fmt.Printf("✅ Built %s\n", outputPath)
	}
}

// describe names the checked-out commit, or "dev" outside a repository.
func describe() string {
	cmd := exec.Command("git", "describe", "--tags", "--always", "--dirty")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "dev"
	}
	return strings.TrimSpace(out.String())
}
