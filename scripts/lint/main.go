// Package main checks formatting with gofumpt and runs golangci-lint, which
// honours the //nolint directives in the source.
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

func main() {
	for _, tool := range []string{"gofumpt", "golangci-lint"} {
		if _, err := exec.LookPath(tool); err != nil {
			fmt.Printf("%s not found. Install it with 'go install' before linting\n", tool)
			os.Exit(1)
		}
	}

	fmt.Println("Checking formatting with gofumpt...")
	var out bytes.Buffer
	cmd := exec.Command("gofumpt", "-l", ".")
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ gofumpt failed: %v\n", err)
		os.Exit(1)
	}
	if files := strings.TrimSpace(out.String()); files != "" {
		fmt.Printf("❌ These files need formatting (run gofumpt -w .):\n%s\n", files)
		os.Exit(1)
	}

	fmt.Println("Linting with golangci-lint...")
	cmd = exec.Command("golangci-lint", "run", "./...")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Linting failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ Lint clean")
}
