// Command framehost runs UI addon scripts against a headless frame host.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/framehost/cmd/framehost/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
