// Command locatectl is the operator CLI for the locate SLA tracking service.
package main

import (
	"fmt"
	"os"

	"github.com/fieldlink/locate-sla/internal/interfaces/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
