// Command hconfig queries, converts and serves hierarchical configuration documents.
package main

import (
	"fmt"
	"os"

	"github.com/0xalexb/hjarta-config/internal/cli"
)

func main() {
	err := cli.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "hconfig:", err)
		os.Exit(1)
	}
}
