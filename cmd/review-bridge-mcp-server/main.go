// Command review-bridge-mcp-server is the MCP bridge's entrypoint.
package main

import (
	"os"

	"github.com/reviewbridge/review-bridge-mcp-server/pkg/cmd"
)

func main() {
	streams := cmd.IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
	root := cmd.NewRootCommand(streams)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
