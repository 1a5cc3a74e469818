// Package main implements pdf-summarizer-mcp, a service that summarizes PDF
// documents with an LLM and exposes the same capability, together with a set
// of utility tools, over line-delimited JSON-RPC, the MCP SDK and HTTP.
package main

import (
	"fmt"
	"os"

	"pdf-summarizer-mcp/cmd"
)

func main() {
	cmd.SetVersionInfo(Version, Commit, Date)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
