// Command jobfinder is an offline CLI for ranking job postings against a
// resume without running the HTTP server.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
