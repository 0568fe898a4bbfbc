package main

import (
	"os"

	"TrendScope/cmd/trendscope/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
