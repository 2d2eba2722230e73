// Package main is the entry point for the trendyol CLI.
package main

import (
	"github.com/donaldgifford/trendyol-sp/cmd/trendyol/cmd"
)

func main() {
	cmd.Execute()
}
