package main

import (
	"fmt"
	"os"

	"github.com/embedtools/br2kit/internal/cli/mason"
)

func main() {
	if err := mason.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
