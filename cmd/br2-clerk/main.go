package main

import (
	"fmt"
	"os"

	"github.com/embedtools/br2kit/internal/cli/clerk"
)

func main() {
	if err := clerk.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
