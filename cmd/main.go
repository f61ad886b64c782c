package main

import (
	"os"

	"github.com/storygraph/dramatis/cmd/dramatis"
)

func main() {
	if err := dramatis.Execute(); err != nil {
		os.Exit(1)
	}
}
