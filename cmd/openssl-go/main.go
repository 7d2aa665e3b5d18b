package main

import (
	"fmt"
	"os"

	"github.com/cryptobind/openssl-go/cmd/openssl-go/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
