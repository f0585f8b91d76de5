package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/dotstrap/cmd/dotstrap/commands"
	"github.com/arthur-debert/dotstrap/pkg/errors"
	"github.com/arthur-debert/dotstrap/pkg/style"
)

func main() {
	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.Error("Error: ")+err.Error())
		if errors.IsErrorCode(err, errors.ErrPreflightBlocked) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
