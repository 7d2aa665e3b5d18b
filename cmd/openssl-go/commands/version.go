package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cryptobind/openssl-go/pkg/openssl"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print wrapper and linked library versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("wrapper: %s\n", openssl.WrapperVersion())
			fmt.Printf("library: %s\n", openssl.LibraryVersion())
			return nil
		},
	}
}
