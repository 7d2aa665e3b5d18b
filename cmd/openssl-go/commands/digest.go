package commands

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cryptobind/openssl-go/pkg/openssl/digest"
)

func digestCmd() *cobra.Command {
	var algo string
	cmd := &cobra.Command{
		Use:   "digest [file]",
		Short: "Hash a file or stdin with the library's digest implementation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := io.Reader(os.Stdin)
			name := "-"
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
				name = args[0]
			}

			d, err := digest.New(algo)
			if err != nil {
				return err
			}
			defer d.Close()
			log.Debug(context.Background(), "digest opened", "algorithm", algo, "size", d.Size())

			if _, err := io.Copy(d, in); err != nil {
				return err
			}
			sum, err := d.Sum()
			if err != nil {
				return err
			}
			fmt.Printf("%s(%s)= %s\n", algo, name, hex.EncodeToString(sum))
			return nil
		},
	}
	cmd.Flags().StringVarP(&algo, "algorithm", "a", digest.SHA256, "digest algorithm name")
	return cmd
}
