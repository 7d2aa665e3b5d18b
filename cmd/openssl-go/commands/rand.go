package commands

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cryptobind/openssl-go/pkg/openssl/rand"
)

func randCmd() *cobra.Command {
	var b64 bool
	cmd := &cobra.Command{
		Use:   "rand <num-bytes>",
		Short: "Draw bytes from the library CSPRNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid byte count %q", args[0])
			}
			buf := make([]byte, n)
			if err := rand.Bytes(buf); err != nil {
				return err
			}
			if b64 {
				fmt.Println(base64.StdEncoding.EncodeToString(buf))
			} else {
				fmt.Println(hex.EncodeToString(buf))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&b64, "base64", false, "emit base64 instead of hex")
	return cmd
}
