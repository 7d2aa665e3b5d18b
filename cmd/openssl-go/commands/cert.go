package commands

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cryptobind/openssl-go/pkg/openssl/x509"
)

func certCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cert",
		Short: "Certificate utilities",
	}
	cmd.AddCommand(certInspectCmd())
	return cmd
}

func certInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the fields of a PEM or DER certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var cert *x509.Certificate
			if bytes.Contains(raw, []byte("-----BEGIN")) {
				cert, err = x509.ParsePEM(raw)
			} else {
				cert, err = x509.ParseDER(raw)
			}
			if err != nil {
				return err
			}
			defer cert.Close()

			subject, err := cert.Subject()
			if err != nil {
				return err
			}
			issuer, err := cert.Issuer()
			if err != nil {
				return err
			}
			serial, err := cert.SerialNumber()
			if err != nil {
				return err
			}
			notBefore, err := cert.NotBefore()
			if err != nil {
				return err
			}
			notAfter, err := cert.NotAfter()
			if err != nil {
				return err
			}

			fmt.Printf("subject:    %s\n", subject)
			fmt.Printf("issuer:     %s\n", issuer)
			fmt.Printf("serial:     %s\n", serial)
			fmt.Printf("not before: %s\n", notBefore.Format(time.RFC3339))
			fmt.Printf("not after:  %s\n", notAfter.Format(time.RFC3339))
			return nil
		},
	}
}
