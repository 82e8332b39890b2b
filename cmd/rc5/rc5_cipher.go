package main

import (
	"encoding/hex"
	"fmt"
	"strings"
	"text/tabwriter"

	"rc5-go/pkg/rc5"
	"rc5-go/pkg/vectors"

	"github.com/urfave/cli/v2"
)

func variantFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "variant",
		Aliases: []string{"v"},
		Usage:   "Cipher `NAME`, e.g. RC5-32/12/16 or 32-12-16 (default from config)",
	}
}

func variantsCommand() *cli.Command {
	return &cli.Command{
		Name:   "variants",
		Usage:  "List the supported RC5 parameter sets",
		Action: variantsCmd,
	}
}

func encryptCommand() *cli.Command {
	return &cli.Command{
		Name:      "encrypt",
		Usage:     "Encrypt one block",
		UsageText: "rc5 encrypt --key HEX [--variant NAME] BLOCK_HEX",
		Flags:     cipherFlags(),
		Action: func(c *cli.Context) error {
			return cipherCmd(c, rc5.BlockCipher.Encrypt)
		},
	}
}

func decryptCommand() *cli.Command {
	return &cli.Command{
		Name:      "decrypt",
		Usage:     "Decrypt one block",
		UsageText: "rc5 decrypt --key HEX [--variant NAME] BLOCK_HEX",
		Flags:     cipherFlags(),
		Action: func(c *cli.Context) error {
			return cipherCmd(c, rc5.BlockCipher.Decrypt)
		},
	}
}

func selftestCommand() *cli.Command {
	return &cli.Command{
		Name:  "selftest",
		Usage: "Check the built-in known-answer vectors",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "variant",
				Aliases: []string{"v"},
				Usage:   "Only check vectors for this `NAME`",
			},
		},
		Action: selftestCmd,
	}
}

func cipherFlags() []cli.Flag {
	return []cli.Flag{
		variantFlag(),
		&cli.StringFlag{
			Name:     "key",
			Aliases:  []string{"k"},
			Usage:    "Key as `HEX`",
			Required: true,
		},
	}
}

// selectedVariant resolves --variant, falling back to the configured one.
func selectedVariant(c *cli.Context) (rc5.Variant, error) {
	name := appConfig(c).Variant
	if c.IsSet("variant") {
		name = c.String("variant")
	}
	v, err := rc5.Lookup(name)
	if err != nil {
		return rc5.Variant{}, cli.Exit(err.Error(), 1)
	}
	return v, nil
}

func variantsCmd(c *cli.Context) error {
	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tWORD\tROUNDS\tKEY\tBLOCK")
	for _, v := range rc5.Variants() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", v.Name, v.WordSize, v.Rounds, v.KeySize, v.BlockSize)
	}
	return tw.Flush()
}

func cipherCmd(c *cli.Context, op func(rc5.BlockCipher, []byte) ([]byte, error)) error {
	if c.NArg() != 1 {
		return cli.Exit("Error: exactly one BLOCK_HEX argument is required.", 1)
	}
	v, err := selectedVariant(c)
	if err != nil {
		return err
	}
	key, err := hex.DecodeString(c.String("key"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: key: %v", err), 1)
	}
	block, err := hex.DecodeString(c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: block: %v", err), 1)
	}

	cipher, err := v.New(key)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	out, err := op(cipher, block)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Fprintln(c.App.Writer, strings.ToUpper(hex.EncodeToString(out)))
	return nil
}

func selftestCmd(c *cli.Context) error {
	vs := vectors.All()
	if c.IsSet("variant") {
		var err error
		if vs, err = vectors.ForVariant(c.String("variant")); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}

	w := c.App.Writer
	results := vectors.Run(vs)
	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s  %-13s key=%s pt=%s ct=%s\n", status, r.Variant, r.Key, r.Plaintext, r.Ciphertext)
		if r.Err != "" {
			fmt.Fprintf(w, "      %s\n", r.Err)
		}
	}

	failed := vectors.Failed(results)
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d vectors failed", failed, len(results)), 1)
	}
	fmt.Fprintf(w, "all %d vectors passed\n", len(results))
	return nil
}
