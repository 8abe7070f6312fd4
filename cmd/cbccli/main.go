// Command cbccli is the CLI/example harness spec.md §1 names as an
// out-of-core external collaborator: it loads a schema document, then
// encodes, decodes, or batches CBC messages from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "cbccli"
	app.Usage = "encode, decode, and batch Compact Binary Codec messages"
	app.Version = "0.1.0"
	app.Commands = []cli.Command{
		{
			Name:  "encode",
			Usage: "encode a message value against a schema document",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "schema", Usage: "path to a .json or .yaml schema document"},
				cli.StringFlag{Name: "name", Usage: "message name to encode"},
				cli.StringFlag{Name: "value", Usage: "JSON object of field values"},
				cli.BoolFlag{Name: "nim", Usage: "frame with a 2-byte message_key prefix"},
				cli.BoolFlag{Name: "coap", Usage: "frame as a CoAP payload (prints MessageID separately)"},
			},
			Action: encodeCommand,
		},
		{
			Name:  "decode",
			Usage: "decode a hex-encoded buffer against a schema document",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "schema", Usage: "path to a .json or .yaml schema document"},
				cli.StringFlag{Name: "hex", Usage: "hex-encoded buffer to decode"},
				cli.StringFlag{Name: "name", Usage: "message name (selector, if buffer carries no key)"},
				cli.IntFlag{Name: "key", Usage: "message_key (selector, for coap mode)"},
				cli.StringFlag{Name: "dir", Value: "UPLINK", Usage: "message direction: UPLINK or DOWNLINK"},
				cli.BoolFlag{Name: "nim", Usage: "buffer carries a 2-byte message_key prefix"},
				cli.BoolFlag{Name: "coap", Usage: "buffer is a bare CoAP payload; --key supplies the envelope MessageID"},
				cli.BoolFlag{Name: "incl-dir", Usage: "include direction in output"},
				cli.BoolFlag{Name: "incl-key", Usage: "include message_key in output"},
				cli.BoolFlag{Name: "incl-desc", Usage: "include description in output"},
			},
			Action: decodeCommand,
		},
		{
			Name:  "archive",
			Usage: "pack/unpack a store-and-forward batch of framed messages",
			Subcommands: []cli.Command{
				{
					Name:      "pack",
					Usage:     "compress a list of hex-encoded frames into a batch",
					ArgsUsage: "<hex-frame>...",
					Flags: []cli.Flag{
						cli.StringFlag{Name: "codec", Value: "zstd", Usage: "none, zstd, lz4, or gozstd"},
						cli.StringFlag{Name: "out", Usage: "output file (defaults to stdout, hex-encoded)"},
					},
					Action: archivePackCommand,
				},
				{
					Name:      "unpack",
					Usage:     "list the hex-encoded frames inside a batch file",
					ArgsUsage: "<batch-file>",
					Action:    archiveUnpackCommand,
				},
			},
		},
		{
			Name:  "schema",
			Usage: "schema document operations",
			Subcommands: []cli.Command{
				{
					Name:      "validate",
					Usage:     "load a schema document and report the messages it defines",
					ArgsUsage: "<path>",
					Flags: []cli.Flag{
						cli.BoolFlag{Name: "lenient", Usage: "downgrade message_key range conflicts to warnings"},
					},
					Action: schemaValidateCommand,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		os.Exit(1)
	}
}
