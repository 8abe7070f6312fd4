package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/arloliu/cbc/archive"
)

func parseCodec(name string) (archive.CompressionType, error) {
	switch name {
	case "none":
		return archive.CompressionNone, nil
	case "zstd":
		return archive.CompressionZstd, nil
	case "lz4":
		return archive.CompressionLZ4, nil
	case "gozstd":
		return archive.CompressionGozstd, nil
	default:
		return 0, fmt.Errorf("cbccli: unknown codec %q", name)
	}
}

func archivePackCommand(c *cli.Context) error {
	codec, err := parseCodec(c.String("codec"))
	if err != nil {
		return err
	}

	w, err := archive.NewWriter(codec)
	if err != nil {
		return err
	}
	for _, arg := range c.Args() {
		frame, err := hex.DecodeString(arg)
		if err != nil {
			return fmt.Errorf("cbccli: frame %q is not valid hex: %w", arg, err)
		}
		w.Add(frame)
	}

	batch, err := w.Flush()
	if err != nil {
		return err
	}

	if out := c.String("out"); out != "" {
		if err := os.WriteFile(out, batch, 0o644); err != nil {
			return err
		}
		fmt.Println(green(fmt.Sprintf("wrote %d bytes to %s", len(batch), out)))

		return nil
	}

	fmt.Println(hex.EncodeToString(batch))

	return nil
}

func archiveUnpackCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("cbccli: archive unpack requires a batch file path")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	frames, err := archive.Read(data)
	if err != nil {
		return err
	}

	for i, f := range frames {
		fmt.Printf("%s %s\n", cyan(fmt.Sprintf("[%d]", i)), hex.EncodeToString(f))
	}

	return nil
}
