package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli"

	"github.com/arloliu/cbc/framer"
	"github.com/arloliu/cbc/schema"
)

func encodeCommand(c *cli.Context) error {
	mode, err := framer.ModeFromFlags(c.Bool("nim"), c.Bool("coap"))
	if err != nil {
		return err
	}

	doc, err := schema.Load(c.String("schema"))
	if err != nil {
		return err
	}
	reg, err := schema.BuildRegistry(doc)
	if err != nil {
		return err
	}

	var value map[string]any
	if raw := c.String("value"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return fmt.Errorf("cbccli: --value is not valid JSON: %w", err)
		}
	}

	res, err := framer.Encode(reg, framer.EncodeRequest{Name: c.String("name"), Value: value}, mode)
	if err != nil {
		return err
	}

	if mode == framer.ModeCoap {
		fmt.Printf("%s %s\n", cyan("messageID:"), fmt.Sprint(res.Coap.MessageID))
		fmt.Printf("%s %s\n", cyan("payload:"), green(hex.EncodeToString(res.Coap.Payload)))

		return nil
	}

	fmt.Println(green(hex.EncodeToString(res.Bytes)))

	return nil
}
