package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli"

	"github.com/arloliu/cbc/framer"
	"github.com/arloliu/cbc/message"
	"github.com/arloliu/cbc/schema"
)

func decodeCommand(c *cli.Context) error {
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

	buf, err := hex.DecodeString(c.String("hex"))
	if err != nil {
		return fmt.Errorf("cbccli: --hex is not valid hex: %w", err)
	}

	sel := framer.DecodeSelector{
		Name:          c.String("name"),
		Direction:     message.Direction(c.String("dir")),
		MessageKey:    c.Int("key"),
		HasMessageKey: c.IsSet("key"),
	}
	var coap *framer.CoapEnvelope
	if mode == framer.ModeCoap {
		coap = &framer.CoapEnvelope{MessageID: c.Int("key"), Payload: buf}
	}

	opts := framer.DecodeOptions{
		InclDir:  c.Bool("incl-dir"),
		InclKey:  c.Bool("incl-key"),
		InclDesc: c.Bool("incl-desc"),
	}

	result, err := framer.Decode(reg, buf, mode, sel, opts, coap)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(map[string]any{
		"name":        result.Name,
		"direction":   result.Direction,
		"messageKey":  result.MessageKey,
		"description": result.Description,
		"value":       result.Value,
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(green(string(out)))

	return nil
}
