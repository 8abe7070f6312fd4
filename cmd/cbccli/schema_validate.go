package main

import (
	"fmt"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	cbclog "github.com/arloliu/cbc/log"
	zapadapter "github.com/arloliu/cbc/log/zap"
	"github.com/arloliu/cbc/schema"
)

func schemaValidateCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("cbccli: schema validate requires a document path")
	}

	zl, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer zl.Sync()
	var logger cbclog.Logger = zapadapter.Adapter{L: zl}

	reg, err := schema.LoadRegistry(path, logger, c.Bool("lenient"))
	if err != nil {
		return err
	}

	fmt.Println(green(fmt.Sprintf("%s: %d messages", path, len(reg.All()))))
	for _, m := range reg.All() {
		fmt.Printf("  %s %-20s key=%-6d dir=%s\n", cyan("-"), m.Name(), m.MessageKey(), m.Direction())
	}

	return nil
}
