package main

import (
	"encoding/json"
	"fmt"
	"os"

	// Packages
	version "github.com/mutablelogic/go-imagetools/pkg/version"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type RunCmd struct {
	Tool   string `arg:"" help:"Name of the tool to run"`
	Params string `arg:"" optional:"" help:"Tool parameters as a JSON object"`
}

type ListCmd struct{}

type VersionCmd struct{}

////////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *RunCmd) Run(ctx *Globals) error {
	var params json.RawMessage
	if cmd.Params != "" {
		params = json.RawMessage(cmd.Params)
	}
	result := ctx.toolkit.Dispatch(ctx.ctx, cmd.Tool, params)
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func (cmd *ListCmd) Run(ctx *Globals) error {
	for _, t := range ctx.toolkit.Tools() {
		fmt.Printf("%s\n  %s\n", t.Name(), t.Description())
		if ctx.Verbose {
			schema, err := t.Schema()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(schema, "  ", "  ")
			if err != nil {
				return err
			}
			fmt.Printf("  %s\n", string(data))
		}
	}
	return nil
}

func (cmd *VersionCmd) Run(ctx *Globals) error {
	_, err := os.Stdout.Write(append(version.JSON(ctx.execName), '\n'))
	return err
}
