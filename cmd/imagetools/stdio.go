package main

import (
	"os"

	// Packages
	mcp "github.com/mutablelogic/go-imagetools/pkg/mcp"
	stdio "github.com/mutablelogic/go-imagetools/pkg/stdio"
	version "github.com/mutablelogic/go-imagetools/pkg/version"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type StdioCmd struct{}

type McpCmd struct{}

////////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *StdioCmd) Run(ctx *Globals) error {
	return stdio.New(ctx.toolkit).Run(ctx.ctx, os.Stdin, os.Stdout)
}

func (cmd *McpCmd) Run(ctx *Globals) error {
	return mcp.New(ctx.execName, version.Version(), ctx.toolkit).RunStdio(ctx.ctx, os.Stdin, os.Stdout)
}
