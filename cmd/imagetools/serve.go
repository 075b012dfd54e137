package main

import (
	"crypto/tls"
	"fmt"
	"os"

	// Packages
	httphandler "github.com/mutablelogic/go-imagetools/pkg/httphandler"
	mcp "github.com/mutablelogic/go-imagetools/pkg/mcp"
	version "github.com/mutablelogic/go-imagetools/pkg/version"
	httprouter "github.com/mutablelogic/go-server/pkg/httprouter"
	httpserver "github.com/mutablelogic/go-server/pkg/httpserver"
	yaml "gopkg.in/yaml.v3"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type ServeCmd struct {
	Addr   string `name:"addr" default:"localhost:8080" help:"Address to listen on"`
	Prefix string `name:"prefix" default:"/api" help:"Path prefix for the endpoint"`
	Origin string `name:"origin" default:"*" help:"CORS origin"`
	Config string `name:"config" type:"path" help:"YAML configuration file, overrides the flags above"`

	// TLS server options
	TLS struct {
		ServerName string `name:"name" help:"TLS server name"`
		CertFile   string `name:"cert" type:"path" help:"TLS certificate file"`
		KeyFile    string `name:"key" type:"path" help:"TLS key file"`
	} `embed:"" prefix:"tls."`
}

// serveConfig is the YAML configuration file schema
type serveConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
	Origin string `yaml:"origin"`
	TLS    struct {
		ServerName string `yaml:"name"`
		CertFile   string `yaml:"cert"`
		KeyFile    string `yaml:"key"`
	} `yaml:"tls"`
}

////////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ServeCmd) Run(ctx *Globals) error {
	// Apply the configuration file over the flags
	if cmd.Config != "" {
		if err := cmd.applyConfig(); err != nil {
			return err
		}
	}

	// Create the TLS config if TLS options are provided
	var tlsConfig *tls.Config
	if cmd.TLS.CertFile != "" || cmd.TLS.KeyFile != "" {
		var pemData [][]byte
		if cmd.TLS.CertFile != "" {
			certData, err := os.ReadFile(cmd.TLS.CertFile)
			if err != nil {
				return fmt.Errorf("failed to read TLS certificate: %w", err)
			}
			pemData = append(pemData, certData)
		}
		if cmd.TLS.KeyFile != "" {
			keyData, err := os.ReadFile(cmd.TLS.KeyFile)
			if err != nil {
				return fmt.Errorf("failed to read TLS key: %w", err)
			}
			pemData = append(pemData, keyData)
		}
		var err error
		tlsConfig, err = httpserver.TLSConfig(cmd.TLS.ServerName, false, pemData...)
		if err != nil {
			return fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	// Create the HTTP router and register the tool endpoint
	versionTag := version.Version()
	router, err := httprouter.NewRouter(ctx.ctx, cmd.Prefix, cmd.Origin, "Image Tools", versionTag)
	if err != nil {
		return err
	}
	mcpServer := mcp.New(ctx.execName, versionTag, ctx.toolkit)
	status := httphandler.NewStatus(ctx.execName, versionTag, ctx.GeminiKey != "", ctx.FreepikKey != "", ctx.toolkit)
	if err := httphandler.RegisterHandlers(ctx.toolkit, mcpServer, status, router, true); err != nil {
		return err
	}

	// Create the server
	httpserver, err := httpserver.New(cmd.Addr, router, tlsConfig)
	if err != nil {
		return err
	}

	// Run the server until the context is done
	fmt.Fprintf(os.Stderr, "%s@%s started on %s\n", ctx.execName, versionTag, cmd.Addr)
	if err := httpserver.Run(ctx.ctx); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s@%s stopped\n", ctx.execName, versionTag)

	// Return success
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// applyConfig reads the YAML configuration file and overrides any flag
// values it sets
func (cmd *ServeCmd) applyConfig() error {
	data, err := os.ReadFile(cmd.Config)
	if err != nil {
		return fmt.Errorf("failed to read configuration: %w", err)
	}
	var config serveConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}
	if config.Addr != "" {
		cmd.Addr = config.Addr
	}
	if config.Prefix != "" {
		cmd.Prefix = config.Prefix
	}
	if config.Origin != "" {
		cmd.Origin = config.Origin
	}
	if config.TLS.ServerName != "" {
		cmd.TLS.ServerName = config.TLS.ServerName
	}
	if config.TLS.CertFile != "" {
		cmd.TLS.CertFile = config.TLS.CertFile
	}
	if config.TLS.KeyFile != "" {
		cmd.TLS.KeyFile = config.TLS.KeyFile
	}
	return nil
}
