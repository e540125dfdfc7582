// objtool is a CLI utility for converting Wavefront OBJ files into triangle meshes.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-obj/internal/config"
	"github.com/Faultbox/midgard-obj/internal/loader"
	"github.com/Faultbox/midgard-obj/internal/logger"
	"github.com/Faultbox/midgard-obj/internal/mesh"
)

func main() {
	config.ParseFlags()
	args := config.Args()

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	command := args[0]
	rest := args[1:]

	var code int
	switch command {
	case "info":
		code = cmdInfo(rest)
	case "convert", "c":
		code = cmdConvert(cfg, rest)
	case "batch", "b":
		code = cmdBatch(cfg, rest)
	case "config":
		code = cmdConfig(cfg, rest)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		code = 1
	}

	logger.Sync()
	os.Exit(code)
}

func printUsage() {
	fmt.Println(`objtool - Wavefront OBJ to triangle mesh converter

Usage:
  objtool [flags] <command> [options]

Flags:
  -config <file>   Config file (default ./objtool.yaml)
  -debug           Enable debug logging
  -workers <n>     Concurrent conversions in batch mode
  -out <dir>       Output directory for batch mode
  -log <file>      Also write logs to a rotating file
  -no-validate     Skip mesh validation

Commands:
  info [-yaml] <file.obj>            Show vertex format, counts and bounds
  convert <file.obj> [output.omsh]   Convert one file
  batch [-q] <dir>                   Convert every model under a directory
  config [-save] [path]              Print or write the effective config

Examples:
  objtool info models/crate.obj
  objtool convert models/crate.obj crate.omsh
  objtool -workers 8 -out build batch models`)
}

// meshInfo is the report printed by the info command.
type meshInfo struct {
	File      string     `yaml:"file"`
	Name      string     `yaml:"name,omitempty"`
	Tier      string     `yaml:"tier"`
	Vertices  int        `yaml:"vertices"`
	Triangles int        `yaml:"triangles"`
	Min       [3]float32 `yaml:"min,flow"`
	Max       [3]float32 `yaml:"max,flow"`
}

func cmdInfo(args []string) int {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	asYAML := fs.Bool("yaml", false, "Print the report as YAML")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool info [-yaml] <file.obj>")
		return 1
	}
	path := fs.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	m := mesh.New(mesh.TriangleList)
	tier, err := loader.LoadInto(data, m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
		return 1
	}

	bounds := m.Bounds()
	info := meshInfo{
		File:      path,
		Tier:      tier.String(),
		Vertices:  m.VertexCount(),
		Triangles: m.TriangleCount(),
		Min:       bounds.Min,
		Max:       bounds.Max,
	}

	if *asYAML {
		out, err := yaml.Marshal(info)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		os.Stdout.Write(out)
		return 0
	}

	fmt.Printf("File:      %s\n", info.File)
	fmt.Printf("Format:    %s\n", info.Tier)
	fmt.Printf("Vertices:  %d\n", info.Vertices)
	fmt.Printf("Triangles: %d\n", info.Triangles)
	fmt.Printf("Bounds:    %v .. %v\n", info.Min, info.Max)
	return 0
}

func cmdConvert(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool convert <file.obj> [output.omsh]")
		return 1
	}

	src := fs.Arg(0)
	dst := strings.TrimSuffix(src, filepath.Ext(src)) + meshExt
	if fs.NArg() > 1 {
		dst = fs.Arg(1)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	m, err := loader.Load(data)
	if err != nil {
		logger.Error("conversion failed", zap.String("file", src), zap.Error(err))
		return 1
	}
	if cfg.Convert.Validate {
		if err := m.Validate(); err != nil {
			logger.Error("invalid mesh", zap.String("file", src), zap.Error(err))
			return 1
		}
	}

	if err := writeMesh(dst, m); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("Converted: %s -> %s (%d vertices, %d triangles)\n", src, dst, m.VertexCount(), m.TriangleCount())
	return 0
}

func cmdBatch(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	quiet := fs.Bool("q", false, "Hide the progress bar")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool batch <dir>")
		return 1
	}

	res, err := runBatch(cfg, fs.Arg(0), !*quiet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "\nConverted %d files, %d failed\n", res.Converted, res.Failed)
	if res.Failed > 0 {
		return 1
	}
	return 0
}

func cmdConfig(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	save := fs.Bool("save", false, "Write to the user config directory")
	fs.Parse(args)

	switch {
	case *save:
		path, err := cfg.Save()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Wrote %s\n", path)
	case fs.NArg() > 0:
		if err := cfg.SaveTo(fs.Arg(0)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Wrote %s\n", fs.Arg(0))
	default:
		out, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		os.Stdout.Write(out)
	}
	return 0
}
