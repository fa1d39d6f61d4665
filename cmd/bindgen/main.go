package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/bindgen"
	"github.com/wippyai/bindgen/codegen"
	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/transcoder"
	"github.com/wippyai/bindgen/transport"
)

type options struct {
	schemaFile  string
	targets     string
	outDir      string
	pkg         string
	name        string
	header      string
	encode      string
	decode      string
	args        string
	payload     string
	list        bool
	interactive bool
	verbose     bool
}

func main() {
	var o options
	flag.StringVar(&o.schemaFile, "schema", "", "Path to a YAML or JSON schema document")
	flag.StringVar(&o.targets, "target", "go", "Targets to generate, comma separated ("+strings.Join(codegen.Targets(), ", ")+")")
	flag.StringVar(&o.outDir, "out", ".", "Output directory")
	flag.StringVar(&o.pkg, "pkg", "", "Go package name (default: derived from the namespace)")
	flag.StringVar(&o.name, "name", "", "Base name of generated files (default: the namespace)")
	flag.StringVar(&o.header, "header", "", "Text added to the header comment of generated files")
	flag.BoolVar(&o.list, "list", false, "List functions and exit")
	flag.StringVar(&o.encode, "encode", "", "Encode -args for a function and print the request as hex")
	flag.StringVar(&o.decode, "decode", "", "Decode a hex response payload of a function (from -payload or stdin)")
	flag.StringVar(&o.args, "args", "{}", "Arguments for -encode as a JSON object keyed by parameter name")
	flag.StringVar(&o.payload, "payload", "", "Hex payload for -decode")
	flag.BoolVar(&o.interactive, "i", false, "Interactive wire inspector")
	flag.BoolVar(&o.verbose, "v", false, "Log debug output to stderr")
	flag.Parse()

	if o.schemaFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: bindgen -schema <file.yaml> [-target go,typescript,markdown] [-out dir] [-pkg name]")
		fmt.Fprintln(os.Stderr, "       bindgen -schema <file.yaml> -list")
		fmt.Fprintln(os.Stderr, "       bindgen -schema <file.yaml> -encode ns.fn -args '{\"name\": \"x\"}'")
		fmt.Fprintln(os.Stderr, "       bindgen -schema <file.yaml> -decode ns.fn -payload 0568656c6c6f")
		fmt.Fprintln(os.Stderr, "       bindgen -schema <file.yaml> -i  (interactive mode)")
		os.Exit(2)
	}

	if o.verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			codegen.SetLogger(logger)
			codegen.SetDebug(true)
			transport.SetLogger(logger)
			defer logger.Sync()
		}
	}

	if err := run(o, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(o options, stdin io.Reader, stdout io.Writer) error {
	s, err := bindgen.LoadSchema(o.schemaFile)
	if err != nil {
		return err
	}

	switch {
	case o.interactive:
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("-i needs a terminal")
		}
		return runInteractive(o.schemaFile, s)

	case o.list:
		fmt.Fprintf(stdout, "Schema: %s (%d types, %d functions)\n\n", o.schemaFile, len(s.Types()), len(s.Functions()))
		listFunctions(stdout, s)
		return nil

	case o.encode != "":
		f, err := lookup(s, o.encode)
		if err != nil {
			return err
		}
		args, err := parseArgs(o.args)
		if err != nil {
			return err
		}
		call, err := encodeCall(transcoder.New(s), f, args)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, call)
		return nil

	case o.decode != "":
		f, err := lookup(s, o.decode)
		if err != nil {
			return err
		}
		text := o.payload
		if text == "" {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return err
			}
			text = string(data)
		}
		payload, err := parseHex(text)
		if err != nil {
			return err
		}
		out, err := decodeResult(transcoder.New(s), f, payload)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, out)
		return nil
	}

	return generate(o, s, stdout)
}

func generate(o options, s *schema.Schema, stdout io.Writer) error {
	var opts []codegen.Option
	if o.pkg != "" {
		opts = append(opts, codegen.WithPackage(o.pkg))
	}
	if o.name != "" {
		opts = append(opts, codegen.WithName(o.name))
	}
	if o.header != "" {
		opts = append(opts, codegen.WithHeader(o.header))
	}

	var targets []string
	for _, t := range strings.Split(o.targets, ",") {
		if t = strings.TrimSpace(t); t != "" {
			targets = append(targets, t)
		}
	}
	files, err := bindgen.Generate(s, targets, opts...)
	if err != nil {
		return err
	}
	if err := bindgen.WriteFiles(o.outDir, files); err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(stdout, f.Path)
	}
	return nil
}
