// Package main provides the jso CLI entry point: parse, optionally
// validate against a schema, and re-encode a JSON document, per
// spec.md §6 "External interfaces".
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jso-toolkit/jso"
	"github.com/jso-toolkit/jso/debuglog"
	"github.com/jso-toolkit/jso/iosrc"
)

type config struct {
	depth      int
	outputType string
	schemaPath string

	debug debuglog.Config
}

func main() {
	cfg := &config{debug: *debuglog.NewConfig()}

	rootCmd := &cobra.Command{
		Use:           "jso [options...] <file>",
		Short:         "Parse, validate, and re-encode a JSON document against a draft-04 schema",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(cfg, args[0])
		},
	}

	registerFlags(rootCmd.Flags(), cfg)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func registerFlags(flags *pflag.FlagSet, cfg *config) {
	flags.IntVarP(&cfg.depth, "depth", "d", 0, "parser max depth (0 = unlimited)")
	flags.StringVarP(&cfg.outputType, "output-type", "o", "minimal", "encoder mode: minimal|pretty|debug")
	flags.StringVarP(&cfg.schemaPath, "schema", "s", "", "load and compile a schema; validate the input against it")
	cfg.debug.RegisterFlags(flags)
}

func run(cfg *config, path string) error {
	if err := cfg.debug.Resolve(); err != nil {
		return fmt.Errorf("parsing debug config: %w", err)
	}
	if cfg.debug.Enabled() {
		logger, err := debuglog.NewLogger(&cfg.debug)
		if err != nil {
			return err
		}
		defer logger.Close()
		jso.SetLogger(logger)
	}

	data, err := readFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if isYAML(path) {
		data, err = yamlToJSON(data)
		if err != nil {
			return fmt.Errorf("converting %s from YAML: %w", path, err)
		}
	}

	v, err := jso.DecodeWithDepth(data, cfg.depth)
	if err != nil {
		if perr, ok := err.(*jso.ParseError); ok {
			return fmt.Errorf("Parsing %s error in %s:%d:%d: %s",
				perr.Kind, path, perr.Location.FirstLine, perr.Location.FirstCol, perr.Message)
		}
		return err
	}

	if cfg.schemaPath != "" {
		schemaData, err := readFile(cfg.schemaPath)
		if err != nil {
			return fmt.Errorf("reading schema %s: %w", cfg.schemaPath, err)
		}
		if isYAML(cfg.schemaPath) {
			schemaData, err = yamlToJSON(schemaData)
			if err != nil {
				return fmt.Errorf("converting %s from YAML: %w", cfg.schemaPath, err)
			}
		}
		schema, serr := jso.CompileBytes(schemaData)
		if serr != nil {
			return fmt.Errorf("%s", serr.Error())
		}
		result := jso.ValidateValue(schema, v)
		if !result.Valid {
			return fmt.Errorf("%s", result.First.Error())
		}
	}

	out, err := encodeOutput(v, cfg.outputType)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

// readFile opens path through iosrc.FileSource (the same read/refill path
// the scanner would use against a streamed document) rather than
// os.ReadFile directly, so the CLI's one real file-reading path exercises
// the buffer-refill strategies iosrc implements instead of leaving them as
// untouched library code.
func readFile(path string) ([]byte, error) {
	src, err := iosrc.OpenFile(path, iosrc.RefillAuto, 64*1024)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// yamlToJSON bridges a YAML document into this module's JSON decoder,
// following the teacher's own application/yaml media-type handler
// (kaptinlin/jsonschema's compiler.go unmarshals YAML into an `any` with
// the same library before handing it to the schema pipeline).
func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// debugDump is the "-o debug" envelope: the value's Kind tag alongside its
// raw encoding, passed through untouched via jsontext.Value the way the
// teacher's Schema.MarshalJSONTo threads raw sub-documents through its own
// v2 marshaling (kaptinlin/jsonschema's schema.go).
type debugDump struct {
	Kind  string         `json:"kind"`
	Value jsontext.Value `json:"value"`
}

func encodeOutput(v jso.Value, outputType string) ([]byte, error) {
	switch outputType {
	case "minimal", "":
		return append(jso.Encode(v), '\n'), nil
	case "pretty":
		return append(jso.EncodeIndent(v, "    "), '\n'), nil
	case "debug":
		dump := debugDump{Kind: v.Kind().String(), Value: jsontext.Value(jso.Encode(v))}
		out, err := jsonv2.Marshal(dump, jsontext.WithIndent("  "), jsonv2.Deterministic(true))
		if err != nil {
			return nil, fmt.Errorf("debug encode: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown output type %q", outputType)
	}
}
