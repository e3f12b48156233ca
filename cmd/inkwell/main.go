// Command inkwell is the toolchain's own CLI front-end (§11: "the original
// ships a command-line driver over the same dispatcher"), grounded on the
// teacher's cmd/morfx flag-parsing shape and demo/cmd/main.go's cobra/color
// wiring. It exercises input_from_source, input_from_url, and
// validate_against_type end to end as the project's own smoke-test surface.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oxhq/inkwell/cache"
	"github.com/oxhq/inkwell/core"
	"github.com/oxhq/inkwell/db"
	"github.com/oxhq/inkwell/internal/config"
	"github.com/oxhq/inkwell/internal/logging"
	"github.com/oxhq/inkwell/providers"
	"github.com/oxhq/inkwell/validator"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	cfg := config.Load()
	log := logging.FromEnv()

	var typeHint string
	var jsonOut bool

	rootCmd := &cobra.Command{
		Use:   "inkwell",
		Short: "Multi-format document ingestion toolchain",
		Long:  "Parses documents across ~15 formats into a unified tagged-value tree, with an optional schema validation pass.",
	}
	rootCmd.PersistentFlags().StringVar(&typeHint, "type", "", "format hint (identifier, MIME type, or extension); inferred when omitted")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print the parsed tree's error list as JSON instead of text")

	parseCmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a local file and report any parse errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %q: %w", args[0], err)
			}
			registry := providers.NewDefaultRegistry()
			dispatcher := providers.NewDispatcher(registry, nil, nil, nil)

			hint := typeHint
			if hint == "" {
				hint = filepath.Ext(args[0])
			}
			in, err := dispatcher.InputFromSource(source, hint)
			if err != nil {
				return err
			}
			reportInput(in, jsonOut)
			return nil
		},
	}

	fetchCmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch and parse a document over http(s)/file, using the on-disk cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatcher, closeFn, err := buildFullDispatcher(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.FetchTimeoutSeconds)*time.Second)
			defer cancel()

			in, err := dispatcher.InputFromURL(ctx, args[0], typeHint)
			if err != nil {
				return err
			}
			if in == nil {
				return fmt.Errorf("failed to fetch or dispatch %q", args[0])
			}
			reportInput(in, jsonOut)
			return nil
		},
	}

	var schemaPath, schemaFormat, typeName string
	validateCmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Parse a file and validate its tree against a named type from a schema file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %q: %w", args[0], err)
			}
			registry := providers.NewDefaultRegistry()
			dispatcher := providers.NewDispatcher(registry, nil, nil, nil)
			hint := typeHint
			if hint == "" {
				hint = filepath.Ext(args[0])
			}
			in, err := dispatcher.InputFromSource(source, hint)
			if err != nil {
				return err
			}
			if in.Root.IsError() {
				reportInput(in, jsonOut)
				return fmt.Errorf("parse failed, skipping validation")
			}

			schemaData, err := os.ReadFile(schemaPath)
			if err != nil {
				return fmt.Errorf("failed to read schema %q: %w", schemaPath, err)
			}

			opts := validator.DefaultOptions()
			opts.MaxDepth = cfg.ValidatorMaxDepth
			v := validator.NewValidator(opts)
			switch schemaFormat {
			case "json":
				if err := validator.LoadJSONSchema(v, schemaData, typeName); err != nil {
					return err
				}
			default:
				if err := validator.LoadYAMLSchema(v, schemaData); err != nil {
					return err
				}
			}

			t, ok := v.Registry[typeName]
			if !ok {
				return fmt.Errorf("schema does not define type %q", typeName)
			}
			result := v.Validate(in.Root, t)
			reportValidation(result, jsonOut)
			if !result.Valid {
				os.Exit(1)
			}
			return nil
		},
	}
	validateCmd.Flags().StringVar(&schemaPath, "schema", "", "path to a schema file (required)")
	validateCmd.Flags().StringVar(&schemaFormat, "schema-format", "yaml", "schema file format: yaml or json")
	validateCmd.Flags().StringVar(&typeName, "type-name", "", "the registered type name to validate against (required)")
	validateCmd.MarkFlagRequired("schema")
	validateCmd.MarkFlagRequired("type-name")

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the on-disk fetch cache",
	}
	cacheStatsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Report the disk cache's total size",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := db.Connect(cfg.DBPath, false)
			if err != nil {
				return err
			}
			disk, err := cache.NewDiskCache(cfg.CacheDir, gormDB, cfg.MaxCacheBytes)
			if err != nil {
				return err
			}
			size, err := disk.Size()
			if err != nil {
				return err
			}
			fmt.Printf("%s %d bytes cached under %s\n", bold("cache:"), size, cfg.CacheDir)
			return nil
		},
	}
	cacheInvalidateCmd := &cobra.Command{
		Use:   "invalidate <url>",
		Short: "Remove a single URL's cached blob and metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := db.Connect(cfg.DBPath, false)
			if err != nil {
				return err
			}
			disk, err := cache.NewDiskCache(cfg.CacheDir, gormDB, cfg.MaxCacheBytes)
			if err != nil {
				return err
			}
			if err := disk.Invalidate(args[0]); err != nil {
				return err
			}
			fmt.Println(green("invalidated " + args[0]))
			return nil
		},
	}
	cacheCmd.AddCommand(cacheStatsCmd, cacheInvalidateCmd)

	rootCmd.AddCommand(parseCmd, fetchCmd, validateCmd, cacheCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, red("Error:"), err)
		os.Exit(1)
	}
}

// buildFullDispatcher wires the fetch/cache layer (component C) to the
// format registry (component H), for subcommands that need network access.
func buildFullDispatcher(cfg *config.Config) (*providers.Dispatcher, func(), error) {
	gormDB, err := db.Connect(cfg.DBPath, false)
	if err != nil {
		return nil, nil, err
	}
	disk, err := cache.NewDiskCache(cfg.CacheDir, gormDB, cfg.MaxCacheBytes)
	if err != nil {
		return nil, nil, err
	}
	fetcher := cache.NewFetcher(disk, time.Duration(cfg.FetchTimeoutSeconds)*time.Second)
	trees := cache.NewTreeCache(cfg.TreeCacheMaxEntries, cfg.TreeCacheMaxBytes)
	walker := cache.NewDirectoryWalker()

	registry := providers.NewDefaultRegistry()
	dispatcher := providers.NewDispatcher(registry, fetcher, trees, walker)

	closeFn := func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return dispatcher, closeFn, nil
}

func reportInput(in *core.Input, jsonOut bool) {
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(errorSummaries(in.Errors))
		return
	}
	if in.Root.IsError() {
		fmt.Println(red("parse failed:"), in.Root.Err().Error())
	} else {
		fmt.Printf("%s format=%s errors=%d\n", green("parsed ok"), in.Format, len(in.Errors))
	}
	for _, e := range in.Errors {
		fmt.Printf("  %s %s\n", bold(string(e.Code)), e.Error())
	}
}

func reportValidation(result validator.ValidationResult, jsonOut bool) {
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result)
		return
	}
	if result.Valid {
		fmt.Println(green("valid"))
	} else {
		fmt.Printf("%s %d error(s)\n", red("invalid:"), result.ErrorCount)
	}
	for _, e := range result.Errors {
		fmt.Printf("  %s %s\n", bold(string(e.Code)), e.Error())
	}
}

type errorSummary struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func errorSummaries(errs []*core.ParseError) []errorSummary {
	out := make([]errorSummary, len(errs))
	for i, e := range errs {
		out[i] = errorSummary{Code: string(e.Code), Message: e.Message, Line: e.Position.Line, Column: e.Position.Column}
	}
	return out
}
