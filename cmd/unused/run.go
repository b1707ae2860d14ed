package main

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viant/afs"
	"github.com/viant/unused/analyzer"
	"github.com/viant/unused/compiledb"
	"github.com/viant/unused/frontend"
	"github.com/viant/unused/remover"
)

var (
	databaseFlag  string
	outputFlag    string
	dryRunFlag    bool
	diffFlag      bool
	shadowingFlag string
	keepFlag      []string
	parallelFlag  int
	reportFlag    string
	dumpASTFlag   string
	strictFlag    bool
)

const runLongDescription = `Remove unused block-scoped variable declarations from every file listed in
the compilation database. Per-file parse and rewrite failures are reported and the
run continues with the next file.`

var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Remove unused local variables",
		Long:  runLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd)
		},
	}
	configureRunFlags(cmd)
	return cmd
}

func configureRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&databaseFlag, databaseFlagName, "p", viper.GetString(databaseConfigKey), "compilation database path")
	bindFlagToConfig(flags.Lookup(databaseFlagName), databaseConfigKey)
	flags.StringVarP(&outputFlag, outputFlagName, "o", viper.GetString(outputConfigKey), "write rewritten files under this directory instead of in place")
	bindFlagToConfig(flags.Lookup(outputFlagName), outputConfigKey)
	flags.BoolVarP(&dryRunFlag, dryRunFlagName, "n", false, "analyse without writing files")
	flags.BoolVar(&diffFlag, diffFlagName, false, "print a unified diff per changed file")
	flags.StringVar(&shadowingFlag, shadowingFlagName, viper.GetString(shadowingConfigKey), "reference attribution: scope or name")
	bindFlagToConfig(flags.Lookup(shadowingFlagName), shadowingConfigKey)
	flags.StringArrayVarP(&keepFlag, keepFlagName, "k", viper.GetStringSlice(keepConfigKey), "never remove variables whose name matches regex (can be repeated)")
	bindFlagToConfig(flags.Lookup(keepFlagName), keepConfigKey)
	flags.IntVarP(&parallelFlag, parallelFlagName, "j", viper.GetInt(parallelConfigKey), "number of files processed concurrently")
	bindFlagToConfig(flags.Lookup(parallelFlagName), parallelConfigKey)
	flags.StringVar(&reportFlag, reportFlagName, viper.GetString(reportConfigKey), "write a YAML analysis report to this file")
	bindFlagToConfig(flags.Lookup(reportFlagName), reportConfigKey)
	flags.StringVar(&dumpASTFlag, dumpASTFlagName, viper.GetString(dumpASTConfigKey), "write a syntax tree dump per file into this directory")
	bindFlagToConfig(flags.Lookup(dumpASTFlagName), dumpASTConfigKey)
	flags.BoolVar(&strictFlag, strictFlagName, viper.GetBool(strictConfigKey), "exit non-zero when any file fails")
	bindFlagToConfig(flags.Lookup(strictFlagName), strictConfigKey)
}

func run(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := configureLogger(verboseFlag)
	configureColor(viper.GetString(colorConfigKey))

	shadowing, err := analyzer.ParseShadowing(viper.GetString(shadowingConfigKey))
	if err != nil {
		return err
	}
	keep, err := compileKeep(viper.GetStringSlice(keepConfigKey))
	if err != nil {
		return err
	}

	fs := afs.New()
	entries, err := compiledb.Load(ctx, fs, viper.GetString(databaseConfigKey))
	if err != nil {
		return err
	}

	config := remover.DefaultConfig()
	if output := viper.GetString(outputConfigKey); output != "" {
		config.Mode = remover.SeparateOutput(output)
	}
	config.DryRun = dryRunFlag
	config.Diff = diffFlag
	config.Parallel = viper.GetInt(parallelConfigKey)
	config.DumpDir = viper.GetString(dumpASTConfigKey)

	service := remover.New(config,
		frontend.New(fs, logger),
		analyzer.New(analyzer.WithShadowing(shadowing), analyzer.WithKeep(keep...), analyzer.WithLogger(logger)),
		fs, logger)

	logger.Info("run started", "entries", len(entries), "shadowing", shadowing.String(), "parallel", config.Parallel)
	results, err := service.Run(ctx, entries)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := printResults(out, cmd.ErrOrStderr(), results)
	fmt.Fprint(out, renderSummary(results))

	if location := viper.GetString(reportConfigKey); location != "" {
		data, err := service.Report(results).Marshal()
		if err != nil {
			return err
		}
		if err = fs.Upload(ctx, location, 0644, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to write report %s: %w", location, err)
		}
	}
	if failed > 0 && viper.GetBool(strictConfigKey) {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

func compileKeep(patterns []string) ([]*regexp.Regexp, error) {
	var result []*regexp.Regexp
	for _, pattern := range patterns {
		expr, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid keep pattern %q: %w", pattern, err)
		}
		result = append(result, expr)
	}
	return result, nil
}
