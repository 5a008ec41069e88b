package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/parsecgen/internal/config"
	"github.com/danmuck/parsecgen/internal/fixture"
	"github.com/danmuck/parsecgen/internal/generator"
	logs "github.com/danmuck/parsecgen/internal/logging"
	"github.com/danmuck/parsecgen/internal/observability"
	"github.com/danmuck/parsecgen/internal/operations"
	"github.com/danmuck/parsecgen/internal/providers"
)

type options struct {
	configPath string
	output     string
	only       string
	verify     bool
	template   string
	force      bool
	metrics    string
}

func main() {
	logs.ConfigureRuntime()
	if err := run(parseFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "parsecgen: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to a parsecgen TOML config")
	flag.StringVar(&opts.output, "output", "", "output directory (default "+config.DefaultOutputDir+")")
	flag.StringVar(&opts.only, "only", "", "comma-separated suite names to generate")
	flag.BoolVar(&opts.verify, "verify", false, "verify existing artifacts instead of generating")
	flag.StringVar(&opts.template, "template", "", "write a config template to this path and exit")
	flag.BoolVar(&opts.force, "force", false, "overwrite an existing config template")
	flag.StringVar(&opts.metrics, "metrics", "", "write prometheus textfile metrics to this path")
	flag.Parse()
	return opts
}

func run(opts options) error {
	if opts.template != "" {
		if err := config.WriteTemplate(opts.template, opts.force); err != nil {
			return err
		}
		if _, err := config.LoadGeneratorConfig(opts.template); err != nil {
			return fmt.Errorf("generated template is invalid: %w", err)
		}
		logs.Infof("wrote config template to %s", opts.template)
		return nil
	}

	cfg := config.DefaultGeneratorConfig()
	if opts.configPath != "" {
		loaded, err := loadRunConfig(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg = applyFlags(cfg, opts)
	if err := config.ValidateGeneratorConfig(cfg); err != nil {
		return err
	}
	if cfg.LogLevel != "" {
		if err := logs.SetLevel(cfg.LogLevel); err != nil {
			return err
		}
	}

	codecs := operations.NewRegistry()
	registry, err := providers.Default(fixture.NewBuilder(codecs))
	if err != nil {
		return err
	}

	if cfg.Verify {
		err = generator.Verify(cfg, registry, codecs)
		if err == nil {
			logs.Infof("verified artifacts in %s", cfg.OutputDir)
		}
	} else {
		var written []string
		written, err = generator.Run(cfg, registry)
		if err == nil {
			logs.Infof("generated %d suites in %s", len(written), cfg.OutputDir)
		}
	}
	if opts.metrics != "" {
		if merr := observability.WriteTextfile(opts.metrics); merr != nil {
			logs.Warnf("%v", merr)
		}
	}
	return err
}
