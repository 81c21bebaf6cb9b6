// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/flatten/internal/commands"
	"github.com/temirov/flatten/internal/config"
	"github.com/temirov/flatten/internal/services/clipboard"
	"github.com/temirov/flatten/internal/tokenizer"
	"github.com/temirov/flatten/internal/utils"
)

const (
	rootUse              = "flatten [project_dir] [output_file]"
	rootShortDescription = "flatten a project into a single Markdown document"
	rootLongDescription  = `flatten walks a project directory, skips paths matched by the project's .gitignore
(or ignore.txt) and writes one Markdown document holding the directory tree followed
by every included file in a fenced code block.

project_dir defaults to the current directory and output_file to flattened.md.`
	rootUsageExample = `  # Flatten the current directory into flattened.md
  flatten

  # Flatten ./service into docs/service.md without vendored code
  flatten ./service docs/service.md -e vendor/

  # Prepend a summary with a token estimate and copy the result
  flatten --tokens --clipboard`

	exclusionFlagName  = "exclude"
	exclusionShorthand = "e"
	noGitignoreFlag    = "no-gitignore"
	includeGitFlag     = "git"
	noTreeFlag         = "no-tree"
	summaryFlag        = "summary"
	tokensFlag         = "tokens"
	modelFlag          = "model"
	maxSizeFlag        = "max-size"
	clipboardFlag      = "clipboard"
	configFlag         = "config"
	logLevelFlag       = "log-level"
	versionFlag        = "version"

	exclusionFlagDescription   = "exclude path pattern (repeatable)"
	noGitignoreFlagDescription = "do not read .gitignore or ignore.txt"
	includeGitFlagDescription  = "include the .git directory"
	noTreeFlagDescription      = "omit the directory tree section"
	summaryFlagDescription     = "prepend a summary line with file count and size"
	tokensFlagDescription      = "include a token estimate in the summary"
	modelFlagDescription       = "tokenizer model used for the token estimate"
	maxSizeFlagDescription     = "replace files larger than this many bytes with a notice (0 disables)"
	clipboardFlagDescription   = "copy the document to the clipboard after writing"
	configFlagDescription      = "configuration file (default .flatten.yaml)"
	logLevelFlagDescription    = "log level: debug, info, warn or error"
	versionFlagDescription     = "display application version"

	versionTemplate       = "flatten version: %s\n"
	defaultProjectPath    = "."
	maximumPositionalArgs = 2

	logConfigurationIgnored   = "Ignoring unreadable configuration"
	logTokenCounterDisabled   = "Token counting disabled"
	logConfiguredLevelIgnored = "Ignoring configured log level"
	errorWorkingDirectoryFmt  = "unable to determine working directory: %w"
)

// environment carries the process dependencies of the command tree.
type environment struct {
	workingDirectory string
	homeDirectory    string
	standardOutput   io.Writer
	clipboard        clipboard.Copier
	newLogger        func(levelName string) (*zap.Logger, error)
	newTokenCounter  func(tokenizer.Config) (tokenizer.Counter, string, error)
}

func defaultEnvironment() environment {
	return environment{
		standardOutput:  os.Stdout,
		clipboard:       clipboard.NewService(),
		newLogger:       utils.NewApplicationLogger,
		newTokenCounter: tokenizer.NewCounter,
	}
}

// flattenFlags stores the values of the root command flags.
type flattenFlags struct {
	exclusionPatterns []string
	disableGitignore  bool
	includeGit        bool
	disableTree       bool
	summary           bool
	tokens            bool
	model             string
	maxSizeBytes      int64
	clipboard         bool
	configPath        string
	logLevel          string
	showVersion       bool
}

// Execute runs the flatten application with the process arguments.
func Execute() error {
	rootCommand := createRootCommand(defaultEnvironment())
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(runtime environment) *cobra.Command {
	var flags flattenFlags

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(maximumPositionalArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if flags.showVersion {
				_, printErr := fmt.Fprintf(runtime.standardOutput, versionTemplate, utils.GetApplicationVersion())
				return printErr
			}
			return runFlatten(command, arguments, flags, runtime)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.StringArrayVarP(&flags.exclusionPatterns, exclusionFlagName, exclusionShorthand, nil, exclusionFlagDescription)
	registerToggleFlag(flagSet, &flags.disableGitignore, noGitignoreFlag, noGitignoreFlagDescription)
	registerToggleFlag(flagSet, &flags.includeGit, includeGitFlag, includeGitFlagDescription)
	registerToggleFlag(flagSet, &flags.disableTree, noTreeFlag, noTreeFlagDescription)
	registerToggleFlag(flagSet, &flags.summary, summaryFlag, summaryFlagDescription)
	registerToggleFlag(flagSet, &flags.tokens, tokensFlag, tokensFlagDescription)
	flagSet.StringVar(&flags.model, modelFlag, tokenizer.DefaultModel, modelFlagDescription)
	flagSet.Int64Var(&flags.maxSizeBytes, maxSizeFlag, 0, maxSizeFlagDescription)
	registerToggleFlag(flagSet, &flags.clipboard, clipboardFlag, clipboardFlagDescription)
	flagSet.StringVar(&flags.configPath, configFlag, "", configFlagDescription)
	flagSet.StringVar(&flags.logLevel, logLevelFlag, utils.DefaultLogLevel, logLevelFlagDescription)
	flagSet.BoolVar(&flags.showVersion, versionFlag, false, versionFlagDescription)

	rootCommand.AddCommand(createInitCommand(runtime))
	return rootCommand
}

// runFlatten resolves configuration and flags into pipeline options and runs it.
func runFlatten(command *cobra.Command, arguments []string, flags flattenFlags, runtime environment) error {
	workingDirectory := runtime.workingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return fmt.Errorf(errorWorkingDirectoryFmt, err)
		}
		workingDirectory = currentDirectory
	}

	applicationConfig, configErr := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flags.configPath,
		HomeDirectory:    runtime.homeDirectory,
	})
	if configErr != nil {
		applicationConfig = config.ApplicationConfiguration{}
	}
	settings := resolveSettings(command, arguments, flags, applicationConfig)

	_, levelErr := utils.ParseLogLevel(settings.logLevel)
	if levelErr != nil {
		if command.Flags().Changed(logLevelFlag) {
			return levelErr
		}
		settings.logLevel = utils.DefaultLogLevel
	}
	logger, loggerErr := runtime.newLogger(settings.logLevel)
	if loggerErr != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerErr)
	}
	defer func() { _ = logger.Sync() }()
	if configErr != nil {
		logger.Warn(logConfigurationIgnored, zap.Error(configErr))
	}
	if levelErr != nil {
		logger.Warn(logConfiguredLevelIgnored, zap.String("default", utils.DefaultLogLevel), zap.Error(levelErr))
	}

	options := commands.Options{
		ProjectDirectory: resolveAgainst(workingDirectory, settings.projectDirectory),
		OutputPath:       resolveAgainst(workingDirectory, settings.outputPath),
		Patterns:         settings.patterns,
		IncludeTree:      settings.includeTree,
		IncludeSummary:   settings.includeSummary,
		MaxSizeBytes:     settings.maxSizeBytes,
		CopyToClipboard:  settings.copyToClipboard,
		Clipboard:        runtime.clipboard,
	}
	if settings.tokensEnabled {
		counter, resolvedModel, counterErr := runtime.newTokenCounter(tokenizer.Config{Model: settings.tokenModel})
		if counterErr != nil {
			logger.Warn(logTokenCounterDisabled, zap.String("model", settings.tokenModel), zap.Error(counterErr))
		} else {
			options.TokenCounter = counter
			options.TokenModel = resolvedModel
		}
	}

	_, flattenErr := commands.Flatten(options, logger)
	return flattenErr
}

// runSettings is the effective configuration of one run.
type runSettings struct {
	projectDirectory string
	outputPath       string
	patterns         config.PatternOptions
	includeTree      bool
	includeSummary   bool
	tokensEnabled    bool
	tokenModel       string
	maxSizeBytes     int64
	copyToClipboard  bool
	logLevel         string
}

// resolveSettings applies explicit flags over configuration values over built-in defaults.
func resolveSettings(command *cobra.Command, arguments []string, flags flattenFlags, applicationConfig config.ApplicationConfiguration) runSettings {
	flagSet := command.Flags()
	defaults := config.DefaultConfiguration()
	effective := defaults.Merge(applicationConfig)

	settings := runSettings{
		projectDirectory: defaultProjectPath,
		outputPath:       effective.Output,
		includeTree:      config.BoolOrDefault(effective.Tree, true),
		includeSummary:   config.BoolOrDefault(effective.Summary, false),
		tokensEnabled:    config.BoolOrDefault(effective.Tokens.Enabled, false),
		tokenModel:       effective.Tokens.Model,
		maxSizeBytes:     config.Int64OrDefault(effective.MaxSize, 0),
		copyToClipboard:  config.BoolOrDefault(effective.Clipboard, false),
		logLevel:         effective.LogLevel,
		patterns: config.PatternOptions{
			UseGitignore:      config.BoolOrDefault(effective.Paths.UseGitignore, true),
			IncludeGit:        config.BoolOrDefault(effective.Paths.IncludeGit, false),
			ExclusionPatterns: append(append([]string{}, effective.Paths.Exclude...), flags.exclusionPatterns...),
		},
	}

	if len(arguments) > 0 {
		settings.projectDirectory = arguments[0]
	}
	if len(arguments) > 1 {
		settings.outputPath = arguments[1]
	}
	if flagSet.Changed(noGitignoreFlag) {
		settings.patterns.UseGitignore = !flags.disableGitignore
	}
	if flagSet.Changed(includeGitFlag) {
		settings.patterns.IncludeGit = flags.includeGit
	}
	if flagSet.Changed(noTreeFlag) {
		settings.includeTree = !flags.disableTree
	}
	if flagSet.Changed(summaryFlag) {
		settings.includeSummary = flags.summary
	}
	if flagSet.Changed(tokensFlag) {
		settings.tokensEnabled = flags.tokens
	}
	if flagSet.Changed(modelFlag) {
		settings.tokenModel = flags.model
	}
	if flagSet.Changed(maxSizeFlag) {
		settings.maxSizeBytes = flags.maxSizeBytes
	}
	if flagSet.Changed(clipboardFlag) {
		settings.copyToClipboard = flags.clipboard
	}
	if flagSet.Changed(logLevelFlag) {
		settings.logLevel = flags.logLevel
	}

	// The token estimate is reported on the summary line.
	if settings.tokensEnabled {
		settings.includeSummary = true
	}
	if strings.TrimSpace(settings.tokenModel) == "" {
		settings.tokenModel = tokenizer.DefaultModel
	}
	return settings
}

func resolveAgainst(workingDirectory string, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workingDirectory, path)
}
