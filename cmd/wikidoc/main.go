// Package main is the wikidoc CLI: parse wiki markup from files or stdin,
// or fetch articles by title, and print structured or rendered output.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/extdata"
	"github.com/dgallion1/wikidoc/internal/parser"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "wikidoc",
	Short: "Convert wiki markup into structured documents",
	Long: `wikidoc parses wiki markup into sections, paragraphs, sentences, links,
infoboxes, tables, categories and references.

Input is a file path or "-" for stdin. The summary, links, categories and
infobox commands accept --bounded to use the byte-capped fast pipeline.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./wikidoc.yaml or ~/.config/wikidoc/config.yaml)")
	pf.String("extdata", "", "extended template tables (YAML or JSON)")
	pf.String("title", "", "article title override")
	pf.Int("max-bytes", 0, "bounded pipeline input ceiling (default 4096)")
	pf.Int("max-sentences", 0, "summary sentence count (default 5)")
	pf.Bool("bounded", false, "use the bounded fast pipeline")
	pf.Bool("compact", false, "print JSON on one line")
	_ = viper.BindPFlags(pf)
}

func initConfig() {
	cfgFile := viper.GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("wikidoc")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "wikidoc"))
		}
	}

	viper.SetEnvPrefix("WIKIDOC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newParser builds a parser with the configured extended tables.
func newParser() (*parser.Parser, error) {
	path := viper.GetString("extdata")
	if path == "" {
		return parser.New(nil), nil
	}
	ext, err := extdata.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return parser.New(ext), nil
}

func options() doctree.Options {
	return doctree.Options{
		Title:        viper.GetString("title"),
		MaxBytes:     viper.GetInt("max-bytes"),
		MaxSentences: viper.GetInt("max-sentences"),
	}
}

// readInput reads markup from a file path, or stdin for "-".
func readInput(cmd *cobra.Command, arg string) (string, error) {
	var r io.Reader
	if arg == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(arg)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", arg, err)
	}
	return string(data), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if !viper.GetBool("compact") {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
