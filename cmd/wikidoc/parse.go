package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/wikidoc/internal/chunker"
	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/parser"
	"github.com/dgallion1/wikidoc/internal/render"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file|->",
	Short: "Parse markup into a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := parseInput(cmd, args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, doc)
	},
}

var renderCmd = &cobra.Command{
	Use:   "render <file|->",
	Short: "Render markup as markdown, text or html",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("format")
		format, err := render.ParseFormat(name)
		if err != nil {
			return err
		}
		doc, err := parseInput(cmd, args[0])
		if err != nil {
			return err
		}
		out, err := render.Render(doc, format)
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	},
}

var chunkCmd = &cobra.Command{
	Use:   "chunk <file|->",
	Short: "Split a parsed document into embedding-sized chunks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := parseInput(cmd, args[0])
		if err != nil {
			return err
		}
		cfg := chunker.DefaultConfig()
		if n, _ := cmd.Flags().GetInt("chunk-size"); n > 0 {
			cfg.ChunkSize = n
		}
		if n, _ := cmd.Flags().GetInt("overlap"); n > 0 {
			cfg.ChunkOverlap = n
		}
		if n, _ := cmd.Flags().GetInt("min-chunk"); n > 0 {
			cfg.MinChunk = n
		}
		return printJSON(cmd, chunker.ChunkDocument(doc, cfg))
	},
}

func init() {
	renderCmd.Flags().String("format", "markdown", "output format: markdown, text or html")
	chunkCmd.Flags().Int("chunk-size", 0, "target chunk size in tokens (default 1500)")
	chunkCmd.Flags().Int("overlap", 0, "overlap between split chunks in tokens (default 200)")
	chunkCmd.Flags().Int("min-chunk", 0, "drop chunks below this many tokens (default 100)")

	rootCmd.AddCommand(parseCmd, renderCmd, chunkCmd)
	for _, e := range extractCommands {
		rootCmd.AddCommand(e.command())
	}
}

func parseInput(cmd *cobra.Command, arg string) (*doctree.Document, error) {
	markup, err := readInput(cmd, arg)
	if err != nil {
		return nil, err
	}
	p, err := newParser()
	if err != nil {
		return nil, err
	}
	return p.Parse(markup, options())
}

// extractCommand is one of the Extractor operations exposed as a subcommand.
type extractCommand struct {
	name  string
	short string
	run   func(e parser.Extractor, markup string, opts doctree.Options) (any, error)
}

var extractCommands = []extractCommand{
	{"summary", "Print the lead summary", func(e parser.Extractor, m string, o doctree.Options) (any, error) { return e.Summary(m, o) }},
	{"links", "Print the links in order", func(e parser.Extractor, m string, o doctree.Options) (any, error) { return e.Links(m, o) }},
	{"categories", "Print the category names", func(e parser.Extractor, m string, o doctree.Options) (any, error) { return e.Categories(m, o) }},
	{"infobox", "Print the first infobox", func(e parser.Extractor, m string, o doctree.Options) (any, error) { return e.Infobox(m, o) }},
}

func (e extractCommand) command() *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <file|->", e.name),
		Short: e.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markup, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			p, err := newParser()
			if err != nil {
				return err
			}
			res, err := e.run(p.ForBudget(viper.GetBool("bounded")), markup, options())
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}
