package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/wikidoc/internal/render"
	"github.com/dgallion1/wikidoc/internal/source"
)

const defaultUserAgent = "wikidoc-cli/1.0"

var fetchCmd = &cobra.Command{
	Use:   "fetch <title>",
	Short: "Fetch an article by title and print a view of it",
	Long: `Fetch reads an article from the MediaWiki API, or from a local SQLite
store when --db is set, and prints it. --view selects document (default),
summary, links, categories, infobox, markdown, text, html or raw.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: bindFlags,
	RunE:    runFetch,
}

var importCmd = &cobra.Command{
	Use:     "import <title> <file|->",
	Short:   "Store article markup in the local SQLite store",
	Args:    cobra.ExactArgs(2),
	PreRunE: bindFlags,
	RunE:    runImport,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of wikidoc",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wikidoc %s\n", version)
	},
}

func init() {
	fetchCmd.Flags().String("lang", "en", "article language")
	fetchCmd.Flags().String("api-url", source.DefaultAPIURL, "MediaWiki action API endpoint; {lang} is substituted")
	fetchCmd.Flags().String("db", "", "read from this SQLite store instead of the API")
	fetchCmd.Flags().Bool("save", false, "write API results into the --save-db store")
	fetchCmd.Flags().String("save-db", "articles.db", "store used by --save")
	fetchCmd.Flags().String("user-agent", defaultUserAgent, "HTTP User-Agent")
	fetchCmd.Flags().String("view", "document", "output view")
	fetchCmd.Flags().Duration("timeout", 30*time.Second, "overall timeout")

	importCmd.Flags().String("lang", "en", "article language")
	importCmd.Flags().String("db", "articles.db", "SQLite store path")

	rootCmd.AddCommand(fetchCmd, importCmd, versionCmd)
}

// bindFlags binds the running command's local flags to viper so they can
// also be set through WIKIDOC_* variables or the config file.
func bindFlags(cmd *cobra.Command, args []string) error {
	return viper.BindPFlags(cmd.LocalFlags())
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	ctx, cancel = context.WithTimeout(ctx, viper.GetDuration("timeout"))
	defer cancel()

	fetcher, closeFn, err := openFetcher(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	article, err := fetcher.Fetch(ctx, args[0], viper.GetString("lang"))
	if err != nil {
		return err
	}
	return printView(cmd, article, viper.GetString("view"))
}

func openFetcher(ctx context.Context) (source.Fetcher, func(), error) {
	if db := viper.GetString("db"); db != "" {
		store, err := source.OpenStore(ctx, db)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	client := source.NewAPIClient(viper.GetString("api-url"), viper.GetString("user-agent"))
	if !viper.GetBool("save") {
		return client, client.Close, nil
	}
	store, err := source.OpenStore(ctx, viper.GetString("save-db"))
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return &source.Cached{Upstream: client, Store: store}, func() {
		client.Close()
		store.Close()
	}, nil
}

func printView(cmd *cobra.Command, article *source.Article, view string) error {
	if view == "raw" {
		_, err := io.WriteString(cmd.OutOrStdout(), article.Wikitext)
		return err
	}
	p, err := newParser()
	if err != nil {
		return err
	}
	opts := options()
	if opts.Title == "" {
		opts.Title = article.Title
	}
	e := p.ForBudget(viper.GetBool("bounded"))
	var res any
	switch view {
	case "", "document":
		res, err = p.Parse(article.Wikitext, opts)
	case "summary":
		res, err = e.Summary(article.Wikitext, opts)
	case "links":
		res, err = e.Links(article.Wikitext, opts)
	case "categories":
		res, err = e.Categories(article.Wikitext, opts)
	case "infobox":
		res, err = e.Infobox(article.Wikitext, opts)
	default:
		format, ferr := render.ParseFormat(view)
		if ferr != nil {
			return ferr
		}
		doc, perr := p.Parse(article.Wikitext, opts)
		if perr != nil {
			return perr
		}
		out, rerr := render.Render(doc, format)
		if rerr != nil {
			return rerr
		}
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	}
	if err != nil {
		return err
	}
	return printJSON(cmd, res)
}

func runImport(cmd *cobra.Command, args []string) error {
	markup, err := readInput(cmd, args[1])
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	store, err := source.OpenStore(ctx, viper.GetString("db"))
	if err != nil {
		return err
	}
	defer store.Close()
	a := source.Article{Title: args[0], Lang: viper.GetString("lang"), Wikitext: markup}
	if err := store.Put(ctx, a); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%s, %s)\n",
		source.NormalizeTitle(args[0]), source.NormalizeLang(a.Lang), humanize.Bytes(uint64(len(markup))))
	return nil
}
