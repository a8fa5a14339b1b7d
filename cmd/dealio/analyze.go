// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/markzm/dealio/internal/analyze"
	"github.com/markzm/dealio/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a URL or rumor for misinformation and bias",
	Long: `Analyze runs the full pipeline once from the terminal: content extraction
for a URL, classification, and article search with fallback. Exactly the
same pipeline the HTTP service runs per submission.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		rumor, _ := cmd.Flags().GetString("rumor")
		output, _ := cmd.Flags().GetString("output")

		cfg := buildConfig()
		analyzer, store, err := newPipeline(cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		resp, err := analyzer.Analyze(context.Background(), url, rumor)
		if err != nil {
			var ue *analyze.UserError
			if errors.As(err, &ue) {
				return fmt.Errorf("%s", ue.Message)
			}
			return err
		}

		return writeResponse(os.Stdout, resp, output)
	},
}

func writeResponse(w io.Writer, resp *types.AggregatedResponse, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "yaml":
		data, err := yaml.Marshal(resp)
		if err != nil {
			return fmt.Errorf("marshaling response: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "table":
		formatTable(w, resp)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json, or yaml)", format)
	}
}

// formatTable writes a human-readable rendition of the response.
func formatTable(w io.Writer, resp *types.AggregatedResponse) {
	a := resp.Analysis
	fmt.Fprintf(w, "Category:  %s\n", a.Category)
	fmt.Fprintf(w, "Bias type: %s\n", a.BiasType)
	fmt.Fprintf(w, "Breakdown: truthful %d%%, misinformation %d%%, bias %d%%\n",
		resp.PieData.Truthful, resp.PieData.Misinformation, resp.PieData.Bias)
	fmt.Fprintf(w, "\n%s\n", a.Reasoning)

	writeArticleList(w, "Supporting articles", resp.Articles)
	writeArticleList(w, "Additional sources", resp.SupplementaryArticles)
}

func writeArticleList(w io.Writer, heading string, list []types.Article) {
	fmt.Fprintf(w, "\n%s:\n", heading)
	if len(list) == 0 {
		fmt.Fprintln(w, "  (none found)")
		return
	}
	for i, art := range list {
		fmt.Fprintf(w, "  %2d. %s - %s - %s - %s\n     %s\n",
			i+1, art.Title, art.Publication, art.Date, art.Author, art.URL)
	}
}

func init() {
	analyzeCmd.Flags().String("url", "", "article URL to fetch and analyze")
	analyzeCmd.Flags().String("rumor", "", "rumor text to analyze")
	analyzeCmd.Flags().String("output", "table", "output format: table, json, or yaml")

	analyzeCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		rumor, _ := cmd.Flags().GetString("rumor")
		if strings.TrimSpace(url) == "" && strings.TrimSpace(rumor) == "" {
			return fmt.Errorf("provide --url or --rumor")
		}
		return nil
	}

	rootCmd.AddCommand(analyzeCmd)
}
