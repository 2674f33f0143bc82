package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
)

const commandTimeout = 10 * time.Minute

func newIngestCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file.pdf>...",
		Short: "Extract, chunk and index PDF documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			bar := c.ui.ProgressBar(len(args), "Ingesting")
			results := make([]*domain.IngestionResult, 0, len(args))
			var failed []string
			for _, path := range args {
				name := filepath.Base(path)
				bar.Describe(name)
				result, err := a.Pipeline.Ingest(ctx, path, name)
				bar.Add(1)
				if err != nil {
					c.logger.Error().Err(err).Str("path", path).Msg("Ingestion failed")
					failed = append(failed, name)
					continue
				}
				results = append(results, result)
			}
			bar.Finish()

			if c.outputJSON {
				out := make([]map[string]any, 0, len(results))
				for _, r := range results {
					out = append(out, map[string]any{
						"document_id": r.DocumentID,
						"filename":    r.Filename,
						"pages":       r.Pages,
						"chunks":      r.Chunks,
						"status":      r.Status(),
						"duration":    r.Duration.String(),
					})
				}
				if err := c.ui.JSON(out); err != nil {
					return err
				}
			} else {
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					rows = append(rows, []string{r.Filename, r.DocumentID, strconv.Itoa(r.Pages), strconv.Itoa(r.Chunks), r.Status()})
					if !r.Indexed {
						c.ui.Warning("%s was processed but not indexed", r.Filename)
					}
				}
				if len(rows) > 0 {
					c.ui.Table([]string{"FILE", "DOCUMENT ID", "PAGES", "CHUNKS", "STATUS"}, rows)
				}
			}

			if len(failed) > 0 {
				return fmt.Errorf("%d of %d files failed: %s", len(failed), len(args), strings.Join(failed, ", "))
			}
			c.ui.Success("Ingested %d file(s)", len(results))
			return nil
		},
	}
}

func newDocumentsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "documents",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			docs, err := a.Gateway.ListDocuments(cmd.Context())
			if err != nil {
				return fmt.Errorf("list documents: %w", err)
			}
			if c.outputJSON {
				return c.ui.JSON(docs)
			}
			if len(docs) == 0 {
				c.ui.Info("No documents found")
				return nil
			}
			rows := make([][]string, len(docs))
			for i, d := range docs {
				rows[i] = []string{d.DocumentID, d.Filename}
			}
			c.ui.Table([]string{"DOCUMENT ID", "FILENAME"}, rows)
			return nil
		},
	}
}

func newAnalyzeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <document-id>",
		Short: "Show the finance, sustainability and chemistry analysis of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			s := c.ui.Spinner("Analysing document")
			analysis, err := a.Analyze(ctx, args[0])
			s.Stop()
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("document %s not found", args[0])
			}
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}

			if c.outputJSON {
				return c.ui.JSON(analysis)
			}
			printPerspective(c.ui, "Finance", analysis.Finance)
			printPerspective(c.ui, "Sustainability", analysis.Sustainability)
			printPerspective(c.ui, "Chemistry", analysis.Chemistry)
			c.ui.Info("Graph: %d nodes, %d links", len(analysis.GraphData.Nodes), len(analysis.GraphData.Links))
			return nil
		},
	}
}

func printPerspective(ui *UI, title string, result domain.PerspectiveResult) {
	ui.Section(title)
	keys := make([]string, 0, len(result))
	for k := range result {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ui.Text(fmt.Sprintf("%s: %s", k, formatValue(result[k])))
	}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, "; ")
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = formatValue(e)
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + formatValue(t[k])
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}

func newAskCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <document-id> <question>",
		Short: "Ask a question about a document",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			question := strings.Join(args[1:], " ")
			s := c.ui.Spinner("Thinking")
			answer, err := a.Assistant.Answer(ctx, args[0], question, nil)
			s.Stop()
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			if c.outputJSON {
				return c.ui.JSON(answer)
			}
			c.ui.Text(answer.Answer)
			if len(answer.Sources) > 0 {
				c.ui.Section("Sources")
				for i, src := range answer.Sources {
					c.ui.Text(fmt.Sprintf("%d. %s", i+1, src))
				}
			}
			return nil
		},
	}
}

func newSearchCmd(c *cli) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the stored literature",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be positive")
			}
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			s := c.ui.Spinner("Searching")
			results := a.Gateway.SearchLiterature(cmd.Context(), strings.Join(args, " "), limit)
			s.Stop()

			if c.outputJSON {
				return c.ui.JSON(results)
			}
			if len(results) == 0 {
				c.ui.Info("No results")
				return nil
			}
			rows := make([][]string, len(results))
			for i, r := range results {
				rows[i] = []string{strconv.FormatFloat(r.Score, 'f', 3, 64), r.Filename, domain.Truncate(r.Content, 60)}
			}
			c.ui.Table([]string{"SCORE", "FILENAME", "CONTENT"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "maximum number of results")
	return cmd
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.outputJSON {
				return c.ui.JSON(map[string]string{"version": version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dataroom-cli %s\n", version)
			return nil
		},
	}
}
