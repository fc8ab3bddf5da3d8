package cmd

import (
	"fmt"
	"os"

	"github.com/gkassa/agentlab/internal/agentlab/config"
	"github.com/gkassa/agentlab/internal/agentlab/vector"
	"github.com/spf13/cobra"
)

var (
	simK    int
	simDocs []string
)

// Built-in demo corpus used when no --doc flags are given.
var (
	defaultSimilarityDocs = []string{
		"Gemini Flash is a fast, cost-efficient model for high-volume tasks.",
		"Llama 3 is an open-weight model family served by Groq at low latency.",
		"Embeddings map text into vectors so similar meanings land close together.",
	}
	defaultSimilarityMetadata = []map[string]string{
		{"topic": "models"},
		{"topic": "models"},
		{"topic": "embeddings"},
	}
)

// similarityCmd represents the similarity command
var similarityCmd = &cobra.Command{
	Use:   "similarity [query]",
	Short: "Rank documents by embedding similarity to a query",
	Long: `Embed a small document set and a query, and print the documents
ranked by cosine distance to the query, closest first.

By default a built-in three-document demo corpus is used. Pass --doc
one or more times to rank your own documents instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		docs := simDocs
		var metadatas []map[string]string
		if len(docs) == 0 {
			docs = defaultSimilarityDocs
			metadatas = defaultSimilarityMetadata
		}

		embedder := newEmbedder(cfg)
		if verbose {
			fmt.Fprintf(os.Stderr, "Embedding %d documents with %s\n", len(docs), cfg.EmbeddingModel)
		}

		index, err := vector.Ingest(embedder, docs, metadatas)
		if err != nil {
			return fmt.Errorf("building index: %w", err)
		}

		results, err := index.Query(args[0], simK)
		if err != nil {
			return fmt.Errorf("querying index: %w", err)
		}

		for i, result := range results {
			fmt.Printf("%d. distance=%.4f  %s\n", i+1, result.Distance, result.Chunk.Text)
			for key, value := range result.Chunk.Metadata {
				fmt.Printf("   %s: %s\n", key, value)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(similarityCmd)

	similarityCmd.Flags().IntVarP(&simK, "k", "k", 2, "Number of results to return")
	similarityCmd.Flags().StringArrayVar(&simDocs, "doc", []string{}, "Document to index (repeatable; replaces the demo corpus)")
}
