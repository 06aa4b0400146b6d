package cli

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/dshills/vigil/internal/chunk"
	"github.com/dshills/vigil/internal/config"
	"github.com/dshills/vigil/internal/diff"
	"github.com/dshills/vigil/internal/discover"
	"github.com/dshills/vigil/internal/gitctx"
	"github.com/spf13/cobra"
)

var (
	flagMaxTokens int
	flagChunkRepo string
)

var chunkCmd = &cobra.Command{
	Use:   "chunk [file]",
	Short: "Split a diff into token-bounded chunks",
	Long: "Split a unified diff (from a file or stdin) into chunks whose estimated token cost fits a budget. " +
		"With --repo, every discovered source file is chunked as if newly added.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		maxTokens := cfg.ChunkTokens
		if flagMaxTokens > 0 {
			maxTokens = flagMaxTokens
		}

		var text string
		if flagChunkRepo != "" {
			text, err = repoDiff(cmd, cfg, flagChunkRepo)
		} else {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			text, err = readInput(cmd, path)
		}
		if err != nil {
			fail("%v", err)
			return nil
		}

		chunks := chunk.SplitIntoChunks(diff.Parse(text).Files, maxTokens)
		if chunks == nil {
			chunks = []chunk.DiffChunk{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(chunks); err != nil {
			fail("writing chunks: %v", err)
		}
		return nil
	},
}

// repoDiff renders every discovered file under target as an added file.
func repoDiff(cmd *cobra.Command, cfg config.Config, target string) (string, error) {
	res, err := discover.Discover(cmd.Context(), target, discover.Options{
		MaxFiles:      cfg.MaxFiles,
		MaxFileSizeKB: cfg.MaxFileSizeKB,
		Ignore:        cfg.Exclude,
	})
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, f := range res.Files {
		data, err := os.ReadFile(f.AbsolutePath)
		if err != nil {
			continue
		}
		b.WriteString(gitctx.SyntheticDiff(f.RelativePath, string(data)))
	}
	return b.String(), nil
}

func init() {
	chunkCmd.Flags().IntVar(&flagMaxTokens, "max-tokens", 0, "Token budget per chunk (default: chunkTokens from config)")
	chunkCmd.Flags().StringVar(&flagChunkRepo, "repo", "", "Chunk every source file under this directory instead of a diff")
}
