package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/amithrb/jobfinder/internal/adapter/ai/openai"
	"github.com/amithrb/jobfinder/internal/adapter/observability"
	"github.com/amithrb/jobfinder/internal/adapter/search/tavily"
	"github.com/amithrb/jobfinder/internal/adapter/source/csvfile"
	tikaext "github.com/amithrb/jobfinder/internal/adapter/textextractor/tika"
	"github.com/amithrb/jobfinder/internal/adapter/vector/memory"
	"github.com/amithrb/jobfinder/internal/config"
	"github.com/amithrb/jobfinder/internal/domain"
	"github.com/amithrb/jobfinder/internal/match"
	"github.com/amithrb/jobfinder/internal/profile"
	"github.com/amithrb/jobfinder/internal/rag"
	"github.com/amithrb/jobfinder/internal/taxonomy"
	"github.com/amithrb/jobfinder/internal/usecase"
)

var rankFlags struct {
	resume   string
	postings string
	query    string
	location string
	domains  []string
	output   string
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank postings from a file or live search against a resume",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRank(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVarP(&rankFlags.resume, "resume", "r", "", "resume file (.txt, or .pdf/.docx with a Tika server configured)")
	rankCmd.Flags().StringVarP(&rankFlags.postings, "postings", "p", "", "postings file (.csv or .json); mutually exclusive with --query")
	rankCmd.Flags().StringVarP(&rankFlags.query, "query", "q", "", "live search query (requires TAVILY_API_KEY)")
	rankCmd.Flags().StringVarP(&rankFlags.location, "location", "l", "", "location filter, case-insensitive substring")
	rankCmd.Flags().StringSliceVarP(&rankFlags.domains, "domains", "d", nil, "allowed posting domains, e.g. naukri.com")
	rankCmd.Flags().StringVarP(&rankFlags.output, "output", "o", "", "CSV output path (default stdout)")
	_ = rankCmd.MarkFlagRequired("resume")
}

func runRank(ctx context.Context) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(observability.SetupLogger(cfg))

	if (rankFlags.postings == "") == (rankFlags.query == "") {
		return fmt.Errorf("exactly one of --postings or --query must be set")
	}

	text, err := readResume(ctx, cfg, rankFlags.resume)
	if err != nil {
		return fmt.Errorf("reading resume: %w", err)
	}

	engine := rag.NewEngine(openai.New(cfg), memory.New(), cfg.ChunkSize, cfg.ChunkOverlap,
		rag.WithBatchSize(cfg.EmbedBatchSize), rag.WithTopK(cfg.RetrieveTopK))

	tax := taxonomy.Default()
	if cfg.TaxonomyPath != "" {
		if tax, err = taxonomy.LoadFile(cfg.TaxonomyPath); err != nil {
			return err
		}
	}

	session := usecase.NewSession(engine, tax, profile.Parse)
	if err := session.Ingest(ctx, text, filepath.Base(rankFlags.resume)); err != nil {
		return fmt.Errorf("indexing resume: %w", err)
	}

	postings, err := loadPostings(ctx, cfg)
	if err != nil {
		return err
	}
	slog.Info("postings loaded", slog.Int("count", len(postings)))

	ranked, diag, err := session.Rank(ctx, postings, rankFlags.location, rankFlags.domains)
	if err != nil {
		return err
	}
	slog.Info("ranking complete",
		slog.Int("initial", diag.Initial),
		slog.Int("kept", diag.Kept),
		slog.Int("dropped_location", diag.DroppedLocation),
		slog.Int("dropped_domain", diag.DroppedDomain),
		slog.Int("dropped_experience", diag.DroppedExperience),
		slog.Int("dropped_duplicate", diag.DroppedDuplicate))

	out := os.Stdout
	if rankFlags.output != "" {
		f, err := os.Create(rankFlags.output)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	return match.WriteCSV(out, ranked)
}

// readResume loads the resume text. Plain text files are read directly;
// anything else goes through the Tika server.
func readResume(ctx context.Context, cfg config.Config, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return string(data), nil
	}
	return tikaext.New(cfg.TikaURL).Extract(ctx, filepath.Base(path), data)
}

func loadPostings(ctx context.Context, cfg config.Config) ([]domain.RawPosting, error) {
	if rankFlags.query != "" {
		if cfg.TavilyAPIKey == "" {
			return nil, fmt.Errorf("%w: TAVILY_API_KEY required for --query", domain.ErrInvalidArgument)
		}
		src := tavily.New(cfg.TavilyBaseURL, cfg.TavilyAPIKey)
		return src.Search(ctx, rankFlags.query, cfg.SearchMaxResults, rankFlags.domains)
	}
	switch strings.ToLower(filepath.Ext(rankFlags.postings)) {
	case ".csv":
		return csvfile.Load(rankFlags.postings)
	case ".json":
		data, err := os.ReadFile(rankFlags.postings)
		if err != nil {
			return nil, err
		}
		var out []domain.RawPosting
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("%w: postings json: %v", domain.ErrParse, err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: postings file must be .csv or .json", domain.ErrInvalidArgument)
}
