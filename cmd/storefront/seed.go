package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/storefront/internal/domain"
	lessonrepo "github.com/kailas-cloud/storefront/internal/repository/lesson"
	lessonuc "github.com/kailas-cloud/storefront/internal/usecase/lesson"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert lessons from a YAML or JSON file into the lessons collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		docs, err := loadSeedFile(seedFile)
		if err != nil {
			return err
		}

		cfg, logger, _, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx := cmd.Context()
		store, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := seed(ctx, lessonuc.New(lessonrepo.New(store, cfg.Storage.Lessons)), docs)
		if err != nil {
			return err
		}

		logger.Info("Lessons seeded",
			zap.String("file", seedFile),
			zap.String("collection", cfg.Storage.Lessons),
			zap.Int("count", n),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %d lessons into %s\n", n, cfg.Storage.Lessons)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "config/seed/lessons.yaml", "Lessons file (YAML or JSON list)")
	rootCmd.AddCommand(seedCmd)
}

type seeder interface {
	Seed(ctx context.Context, docs []domain.Document) (int, error)
}

func seed(ctx context.Context, s seeder, docs []domain.Document) (int, error) {
	n, err := s.Seed(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("seed lessons: %w", err)
	}
	return n, nil
}

// loadSeedFile reads a list of lessons. JSON input is accepted since it parses as YAML.
func loadSeedFile(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	docs := make([]domain.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, domain.FromMap(m))
	}
	return docs, nil
}
