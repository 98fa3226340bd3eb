/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command collexport exports a document collection to JSON lines, one
// record per line, paging through the collection so arbitrarily large
// collections export in bounded memory.
//
// Credentials and the project id come from the environment (a .env file
// is honored when present); the export itself is described by a small
// YAML config:
//
//	collection: tasks
//	page-size: 200
//	order-by: id
//	output: tasks.jsonl
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/suparena/firekit"
	"github.com/suparena/firekit/datastore"
	"github.com/suparena/firekit/datastore/fsdb"
	"github.com/suparena/firekit/storagemodels"
)

var (
	configFlag  = flag.String("config", "collexport.yaml", "Path to the export config")
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
)

type exportConfig struct {
	Collection string `yaml:"collection"`
	PageSize   int    `yaml:"page-size"`
	OrderBy    string `yaml:"order-by"`
	Output     string `yaml:"output"`
}

func loadConfig(path string) (exportConfig, error) {
	cfg := exportConfig{PageSize: 100}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Collection == "" {
		return cfg, fmt.Errorf("config %s: collection is required", path)
	}
	if cfg.PageSize <= 0 {
		return cfg, fmt.Errorf("config %s: page-size must be positive", path)
	}
	return cfg, nil
}

func main() {
	flag.Parse()

	if *versionFlag || *vFlag {
		info := firekit.GetVersionInfo()
		fmt.Printf("Firekit collexport version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// A missing .env is fine; the variables may already be exported.
	_ = godotenv.Load()

	if err := run(context.Background(), log); err != nil {
		log.WithError(err).Fatal("export failed")
	}
}

func run(ctx context.Context, log *logrus.Logger) error {
	cfg, err := loadConfig(*configFlag)
	if err != nil {
		return err
	}

	projectID := os.Getenv("FIREKIT_PROJECT_ID")
	if projectID == "" {
		return fmt.Errorf("FIREKIT_PROJECT_ID is not set")
	}

	backend, err := fsdb.New(ctx, projectID)
	if err != nil {
		return fmt.Errorf("connect to project %s: %w", projectID, err)
	}
	store := firekit.New(backend)
	defer store.Close()

	out := os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	log.WithFields(logrus.Fields{
		"collection": cfg.Collection,
		"pageSize":   cfg.PageSize,
	}).Info("starting export")

	n, err := export(ctx, store, cfg, out)
	if err != nil {
		return err
	}
	log.WithField("records", n).Info("export complete")
	return nil
}

// export walks the collection page by page and writes each record as one
// JSON line. Records pass through undecoded so the export is schema-free.
func export(ctx context.Context, store *firekit.Store, cfg exportConfig, out *os.File) (int, error) {
	identity := func(record map[string]any) (map[string]any, error) {
		return record, nil
	}
	orderBy := func(q datastore.Query) datastore.Query {
		if cfg.OrderBy == "" {
			return q
		}
		return q.OrderBy(cfg.OrderBy, datastore.Ascending)
	}

	enc := json.NewEncoder(out)
	total := 0
	var cursor datastore.Document
	for {
		opts := []storagemodels.Option{storagemodels.WithQuery(orderBy)}
		if cursor != nil {
			opts = append(opts, storagemodels.WithStartAfter(cursor))
		}
		page, err := firekit.FetchPage(ctx, store, cfg.Collection, identity, cfg.PageSize, opts...)
		if err != nil {
			return total, fmt.Errorf("fetch page after %d records: %w", total, err)
		}
		for _, record := range page.Items {
			if err := enc.Encode(record); err != nil {
				return total, fmt.Errorf("write record: %w", err)
			}
			total++
		}
		if !page.HasMore {
			return total, nil
		}
		cursor = page.Cursor
	}
}
