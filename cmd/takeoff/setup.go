package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pricerhq/takeoff/internal/config"
	"github.com/pricerhq/takeoff/internal/document"
	"github.com/pricerhq/takeoff/internal/home"
	"github.com/pricerhq/takeoff/internal/keywords"
	"github.com/pricerhq/takeoff/internal/llmextract"
	"github.com/pricerhq/takeoff/internal/pipeline"
	"github.com/pricerhq/takeoff/internal/providers"
)

// buildPipeline wires config, keywords, and the optional LLM client into a
// ready pipeline. noLLM forces table-only extraction regardless of config.
func buildPipeline(noLLM bool) (*pipeline.Pipeline, *config.Config, *home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, nil, err
	}

	cm, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, nil, nil, err
	}
	cfg := cm.Get()

	kw := keywords.Default()
	switch {
	case cfg.Extraction.KeywordsFile != "":
		kw, err = keywords.LoadFile(cfg.Extraction.KeywordsFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load keywords file: %w", err)
		}
	case h.KeywordsExist():
		kw, err = keywords.LoadFile(h.KeywordsPath())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load keywords file: %w", err)
		}
	}

	var extractor llmextract.Extractor
	if cfg.LLM.Enabled && !noLLM {
		client, err := providers.NewClient(cfg.ClientConfig())
		if err != nil {
			return nil, nil, nil, err
		}
		extractor = llmextract.NewClient(client, llmextract.Config{
			Model:             cfg.LLM.Model,
			Timeout:           time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
			MaxAttempts:       cfg.LLM.MaxRetries,
			RequestsPerMinute: cfg.LLM.RequestsPerMinute,
		}, slog.Default())
	}

	p := pipeline.New(kw, extractor, slog.Default())
	if cfg.Extraction.MinScoreThreshold > 0 {
		p.SetMinScore(cfg.Extraction.MinScoreThreshold)
	}
	return p, cfg, h, nil
}

// readDocument loads an OCR document JSON file.
func readDocument(path string) (document.Document, error) {
	var doc document.Document
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("failed to read document: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to parse document %s: %w", path, err)
	}
	return doc, nil
}
