package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pricerhq/takeoff/internal/api"
	"github.com/pricerhq/takeoff/internal/batch"
)

var batchNoLLM bool

// batchSummary is the per-document outcome reported to stdout.
type batchSummary struct {
	Name        string  `json:"name"`
	LineItems   int     `json:"line_items"`
	Confidence  float64 `json:"confidence"`
	NeedsReview bool    `json:"needs_review"`
	ResultFile  string  `json:"result_file,omitempty"`
	Error       string  `json:"error,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Extract line items from a directory of OCR'd documents",
	Long: `Process every *.json document in a directory concurrently.

Full extraction results are written to the results directory under the
takeoff home; a per-document summary is written to stdout.

Examples:
  takeoff batch ./inbox
  takeoff batch ./inbox --no-llm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, cfg, h, err := buildPipeline(batchNoLLM)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		paths, err := filepath.Glob(filepath.Join(args[0], "*.json"))
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no *.json documents in %s", args[0])
		}

		var jobs []batch.Job
		summaries := make([]batchSummary, len(paths))
		for i, path := range paths {
			name := strings.TrimSuffix(filepath.Base(path), ".json")
			summaries[i] = batchSummary{Name: name}

			doc, err := readDocument(path)
			if err != nil {
				summaries[i].Error = err.Error()
				continue
			}
			jobs = append(jobs, batch.Job{Index: i, Name: name, Doc: doc})
		}

		pool := batch.NewPool(batch.PoolConfig{
			Workers: cfg.Batch.Workers,
			Runner:  p,
			Logger:  slog.Default(),
		})
		for _, res := range pool.Process(cmd.Context(), jobs) {
			s := &summaries[res.Index]
			if res.Err != nil {
				s.Error = res.Err.Error()
				continue
			}
			if res.Result == nil {
				continue
			}
			s.LineItems = len(res.Result.LineItems)
			s.Confidence = res.Result.Confidence
			s.NeedsReview = res.Result.NeedsReview

			out := h.ResultPath(res.Name)
			data, err := json.MarshalIndent(res.Result, "", "  ")
			if err != nil {
				s.Error = err.Error()
				continue
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				s.Error = err.Error()
				continue
			}
			s.ResultFile = out
		}

		return api.Output(summaries)
	},
}

func init() {
	batchCmd.Flags().BoolVar(&batchNoLLM, "no-llm", false, "skip the LLM pass, table-only extraction")
}
