package main

import (
	"github.com/spf13/cobra"

	"github.com/pricerhq/takeoff/internal/api"
)

var extractNoLLM bool

var extractCmd = &cobra.Command{
	Use:   "extract <document.json>",
	Short: "Extract line items from one OCR'd document",
	Long: `Extract line items from a single OCR document JSON file.

The input file is the {text, tables} shape produced by the OCR/layout
service. The result is written to stdout in the configured output format.

Examples:
  takeoff extract rfq-117.json
  takeoff extract rfq-117.json --no-llm
  takeoff extract rfq-117.json -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, _, err := buildPipeline(extractNoLLM)
		if err != nil {
			return err
		}

		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}

		result, err := p.Run(cmd.Context(), doc)
		if err != nil {
			return err
		}
		return api.Output(result)
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractNoLLM, "no-llm", false, "skip the LLM pass, table-only extraction")
}
