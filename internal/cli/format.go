package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/apa7/internal/pipeline"
)

func newFormatCmd(a *app) *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "format <input.docx> <output.docx>",
		Short: "Apply APA7 rules to a converted document",
		Long: `Format post-processes a DOCX produced by pandoc:
- Table borders: top, below the header row and bottom only
- First-line indent for body paragraphs, none after headings,
  in the abstract, or on table/figure labels, notes and keywords
- Hanging indent for reference list entries
- Heading anchors inserted by pandoc are removed

Fails without writing output when the document lacks a required style.

Example:
  apa7 format paper_raw.docx paper.docx`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline()
			if err != nil {
				return err
			}

			report, err := p.Format(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			pipeline.NewRenderer(cmd.OutOrStdout()).RenderReport(report)

			if reportPath != "" {
				return pipeline.WriteJSON(report, reportPath, cmd.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&reportPath, "report", "", "write the formatting report as JSON to this path (- for stdout)")
	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "batch <input-dir> <output-dir>",
		Short: "Format every converted document in a directory",
		Long: `Batch applies the APA7 rules to every .docx directly inside input-dir
and writes the results, under the same names, to output-dir. Documents are
formatted in parallel; a failing document does not stop the others.

Example:
  apa7 batch converted/ final/
  apa7 batch converted/ final/ --workers 8 --report batch.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline()
			if err != nil {
				return err
			}

			items, err := p.FormatBatch(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			pipeline.NewRenderer(cmd.OutOrStdout()).RenderBatch(items)

			if reportPath != "" {
				if err := pipeline.WriteJSON(items, reportPath, cmd.OutOrStdout()); err != nil {
					return err
				}
			}

			failed := 0
			for _, it := range items {
				if it.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(items))
			}
			return nil
		},
	}
	cmd.Flags().IntP("workers", "j", 0, "parallel workers (default: batch.workers)")
	cmd.Flags().StringVar(&reportPath, "report", "", "write all reports as JSON to this path (- for stdout)")
	cobra.CheckErr(a.v.BindPFlag("batch.workers", cmd.Flags().Lookup("workers")))
	return cmd
}
