package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/apa7/internal/convert"
	"github.com/ppiankov/apa7/internal/pipeline"
)

func newTemplateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "template [path]",
		Short: "Generate the APA7 style template",
		Long: `Generate the reference document pandoc copies styles from.

The template is regenerated only when the formatting rules change; unchanged
rules reuse the cached copy. The path defaults to paths.template
(reference.docx).

Example:
  apa7 template
  apa7 template styles/apa7.docx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Paths.Template
			if len(args) == 1 {
				path = args[0]
			}

			p, err := a.pipeline()
			if err != nil {
				return err
			}
			if err := p.WriteTemplate(cmd.Context(), path); err != nil {
				return err
			}

			pipeline.NewRenderer(cmd.OutOrStdout()).RenderTemplate(path)
			return nil
		},
	}
}

func newPDFCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pdf",
		Short: "Convert paper.md to paper.pdf",
		Long: `Convert the markdown paper in the current directory to PDF with pandoc.

Reads paths.markdown (paper.md) and writes paths.pdf (paper.pdf).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.build(cmd, "", convert.TargetPDF)
		},
	}
}

func newDOCXCmd(a *app) *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "docx",
		Short: "Convert paper.md to an APA7-formatted paper.docx",
		Long: `Convert the markdown paper in the current directory to DOCX and apply
the APA7 post-processing rules.

The style template is generated first when it does not exist. Reads
paths.markdown (paper.md) and writes paths.docx (paper.docx).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.build(cmd, reportPath, convert.TargetDOCX)
		},
	}
	cmd.Flags().StringVar(&reportPath, "report", "", "write the formatting report as JSON to this path (- for stdout)")
	return cmd
}

func newBuildCmd(a *app) *cobra.Command {
	var (
		target     string
		watch      bool
		reportPath string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the whole pipeline, optionally on every change",
		Long: `Build runs template generation, conversion and formatting for one or
both outputs. With --watch it keeps running and rebuilds whenever paper.md
changes; failed builds are reported and watching continues.

Example:
  apa7 build
  apa7 build --target all
  apa7 build --target pdf --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := parseTargets(target)
			if err != nil {
				return err
			}

			if !watch {
				return a.build(cmd, reportPath, targets...)
			}

			p, err := a.pipeline()
			if err != nil {
				return err
			}
			r := pipeline.NewRenderer(cmd.OutOrStdout())
			return p.Watch(cmd.Context(), func(res *pipeline.Result, err error) {
				if err != nil {
					r.RenderError(err)
					return
				}
				r.RenderResult(res)
			}, targets...)
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "docx", "output to build: pdf, docx or all")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild when the markdown file changes")
	cmd.Flags().StringVar(&reportPath, "report", "", "write the formatting report as JSON to this path (- for stdout)")
	return cmd
}

func parseTargets(s string) ([]convert.Target, error) {
	switch s {
	case "pdf":
		return []convert.Target{convert.TargetPDF}, nil
	case "docx":
		return []convert.Target{convert.TargetDOCX}, nil
	case "all":
		return []convert.Target{convert.TargetPDF, convert.TargetDOCX}, nil
	default:
		return nil, fmt.Errorf("unknown target %q (use pdf, docx or all)", s)
	}
}

// build runs the targets in order and stops at the first failure.
func (a *app) build(cmd *cobra.Command, reportPath string, targets ...convert.Target) error {
	p, err := a.pipeline()
	if err != nil {
		return err
	}
	r := pipeline.NewRenderer(cmd.OutOrStdout())

	for _, target := range targets {
		res, err := p.Build(cmd.Context(), target)
		if err != nil {
			return err
		}
		r.RenderResult(res)

		if reportPath != "" && res.Report != nil {
			if err := pipeline.WriteJSON(res.Report, reportPath, cmd.OutOrStdout()); err != nil {
				return err
			}
		}
	}
	return nil
}
