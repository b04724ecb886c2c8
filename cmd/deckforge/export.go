package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/logger"
	"github.com/lvillar/deckforge/studio"
)

func exportCommand() *cobra.Command {
	var (
		format  string
		profile string
		output  string
		style   styleFlags
	)
	cmd := &cobra.Command{
		Use:   "export [document.json]",
		Short: "Export a document as PDF or PPTX",
		Long: `Export a document file, or the working document when no file is given.
Projects saved by the original editor are converted on the fly. The
artifact is named after the document title unless --output is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			doc, err := loadExportDocument(a, args)
			if err != nil {
				return err
			}
			f := a.format
			if profile != "" {
				if f, err = geom.ParseFormat(profile); err != nil {
					return err
				}
			}
			style.apply(a)

			var data []byte
			switch format {
			case "pdf":
				data, err = exportPDF(ctx, a, doc, f, cmd.ErrOrStderr())
			case "pptx":
				data, err = exportPPTX(ctx, a, doc, f, cmd.ErrOrStderr())
			default:
				return fmt.Errorf("unknown format %q: want pdf or pptx", format)
			}
			if err != nil {
				return err
			}

			if output == "" {
				output = studio.FileName(doc, format)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d pages, %d bytes)\n", output, len(doc.Pages), len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "artifact format: pdf or pptx")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "output format: a4, 16:9 or 9:16 (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "artifact path (default: <title>.<format>)")
	style.register(cmd)
	return cmd
}

func loadExportDocument(a *app, args []string) (*document.Document, error) {
	if len(args) == 0 {
		doc := a.ws.Document()
		if doc == nil {
			return nil, fmt.Errorf("%w: run generate first or pass a document file", studio.ErrNoDocument)
		}
		return doc, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, err
	}
	if document.IsLegacy(data) {
		return document.ParseLegacy(data)
	}
	return document.Parse(data)
}

// exportPDF runs a session and reports its progress on w until it ends.
// Ending ctx aborts the session.
func exportPDF(ctx context.Context, a *app, doc *document.Document, f geom.Format, w io.Writer) ([]byte, error) {
	profile, err := geom.DocumentProfile(f)
	if err != nil {
		return nil, err
	}
	s := a.pdf.Start(ctx, doc, a.ws.Style(), profile)

	tick := time.NewTicker(250 * time.Millisecond)
	defer tick.Stop()
	cancelled := ctx.Done()
	for {
		select {
		case <-tick.C:
			p := s.Progress()
			fmt.Fprintf(w, "\r%-10s page %d/%d", p.State, p.Completed, p.Total)
		case <-cancelled:
			s.Abort()
			cancelled = nil
		case <-s.Done():
			fmt.Fprintln(w)
			data, _, err := s.Result()
			if err == nil {
				a.log.Info("pdf exported", logger.String("session", s.ID), logger.Duration("elapsed", s.Elapsed()))
			}
			return data, err
		}
	}
}

func exportPPTX(ctx context.Context, a *app, doc *document.Document, f geom.Format, w io.Writer) ([]byte, error) {
	profile, err := geom.SlideProfile(f)
	if err != nil {
		return nil, err
	}
	data, res, err := a.deck.Build(ctx, doc, a.ws.Style(), profile)
	if err != nil {
		return nil, err
	}
	for _, tag := range res.Placeholders {
		fmt.Fprintf(w, "placeholder slide for unknown template %q\n", tag)
	}
	if n := len(res.ImageFailures); n > 0 {
		fmt.Fprintf(w, "%d images were unavailable and drawn as placeholders\n", n)
	}
	return data, nil
}
