package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvillar/deckforge/ai"
	"github.com/lvillar/deckforge/ingest"
	"github.com/lvillar/deckforge/logger"
)

type styleFlags struct {
	font, palette, vibe string
}

func (f *styleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.font, "font", "", "font: inter, serif or tech")
	cmd.Flags().StringVar(&f.palette, "palette", "", "palette: corporate, forest, sunset or dark")
	cmd.Flags().StringVar(&f.vibe, "vibe", "", "free-form mood passed to the generator")
}

// apply overrides the workspace style with the flags that were set.
func (f *styleFlags) apply(a *app) {
	s := a.ws.Style()
	if f.font != "" {
		s.Font = f.font
	}
	if f.palette != "" {
		s.Palette = f.palette
	}
	if f.vibe != "" {
		s.Vibe = f.vibe
	}
	a.ws.SetStyle(s)
}

func generateCommand() *cobra.Command {
	var (
		output string
		check  bool
		style  styleFlags
	)
	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Generate a document from a text, markdown, HTML or .docx file",
		Long: `Generate a structured document from raw text with the configured provider.
Standard input is read when the file is "-" or omitted. The result becomes
the working document that export and serve pick up.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if check {
				if err := ai.Ping(ctx, a.ws.Generator()); err != nil {
					return fmt.Errorf("provider check: %w", err)
				}
			}

			src, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			style.apply(a)

			doc, err := a.ws.Generate(ctx, src.Text)
			if err != nil {
				return err
			}
			a.log.Info("document generated",
				logger.String("source", src.Name),
				logger.String("title", doc.Title()),
				logger.Int("pages", len(doc.Pages)))

			data, err := doc.Marshal()
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the document JSON here instead of stdout")
	cmd.Flags().BoolVar(&check, "check", false, "test the provider connection first")
	style.register(cmd)
	return cmd
}

func readInput(args []string, stdin io.Reader) (*ingest.Source, error) {
	if len(args) == 0 || args[0] == "-" {
		return ingest.Read("stdin.txt", stdin)
	}
	return ingest.File(args[0])
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
