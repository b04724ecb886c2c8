package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/templates"
)

func templatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the page templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Tag", "Name", "Slide", "Description"})
			for _, d := range templates.MustDefault().Definitions() {
				slide := "native"
				if d.Native == nil {
					slide = "placeholder"
				}
				t.AppendRow(table.Row{d.Tag, d.Name, slide, d.Description})
			}
			t.Render()
			return nil
		},
	}
}

func profilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the output formats with their page and slide sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Format", "Profile", "Orientation", "PDF page", "Slide", "Render width"})
			for _, f := range geom.Formats() {
				doc, err := geom.DocumentProfile(f)
				if err != nil {
					return err
				}
				slide, err := geom.SlideProfile(f)
				if err != nil {
					return err
				}
				t.AppendRow(table.Row{
					f,
					doc.Name,
					doc.Orientation,
					size(doc),
					size(slide),
					fmt.Sprintf("%g px", doc.RenderWidth),
				})
			}
			t.Render()
			return nil
		},
	}
}

func size(p geom.Profile) string {
	return fmt.Sprintf("%.2f x %.2f %s", p.Width, p.Height, p.Unit)
}
