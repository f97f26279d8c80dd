package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexeyco/simpletable"
	"github.com/codeninja55/go-radx/cmd/radx/internal/config"
)

// RenderOutput writes tags to w in the requested format.
func RenderOutput(tags []DICOMTag, format config.OutputFormat, w io.Writer) error {
	switch format {
	case config.FormatJSON:
		return renderJSON(tags, w)
	case config.FormatTable:
		return renderTable(tags, w)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderJSON(tags []DICOMTag, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tags); err != nil {
		return fmt.Errorf("failed to encode tags as JSON: %w", err)
	}
	return nil
}

func renderTable(tags []DICOMTag, w io.Writer) error {
	table := simpletable.New()

	hasFile := false
	for _, t := range tags {
		if t.File != "" {
			hasFile = true
			break
		}
	}

	headerCells := []*simpletable.Cell{
		{Align: simpletable.AlignCenter, Text: "Tag"},
		{Align: simpletable.AlignCenter, Text: "VR"},
		{Align: simpletable.AlignCenter, Text: "Name"},
		{Align: simpletable.AlignCenter, Text: "Value"},
	}
	if hasFile {
		headerCells = append([]*simpletable.Cell{{Align: simpletable.AlignCenter, Text: "File"}}, headerCells...)
	}
	table.Header = &simpletable.Header{Cells: headerCells}

	for _, t := range tags {
		row := []*simpletable.Cell{
			{Text: t.Tag},
			{Text: t.VR},
			{Text: t.Name},
			{Text: t.Value},
		}
		if hasFile {
			row = append([]*simpletable.Cell{{Text: t.File}}, row...)
		}
		table.Body.Cells = append(table.Body.Cells, row)
	}

	table.SetStyle(simpletable.StyleDefault)
	_, err := fmt.Fprintln(w, table.String())
	return err
}
