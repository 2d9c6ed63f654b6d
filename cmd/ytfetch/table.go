package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ytget/ytfetch/internal/model"
)

func renderTable(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderSummary lists what a request produced
func renderSummary(req model.Request, result model.Result) string {
	status := "failed"
	if result.OK() {
		status = "ok"
	}
	audio := "-"
	switch {
	case result.HasAudio():
		audio = result.AudioPath
	case req.ExtractAudio && result.OK():
		audio = "extraction failed"
	case !req.ExtractAudio:
		audio = "not requested"
	}
	video := result.VideoPath
	if video == "" {
		video = "-"
	}
	downloader := result.Strategy
	if downloader == "" {
		downloader = "-"
	}

	return renderTable(
		[]string{"Field", "Value"},
		[][]string{
			{"Status", status},
			{"Downloader", downloader},
			{"Resolution", req.Resolution.String()},
			{"Video", video},
			{"Audio", audio},
		},
	)
}
