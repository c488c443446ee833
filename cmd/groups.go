/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Author: Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package cmd

import (
	"context"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/encode-lookup/config"
	"github.com/wtsi-hgi/encode-lookup/consolidate"
)

// groupsCmd represents the groups command.
var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Show replicate groups.",
	Long: `Show replicate groups.

Takes the same assay and catalog options as the consolidate sub-command, but
instead of writing files, prints a table of the replicate groups that were
found: one line per group, with the number of distinct experiments of each
assay in the group.

Use this to check your inputs pair up as expected before running consolidate.
`,
	Run: func(_ *cobra.Command, _ []string) {
		c, err := config.FromEnv()
		if err != nil {
			die(err)
		}

		if genomeAssembly == "" {
			genomeAssembly = c.GenomeAssembly
		}

		res, err := runPipeline(context.Background(), c)
		if err != nil {
			die(err)
		}

		cliPrintRaw(renderGroups(res))
		cliPrint("\n%d rows in %d replicate groups\n", len(res.Full), len(res.Unique))
	},
}

func init() {
	RootCmd.AddCommand(groupsCmd)

	addInputFlags(groupsCmd)
}

// renderGroups returns a table of the Unique rows of the result.
func renderGroups(res *consolidate.Result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := table.Row{"Group", "Biosample summary", "Stage", "Accessibility experiments"}
	if res.HasMark {
		header = append(header, "H3K27ac experiments")
	}

	tw.AppendHeader(header)

	for _, row := range res.Unique {
		r := table.Row{
			strconv.Itoa(row.Group),
			row.Key.BiosampleSummary,
			row.Accessibility.BiosampleStage,
			strconv.Itoa(row.AccessibilityExperiments),
		}

		if res.HasMark {
			r = append(r, strconv.Itoa(row.MarkExperiments))
		}

		tw.AppendRow(r)
	}

	configs := []table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	}

	if res.HasMark {
		configs = append(configs, table.ColumnConfig{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}

	tw.SetColumnConfigs(configs)

	return tw.Render() + "\n"
}
