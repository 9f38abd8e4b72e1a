package report

import (
	"fmt"
	"io"

	"github.com/unidoc/unipdf/v3/creator"
	"github.com/unidoc/unipdf/v3/model"
	"questlog/internal/game"
	"questlog/internal/tracker"
)

// WritePDF renders the progress report as a PDF document.
func WritePDF(w io.Writer, g *game.Game, milestones []game.Milestone, notes []game.Note, ins tracker.Insights) error {
	c := creator.New()
	c.SetPageMargins(50, 50, 50, 50)

	regular, err := model.NewStandard14Font(model.HelveticaName)
	if err != nil {
		return err
	}
	bold, err := model.NewStandard14Font(model.HelveticaBoldName)
	if err != nil {
		return err
	}

	title := c.NewParagraph(fmt.Sprintf("Progress Report: %s", g.Title))
	title.SetFont(bold)
	title.SetFontSize(18)
	title.SetMargins(0, 0, 0, 8)
	if err := c.Draw(title); err != nil {
		return err
	}

	summary := c.NewParagraph(fmt.Sprintf(
		"Platform: %s    Progress: %.0f%%    Time remaining: %s    Recent notes: %d",
		orDash(g.Platform), tracker.Progress(milestones),
		formatMinutes(ins.EstimatedTimeRemaining), ins.RecentActivity))
	summary.SetFont(regular)
	summary.SetFontSize(10)
	summary.SetMargins(0, 0, 0, 14)
	if err := c.Draw(summary); err != nil {
		return err
	}

	catHeader := c.NewParagraph("Milestones by category")
	catHeader.SetFont(bold)
	catHeader.SetFontSize(12)
	catHeader.SetMargins(0, 0, 0, 6)
	if err := c.Draw(catHeader); err != nil {
		return err
	}

	table := c.NewTable(3)
	table.SetMargins(0, 0, 0, 14)
	addCell := func(text string, font *model.PdfFont) {
		p := c.NewParagraph(text)
		p.SetFont(font)
		p.SetFontSize(10)
		cell := table.NewCell()
		cell.SetBorder(creator.CellBorderSideAll, creator.CellBorderStyleSingle, 0.5)
		cell.SetContent(p)
	}
	addCell("Category", bold)
	addCell("Completed", bold)
	addCell("Total", bold)
	for _, cat := range sortedCategories(ins.ByCategory) {
		t := ins.ByCategory[cat]
		addCell(string(cat), regular)
		addCell(fmt.Sprintf("%d", t.Completed), regular)
		addCell(fmt.Sprintf("%d", t.Total), regular)
	}
	if err := c.Draw(table); err != nil {
		return err
	}

	msHeader := c.NewParagraph("Milestones")
	msHeader.SetFont(bold)
	msHeader.SetFontSize(12)
	msHeader.SetMargins(0, 0, 0, 6)
	if err := c.Draw(msHeader); err != nil {
		return err
	}
	for _, m := range milestones {
		mark := "incomplete"
		if m.Completed {
			mark = "done"
		}
		line := c.NewParagraph(fmt.Sprintf("- %s  [%s]  (%s, %s)", m.Title, mark, m.Category, m.Difficulty))
		line.SetFont(regular)
		line.SetFontSize(10)
		line.SetMargins(8, 0, 0, 2)
		if err := c.Draw(line); err != nil {
			return err
		}
	}

	notesHeader := c.NewParagraph("Recent notes")
	notesHeader.SetFont(bold)
	notesHeader.SetFontSize(12)
	notesHeader.SetMargins(0, 0, 12, 6)
	if err := c.Draw(notesHeader); err != nil {
		return err
	}
	for _, n := range latestNotes(notes, 10) {
		line := c.NewParagraph(fmt.Sprintf("%s  %s", n.Date.Format("2006-01-02"), n.Text))
		line.SetFont(regular)
		line.SetFontSize(10)
		line.SetMargins(8, 0, 0, 2)
		if err := c.Draw(line); err != nil {
			return err
		}
	}

	return c.Write(w)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
