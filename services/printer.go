package services

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"listing-insights/models"
	"listing-insights/utils"
)

// ConsoleRenderer prints a report as bordered text tables.
type ConsoleRenderer struct {
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	number lipgloss.Style
	muted  lipgloss.Style
}

func NewConsoleRenderer() *ConsoleRenderer {
	cell := lipgloss.NewStyle().Padding(0, 1)
	return &ConsoleRenderer{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
		header: cell.Bold(true).Foreground(lipgloss.Color("3")),
		cell:   cell,
		number: cell.Align(lipgloss.Right),
		muted:  lipgloss.NewStyle().Faint(true),
	}
}

// Render writes the four sections to w in their fixed order.
func (r *ConsoleRenderer) Render(w io.Writer, report *models.Report) error {
	sections := []func(*models.Report) string{
		r.sellerAverages,
		r.makeDistribution,
		r.mostContacted,
		r.topPerMonth,
	}
	for _, section := range sections {
		if _, err := io.WriteString(w, section(report)); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	return nil
}

func (r *ConsoleRenderer) sellerAverages(rep *models.Report) string {
	out := r.heading("Seller Types Averages")
	if rep.SellerAveragesErr != nil {
		return out + r.failure(rep.SellerAveragesErr)
	}
	rows := make([][]string, 0, len(rep.SellerAverages))
	for _, g := range rep.SellerAverages {
		rows = append(rows, []string{groupLabel(g.Group), utils.FormatEuro(g.Average)})
	}
	return out + r.table([]string{"Seller Type", "Average in Euro"}, rows, 1) + "\n"
}

func (r *ConsoleRenderer) makeDistribution(rep *models.Report) string {
	out := r.heading("Percentual Distribution of Cars by Make")
	if rep.MakeDistributionErr != nil {
		return out + r.failure(rep.MakeDistributionErr)
	}
	rows := make([][]string, 0, len(rep.MakeDistribution))
	for _, g := range rep.MakeDistribution {
		rows = append(rows, []string{groupLabel(g.Group), utils.FormatPercent(g.Percentage)})
	}
	return out + r.table([]string{"Make", "Distribution"}, rows, 1) + "\n"
}

func (r *ConsoleRenderer) mostContacted(rep *models.Report) string {
	out := r.heading(fmt.Sprintf("Average Price of the %s Most Contacted Listings", utils.FormatPercent(rep.CutoffPercentage)))
	if rep.MostContactedErr != nil {
		return out + r.failure(rep.MostContactedErr)
	}
	rows := [][]string{{utils.FormatEuro(rep.MostContactedAverage), strconv.Itoa(rep.MostContactedListings)}}
	return out + r.table([]string{"Average Price", "Listings"}, rows, 0) + "\n"
}

func (r *ConsoleRenderer) topPerMonth(rep *models.Report) string {
	out := r.heading(fmt.Sprintf("Top %d most contacted listings per Month", rep.TopN))
	if rep.TopPerMonthErr != nil {
		return out + r.failure(rep.TopPerMonthErr)
	}
	headers := []string{"Ranking", "Listing ID", "Make", "Selling Price", "Mileage", "Total Amount of Contacts"}
	for _, month := range rep.TopPerMonth {
		out += fmt.Sprintf("Month: %s\n", month.Month)
		rows := make([][]string, 0, len(month.Entries))
		for _, e := range month.Entries {
			rows = append(rows, []string{
				strconv.Itoa(e.Rank),
				e.ListingID,
				e.Make,
				utils.FormatEuro(e.Price),
				utils.FormatKilometres(e.Mileage),
				strconv.Itoa(e.ContactCount),
			})
		}
		out += r.table(headers, rows, -1) + "\n\n"
	}
	return out
}

func (r *ConsoleRenderer) heading(s string) string {
	return "\n" + r.title.Render("*** "+s+":") + "\n\n"
}

func (r *ConsoleRenderer) failure(err error) string {
	if errors.Is(err, ErrInsufficientData) {
		return r.muted.Render("  insufficient data") + "\n"
	}
	return r.muted.Render("  unavailable: "+err.Error()) + "\n"
}

// table renders rows under headers. Columns from firstNumeric on are right
// aligned; -1 right-aligns every column except IDs and makes.
func (r *ConsoleRenderer) table(headers []string, rows [][]string, firstNumeric int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return r.header
			case firstNumeric >= 0 && col >= firstNumeric:
				return r.number
			case firstNumeric < 0 && col != 1 && col != 2:
				return r.number
			}
			return r.cell
		})
	return t.Render()
}
