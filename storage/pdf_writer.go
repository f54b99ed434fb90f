package storage

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"listing-insights/models"
	"listing-insights/utils"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"euro":    utils.FormatEuro,
	"km":      utils.FormatKilometres,
	"percent": utils.FormatPercent,
}).Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Listing Report</title>
<style>
body { font-family: sans-serif; font-size: 11pt; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #999; padding: 4px 10px; }
td.num { text-align: right; }
p.na { color: #777; }
</style></head><body>
<h2>Seller Types Averages</h2>
{{if .SellerAveragesErr}}<p class="na">{{.SellerAveragesErr}}</p>{{else}}
<table><tr><th>Seller Type</th><th>Average in Euro</th></tr>
{{range .SellerAverages}}<tr><td>{{.Group}}</td><td class="num">{{euro .Average}}</td></tr>
{{end}}</table>{{end}}
<h2>Percentual Distribution of Cars by Make</h2>
{{if .MakeDistributionErr}}<p class="na">{{.MakeDistributionErr}}</p>{{else}}
<table><tr><th>Make</th><th>Distribution</th></tr>
{{range .MakeDistribution}}<tr><td>{{.Group}}</td><td class="num">{{percent .Percentage}}</td></tr>
{{end}}</table>{{end}}
<h2>Average Price of the {{percent .CutoffPercentage}} Most Contacted Listings</h2>
{{if .MostContactedErr}}<p class="na">{{.MostContactedErr}}</p>{{else}}
<table><tr><th>Average Price</th><th>Listings</th></tr>
<tr><td class="num">{{euro .MostContactedAverage}}</td><td class="num">{{.MostContactedListings}}</td></tr></table>{{end}}
<h2>Top {{.TopN}} most contacted listings per Month</h2>
{{if .TopPerMonthErr}}<p class="na">{{.TopPerMonthErr}}</p>{{else}}{{range .TopPerMonth}}
<h3>Month: {{.Month}}</h3>
<table><tr><th>Ranking</th><th>Listing ID</th><th>Make</th><th>Selling Price</th><th>Mileage</th><th>Total Amount of Contacts</th></tr>
{{range .Entries}}<tr><td class="num">{{.Rank}}</td><td>{{.ListingID}}</td><td>{{.Make}}</td><td class="num">{{euro .Price}}</td><td class="num">{{km .Mileage}}</td><td class="num">{{.ContactCount}}</td></tr>
{{end}}</table>{{end}}{{end}}
</body></html>
`))

// RenderHTML renders the report as a standalone HTML document.
func RenderHTML(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("pdf: render html: %w", err)
	}
	return buf.Bytes(), nil
}

// PDFExporter prints the HTML report to PDF with headless Chrome.
type PDFExporter struct {
	path      string
	chromeBin string
	timeout   time.Duration
	logger    *utils.Logger
}

// NewPDFExporter creates an exporter writing to path. An empty chromeBin
// means the binary is searched on PATH and in the usual install locations.
func NewPDFExporter(path, chromeBin string, logger *utils.Logger) *PDFExporter {
	return &PDFExporter{path: path, chromeBin: chromeBin, timeout: 60 * time.Second, logger: logger}
}

func (p *PDFExporter) Export(ctx context.Context, report *models.Report) error {
	html, err := RenderHTML(report)
	if err != nil {
		return err
	}

	chromeBin := p.chromeBin
	if chromeBin == "" {
		chromeBin = FindChromeBinary()
	}
	p.logger.Debug("[pdf] Using browser binary: %q", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	runCtx, cancelTimeout := context.WithTimeout(browserCtx, p.timeout)
	defer cancelTimeout()

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("pdf: chromedp print: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("pdf: create output dir: %w", err)
	}
	if err := os.WriteFile(p.path, pdf, 0644); err != nil {
		return fmt.Errorf("pdf: write %q: %w", p.path, err)
	}
	p.logger.Info("[pdf] Wrote %s (%d bytes)", p.path, len(pdf))
	return nil
}

// FindChromeBinary locates a Chrome or Chromium binary, or returns "".
func FindChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
