package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/homescout/homescout/internal/api/client"
	"github.com/homescout/homescout/pkg/matchscore"
	domain "github.com/homescout/homescout/pkg/types"
)

// tabWriter wraps tabwriter with sticky error tracking so table printers
// can emit rows without checking every write.
type tabWriter struct {
	w   *tabwriter.Writer
	err error
}

func newTabWriter() *tabWriter {
	return &tabWriter{w: tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)}
}

func (t *tabWriter) writef(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *tabWriter) finish() error {
	if t.err != nil {
		return t.err
	}
	return t.w.Flush()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}

func formatIntPtr(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}

func printSearchTable(searches []domain.SavedSearch) error {
	t := newTabWriter()
	t.writef("ID\tBUYER\tNAME\tENABLED\tLAST RUN\n")
	for i := range searches {
		s := &searches[i]
		t.writef("%s\t%s\t%s\t%t\t%s\n",
			s.ID, s.BuyerID, truncate(s.Name, 40), s.Enabled, formatTimePtr(s.LastRunAt))
	}
	return t.finish()
}

func printSearchDetail(s *domain.SavedSearch) error {
	t := newTabWriter()
	t.writef("ID:\t%s\n", s.ID)
	t.writef("Buyer:\t%s\n", s.BuyerID)
	t.writef("Name:\t%s\n", s.Name)
	t.writef("Enabled:\t%t\n", s.Enabled)
	t.writef("Criteria:\t%s\n", formatCriteria(&s.Criteria))
	t.writef("Last run:\t%s\n", formatTimePtr(s.LastRunAt))
	t.writef("Created:\t%s\n", formatTime(s.CreatedAt))
	return t.finish()
}

func formatCriteria(c *domain.SearchCriteria) string {
	var parts []string
	if c.MinPrice != nil {
		parts = append(parts, fmt.Sprintf("price >= %.0f", *c.MinPrice))
	}
	if c.MaxPrice != nil {
		parts = append(parts, fmt.Sprintf("price <= %.0f", *c.MaxPrice))
	}
	if c.MinBedrooms != nil {
		parts = append(parts, fmt.Sprintf("beds >= %d", *c.MinBedrooms))
	}
	if c.MinBathrooms != nil {
		parts = append(parts, fmt.Sprintf("baths >= %.1f", *c.MinBathrooms))
	}
	if len(c.Cities) > 0 {
		parts = append(parts, "cities "+strings.Join(c.Cities, "|"))
	}
	if len(c.Features) > 0 {
		parts = append(parts, "features "+strings.Join(c.Features, "+"))
	}
	if len(parts) == 0 {
		return "(any)"
	}
	return strings.Join(parts, ", ")
}

func printListingTable(listings []domain.Listing) error {
	t := newTabWriter()
	t.writef("ID\tCITY\tPRICE\tBEDS\tTYPE\tSTATUS\tTITLE\n")
	for i := range listings {
		l := &listings[i]
		t.writef("%s\t%s\t%.0f\t%s\t%s\t%s\t%s\n",
			l.ID, l.City, l.Price, formatIntPtr(l.Bedrooms),
			l.PropertyType, l.Status, truncate(l.Title, 40))
	}
	return t.finish()
}

func printListingDetail(l *domain.Listing) error {
	t := newTabWriter()
	t.writef("ID:\t%s\n", l.ID)
	t.writef("Agent:\t%s\n", l.AgentID)
	t.writef("Title:\t%s\n", l.Title)
	t.writef("Address:\t%s, %s, %s %s\n", l.Address, l.City, l.State, l.Zip)
	t.writef("Price:\t%.0f\n", l.Price)
	t.writef("Bedrooms:\t%s\n", formatIntPtr(l.Bedrooms))
	if l.Bathrooms != nil {
		t.writef("Bathrooms:\t%.1f\n", *l.Bathrooms)
	} else {
		t.writef("Bathrooms:\t-\n")
	}
	t.writef("Sqft:\t%s\n", formatIntPtr(l.Sqft))
	t.writef("Type:\t%s\n", l.PropertyType)
	t.writef("Status:\t%s\n", l.Status)
	t.writef("Features:\t%s\n", strings.Join(l.Features, ", "))
	t.writef("Updated:\t%s\n", formatTime(l.UpdatedAt))
	return t.finish()
}

func printAlertTable(alerts []domain.Alert) error {
	t := newTabWriter()
	t.writef("ID\tSEARCH\tLISTINGS\tNOTIFIED\tCREATED\n")
	for i := range alerts {
		a := &alerts[i]
		t.writef("%s\t%s\t%d\t%t\t%s\n",
			a.ID, a.SavedSearchID, len(a.NewListingIDs), a.Notified, formatTime(a.CreatedAt))
	}
	return t.finish()
}

func printJobRunTable(runs []domain.JobRun) error {
	t := newTabWriter()
	t.writef("JOB\tSTATUS\tSTARTED\tCOMPLETED\tERROR\n")
	for i := range runs {
		r := &runs[i]
		t.writef("%s\t%s\t%s\t%s\t%s\n",
			r.JobName, r.Status, formatTime(r.StartedAt),
			formatTimePtr(r.CompletedAt), truncate(r.ErrorText, 60))
	}
	return t.finish()
}

func printViewSummary(listingID, window string, s *domain.ViewSummary) error {
	t := newTabWriter()
	t.writef("Listing:\t%s\n", listingID)
	if window != "" {
		t.writef("Window:\t%s\n", window)
	}
	t.writef("Views:\t%d\n", s.ViewCount)
	t.writef("Unique viewers:\t%d\n", s.UniqueViewers)
	t.writef("Total time:\t%ds\n", s.TotalTime)
	t.writef("Avg duration:\t%.1fs\n", s.AvgDuration)
	t.writef("Avg images viewed:\t%.1f\n", s.AvgImagesViewed)
	t.writef("Last viewed:\t%s\n", formatTimePtr(s.LastViewed))
	return t.finish()
}

func printEngagement(e *client.BuyerEngagement) error {
	t := newTabWriter()
	t.writef("Buyer session:\t%s\n", e.BuyerSessionID)
	t.writef("Listing:\t%s\n", e.ListingID)
	t.writef("Score:\t%d\n", e.Score)
	t.writef("Views:\t%d\n", e.Summary.ViewCount)
	t.writef("Total time:\t%ds\n", e.Summary.TotalTime)
	t.writef("Last viewed:\t%s\n", formatTimePtr(e.Summary.LastViewed))
	return t.finish()
}

func printBreakdown(b *matchscore.Breakdown) error {
	t := newTabWriter()
	t.writef("COMPONENT\tPOINTS\n")
	t.writef("price\t%.1f\n", b.Price)
	t.writef("rooms\t%.1f\n", b.Rooms)
	t.writef("location\t%.1f\n", b.Location)
	t.writef("features\t%.1f\n", b.Features)
	t.writef("total\t%d\n", b.Total)
	return t.finish()
}
