package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"tally/internal/core"
	"tally/internal/report"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Today      string
		Categories []string
	}{
		Today:      time.Now().Format(dateLayout),
		Categories: s.categories,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleBalances renders the current bank, cash, and combined balances.
// Each request recomputes them from the full transaction history.
func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	agg, _ := s.reports(r)

	type entry struct {
		Label  string
		Amount string
		Neg    bool
	}
	var data struct {
		Balances []entry
	}
	for _, src := range []struct {
		label string
		src   core.Source
	}{
		{"Bank", core.SourceBank},
		{"Cash", core.SourceCash},
		{"Total", core.SourceCombined},
	} {
		bal, err := agg.Balance(r.Context(), src.src)
		if err != nil {
			slog.ErrorContext(r.Context(), "Balance error", "error", err, "source", string(src.src))
			_, _ = w.Write([]byte(`<section id="balances" class="balances"><div class="placeholder">Error loading balances</div></section>`))
			return
		}
		data.Balances = append(data.Balances, entry{
			Label:  src.label,
			Amount: formatEuros(bal.Cents),
			Neg:    bal.Cents < 0,
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="balances" class="balances"><div class="placeholder">Total: ` + data.Balances[2].Amount + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "balances.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "balances.html")
		_, _ = w.Write([]byte(`<section id="balances" class="balances"><div class="placeholder">Error rendering balances</div></section>`))
	}
}

// handleCategories renders per-category totals over a date range. Future
// months inside the range carry the active fixed costs as expected
// entries.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	agg, _ := s.reports(r)

	src := ParseSourceParam(r.URL.Query())
	rng := ParseRangeParams(r.URL.Query(), time.Now())

	totals, err := agg.ByCategory(r.Context(), src, rng.From, rng.To)
	if err != nil {
		slog.ErrorContext(r.Context(), "Category totals error", "error", err, "source", string(src))
		_, _ = w.Write([]byte(`<section id="categories" class="categories"><div class="placeholder">Error loading categories</div></section>`))
		return
	}
	sorted := report.SortedCategories(totals)

	var maxCents int64
	for _, c := range sorted {
		if abs := absCents(c.Total.Cents); abs > maxCents {
			maxCents = abs
		}
	}

	type row struct {
		Name, Amount string
		Neg          bool
		Width        int
	}
	data := struct {
		Source string
		From   string
		To     string
		Rows   []row
	}{
		Source: string(src),
		From:   rng.From.Format(dateLayout),
		To:     rng.To.Format(dateLayout),
	}
	for _, c := range sorted {
		abs := absCents(c.Total.Cents)
		width := 0
		if maxCents > 0 && abs > 0 {
			width = int((abs*100 + maxCents/2) / maxCents) // rounded percent
			if width > 0 && width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.Rows = append(data.Rows, row{
			Name:   template.HTMLEscapeString(c.Category),
			Amount: formatEuros(c.Total.Cents),
			Neg:    c.Total.Cents < 0,
			Width:  width,
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="categories" class="categories"><div class="placeholder">` + template.HTMLEscapeString(data.Source) + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "categories.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "categories.html")
		_, _ = w.Write([]byte(`<section id="categories" class="categories"><div class="placeholder">Error rendering categories</div></section>`))
	}
}

// handleTrend renders the chronological month-by-month totals table.
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	agg, _ := s.reports(r)

	src := ParseSourceParam(r.URL.Query())
	rows, err := agg.MonthlyTotals(r.Context(), src)
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly totals error", "error", err, "source", string(src))
		_, _ = w.Write([]byte(`<section id="trend" class="trend"><div class="placeholder">Error loading trend</div></section>`))
		return
	}

	type row struct {
		Month   string
		Income  string
		Expense string
		Net     string
		NegNet  bool
	}
	data := struct {
		Source string
		Rows   []row
	}{Source: string(src)}
	for _, m := range rows {
		net := m.Income.Cents - m.Expense.Cents
		data.Rows = append(data.Rows, row{
			Month:   m.Month.String(),
			Income:  formatEuros(m.Income.Cents),
			Expense: formatEuros(m.Expense.Cents),
			Net:     formatEuros(net),
			NegNet:  net < 0,
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="trend" class="trend"><div class="placeholder">` + template.HTMLEscapeString(data.Source) + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "trend.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "trend.html")
		_, _ = w.Write([]byte(`<section id="trend" class="trend"><div class="placeholder">Error rendering trend</div></section>`))
	}
}

// handleProjection renders next month's extrapolated totals together
// with the per-category breakdown.
func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, proj := s.reports(r)

	p, err := proj.ProjectNextMonth(r.Context(), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Projection error", "error", err)
		_, _ = w.Write([]byte(`<section id="projection" class="projection"><div class="placeholder">Error loading projection</div></section>`))
		return
	}
	byCat, err := proj.ProjectByCategory(r.Context(), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category projection error", "error", err)
		_, _ = w.Write([]byte(`<section id="projection" class="projection"><div class="placeholder">Error loading projection</div></section>`))
		return
	}

	net := p.Income.Cents - p.Expense.Cents
	type row struct {
		Name, Income, Expense string
	}
	data := struct {
		Month   string
		Income  string
		Expense string
		Net     string
		NegNet  bool
		Rows    []row
	}{
		Month:   p.Month.String(),
		Income:  formatEuros(p.Income.Cents),
		Expense: formatEuros(p.Expense.Cents),
		Net:     formatEuros(net),
		NegNet:  net < 0,
	}
	for _, c := range byCat {
		data.Rows = append(data.Rows, row{
			Name:    template.HTMLEscapeString(c.Category),
			Income:  formatEuros(c.Income.Cents),
			Expense: formatEuros(c.Expense.Cents),
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="projection" class="projection"><div class="placeholder">Net: ` + data.Net + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "projection.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "projection.html")
		_, _ = w.Write([]byte(`<section id="projection" class="projection"><div class="placeholder">Error rendering projection</div></section>`))
	}
}

func absCents(c int64) int64 {
	if c < 0 {
		return -c
	}
	return c
}
