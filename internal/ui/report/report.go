// Package report renders consultation results and knowledge-base listings
// for the terminal.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/jurusan/internal/consult"
	"github.com/abhisek/jurusan/internal/inference"
	"github.com/abhisek/jurusan/internal/knowledge"
	"github.com/abhisek/jurusan/internal/store"
	"github.com/abhisek/jurusan/internal/ui/theme"
)

const barWidth = 24

// Outcome writes a consultation result. Details adds every major's
// per-rule and combination values.
func Outcome(w io.Writer, out *consult.Outcome, details bool) {
	res := out.Result
	var b strings.Builder

	if res.Supported() {
		top := res.Top.Major
		b.WriteString(theme.Recommended.Render("Rekomendasi jurusan: "+top.Name) + "  " +
			theme.Label.Render(consult.FormatPercent(res.Top.FinalCF)) + "\n")
		if top.Description != "" {
			b.WriteString(top.Description + "\n")
		}
		if top.Solution != "" {
			b.WriteString("\n" + theme.Label.Render("Saran: ") + top.Solution + "\n")
		}
		if top.Notes != "" {
			b.WriteString(theme.Label.Render("Pilihan kuliah: ") + top.Notes + "\n")
		}
	} else if res.Top != nil {
		b.WriteString(theme.Label.Render("Jurusan teratas: "+res.Top.Major.Name) + "  " +
			theme.Label.Render(consult.FormatPercent(res.Top.FinalCF)) + "\n")
		b.WriteString(theme.Unsupported.Render("Tidak didukung oleh jawaban ini: keyakinannya tidak di atas 0.") + "\n")
	} else {
		b.WriteString(theme.Unsupported.Render("Tidak ada jurusan yang didukung oleh jawaban ini.") + "\n")
	}
	lipgloss.Fprintln(w, theme.Card.Render(strings.TrimRight(b.String(), "\n")))

	lipgloss.Fprintln(w, theme.Title.Render("Peringkat"))
	ranked := res.Ranked()
	nameWidth := 0
	for _, c := range ranked {
		nameWidth = max(nameWidth, lipgloss.Width(c.Major.Name))
	}
	for i, c := range ranked {
		lipgloss.Fprintf(w, "%2d. %-*s  %s  %8s\n",
			i+1, nameWidth, c.Major.Name, theme.Bar(c.FinalCF, barWidth), consult.FormatPercent(c.FinalCF))
	}

	if out.Explanation != nil {
		lipgloss.Fprintln(w)
		lipgloss.Fprintln(w, theme.Title.Render("Penjelasan"))
		lipgloss.Fprintln(w, out.Explanation.String())
	}

	if details {
		lipgloss.Fprintln(w)
		Derivation(w, res.Conclusions)
	}

	lipgloss.Fprintln(w)
	lipgloss.Fprintln(w, theme.Hint.Render(fmt.Sprintf("Konsultasi #%d (%s)", out.ID, out.ConsultationID)))
}

// Derivation writes the per-rule values behind each conclusion.
func Derivation(w io.Writer, conclusions []inference.MajorConclusion) {
	lipgloss.Fprintln(w, theme.Title.Render("Rincian perhitungan"))
	for _, c := range conclusions {
		lipgloss.Fprintln(w, theme.Label.Render(fmt.Sprintf("%s (kode %d)", c.Major.Name, c.Major.Code)))
		lipgloss.Fprintf(w, "  %-9s  %9s  %9s  %9s\n", "Ketentuan", "CF pakar", "CF siswa", "CF aturan")
		for i, r := range c.Rules {
			lipgloss.Fprintf(w, "  %-9d  %9.2f  %9.2f  %9.4f\n", r.Symptom, r.ExpertCF, r.UserCF, c.SingleRuleCF[i])
		}
		if len(c.CombinationCF) > 0 {
			lipgloss.Fprintf(w, "  Kombinasi: %s\n", formatFloats(c.CombinationCF))
		}
		lipgloss.Fprintf(w, "  CF akhir:  %.4f\n", c.FinalCF)
	}
}

// Questions writes the questionnaire: each statement and the answer scale.
func Questions(w io.Writer, symptoms []inference.Symptom) {
	lipgloss.Fprintln(w, theme.Title.Render("Pernyataan"))
	for _, s := range symptoms {
		lipgloss.Fprintf(w, "%3d. %s\n", s.Code, s.Info)
		if s.ImageURL != "" {
			lipgloss.Fprintln(w, "     "+theme.Hint.Render(s.ImageURL))
		}
	}

	lipgloss.Fprintln(w)
	lipgloss.Fprintln(w, theme.Title.Render("Pilihan jawaban"))
	for _, a := range knowledge.AnswerScale {
		lipgloss.Fprintf(w, "  %-8s %-20s %.1f\n", a.Label, a.Text, a.UserCF)
	}
	lipgloss.Fprintln(w)
	lipgloss.Fprintln(w, theme.Hint.Render(`Contoh: jurusan consult --answer 1=yakin --answer 2=0.4 ...`))
}

// KnowledgeBase writes a summary of every major and its rules.
func KnowledgeBase(w io.Writer, kb inference.KnowledgeBase) {
	info := make(map[inference.SymptomCode]string, len(kb.Symptoms))
	for _, s := range kb.Symptoms {
		info[s.Code] = s.Info
	}

	lipgloss.Fprintln(w, theme.Subtitle.Render(
		fmt.Sprintf("%d pernyataan, %d jurusan", len(kb.Symptoms), len(kb.Majors))))
	for _, m := range kb.Majors {
		lipgloss.Fprintln(w)
		lipgloss.Fprintln(w, theme.Title.Render(fmt.Sprintf("%s (kode %d)", m.Name, m.Code)))
		if m.Description != "" {
			lipgloss.Fprintln(w, m.Description)
		}
		for _, r := range m.Rules {
			lipgloss.Fprintf(w, "  %+.2f  %3d. %s\n", r.ExpertCF, r.Symptom, info[r.Symptom])
		}
	}
}

func formatFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%.4f", v)
	}
	return strings.Join(parts, " → ")
}

// History writes one line per stored consultation, newest first.
func History(w io.Writer, records []store.ConsultationRecord) {
	if len(records) == 0 {
		lipgloss.Fprintln(w, theme.Hint.Render("Belum ada konsultasi."))
		return
	}
	lipgloss.Fprintf(w, "%-6s  %-19s  %-12s  %-10s  %9s  %s\n", "ID", "Waktu", "Peminat", "Jurusan", "CF", "Status")
	lipgloss.Fprintln(w, theme.Separator(80))
	for i := range records {
		r := &records[i]
		major, cf := "-", "-"
		if r.MajorName != "" {
			major = r.MajorName
		}
		if r.FinalCF != nil {
			cf = consult.FormatPercent(*r.FinalCF)
		}
		lipgloss.Fprintf(w, "%-6d  %-19s  %-12s  %-10s  %9s  %s\n",
			r.ID, r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(r.Requester, 12), truncate(major, 10), cf, status(r))
	}
}

// Record writes the stored detail of one consultation.
func Record(w io.Writer, r *store.ConsultationRecord) {
	lipgloss.Fprintln(w, theme.Title.Render(fmt.Sprintf("Konsultasi #%d", r.ID)))
	lipgloss.Fprintf(w, "ID:         %s\n", r.ConsultationID)
	lipgloss.Fprintf(w, "Waktu:      %s\n", r.Timestamp.Local().Format("2006-01-02 15:04:05"))
	lipgloss.Fprintf(w, "Peminat:    %s\n", r.Requester)
	lipgloss.Fprintf(w, "Status:     %s\n", status(r))
	lipgloss.Fprintf(w, "Kebijakan:  missing=%s selector=%s\n", r.Audit.MissingEvidence, r.Audit.Selector)
	if r.ErrorMessage != "" {
		lipgloss.Fprintf(w, "Galat:      %s\n", r.ErrorMessage)
	}
	if r.MajorName != "" && r.FinalCF != nil {
		lipgloss.Fprintf(w, "Jurusan:    %s (%s)\n", r.MajorName, consult.FormatPercent(*r.FinalCF))
	}

	lipgloss.Fprintln(w)
	lipgloss.Fprintln(w, theme.Title.Render("Jawaban"))
	codes := make([]int, 0, len(r.Audit.Evidence))
	for code := range r.Audit.Evidence {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		lipgloss.Fprintf(w, "  %3d: %.2f\n", code, r.Audit.Evidence[code])
	}

	if len(r.Audit.Conclusions) > 0 {
		lipgloss.Fprintln(w)
		lipgloss.Fprintln(w, theme.Title.Render("Rincian perhitungan"))
		for _, c := range r.Audit.Conclusions {
			lipgloss.Fprintln(w, theme.Label.Render(fmt.Sprintf("%s (kode %d)", c.MajorName, c.MajorCode)))
			for i := range c.Symptoms {
				lipgloss.Fprintf(w, "  %-9d  %9.2f  %9.2f  %9.4f\n",
					c.Symptoms[i], c.ExpertCF[i], c.UserCF[i], c.SingleRuleCF[i])
			}
			if len(c.CombinationCF) > 0 {
				lipgloss.Fprintf(w, "  Kombinasi: %s\n", formatFloats(c.CombinationCF))
			}
			lipgloss.Fprintf(w, "  CF akhir:  %.4f\n", c.FinalCF)
		}
	}

	if r.Narrative != "" {
		lipgloss.Fprintln(w)
		lipgloss.Fprintln(w, theme.Title.Render("Penjelasan"))
		lipgloss.Fprintln(w, r.Narrative)
	}
}

func status(r *store.ConsultationRecord) string {
	switch {
	case r.Status == store.StatusFailed:
		return theme.Failed.Render("gagal")
	case r.Supported:
		return theme.Recommended.Render("didukung")
	default:
		return theme.Unsupported.Render("tidak didukung")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
