package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bwise1/love_map/internal/gachapon"
	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/internal/placestore"
	"github.com/bwise1/love_map/internal/timeline"
)

// textPresenter prints dispatch results and store notifications as plain
// text.
type textPresenter struct {
	out io.Writer
	err io.Writer
}

func newTextPresenter(out, errOut io.Writer) *textPresenter {
	return &textPresenter{out: out, err: errOut}
}

func typeLabel(t model.PlaceType) string {
	switch t {
	case model.Heart:
		return "want to go"
	case model.Paw:
		return "visited"
	}
	return string(t)
}

func stars(rating int) string {
	if rating <= 0 {
		return "-"
	}
	return strings.Repeat("*", rating)
}

func (p *textPresenter) Places(places []model.Place) {
	if len(places) == 0 {
		fmt.Fprintln(p.out, "no places yet")
		return
	}
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tNAME\tCATEGORY\tRATING\tLAT\tLNG")
	for _, pl := range places {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.5f\t%.5f\n",
			pl.ID, typeLabel(pl.Type), pl.Name, pl.Category, stars(pl.Rating), pl.Lat, pl.Lng)
	}
	_ = tw.Flush()
}

func (p *textPresenter) Place(pl model.Place) {
	fmt.Fprintf(p.out, "#%d %s (%s, %s)\n", pl.ID, pl.Name, typeLabel(pl.Type), pl.Category)
	fmt.Fprintf(p.out, "  at %.5f, %.5f  rating %s\n", pl.Lat, pl.Lng, stars(pl.Rating))
	if pl.Note != "" {
		fmt.Fprintf(p.out, "  note: %s\n", strings.ReplaceAll(pl.Note, "\n", "\n        "))
	}
	if pl.VisitedAt != nil {
		fmt.Fprintf(p.out, "  visited %s\n", pl.VisitedAt.Format("2006-01-02"))
	}
	if pl.PhotoURL != "" {
		fmt.Fprintf(p.out, "  photo: %s\n", pl.PhotoURL)
	}
}

func (p *textPresenter) Pick(res gachapon.Result) {
	if res.Empty {
		fmt.Fprintln(p.out, "nothing on the wish list matches, add some hearts first")
		return
	}
	fmt.Fprintln(p.out, "today's pick:")
	p.Place(res.Place)
}

func (p *textPresenter) Stats(s model.Stats) {
	fmt.Fprintf(p.out, "want to go: %d  visited: %d  completion: %d%%\n", s.HeartCount, s.PawCount, s.CompletionRate)
}

func (p *textPresenter) Timeline(t timeline.Timeline) {
	if t.Empty {
		fmt.Fprintln(p.out, "no footprints yet")
		return
	}
	for _, pl := range t.Entries {
		fmt.Fprintf(p.out, "%s  %-10s  %s\n", pl.CreatedAt.Local().Format("2006-01-02 15:04"), typeLabel(pl.Type), pl.Name)
	}
}

func (p *textPresenter) Outcome(action string, o placestore.Outcome) {
	if o == placestore.Degraded {
		fmt.Fprintf(p.err, "%s: saved on this device only\n", action)
	}
}

func (p *textPresenter) LoginRequired(err error) {
	fmt.Fprintf(p.err, "login required (%v), run: lovemap login\n", err)
}

func (p *textPresenter) Error(err error) {
	fmt.Fprintf(p.err, "error: %v\n", err)
}

// Notify implements placestore.Notifier.
func (p *textPresenter) Notify(msg string, sev placestore.Severity) {
	w := p.out
	if sev == placestore.SeverityWarning || sev == placestore.SeverityError {
		w = p.err
	}
	fmt.Fprintf(w, "[%s] %s\n", sev, msg)
}
