// Package dispatch turns user intents into store operations and hands the
// results to a presenter.
package dispatch

import (
	"context"
	"fmt"

	"github.com/bwise1/love_map/internal/apperr"
	"github.com/bwise1/love_map/internal/filter"
	"github.com/bwise1/love_map/internal/gachapon"
	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/internal/placestore"
	"github.com/bwise1/love_map/internal/stats"
	"github.com/bwise1/love_map/internal/timeline"
)

// Command is one of the typed commands below.
type Command interface {
	command()
}

type LoadPlaces struct{}

type CreatePlace struct {
	Draft model.PlaceDraft
	// KeepLocally stores the place on this device when the server is
	// unreachable.
	KeepLocally bool
}

type UpdatePlace struct {
	ID     int64
	Fields model.PlaceUpdate
}

type MarkVisited struct {
	ID    int64
	Visit model.VisitInput
}

type DeletePlace struct {
	ID int64
}

// SelectRandom draws a wish-list place. Region is "all", "current_city" or a
// preset name. Category may be "all".
type SelectRandom struct {
	Region   string
	Category model.Category
}

type ListPlaces struct {
	Type model.PlaceType // empty lists everything
}

type FocusPlace struct {
	ID int64
}

type ShowStats struct{}

type ShowTimeline struct{}

func (LoadPlaces) command()   {}
func (CreatePlace) command()  {}
func (UpdatePlace) command()  {}
func (MarkVisited) command()  {}
func (DeletePlace) command()  {}
func (SelectRandom) command() {}
func (ListPlaces) command()   {}
func (FocusPlace) command()   {}
func (ShowStats) command()    {}
func (ShowTimeline) command() {}

// Presenter renders results. Implementations decide how things look.
type Presenter interface {
	Places(places []model.Place)
	Place(p model.Place)
	Pick(res gachapon.Result)
	Stats(s model.Stats)
	Timeline(t timeline.Timeline)
	Outcome(action string, o placestore.Outcome)
	// LoginRequired is called instead of Error for authentication failures.
	LoginRequired(err error)
	Error(err error)
}

type Dispatcher struct {
	store     *placestore.Store
	picker    *gachapon.Picker
	viewport  filter.Viewport
	presenter Presenter
}

func New(store *placestore.Store, picker *gachapon.Picker, viewport filter.Viewport, presenter Presenter) *Dispatcher {
	if picker == nil {
		picker = gachapon.NewPicker()
	}
	return &Dispatcher{store: store, picker: picker, viewport: viewport, presenter: presenter}
}

// Refresh re-renders the derived views. It is meant to be registered as the
// store's recompute hook.
func (d *Dispatcher) Refresh(snapshot []model.Place) {
	d.presenter.Stats(stats.Compute(snapshot))
	d.presenter.Timeline(timeline.Project(snapshot))
}

// Dispatch runs cmd. Errors are also reported to the presenter.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) error {
	err := d.run(ctx, cmd)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindAuth {
			d.presenter.LoginRequired(err)
		} else {
			d.presenter.Error(err)
		}
	}
	return err
}

func (d *Dispatcher) run(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case LoadPlaces:
		o, err := d.store.Load(ctx)
		if err != nil {
			return err
		}
		d.presenter.Outcome("load", o)
		d.presenter.Places(d.store.Snapshot())
		return nil

	case CreatePlace:
		p, err := d.store.Create(ctx, c.Draft)
		if err != nil {
			if !c.KeepLocally || apperr.KindOf(err) != apperr.KindTransport {
				return err
			}
			if p, err = d.store.CreateLocal(c.Draft); err != nil {
				return err
			}
			d.presenter.Outcome("create", placestore.Degraded)
		} else {
			d.presenter.Outcome("create", placestore.Synced)
		}
		d.presenter.Place(p)
		return nil

	case UpdatePlace:
		o, err := d.store.Update(ctx, c.ID, c.Fields)
		if err != nil {
			return err
		}
		return d.showUpdated("update", c.ID, o)

	case MarkVisited:
		o, err := d.store.ConvertToVisited(ctx, c.ID, c.Visit)
		if err != nil {
			return err
		}
		return d.showUpdated("visit", c.ID, o)

	case DeletePlace:
		d.presenter.Outcome("delete", d.store.Delete(ctx, c.ID))
		return nil

	case SelectRandom:
		box, err := filter.Region(c.Region, d.viewport)
		if err != nil {
			return apperr.Validation(err.Error())
		}
		candidates := filter.Apply(d.store.Snapshot(), filter.Criteria{
			Box:      box,
			Category: c.Category,
			Scope:    filter.ScopeWishList,
		})
		d.presenter.Pick(d.picker.Pick(candidates))
		return nil

	case ListPlaces:
		snap := d.store.Snapshot()
		if c.Type != "" {
			snap = filter.ByType(snap, c.Type)
		}
		d.presenter.Places(snap)
		return nil

	case FocusPlace:
		p, ok := d.store.Get(c.ID)
		if !ok {
			return apperr.NotFoundf("place %d not found", c.ID)
		}
		d.presenter.Place(p)
		return nil

	case ShowStats:
		d.presenter.Stats(stats.Compute(d.store.Snapshot()))
		return nil

	case ShowTimeline:
		d.presenter.Timeline(timeline.Project(d.store.Snapshot()))
		return nil
	}
	return fmt.Errorf("unknown command %T", cmd)
}

func (d *Dispatcher) showUpdated(action string, id int64, o placestore.Outcome) error {
	d.presenter.Outcome(action, o)
	if p, ok := d.store.Get(id); ok {
		d.presenter.Place(p)
	}
	return nil
}
