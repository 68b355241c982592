package model

import (
	"time"

	"github.com/google/uuid"
)

type PlaceType string

const (
	Heart PlaceType = "heart" // want to go
	Paw   PlaceType = "paw"   // visited
)

func (t PlaceType) Valid() bool {
	return t == Heart || t == Paw
}

type Category string

const (
	CategoryChinese  Category = "chinese"
	CategoryJapanese Category = "japanese"
	CategoryKorean   Category = "korean"
	CategoryWestern  Category = "western"
	CategoryHotpot   Category = "hotpot"
	CategoryBBQ      Category = "bbq"
	CategoryDessert  Category = "dessert"
	CategoryCafe     Category = "cafe"
	CategoryFastfood Category = "fastfood"
	CategoryOther    Category = "other"

	// CategoryAll is a filter value only. It is never stored on a place.
	CategoryAll Category = "all"
)

var Categories = []Category{
	CategoryChinese, CategoryJapanese, CategoryKorean, CategoryWestern, CategoryHotpot,
	CategoryBBQ, CategoryDessert, CategoryCafe, CategoryFastfood, CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// OrDefault maps the empty category to CategoryOther.
func (c Category) OrDefault() Category {
	if c == "" {
		return CategoryOther
	}
	return c
}

const (
	DefaultPlaceName = "Unnamed place"
	MaxRating        = 5
)

type Place struct {
	ID        int64      `json:"id"`
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	Type      PlaceType  `json:"type"`
	Name      string     `json:"name"`
	Note      string     `json:"note"`
	Rating    int        `json:"rating"`
	Category  Category   `json:"category"`
	PhotoURL  string     `json:"photo_url,omitempty"`
	CreatedBy string     `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	VisitedAt *time.Time `json:"visited_at,omitempty"`
}

// PlaceDraft is a place that has not been assigned an id yet.
type PlaceDraft struct {
	ClientKey uuid.UUID `json:"-"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Type      PlaceType `json:"type"`
	Name      string    `json:"name"`
	Note      string    `json:"note"`
	Rating    int       `json:"rating"`
	Category  Category  `json:"category"`
}

// Normalize applies the defaults every new place gets: a name, a category and
// a rating clamped to 0..5 that is always 0 for a heart.
func (d PlaceDraft) Normalize() PlaceDraft {
	if d.Name == "" {
		d.Name = DefaultPlaceName
	}
	d.Category = d.Category.OrDefault()
	d.Rating = ClampRating(d.Type, d.Rating)
	return d
}

// Place builds the stored form of the draft.
func (d PlaceDraft) Place(id int64, createdBy string, createdAt time.Time) Place {
	return Place{
		ID:        id,
		Lat:       d.Lat,
		Lng:       d.Lng,
		Type:      d.Type,
		Name:      d.Name,
		Note:      d.Note,
		Rating:    d.Rating,
		Category:  d.Category,
		CreatedBy: createdBy,
		CreatedAt: createdAt,
	}
}

func ClampRating(t PlaceType, rating int) int {
	if t != Paw || rating < 0 {
		return 0
	}
	if rating > MaxRating {
		return MaxRating
	}
	return rating
}

// PlaceUpdate carries a partial update. Nil fields are left untouched.
type PlaceUpdate struct {
	Name      *string    `json:"name,omitempty" validate:"omitempty,max=200"`
	Note      *string    `json:"note,omitempty"`
	Rating    *int       `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	Category  *Category  `json:"category,omitempty" validate:"omitempty,category"`
	Type      *PlaceType `json:"type,omitempty" validate:"omitempty,placetype"`
	VisitedAt *time.Time `json:"visited_at,omitempty"`
}

func (u PlaceUpdate) Empty() bool {
	return u.Name == nil && u.Note == nil && u.Rating == nil &&
		u.Category == nil && u.Type == nil && u.VisitedAt == nil
}

// Apply merges the update into p and returns the result.
func (u PlaceUpdate) Apply(p Place) Place {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Note != nil {
		p.Note = *u.Note
	}
	if u.Category != nil {
		p.Category = u.Category.OrDefault()
	}
	if u.Type != nil {
		p.Type = *u.Type
	}
	if u.VisitedAt != nil {
		v := *u.VisitedAt
		p.VisitedAt = &v
	}
	if u.Rating != nil {
		p.Rating = *u.Rating
	}
	p.Rating = ClampRating(p.Type, p.Rating)
	return p
}

// VisitInput is what the user records when a wish-list place becomes visited.
type VisitInput struct {
	Rating int
	Note   string
}

type CreatePlaceRequest struct {
	Lat      *float64 `json:"lat" validate:"required,latitude"`
	Lng      *float64 `json:"lng" validate:"required,longitude"`
	Type     string   `json:"type" validate:"required,placetype"`
	Name     string   `json:"name" validate:"max=200"`
	Note     string   `json:"note"`
	Rating   int      `json:"rating" validate:"min=0,max=5"`
	Category string   `json:"category" validate:"category"`
}

func (r CreatePlaceRequest) Draft() PlaceDraft {
	d := PlaceDraft{
		Type:     PlaceType(r.Type),
		Name:     r.Name,
		Note:     r.Note,
		Rating:   r.Rating,
		Category: Category(r.Category),
	}
	if r.Lat != nil {
		d.Lat = *r.Lat
	}
	if r.Lng != nil {
		d.Lng = *r.Lng
	}
	return d.Normalize()
}

type CreatePlaceResponse struct {
	ID int64 `json:"id"`
}
