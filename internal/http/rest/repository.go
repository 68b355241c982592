package rest

import (
	"context"
	"errors"

	"github.com/bwise1/love_map/internal/db"
	"github.com/bwise1/love_map/internal/model"
	"github.com/jackc/pgx/v5"
)

// ErrNoRecord is returned by repository lookups that match nothing.
var ErrNoRecord = errors.New("record not found")

// Repository is the storage the handlers run against.
type Repository interface {
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUserByID(ctx context.Context, id int64) (model.User, error)
	CreateUser(ctx context.Context, user model.User) (int64, error)
	TouchLastLogin(ctx context.Context, id int64) error

	ListPlaces(ctx context.Context, userID int64) ([]model.Place, error)
	// GetPlace returns the place and the id of the user that owns it.
	GetPlace(ctx context.Context, id int64) (model.Place, int64, error)
	CreatePlace(ctx context.Context, userID int64, createdBy string, draft model.PlaceDraft) (model.Place, error)
	UpdatePlace(ctx context.Context, id int64, fields model.PlaceUpdate) error
	SetPlacePhoto(ctx context.Context, id int64, photoURL string) error
	DeletePlace(ctx context.Context, id int64) error

	ListMessages(ctx context.Context, placeID int64, limit int) ([]model.Message, error)
	CreateMessage(ctx context.Context, placeID int64, author, content string) (model.Message, error)
	// GetMessageOwner returns the message's place and that place's owner.
	GetMessageOwner(ctx context.Context, messageID int64) (int64, int64, error)
	DeleteMessage(ctx context.Context, id int64) error

	// ImportPlaces inserts the places that do not already exist for the
	// user and reports how many were inserted.
	ImportPlaces(ctx context.Context, userID int64, createdBy string, places []model.BackupPlace) (int, error)
}

// PGRepository is the Postgres backed Repository.
type PGRepository struct {
	DB *db.DB
}

func NewPGRepository(database *db.DB) *PGRepository {
	return &PGRepository{DB: database}
}

func noRecord(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRecord
	}
	return err
}
