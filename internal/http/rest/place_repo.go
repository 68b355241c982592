package rest

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwise1/love_map/internal/model"
	"github.com/jackc/pgx/v5"
)

const placeColumns = `id, lat, lng, type, name, note, rating, category, photo_url, created_by, created_at, visited_at`

func scanPlace(row pgx.Row, p *model.Place, extra ...interface{}) error {
	dest := []interface{}{
		&p.ID,
		&p.Lat,
		&p.Lng,
		&p.Type,
		&p.Name,
		&p.Note,
		&p.Rating,
		&p.Category,
		&p.PhotoURL,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.VisitedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (repo *PGRepository) ListPlaces(ctx context.Context, userID int64) ([]model.Place, error) {
	stmt := `-- name: list-places
		SELECT ` + placeColumns + `
		FROM places WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := repo.DB.Pool().Query(ctx, stmt, userID)
	if err != nil {
		log.Println("error listing places", err)
		return nil, err
	}
	defer rows.Close()

	places := []model.Place{}
	for rows.Next() {
		var p model.Place
		if err := scanPlace(rows, &p); err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

func (repo *PGRepository) GetPlace(ctx context.Context, id int64) (model.Place, int64, error) {
	var (
		p     model.Place
		owner int64
	)
	stmt := `SELECT ` + placeColumns + `, user_id FROM places WHERE id = $1`
	if err := scanPlace(repo.DB.Pool().QueryRow(ctx, stmt, id), &p, &owner); err != nil {
		return model.Place{}, 0, noRecord(err)
	}
	return p, owner, nil
}

func (repo *PGRepository) CreatePlace(ctx context.Context, userID int64, createdBy string, d model.PlaceDraft) (model.Place, error) {
	var p model.Place
	stmt := `
		INSERT INTO places (
			lat,
			lng,
			type,
			name,
			note,
			rating,
			category,
			created_by,
			user_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + placeColumns

	row := repo.DB.Pool().QueryRow(ctx, stmt,
		d.Lat, d.Lng, d.Type, d.Name, d.Note, d.Rating, d.Category, createdBy, userID)
	if err := scanPlace(row, &p); err != nil {
		log.Println("error creating place", err)
		return model.Place{}, err
	}
	return p, nil
}

// buildPlaceUpdate renders the SET clause for the non-nil fields of u, with
// placeholders starting at $1.
func buildPlaceUpdate(u model.PlaceUpdate) (string, []interface{}) {
	var (
		sets []string
		args []interface{}
	)
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Note != nil {
		add("note", *u.Note)
	}
	if u.Rating != nil {
		add("rating", *u.Rating)
	}
	if u.VisitedAt != nil {
		add("visited_at", *u.VisitedAt)
	}
	if u.Type != nil {
		add("type", *u.Type)
	}
	if u.Category != nil {
		add("category", *u.Category)
	}
	return strings.Join(sets, ", "), args
}

func (repo *PGRepository) UpdatePlace(ctx context.Context, id int64, fields model.PlaceUpdate) error {
	set, args := buildPlaceUpdate(fields)
	if set == "" {
		return nil
	}
	args = append(args, id)
	stmt := fmt.Sprintf(`UPDATE places SET %s WHERE id = $%d`, set, len(args))

	tag, err := repo.DB.Pool().Exec(ctx, stmt, args...)
	if err != nil {
		log.Println("error updating place", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRecord
	}
	return nil
}

func (repo *PGRepository) SetPlacePhoto(ctx context.Context, id int64, photoURL string) error {
	tag, err := repo.DB.Pool().Exec(ctx, `UPDATE places SET photo_url = $1 WHERE id = $2`, photoURL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRecord
	}
	return nil
}

func (repo *PGRepository) DeletePlace(ctx context.Context, id int64) error {
	return repo.DB.RunInTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE place_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM places WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNoRecord
		}
		return nil
	})
}
