package rest

import (
	"context"
	"time"

	"github.com/bwise1/love_map/internal/model"
	"github.com/jackc/pgx/v5"
)

func (repo *PGRepository) ImportPlaces(ctx context.Context, userID int64, createdBy string, places []model.BackupPlace) (int, error) {
	imported := 0
	err := repo.DB.RunInTx(ctx, func(tx pgx.Tx) error {
		imported = 0
		for _, p := range places {
			var exists bool
			err := tx.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM places WHERE lat = $1 AND lng = $2 AND name = $3 AND user_id = $4)`,
				p.Lat, p.Lng, p.Name, userID,
			).Scan(&exists)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			createdAt := time.Now()
			if p.CreatedAt != nil {
				createdAt = *p.CreatedAt
			}
			_, err = tx.Exec(ctx, `
				INSERT INTO places (lat, lng, type, name, note, rating, category, created_by, user_id, created_at, visited_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				p.Lat, p.Lng, p.Type, p.Name, p.Note, p.Rating, p.Category, createdBy, userID, createdAt, p.VisitedAt,
			)
			if err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}
