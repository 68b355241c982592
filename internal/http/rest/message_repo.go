package rest

import (
	"context"
	"log"

	"github.com/bwise1/love_map/internal/model"
)

func (repo *PGRepository) ListMessages(ctx context.Context, placeID int64, limit int) ([]model.Message, error) {
	stmt := `-- name: list-messages
		SELECT id, place_id, author, content, created_at
		FROM messages WHERE place_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := repo.DB.Pool().Query(ctx, stmt, placeID, limit)
	if err != nil {
		log.Println("error listing messages", err)
		return nil, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.PlaceID, &m.Author, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (repo *PGRepository) CreateMessage(ctx context.Context, placeID int64, author, content string) (model.Message, error) {
	m := model.Message{PlaceID: placeID, Author: author, Content: content}
	stmt := `
		INSERT INTO messages (place_id, author, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	if err := repo.DB.Pool().QueryRow(ctx, stmt, placeID, author, content).Scan(&m.ID, &m.CreatedAt); err != nil {
		log.Println("error creating message", err)
		return model.Message{}, err
	}
	return m, nil
}

func (repo *PGRepository) GetMessageOwner(ctx context.Context, messageID int64) (int64, int64, error) {
	var placeID, owner int64
	stmt := `
		SELECT m.place_id, p.user_id
		FROM messages m JOIN places p ON p.id = m.place_id
		WHERE m.id = $1`

	if err := repo.DB.Pool().QueryRow(ctx, stmt, messageID).Scan(&placeID, &owner); err != nil {
		return 0, 0, noRecord(err)
	}
	return placeID, owner, nil
}

func (repo *PGRepository) DeleteMessage(ctx context.Context, id int64) error {
	tag, err := repo.DB.Pool().Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRecord
	}
	return nil
}
