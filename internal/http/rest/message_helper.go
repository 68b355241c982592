package rest

import (
	"context"
	"errors"
	"strings"

	"github.com/bwise1/love_map/internal/events"
	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/util"
	"github.com/bwise1/love_map/util/values"
)

var (
	errEmptyMessage   = errors.New("message content is empty")
	errMessageTooLong = errors.New("message content is too long")
)

func (api *API) GetMessagesHelper(ctx context.Context, user model.SessionUser, placeID int64) ([]model.Message, string, string, error) {
	if _, status, message, err := api.ownedPlace(ctx, user, placeID); err != nil {
		return nil, status, message, err
	}

	messages, err := api.Repo.ListMessages(ctx, placeID, model.MessageListLimit)
	if err != nil {
		return nil, values.Error, "failed to get messages", err
	}
	return messages, values.Success, "messages retrieved", nil
}

func (api *API) CreateMessageHelper(ctx context.Context, user model.SessionUser, placeID int64, content string) (model.Message, string, string, error) {
	content = strings.TrimSpace(content)
	if !util.NotBlank(content) {
		return model.Message{}, values.BadRequestBody, "message cannot be empty", errEmptyMessage
	}
	if util.RuneLen(content) > model.MaxMessageLength {
		return model.Message{}, values.BadRequestBody, "message must be at most 500 characters", errMessageTooLong
	}

	if _, status, message, err := api.ownedPlace(ctx, user, placeID); err != nil {
		return model.Message{}, status, message, err
	}

	msg, err := api.Repo.CreateMessage(ctx, placeID, user.DisplayName, content)
	if err != nil {
		return model.Message{}, values.Error, "failed to save message", err
	}

	api.publish(ctx, events.Event{Kind: events.MessageAdded, UserID: user.ID, PlaceID: placeID, Message: &msg})
	return msg, values.Created, "message added", nil
}

func (api *API) DeleteMessageHelper(ctx context.Context, user model.SessionUser, id int64) (string, string, error) {
	placeID, owner, err := api.Repo.GetMessageOwner(ctx, id)
	if errors.Is(err, ErrNoRecord) || (err == nil && owner != user.ID) {
		return values.NotAllowed, "message not found or access denied", errNotOwner
	}
	if err != nil {
		return values.Error, "failed to get message", err
	}

	if err := api.Repo.DeleteMessage(ctx, id); err != nil && !errors.Is(err, ErrNoRecord) {
		return values.Error, "failed to delete message", err
	}

	api.publish(ctx, events.Event{Kind: events.MessageDeleted, UserID: user.ID, PlaceID: placeID})
	return values.Success, "message deleted", nil
}
