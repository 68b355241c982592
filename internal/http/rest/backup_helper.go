package rest

import (
	"context"
	"encoding/json"
	"log"

	"github.com/bwise1/love_map/internal/events"
	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/util"
	"github.com/bwise1/love_map/util/storage"
	"github.com/bwise1/love_map/util/values"
)

func (api *API) ExportHelper(ctx context.Context, user model.SessionUser) (model.Backup, string, string, string, error) {
	places, err := api.Repo.ListPlaces(ctx, user.ID)
	if err != nil {
		return model.Backup{}, "", values.Error, "failed to export places", err
	}

	now := api.Now()
	backup := model.Backup{
		Version:    model.BackupVersion,
		ExportedAt: now,
		User:       user.DisplayName,
		Places:     make([]model.BackupPlace, 0, len(places)),
	}
	for _, p := range places {
		createdAt := p.CreatedAt
		backup.Places = append(backup.Places, model.BackupPlace{
			Lat:       p.Lat,
			Lng:       p.Lng,
			Type:      p.Type,
			Name:      p.Name,
			Note:      p.Note,
			Rating:    p.Rating,
			Category:  p.Category,
			CreatedAt: &createdAt,
			VisitedAt: p.VisitedAt,
		})
	}

	filename := util.BackupFilename(now)
	api.archiveBackup(ctx, user.ID, filename, backup)
	return backup, filename, values.Success, "export ready", nil
}

// archiveBackup keeps a copy of the export in object storage when it is
// configured. Failures only get logged.
func (api *API) archiveBackup(ctx context.Context, userID int64, filename string, backup model.Backup) {
	if api.Deps == nil || api.Deps.Archive == nil {
		return
	}
	data, err := json.Marshal(backup)
	if err != nil {
		log.Printf("[Backup]: marshal export: %v", err)
		return
	}
	if err := api.Deps.Archive.PutBackup(ctx, storage.ObjectKey(userID, filename), data); err != nil {
		log.Printf("[Backup]: archive %s: %v", filename, err)
	}
}

// decodeBackup accepts the bare backup document as well as an export saved
// together with its response envelope.
func decodeBackup(content []byte) (model.Backup, error) {
	var doc struct {
		model.Backup
		Data *model.Backup `json:"data"`
	}
	if err := json.Unmarshal(content, &doc); err != nil {
		return model.Backup{}, err
	}
	if doc.Data != nil && len(doc.Places) == 0 {
		return *doc.Data, nil
	}
	return doc.Backup, nil
}

// importable drops entries that could never be valid places and applies the
// defaults a new place gets.
func importable(places []model.BackupPlace) []model.BackupPlace {
	out := make([]model.BackupPlace, 0, len(places))
	for _, p := range places {
		if !p.Type.Valid() || p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
			continue
		}
		d := model.PlaceDraft{Type: p.Type, Name: p.Name, Rating: p.Rating, Category: p.Category}.Normalize()
		if !d.Category.Valid() {
			d.Category = model.CategoryOther
		}
		p.Name, p.Rating, p.Category = d.Name, d.Rating, d.Category
		out = append(out, p)
	}
	return out
}

func (api *API) ImportHelper(ctx context.Context, user model.SessionUser, content []byte) (model.ImportResult, string, string, error) {
	backup, err := decodeBackup(content)
	if err != nil {
		return model.ImportResult{}, values.BadRequestBody, "backup file is not valid JSON", err
	}

	total := len(backup.Places)
	imported, err := api.Repo.ImportPlaces(ctx, user.ID, user.DisplayName, importable(backup.Places))
	if err != nil {
		return model.ImportResult{}, values.Error, "failed to import places", err
	}

	if imported > 0 {
		api.publish(ctx, events.Event{Kind: events.PlacesImported, UserID: user.ID, Count: imported})
	}
	return model.ImportResult{Imported: imported, Total: total}, values.Success, "import finished", nil
}
