package deps

import (
	"context"
	"io"
	"log"

	"github.com/bwise1/love_map/config"
	"github.com/bwise1/love_map/internal/db"
	"github.com/bwise1/love_map/internal/events"
	"github.com/bwise1/love_map/internal/http/geocode"
	"github.com/bwise1/love_map/util/ratelimit"
	"github.com/bwise1/love_map/util/storage"
	"github.com/bwise1/love_map/util/websockets"
)

// PhotoUploader stores a place photo and returns its public URL.
type PhotoUploader interface {
	UploadImage(ctx context.Context, file io.Reader, publicID string) (string, error)
}

// BackupArchiver keeps a server side copy of exports.
type BackupArchiver interface {
	PutBackup(ctx context.Context, key string, data []byte) error
}

type Dependencies struct {
	DB           *db.DB
	Photos       PhotoUploader
	Archive      BackupArchiver
	WebSocket    *websockets.WebSocketManager
	Events       events.Publisher
	Geocoder     *geocode.Client
	LoginLimiter *ratelimit.KeyedRateLimiter

	closers []func()
}

func New(cfg *config.Config) *Dependencies {
	database, err := db.New(cfg.Dsn)
	if err != nil {
		log.Panicln("failed to connect to database", "error", err)
	}
	if err := database.Migrate(context.Background()); err != nil {
		log.Panicln("failed to migrate database", "error", err)
	}

	d := &Dependencies{DB: database}
	d.closers = append(d.closers, database.Close)

	cld, err := storage.NewCloudinary(cfg)
	if err != nil {
		log.Panicln("failed to set up cloudinary", "error", err)
	}
	if cld != nil {
		d.Photos = cld
	} else {
		log.Println("[Photos]: cloudinary not configured, photo uploads disabled")
	}

	archive, err := storage.NewArchive(cfg)
	if err != nil {
		log.Panicln("failed to set up backup archive", "error", err)
	}
	if archive != nil {
		d.Archive = archive
	}

	d.WebSocket = websockets.NewWebSocketManager()
	go d.WebSocket.Run()
	d.closers = append(d.closers, d.WebSocket.Stop)

	publishers := events.Multi{events.HubPublisher{Hub: d.WebSocket}}
	if cfg.KafkaBroker != "" {
		kp := events.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		publishers = append(publishers, kp)
		d.closers = append(d.closers, func() {
			if err := kp.Close(); err != nil {
				log.Printf("[Events]: closing kafka writer: %v", err)
			}
		})
		log.Println("[Events]: publishing place events to kafka topic", cfg.KafkaTopic)
	}
	d.Events = publishers

	geocoder, err := geocode.NewClient(cfg.GeocoderURL, cfg.GeocoderUserAgent)
	if err != nil {
		log.Panicln("failed to set up geocoder", "error", err)
	}
	d.Geocoder = geocoder

	d.LoginLimiter = ratelimit.PerMinute(cfg.LoginRatePerMinute)
	d.closers = append(d.closers, d.LoginLimiter.Stop)

	return d
}

// Close releases everything New opened, newest first.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}
