package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	v1 "github.com/ssko7098/Harmonize/internal/api/v1"
	"github.com/ssko7098/Harmonize/internal/auth"
	"github.com/ssko7098/Harmonize/internal/config"
	media "github.com/ssko7098/Harmonize/internal/storage"
	"github.com/ssko7098/Harmonize/internal/transcribe"
	"github.com/ssko7098/Harmonize/pkg/logger"
	storage "github.com/ssko7098/Harmonize/pkg/redis"
	"github.com/ssko7098/Harmonize/pkg/utils"
	"gorm.io/gorm"
)

// NewRoutes installs the middleware stack and the full route table.
// Mutations ride on POST and DELETE behind the auth middleware; the
// admin group adds the moderation surface on top. Closing the logger,
// Redis and DB handles is the caller's job.
func NewRoutes(app *fiber.App, cfg *config.Config, db *gorm.DB, log *logger.Logger, rclient *storage.RedisClient, store *media.MediaStore) {
	app.Use(
		logger.SetupLogger(log),
		recover.New(),
		cors.New(
			cors.Config{
				AllowOrigins:     cfg.AppURL,
				AllowCredentials: true,
				AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			},
		),
		compress.New(
			compress.Config{
				Level: compress.LevelBestCompression,
			},
		),
		limiter.New(
			limiter.Config{
				Expiration: 1 * time.Minute,
				Max:        60,
				KeyGenerator: func(c *fiber.Ctx) string {
					return c.IP()
				},
			},
		),
	)
	app.Use(log.Middleware())

	v1.DB = db
	v1.Redis = rclient
	v1.Logger = log
	v1.Media = store
	v1.JWTSecret = []byte(cfg.JWTSecret)
	v1.EmailCfg = utils.EmailConfig{
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUsername: cfg.SMTPUsername,
		SMTPPassword: cfg.SMTPPassword,
		AppURL:       cfg.AppURL,
		FromEmail:    cfg.FromEmail,
	}
	if cfg.TranscriptionOn {
		v1.Transcriber = transcribe.NewClient(cfg.AssemblyAIKey)
	}

	opt := auth.Options{
		DB:      db,
		Rclient: rclient,
		Logger:  log,
		Secret:  []byte(cfg.JWTSecret),
	}

	api := app.Group("/api/v1")

	api.Post("/register", v1.Register)
	api.Post("/activate", v1.ActivateUser)
	api.Post("/login", v1.Login)
	api.Post("/logout", v1.Logout)

	protected := api.Group("", auth.Protected(opt), auth.VerifiedOnly(opt))

	protected.Get("/users/:username", v1.ViewProfile)
	protected.Post("/users/:username/report", v1.ReportProfile)
	protected.Post("/profile", v1.UpdateProfile)
	protected.Post("/account/deactivate", v1.DeactivateAccount)

	protected.Post("/users/:username/comments", v1.PostComment)
	protected.Post("/users/:username/comments/:id/reply", v1.ReplyComment)
	protected.Delete("/comments/:id", v1.DeleteComment)
	protected.Post("/comments/:id/like", v1.LikeComment)
	protected.Post("/comments/:id/dislike", v1.DislikeComment)
	protected.Post("/comments/:id/report", v1.ReportComment)

	protected.Post("/songs", v1.UploadSong)
	protected.Get("/songs/liked", v1.LikedSongs)
	protected.Get("/songs/:id", v1.GetSong)
	protected.Get("/songs/:id/stream", v1.StreamSong)
	protected.Delete("/songs/:id", v1.DeleteSong)
	protected.Post("/songs/:id/like", v1.LikeSong)
	protected.Post("/songs/:id/report", v1.ReportSong)

	protected.Post("/playlists", v1.CreatePlaylist)
	protected.Get("/playlists", v1.MyPlaylists)
	protected.Get("/playlists/:id", v1.ViewPlaylist)
	protected.Post("/playlists/:id", v1.RenamePlaylist)
	protected.Delete("/playlists/:id", v1.DeletePlaylist)
	protected.Post("/playlists/:id/songs/:song_id", v1.AddSongToPlaylist)
	protected.Delete("/playlists/:id/songs/:song_id", v1.RemoveSongFromPlaylist)

	protected.Post("/albums", v1.CreateAlbum)
	protected.Get("/albums", v1.MyAlbums)
	protected.Get("/albums/:id", v1.ViewAlbum)
	protected.Delete("/albums/:id", v1.DeleteAlbum)

	admin := protected.Group("/admin", auth.AdminOnly(opt))
	admin.Get("/reports", v1.ReportedContent)
	admin.Post("/comments/:id/clear-reports", v1.ClearCommentReports)
	admin.Post("/profiles/:username/clear-reports", v1.ClearProfileReports)
	admin.Post("/songs/:id/clear-reports", v1.ClearSongReports)
	admin.Post("/users/:id/deactivate", v1.DeactivateUser)
}
