// Package v1 holds the HTTP handlers. Shared dependencies are wired in
// once by the router at startup.
package v1

import (
	media "github.com/ssko7098/Harmonize/internal/storage"
	"github.com/ssko7098/Harmonize/internal/transcribe"
	"github.com/ssko7098/Harmonize/pkg/logger"
	storage "github.com/ssko7098/Harmonize/pkg/redis"
	"github.com/ssko7098/Harmonize/pkg/utils"
	"gorm.io/gorm"
)

var (
	DB        *gorm.DB
	Redis     *storage.RedisClient
	Logger    *logger.Logger
	Validator = utils.NewValidator()

	EmailCfg utils.EmailConfig

	// Media stores uploaded audio and cover art. Transcriber is nil when
	// lyric transcription is switched off.
	Media       *media.MediaStore
	Transcriber *transcribe.Client

	JWTSecret []byte
)
