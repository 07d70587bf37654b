package auth

import (
	"github.com/ssko7098/Harmonize/pkg/logger"
	storage "github.com/ssko7098/Harmonize/pkg/redis"
	"gorm.io/gorm"
)

// Options carries everything the auth middleware needs. Secret is the
// HMAC key for access tokens; it comes from config, never from a global.
type Options struct {
	DB      *gorm.DB
	Rclient *storage.RedisClient
	Logger  *logger.Logger
	Secret  []byte
}
