package app

import (
	"time"

	"github.com/lunacare/lunacare-backend/internal/platform/envutil"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// HydrationDelay is how long the session manager reports not-ready after
	// start, so consumers do not mistake "no identity event yet" for "signed
	// out".
	HydrationDelay time.Duration
}

func LoadConfig() Config {
	return Config{
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", 3600),
		RefreshTokenTTL: envutil.Seconds("REFRESH_TOKEN_TTL", 86400),
		HydrationDelay:  time.Duration(envutil.Int("SESSION_HYDRATION_MS", 50)) * time.Millisecond,
	}
}
