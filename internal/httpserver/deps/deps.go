package deps

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrSnakeDoc/keeplater/internal/auth"
	"github.com/MrSnakeDoc/keeplater/internal/intake"
	"github.com/MrSnakeDoc/keeplater/internal/logger"
	"github.com/MrSnakeDoc/keeplater/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/keeplater/internal/store/redis"
)

// Pinger is anything whose link can be checked (database, redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to reach the ops endpoints
	AllowedCIDRS []string         // IPs allowed to reach readyz/infra/reload
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins  []string         // browser origins allowed to call the API

	Ingestor *intake.Ingestor  // share ingestion and listing
	Database Pinger            // entry store health
	DBDriver string            // "postgres" | "sqlite" | "memory"
	Redis    *redisstore.Store // nil when the share guard is disabled

	Keyfunc     jwt.Keyfunc  // verifies /entries tokens
	AuthOptions auth.Options // optional issuer/audience checks

	ShareRateBurst  int // 0 disables the /share rate limit
	ShareRatePerMin int

	Importer      *scheduler.Importer // nil when no seed file is configured
	ImportTrigger chan struct{}       // manual import trigger, nil with Importer
}
