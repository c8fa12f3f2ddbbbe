package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"

	"gameclub/internal/adapters/catalog"
	"gameclub/internal/adapters/http/middleware"
	clubStore "gameclub/internal/adapters/storage/club"
	gameStore "gameclub/internal/adapters/storage/game"
	memberStore "gameclub/internal/adapters/storage/member"
	rotationStore "gameclub/internal/adapters/storage/rotation"
)

// Stores holds all storage dependencies.
type Stores struct {
	ClubStore     clubStore.Store
	MemberStore   memberStore.Store
	GameStore     gameStore.Store
	RotationStore rotationStore.Store
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global catalog client (set by NewMux)
var catalogClient catalog.Client

// Global session signer (set by NewMux)
var sessions *middleware.SessionSigner

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// loadKey reads a 32-byte hex-encoded secret from the named env var.
// In production, the key MUST be set. In development, a random key is
// generated per startup.
func loadKey(envVar string) []byte {
	if keyHex := os.Getenv(envVar); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatalf("%s must be 64 hex characters (32 bytes)", envVar)
		}
		return key
	}
	if os.Getenv("GAMECLUB_ENV") == "production" {
		log.Fatalf("%s is required in production", envVar)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate key for %s: %v", envVar, err)
	}
	log.Printf("WARNING: using random key for %s (sessions won't survive restart). Set it for production.", envVar)
	return key
}

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, cat catalog.Client) http.Handler {
	stores = s
	catalogClient = cat
	sessions = middleware.NewSessionSigner(loadKey("GAMECLUB_SESSION_KEY"))
	middleware.SecureCookies = os.Getenv("GAMECLUB_ENV") == "production"

	mux := http.NewServeMux()
	registerRoutes(mux)

	csrfKey := loadKey("GAMECLUB_CSRF_KEY")
	limiter := middleware.NewRateLimiter(RateLimitPerSecond)

	// Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(),
	)
}
