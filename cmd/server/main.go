package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	"gameclub/internal/adapters/catalog"
	web "gameclub/internal/adapters/http"
	"gameclub/internal/adapters/storage"
	clubStore "gameclub/internal/adapters/storage/club"
	gameStore "gameclub/internal/adapters/storage/game"
	memberStore "gameclub/internal/adapters/storage/member"
	rotationStore "gameclub/internal/adapters/storage/rotation"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// WAL mode, foreign keys, and busy timeout are set through the DSN so
	// every pooled connection gets them.
	dbPath := envOrDefault("GAMECLUB_DB", "gameclub.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize schema: %v", err)
	}

	timedDB := storage.NewTimedDB(db)

	stores := &web.Stores{
		ClubStore:     clubStore.NewSQLiteStore(timedDB),
		MemberStore:   memberStore.NewSQLiteStore(timedDB),
		GameStore:     gameStore.NewSQLiteStore(timedDB),
		RotationStore: rotationStore.NewSQLiteStore(timedDB),
	}

	// Game catalog: IGDB when credentials are present, otherwise a noop
	// client so queues degrade to bare titles.
	var cat catalog.Client
	igdbID := os.Getenv("GAMECLUB_IGDB_ID")
	igdbSecret := os.Getenv("GAMECLUB_IGDB_SECRET")
	if igdbID != "" && igdbSecret != "" {
		cat = catalog.NewIGDBClient(igdbID, igdbSecret)
		log.Println("Catalog configured (IGDB)")
	} else {
		cat = catalog.NewNoopClient()
		log.Println("Catalog configured (noop — set GAMECLUB_IGDB_ID and GAMECLUB_IGDB_SECRET for covers and search)")
	}

	mux := web.NewMux(stores, cat)

	addr := envOrDefault("GAMECLUB_ADDR", ":8080")
	log.Printf("gameclub %s starting on %s (env=%s)", version, addr, envOrDefault("GAMECLUB_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
