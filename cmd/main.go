package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"BdsCrm/internal/appmanager"
	"BdsCrm/internal/store"
)

// initCache picks the payload cache backend from env: a shared Redis
// when REDIS_ADDR is set, otherwise JSON files under DATA_DIR.
func initCache(ctx context.Context) (store.PayloadCache, error) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client, err := store.DialRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
		if err != nil {
			return nil, err
		}
		log.Println("Payload cache: redis at", addr)
		return store.NewRedisCache(client), nil
	}
	dir := os.Getenv("DATA_DIR")
	if dir == "" {
		dir = "./data"
	}
	log.Println("Payload cache: files under", dir)
	return store.NewFileCache(dir), nil
}

// initDocumentStore picks the remote document backend from env: Mongo
// when MONGO_URI is set, Postgres when DATABASE_URL is set, none
// otherwise.
func initDocumentStore(ctx context.Context) (store.DocumentStore, error) {
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		dbName := os.Getenv("MONGO_DB")
		if dbName == "" {
			dbName = "bdscrm"
		}
		_, db, err := store.DialMongo(ctx, uri, dbName)
		if err != nil {
			return nil, err
		}
		log.Println("Document store: mongo db", dbName)
		return store.NewMongoStore(db), nil
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pool, err := store.DialPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		pg := store.NewPgStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		log.Println("Document store: postgres")
		return pg, nil
	}
	log.Println("Document store: none configured, running cache-only")
	return nil, nil
}

func main() {
	// Load .env for local dev
	_ = godotenv.Load(".env")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cache, err := initCache(ctx)
	if err != nil {
		log.Fatal("failed to init payload cache:", err)
	}
	appmanager.SetPayloadCache(cache)

	docs, err := initDocumentStore(ctx)
	if err != nil {
		log.Fatal("failed to init document store:", err)
	}
	appmanager.SetDocumentStore(docs)

	manager := appmanager.NewAppManager()

	// Load service configs from YAML
	servicesCfg, err := appmanager.LoadServiceSequence("services.yaml")
	if err != nil {
		log.Fatal("failed to load service sequence:", err)
	}

	// Automatically register all services
	manager.AutoRegisterServices(servicesCfg)

	// Start all services
	if err := manager.StartAll(); err != nil {
		log.Fatal("failed to start:", err)
	}

	// Graceful shutdown handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	// Stop all services
	if err := manager.StopAll(); err != nil {
		log.Fatal("failed to stop:", err)
	}

	if docs != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := docs.Close(shutdownCtx); err != nil {
			log.Println("failed to close document store:", err)
		}
	}
}
