package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"benritz/bondcalc/internal/bondfile"
	"benritz/bondcalc/internal/server"
	"benritz/bondcalc/internal/types"
)

func newRedisClient(addr string) (*redisv9.Client, error) {
	rdb := redisv9.NewClient(&redisv9.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	addr := os.Getenv("BONDCALC_ADDR")
	if addr == "" {
		addr = ":5000"
	}

	bondsPath := os.Getenv("BONDCALC_BONDS")
	if bondsPath == "" {
		bondsPath = "bonds.yaml"
	}

	bonds, err := bondfile.Load(bondsPath)
	if err != nil {
		log.Printf("[WARN] Failed to load bond definitions from %s: %v. Serving without named bonds.", bondsPath, err)
		bonds = map[string]types.BondTerms{}
	}

	var cache *server.ResponseCache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		rdb, err := newRedisClient(redisAddr)
		if err != nil {
			log.Println("[WARN] Redis unavailable. Running without response cache.")
		} else {
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
			cache = server.NewResponseCache(rdb, 0)
		}
	}

	router := server.NewRouter(bonds, cache)
	router.LoadHTMLGlob("web/templates/*")

	if err := router.Run(addr); err != nil {
		log.Fatal(err)
	}
}
