package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"rangkum.app/internal/migrate"
	"rangkum.app/internal/store/pg"
)

func main() {
	var (
		dir     = flag.String("dir", "migrations", "directory with *.up.sql / *.down.sql files")
		command = flag.String("cmd", "up", "up | down | status")
	)
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("RANGKUM_PG_DSN")
	if dsn == "" {
		log.Fatal("RANGKUM_PG_DSN is required")
	}

	db, err := pg.Open(dsn)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mgr := migrate.NewManager(db, *dir)
	switch *command {
	case "up":
		if err := mgr.Up(ctx); err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		fmt.Println("migrations applied")
	case "down":
		if err := mgr.Down(ctx); err != nil {
			log.Fatalf("migrate down: %v", err)
		}
		fmt.Println("last migration rolled back")
	case "status":
		applied, err := mgr.Status(ctx)
		if err != nil {
			log.Fatalf("migrate status: %v", err)
		}
		if len(applied) == 0 {
			fmt.Println("no migrations applied")
			return
		}
		for _, name := range applied {
			fmt.Println(name)
		}
	default:
		log.Fatalf("unknown command %q (want up, down or status)", *command)
	}
}
