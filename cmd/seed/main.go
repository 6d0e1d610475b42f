// Command main runs the database seeder for Rewear.
package main

import (
	"flag"
	"log"
	"strings"

	"rewear/internal/config"
	"rewear/internal/database"
	"rewear/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numItems := flag.Int("items", 120, "Number of items to create")
	numSwaps := flag.Int("swaps", 40, "Number of swaps to create")
	numLikes := flag.Int("likes", 200, "Number of likes to create")
	numReports := flag.Int("reports", 5, "Number of reports to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Preset name ("+strings.Join(seed.PresetNames(), ", ")+") or path to a YAML preset file")
	flag.Parse()

	opts := seed.Options{
		Users:   *numUsers,
		Items:   *numItems,
		Swaps:   *numSwaps,
		Likes:   *numLikes,
		Reports: *numReports,
		Clean:   *shouldClean,
	}
	if *preset != "" {
		resolved, err := seed.ResolvePreset(*preset)
		if err != nil {
			log.Fatalf("Failed to resolve preset: %v", err)
		}
		opts = resolved
		log.Printf("Applying preset %q (ignoring other flags)", *preset)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.NewSeeder(db).Run(opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
