package main

import (
	"context"
	"fmt"
	"log"

	"wallspace/internal/config"
	"wallspace/internal/database"
	"wallspace/internal/domain"
	jwtsvc "wallspace/internal/pkg/jwt"
	"wallspace/internal/repository"
)

type demoUser struct {
	id   int64
	role domain.UserRole
	name string
}

var demoUsers = []demoUser{
	{1, domain.RoleAdmin, "admin"},
	{100, domain.RoleManager, "manager (Cafe Onion)"},
	{101, domain.RoleManager, "manager (Gallery Moss)"},
	{200, domain.RoleArtist, "artist Kim"},
	{201, domain.RoleArtist, "artist Lee"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (children first)
	log.Println("Cleaning old data...")
	for _, table := range []string{"notifications", "reservations", "spaces", "locations"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("cleanup %s failed: %v", table, err)
		}
	}

	ctx := context.Background()
	store := repository.NewStore(db)

	// ================== LOCATIONS ==================
	log.Println("Creating locations and spaces...")
	seed := []struct {
		location domain.Location
		spaces   []domain.Space
	}{
		{
			location: domain.Location{ManagerID: 100, Name: "Cafe Onion", Address: "Seongsu-dong 1-2", Tags: []string{"cafe", "seongsu"}},
			spaces: []domain.Space{
				{Name: "Entrance wall", WidthCm: 300, HeightCm: 200, PricePerDay: 15000, MaxCapacity: 1, IsAvailable: true},
				{Name: "Long hall", WidthCm: 900, HeightCm: 240, PricePerDay: 30000, MaxCapacity: 3, IsAvailable: true},
			},
		},
		{
			location: domain.Location{ManagerID: 101, Name: "Gallery Moss", Address: "Yeonnam-ro 22", Tags: []string{"gallery"}},
			spaces: []domain.Space{
				{Name: "Main room", WidthCm: 1200, HeightCm: 300, PricePerDay: 50000, MaxCapacity: 2, IsAvailable: true},
				{Name: "Window", WidthCm: 200, HeightCm: 180, PricePerDay: 10000, MaxCapacity: 1, ManuallyClosed: true, IsAvailable: true},
			},
		},
	}

	for _, s := range seed {
		loc := s.location
		if err := store.CreateLocation(ctx, &loc); err != nil {
			log.Fatalf("create location %q failed: %v", loc.Name, err)
		}
		for _, sp := range s.spaces {
			sp.LocationID = loc.ID
			if err := store.CreateSpace(ctx, &sp); err != nil {
				log.Fatalf("create space %q failed: %v", sp.Name, err)
			}
			fmt.Printf("  location=%d space=%d %s / %s (capacity %d)\n", loc.ID, sp.ID, loc.Name, sp.Name, sp.MaxCapacity)
		}
	}

	// ================== TOKENS ==================
	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	fmt.Println("\nDemo tokens:")
	for _, u := range demoUsers {
		token, err := j.GenerateToken(u.id, string(u.role))
		if err != nil {
			log.Fatalf("token for %s failed: %v", u.name, err)
		}
		fmt.Printf("  %-24s user_id=%d role=%s\n    %s\n", u.name, u.id, u.role, token)
	}

	log.Println("Seed completed")
}
