// Seeds the database with test users and rooms. Wipes users, rooms,
// sessions and bookings first, so never point it at production.
package main

import (
	"context"
	"fmt"
	"log"

	"room-booking/internal/data/entity"
	"room-booking/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

type seedUser struct {
	name     string
	email    string
	password string
	role     entity.UserRole
}

type seedRoom struct {
	name     string
	capacity int
}

var users = []seedUser{
	{name: "Admin User", email: "admin@test.com", password: "admin123", role: entity.RoleAdmin},
	{name: "User One", email: "user1@test.com", password: "user123", role: entity.RoleUser},
	{name: "User Two", email: "user2@test.com", password: "user123", role: entity.RoleUser},
}

var rooms = []seedRoom{
	{name: "Conference Room A", capacity: 10},
	{name: "Meeting Room B", capacity: 6},
	{name: "Boardroom", capacity: 20},
	{name: "Small Huddle", capacity: 4},
}

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		config.Database.User,
		config.Database.Password,
		config.Database.Host,
		config.Database.Port,
		config.Database.Name,
	)

	ctx := context.Background()

	fmt.Println("Connecting to database...")
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	fmt.Println("Connected!")

	fmt.Println("Clearing existing data...")
	for _, table := range []string{"bookings", "sessions", "rooms", "users"} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			log.Fatalf("Failed to clear %s: %v", table, err)
		}
	}

	fmt.Println("\nCreating seed users...")
	for _, u := range users {
		hash, err := utils.HashPassword(u.password)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", u.email, err)
		}

		_, err = pool.Exec(ctx,
			`INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4)`,
			u.name, u.email, hash, u.role,
		)
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", u.email, err)
		}
		fmt.Printf("  Created: %s (%s)\n", u.email, u.role)
	}

	fmt.Println("\nCreating seed rooms...")
	for _, r := range rooms {
		_, err := pool.Exec(ctx,
			`INSERT INTO rooms (name, capacity) VALUES ($1, $2)`,
			r.name, r.capacity,
		)
		if err != nil {
			log.Fatalf("Failed to create room %s: %v", r.name, err)
		}
		fmt.Printf("  Created: %s (capacity: %d)\n", r.name, r.capacity)
	}

	fmt.Println("\n--- Seeding complete! ---")
	fmt.Println("\nTest credentials:")
	fmt.Println("  Admin: admin@test.com / admin123")
	fmt.Println("  User1: user1@test.com / user123")
	fmt.Println("  User2: user2@test.com / user123")
	fmt.Printf("\nRooms created: %d\n", len(rooms))
}
