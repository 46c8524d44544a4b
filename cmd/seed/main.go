package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/stray2stay/api/config"
	"github.com/stray2stay/api/pkg/helpers"
)

type demoAnimal struct {
	Type, Name, Breed, Age, Gender, Size, Color, Description string
	Photos                                                   []string
	Address                                                  string
	Lat, Lng                                                 float64
	City, State                                              string
	Urgent, NeedsFoster                                      bool
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	seedUser := func(email, name, location string) string {
		var id string
		err := db.QueryRow(`
			INSERT INTO users (email, password_hash, name, location)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, email, hash, name, location).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", email, err)
		}
		fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)
		return id
	}

	rescuerID := seedUser("rescuer@stray2stay.org", "Demo Rescuer", "Austin, TX")
	seedUser("adopter@stray2stay.org", "Demo Adopter", "Dallas, TX")

	animals := []demoAnimal{
		{
			Type: "dog", Name: "Biscuit", Breed: "Labrador Mix", Age: "young",
			Gender: "male", Size: "medium", Color: "tan",
			Description: "Friendly lab mix found near the river trail. Good with kids and other dogs.",
			Photos:      []string{"https://storage.googleapis.com/stray2stay-demo/biscuit.jpg"},
			Address:     "500 E Riverside Dr", Lat: 30.2500, Lng: -97.7300,
			City: "Austin", State: "TX",
		},
		{
			Type: "cat", Name: "Mochi", Breed: "Domestic Shorthair", Age: "adult",
			Gender: "female", Size: "small", Color: "calico",
			Description: "Sweet calico rescued from a parking garage. Spayed and vaccinated.",
			Photos:      []string{"https://storage.googleapis.com/stray2stay-demo/mochi.jpg"},
			Address:     "1100 Congress Ave", Lat: 30.2747, Lng: -97.7404,
			City: "Austin", State: "TX",
			Urgent: true,
		},
		{
			Type: "dog", Name: "", Breed: "unknown", Age: "senior",
			Gender: "male", Size: "large", Color: "black",
			Description: "Senior stray in need of a quiet foster home while he recovers.",
			Photos:      []string{"https://storage.googleapis.com/stray2stay-demo/senior-dog.jpg"},
			Address:     "2200 Barton Springs Rd", Lat: 30.2630, Lng: -97.7580,
			City: "Austin", State: "TX",
			NeedsFoster: true,
		},
	}

	for _, a := range animals {
		var id string
		err := db.QueryRow(`
			INSERT INTO animals
				(type, name, breed, age, gender, size, color, description,
				 photos, address, lat, lng, city, state, urgent, needs_foster, poster_id)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
			RETURNING id
		`, a.Type, a.Name, a.Breed, a.Age, a.Gender, a.Size, a.Color, a.Description,
			a.Photos, a.Address, a.Lat, a.Lng, a.City, a.State, a.Urgent, a.NeedsFoster, rescuerID).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed animal %q: %v", a.Name, err)
		}
		fmt.Printf("seeded animal: id=%s type=%s name=%q\n", id, a.Type, a.Name)
	}

	if _, err := db.Exec(`
		UPDATE users SET animals_rescued = (
			SELECT count(*) FROM animals WHERE poster_id = users.id
		) WHERE id = $1
	`, rescuerID); err != nil {
		log.Fatalf("failed to sync rescue counter: %v", err)
	}
	fmt.Println("done")
}
