// Command seedrooms fills the rooms collection with a demo inventory and
// prints a staff token for calling the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"hotelops/config"
	"hotelops/database"
	"hotelops/database/repository"
	"hotelops/models"
	"hotelops/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

type roomType struct {
	Name     string
	Persons  int
	Price    float64
	Features []models.RoomFeature
}

var roomTypes = map[string]roomType{
	"single": {Name: "Classic Single", Persons: 1, Price: 80, Features: []models.RoomFeature{
		{Icon: "bed", Text: "Single bed"}, {Icon: "wifi", Text: "Free Wi-Fi"},
	}},
	"double": {Name: "Deluxe Double", Persons: 2, Price: 120, Features: []models.RoomFeature{
		{Icon: "bed", Text: "Queen bed"}, {Icon: "wifi", Text: "Free Wi-Fi"}, {Icon: "tv", Text: "Smart TV"},
	}},
	"suite": {Name: "Garden Suite", Persons: 4, Price: 260, Features: []models.RoomFeature{
		{Icon: "bed", Text: "King bed and sofa bed"}, {Icon: "bath", Text: "Rain shower"}, {Icon: "coffee", Text: "Espresso machine"},
	}},
}

func main() {
	floors := flag.Int("floors", 3, "number of floors")
	perFloor := flag.Int("per-floor", 8, "rooms per floor")
	reset := flag.Bool("reset", false, "delete existing rooms first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseDriver != config.DriverMongo {
		log.Fatalf("seedrooms needs DATABASE_DRIVER=%s", config.DriverMongo)
	}

	client, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.DatabaseName)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if *reset {
		if _, err := db.Collection("rooms").DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear rooms collection: %v", err)
		}
	}

	repos, err := repository.NewMongoSet(db)
	if err != nil {
		log.Fatalf("Failed to prepare collections: %v", err)
	}

	types := []string{"single", "double", "double", "suite"}
	created := 0
	for floor := 1; floor <= *floors; floor++ {
		for n := 1; n <= *perFloor; n++ {
			kind := types[rand.Intn(len(types))]
			rt := roomTypes[kind]
			room := &models.Room{
				ID:         models.RoomID(uuid.New().String()),
				RoomNumber: fmt.Sprintf("%d%02d", floor, n),
				RoomName:   rt.Name,
				ShortDesc:  fmt.Sprintf("%s on floor %d", rt.Name, floor),
				Persons:    rt.Persons,
				Type:       kind,
				Status:     models.RoomAvailable,
				// Higher floors cost a little more.
				Price:    rt.Price + float64(floor-1)*10,
				Features: rt.Features,
			}
			if rand.Intn(10) == 0 {
				room.Status = models.RoomMaintenance
				room.Comments = "Scheduled refurbishment"
			}

			if err := repos.Rooms.Create(ctx, room); err != nil {
				log.Printf("Skipping room %s: %v", room.RoomNumber, err)
				continue
			}
			created++
		}
	}
	log.Printf("Seeded %d rooms", created)

	token, err := utils.NewTokenAuthenticator(cfg.JWTSecret).GenerateToken("seed-staff", "frontdesk@example.com", 24*time.Hour)
	if err != nil {
		log.Fatalf("Failed to issue staff token: %v", err)
	}
	fmt.Printf("Staff token (24h): %s\n", token)
}
