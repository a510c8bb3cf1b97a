package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FurkanKirci/BeautySalon/internal/auth"
	"github.com/FurkanKirci/BeautySalon/internal/config"
	"github.com/FurkanKirci/BeautySalon/internal/db"
)

type seedService struct {
	Name        string
	Description string
	Duration    int
	Price       float64
	Category    string
}

type seedSpecialist struct {
	Name            string
	Speciality      string
	ExperienceYears int
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	now := time.Now().In(cfg.Timezone)

	services := []seedService{
		{Name: "Saç Kesimi", Description: "Yıkama ve fön dahil kesim.", Duration: 60, Price: 350, Category: "Saç"},
		{Name: "Saç Boyama", Description: "Tek renk boyama, bakım dahil.", Duration: 120, Price: 900, Category: "Saç"},
		{Name: "Manikür", Description: "Klasik manikür ve oje.", Duration: 45, Price: 250, Category: "Tırnak"},
		{Name: "Pedikür", Description: "Klasik pedikür ve bakım.", Duration: 60, Price: 300, Category: "Tırnak"},
		{Name: "Cilt Bakımı", Description: "Derin temizlik ve nemlendirme.", Duration: 75, Price: 600, Category: "Cilt"},
	}

	for _, svc := range services {
		filter := bson.M{"name": svc.Name}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":         primitive.NewObjectID().Hex(),
				"name":        svc.Name,
				"description": svc.Description,
				"duration":    svc.Duration,
				"price":       svc.Price,
				"category":    svc.Category,
				"image":       nil,
				"createdAt":   now,
				"updatedAt":   now,
			},
		}
		if _, err := cols.Services.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed service %s: %v", svc.Name, err)
		}
	}

	specialists := []seedSpecialist{
		{Name: "Ayşe Demir", Speciality: "Saç", ExperienceYears: 8},
		{Name: "Elif Yılmaz", Speciality: "Tırnak", ExperienceYears: 5},
		{Name: "Zeynep Kaya", Speciality: "Cilt", ExperienceYears: 10},
	}

	for _, sp := range specialists {
		filter := bson.M{"name": sp.Name}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":             primitive.NewObjectID().Hex(),
				"name":            sp.Name,
				"speciality":      sp.Speciality,
				"experienceYears": sp.ExperienceYears,
				"isActive":        true,
				"createdAt":       now,
				"updatedAt":       now,
			},
		}
		if _, err := cols.Specialists.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed specialist %s: %v", sp.Name, err)
		}
	}

	if err := seedSettings(ctx, cols, now); err != nil {
		log.Fatalf("seed settings: %v", err)
	}

	if err := seedAdminUser(ctx, cols, cfg.Timezone); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	log.Println("seed completed")
}

func seedSettings(ctx context.Context, cols *db.Collections, now time.Time) error {
	count, err := cols.Settings.CountDocuments(ctx, bson.D{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = cols.Settings.InsertOne(ctx, bson.M{
		"_id":                primitive.NewObjectID().Hex(),
		"companyName":        "Güzellik Salonu",
		"companyDescription": "Saç, tırnak ve cilt bakımında uzman ekip.",
		"icon":               "",
		"address":            "",
		"phone":              "",
		"email":              "",
		"workingHours":       "09:00 - 19:00",
		"googleMapsUrl":      "",
		"instagramUrl":       "",
		"facebookUrl":        "",
		"twitterUrl":         "",
		"serviceCategories":  []string{"Saç", "Tırnak", "Cilt"},
		"createdAt":          now,
		"updatedAt":          now,
	})
	return err
}

func seedAdminUser(ctx context.Context, cols *db.Collections, loc *time.Location) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("seed admin: ADMIN_EMAIL or ADMIN_PASSWORD missing, skipping")
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().In(loc)
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":          primitive.NewObjectID().Hex(),
			"firstName":    "Salon",
			"lastName":     "Admin",
			"email":        email,
			"passwordHash": hash,
			"createdAt":    now,
			"updatedAt":    now,
		},
	}
	_, err = cols.Users.UpdateOne(ctx, bson.M{"email": email}, update, options.Update().SetUpsert(true))
	return err
}
