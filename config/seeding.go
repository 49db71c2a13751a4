package config

import (
	"log"

	"github.com/google/uuid"

	"github.com/edsa-freetown/gridwatch/models"
)

// SeedCommunities creates the Freetown communities served by the grid.
// Skips seeding if any community already exists.
func SeedCommunities() {
	var count int64
	if err := DB.Model(&models.Community{}).Count(&count).Error; err != nil {
		log.Printf("Warning: could not check communities: %v", err)
		return
	}
	if count > 0 {
		return
	}

	names := []string{
		"Aberdeen", "Brookfields", "Hill Station", "Kissy",
		"Lumley", "Wellington", "Wilberforce",
	}
	for _, name := range names {
		c := models.Community{ID: uuid.New(), Name: name}
		if err := DB.Create(&c).Error; err != nil {
			log.Printf("Warning: could not seed community %s: %v", name, err)
		}
	}
	log.Printf("Seeded %d communities", len(names))
}
