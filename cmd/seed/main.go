// Command seed fills the vendor_profiles collection with sample vendors
// around Bengaluru for local development.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"lokai/config"
	"lokai/database"
	vendorRepo "lokai/database/repository/vendor"
	"lokai/models"
	"lokai/utils"

	"github.com/google/uuid"
)

type serviceKind struct {
	Category string
	Names    []string
	MinCost  int
	MaxCost  int
}

var kinds = []serviceKind{
	{"Plumber", []string{"Sharma Plumbing Works", "Ravi Pipe Fitters", "Quick Fix Plumbers"}, 300, 800},
	{"Electrician", []string{"Bright Spark Electricals", "Manjunath Electric Service"}, 250, 700},
	{"Tutor", []string{"Vidya Home Tuitions", "Ganitha Maths Classes"}, 500, 1500},
	{"Kirana Store", []string{"Lakshmi General Stores", "Annapoorna Kirana"}, 50, 200},
	{"Chai Shop", []string{"Raju Tea Stall", "Filter Kaapi Corner"}, 20, 60},
	{"Doctor", []string{"Dr. Rao Family Clinic", "Sanjeevini Health Centre"}, 300, 600},
}

var areas = []string{
	"MG Road", "Indiranagar", "Koramangala", "Jayanagar", "Malleshwaram",
	"Whitefield", "HSR Layout", "Basavanagudi", "Rajajinagar", "Yelahanka",
}

// randomInt returns a random integer between min and max (inclusive).
func randomInt(min, max int) int {
	return rand.Intn(max-min+1) + min
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger().Sugar()

	database.InitDB()
	defer database.CloseDB(context.Background())

	repo, err := vendorRepo.NewMongoVendorRepo(database.Database())
	if err != nil {
		logger.Fatalf("seed: failed to open vendor repository: %v", err)
	}

	// Fixed buyer point for simulation (Bengaluru).
	baseLat, baseLng := 12.9716, 77.5946
	now := time.Now()

	var vendors []models.VendorRecord
	for _, k := range kinds {
		for _, name := range k.Names {
			cost := float64(randomInt(k.MinCost, k.MaxCost))
			v := models.VendorRecord{
				ID:              uuid.NewString(),
				UserID:          uuid.NewString(),
				BusinessName:    name,
				ServiceType:     k.Category,
				BusinessAddress: areas[rand.Intn(len(areas))] + ", Bengaluru",
				ContactNumber:   fmt.Sprintf("+91 9%09d", rand.Intn(1_000_000_000)),
				ServiceCost:     &cost,
				BusinessPhotos:  []string{},
				Status:          models.VendorApproved,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			// One in five vendors never shared a location.
			if rand.Intn(5) != 0 {
				lat := baseLat + (rand.Float64()-0.5)*0.2
				lng := baseLng + (rand.Float64()-0.5)*0.2
				v.LocationCoordinates = fmt.Sprintf("(%.6f,%.6f)", lat, lng)
			}
			vendors = append(vendors, v)
		}
	}

	// Listings still awaiting review never reach buyers.
	for i := 0; i < 3; i++ {
		status := models.VendorPending
		if i == 2 {
			status = models.VendorRejected
		}
		vendors = append(vendors, models.VendorRecord{
			ID:             uuid.NewString(),
			UserID:         uuid.NewString(),
			BusinessName:   fmt.Sprintf("Unreviewed Vendor %d", i+1),
			ServiceType:    "Plumber",
			Status:         status,
			BusinessPhotos: []string{},
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	if err := repo.ReplaceAll(context.Background(), vendors); err != nil {
		logger.Fatalf("seed: %v", err)
	}
	logger.Infof("seed: inserted %d vendors into %s", len(vendors), vendorRepo.CollectionName)
}
