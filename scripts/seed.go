package main

import (
	"context"
	"log"
	"os"

	"github.com/carefinder-ng/carefinder/internal/adapters/database"
	"github.com/carefinder-ng/carefinder/internal/adapters/search"
	"github.com/carefinder-ng/carefinder/internal/application/services"
	"github.com/carefinder-ng/carefinder/internal/domain/entities"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/clients/postgres"
	"github.com/carefinder-ng/carefinder/internal/infrastructure/clients/typesense"
	"github.com/carefinder-ng/carefinder/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	opts := []services.HospitalServiceOption{}
	if tsClient, err := typesense.NewClient(&cfg.Typesense); err == nil {
		searchRepo := search.NewTypesenseAdapter(tsClient)
		if err := searchRepo.InitSchema(ctx); err != nil {
			log.Printf("Failed to init Typesense schema: %v", err)
		}
		opts = append(opts, services.WithSearchRepo(searchRepo))
	} else {
		log.Printf("Typesense unavailable, seeding database only: %v", err)
	}

	hospitalService := services.NewHospitalService(database.NewHospitalAdapter(pgClient), opts...)

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				search_events,
				hospitals
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	hospitals := []entities.CreateHospitalRequest{
		{
			Name:            "General Hospital Lagos",
			Address:         "1-3 Broad Street, Odan, Lagos Island",
			Phone:           "+234 1 263 0581",
			Email:           "info@generalhospitallagos.ng",
			City:            "Lagos",
			Region:          "Lagos",
			Description:     "State-run general hospital serving Lagos Island with emergency, surgical and outpatient care.",
			Specializations: []string{"General Medicine", "Surgery", "Emergency Medicine"},
		},
		{
			Name:            "Lagos State University Teaching Hospital",
			Address:         "1-5 Oba Akinjobi Way, Ikeja",
			Phone:           "+234 1 497 0990",
			Email:           "enquiries@lasuth.org.ng",
			City:            "Ikeja",
			Region:          "Lagos",
			Description:     "Teaching hospital with a full range of specialist clinics and a 24-hour accident and emergency unit.",
			Specializations: []string{"Cardiology", "Paediatrics", "Obstetrics and Gynaecology", "Surgery"},
		},
		{
			Name:            "University College Hospital Ibadan",
			Address:         "Queen Elizabeth Road, Oritamefa, Ibadan",
			Phone:           "+234 2 241 3922",
			Email:           "info@uch-ibadan.org.ng",
			City:            "Ibadan",
			Region:          "Oyo",
			Description:     "Premier federal teaching hospital offering tertiary care and specialist referral services.",
			Specializations: []string{"Oncology", "Neurology", "Cardiology", "Paediatrics"},
		},
		{
			Name:            "National Hospital Abuja",
			Address:         "Plot 132 Central District, Garki",
			Phone:           "+234 9 290 5000",
			Email:           "info@nationalhospital.gov.ng",
			City:            "Abuja",
			Region:          "FCT",
			Description:     "Federal referral hospital with advanced diagnostic imaging and specialist surgical units.",
			Specializations: []string{"Radiology", "Orthopaedics", "Cardiology", "Nephrology"},
		},
		{
			Name:            "Aminu Kano Teaching Hospital",
			Address:         "Zaria Road, Kano",
			Phone:           "+234 64 666 021",
			City:            "Kano",
			Region:          "Kano",
			Description:     "Teaching hospital serving the north-west region with specialist and general services.",
			Specializations: []string{"General Medicine", "Ophthalmology", "Paediatrics"},
		},
		{
			Name:            "University of Port Harcourt Teaching Hospital",
			Address:         "East-West Road, Alakahia, Port Harcourt",
			Phone:           "+234 84 817 000",
			Email:           "info@upthng.com",
			City:            "Port Harcourt",
			Region:          "Rivers",
			Description:     "Tertiary hospital in the Niger Delta offering specialist care and a busy emergency department.",
			Specializations: []string{"Emergency Medicine", "Surgery", "Internal Medicine"},
		},
		{
			Name:            "Garki Hospital",
			Address:         "Tafawa Balewa Way, Area 3, Garki",
			Phone:           "+234 9 461 1234",
			City:            "Abuja",
			Region:          "FCT",
			Description:     "PPP-managed district hospital known for maternity care and general outpatient services.",
			Specializations: []string{"Obstetrics and Gynaecology", "General Medicine", "Dentistry"},
		},
		{
			Name:            "Eko Hospital Ikeja",
			Address:         "31 Mobolaji Bank Anthony Way, Ikeja",
			Phone:           "+234 1 271 6991",
			Email:           "contact@ekocorp.com",
			City:            "Ikeja",
			Region:          "Lagos",
			Description:     "Private multi-specialist hospital group with diagnostic and surgical facilities.",
			Specializations: []string{"Cardiology", "Urology", "Dermatology"},
		},
	}

	seeded := 0
	for _, h := range hospitals {
		id, err := hospitalService.Create(ctx, h)
		if err != nil {
			log.Printf("Failed to seed %s: %v", h.Name, err)
			continue
		}
		log.Printf("Seeded %s (%s)", h.Name, id)
		seeded++
	}

	log.Printf("Seeding complete: %d of %d hospitals", seeded, len(hospitals))
}
