package config

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/modswap/modswap-backend/models"
)

// seedModules is the starter catalog. FirstOrCreate on code, so re-running
// the seed never duplicates entries.
var seedModules = []models.Module{
	{Code: "BCU-CS-101", Name: "Introduction to Programming", Department: "Computing and Digital Technology", University: "BCU", Year: intPtr(1)},
	{Code: "BCU-CS-201", Name: "Data Structures and Algorithms", Department: "Computing and Digital Technology", University: "BCU", Year: intPtr(2)},
	{Code: "BCU-BS-101", Name: "Principles of Marketing", Department: "Business", University: "BCU", Year: intPtr(1)},
	{Code: "BCU-BS-201", Name: "Financial Accounting", Department: "Business", University: "BCU", Year: intPtr(2)},
	{Code: "BCU-HS-101", Name: "Foundations of Health Studies", Department: "Health Sciences", University: "BCU", Year: intPtr(1)},
	{Code: "BCU-HS-201", Name: "Public Health and Policy", Department: "Health Sciences", University: "BCU", Year: intPtr(2)},
	{Code: "BCU-SS-101", Name: "Introduction to Sociology", Department: "Social Sciences", University: "BCU", Year: intPtr(1)},
	{Code: "BCU-ED-101", Name: "Educational Psychology", Department: "Education", University: "BCU", Year: intPtr(1)},
}

// Seed bootstraps reference data and accounts. It is idempotent and driven
// entirely by configuration:
//
//	ADMIN_EMAIL / ADMIN_PASSWORD  create (or keep) one admin account
//	SEED_DEMO_DATA=true           also create demo student accounts with
//	DEMO_USER_PASSWORD            this shared password
//
// Called once from main after InitDB; safe to call on every start.
func Seed(db *gorm.DB) {
	for _, m := range seedModules {
		module := m
		if err := db.Where("code = ?", module.Code).FirstOrCreate(&module).Error; err != nil {
			log.Fatal("seeding module catalog failed: ", err)
		}
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail != "" && adminPassword != "" {
		seedAccount(db, adminEmail, adminPassword, "admin", models.RoleAdmin)
	} else {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		demoPassword := os.Getenv("DEMO_USER_PASSWORD")
		if demoPassword == "" {
			log.Println("SEED_DEMO_DATA set but DEMO_USER_PASSWORD missing, skipping demo accounts")
			return
		}
		seedAccount(db, "demo.student1@mail.bcu.ac.uk", demoPassword, "demo.student1", models.RoleStudent)
		seedAccount(db, "demo.student2@mail.bcu.ac.uk", demoPassword, "demo.student2", models.RoleStudent)
	}
}

func seedAccount(db *gorm.DB, email, password, username string, role models.UserRole) {
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("cannot hash seed password: ", err)
	}

	user := models.User{
		Username:   username,
		Email:      email,
		Password:   string(hashed),
		University: models.UniversityFromEmail(email),
		Role:       role,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatal("seeding account failed: ", err)
	}
	log.Println("seeded account:", email)
}

func intPtr(n int) *int { return &n }
