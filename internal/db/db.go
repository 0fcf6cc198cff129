package db

import (
	"log"
	"os"
	"uninews/internal/models"
	"uninews/internal/utils"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=uninews port=5432 sslmode=disable TimeZone=America/Fortaleza"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedAdmin()
}

// Migrate runs the schema migration for every model. Exported so tests can
// run it against their own database.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Bolsista{},
		&models.Professor{},
		&models.TecnicoAdministrativo{},
		&models.Article{},
		&models.ArticleSection{},
		&models.Comment{},
		&models.ArticleReaction{},
		&models.CommentReaction{},
		&models.RoleRequest{},
		&models.PasswordResetToken{},
	)
}

// seedAdmin creates or promotes the administrator account from env vars.
func seedAdmin() {
	email := utils.NormalizeEmail(os.Getenv("ADMIN_EMAIL"))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("Seed: ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping")
		return
	}

	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Admin"
	}

	var existing models.User
	if err := DB.Where("email = ?", email).First(&existing).Error; err == nil {
		if existing.Role != models.RoleAdmin {
			DB.Model(&existing).Update("role", models.RoleAdmin)
			log.Printf("Seed: user promoted to admin: %s", email)
		}
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Seed: failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Login:        email,
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		TokenVersion: uuid.NewString(),
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Seed: failed to create admin: %v", err)
		return
	}
	log.Printf("Seed: admin created: %s", email)
}
