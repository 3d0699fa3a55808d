package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"pet-adoption-api/config"
	"pet-adoption-api/models"
	"pet-adoption-api/utils"
)

func connect() (*gorm.DB, error) {
	cfg, err := config.LoadForTools()
	if err != nil {
		return nil, err
	}
	if err := config.InitDB(cfg.Database, true); err != nil {
		return nil, err
	}
	return config.DB, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			if err := models.Migrate(db); err != nil {
				return err
			}
			fmt.Printf("%s schema is up to date\n", color.New(color.FgGreen).Sprint("OK"))
			return nil
		},
	}
}

func hashPasswordsCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "hash-passwords",
		Short: "Hash any plain-text passwords left in the users table",
		Long: `Replaces plain-text passwords with bcrypt hashes. Rows that already
hold a bcrypt hash, and accounts without a password (Google sign-in), are skipped.

Examples:
  petctl hash-passwords --dry-run
  petctl hash-passwords`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			res, err := hashPasswords(db, dryRun)
			if err != nil {
				return err
			}
			for _, email := range res.Updated {
				fmt.Printf("  %s %s\n", color.New(color.FgGreen).Sprint("HASHED "), email)
			}
			for _, email := range res.Failed {
				fmt.Printf("  %s %s\n", color.New(color.FgRed).Sprint("FAILED "), email)
			}
			fmt.Printf("\n%d hashed, %d already hashed, %d failed\n", len(res.Updated), res.Skipped, len(res.Failed))
			if dryRun {
				fmt.Println(color.New(color.FgYellow).Sprint("dry run: nothing was written"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report without writing")
	return cmd
}

type hashResult struct {
	Updated []string
	Failed  []string
	Skipped int
}

func hashPasswords(db *gorm.DB, dryRun bool) (*hashResult, error) {
	var users []models.User
	if err := db.Select("user_id", "email", "password").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	res := &hashResult{}
	for _, user := range users {
		if user.Password == "" || utils.IsHashed(user.Password) {
			res.Skipped++
			continue
		}
		if dryRun {
			res.Updated = append(res.Updated, user.Email)
			continue
		}

		hashedPassword, err := utils.HashPassword(user.Password)
		if err != nil {
			res.Failed = append(res.Failed, user.Email)
			continue
		}
		if err := db.Model(&models.User{}).
			Where("user_id = ?", user.UserID).
			Update("password", hashedPassword).Error; err != nil {
			res.Failed = append(res.Failed, user.Email)
			continue
		}
		res.Updated = append(res.Updated, user.Email)
	}
	return res, nil
}

func seedDemoCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "seed-demo",
		Short: "Insert demo users, pets and directory entries",
		Long: `Creates a small demo data set. Running it again leaves existing rows alone.

Examples:
  petctl seed-demo
  petctl seed-demo --password 'demo-pass-123'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			if err := models.Migrate(db); err != nil {
				return err
			}
			created, err := seedDemo(db, password)
			if err != nil {
				return err
			}
			fmt.Printf("%s %d rows created\n", color.New(color.FgGreen).Sprint("OK"), created)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "password123", "password for every demo account")
	return cmd
}

func seedDemo(db *gorm.DB, password string) (int, error) {
	if ok, msg := utils.ValidatePassword(password); !ok {
		return 0, fmt.Errorf("%s", msg)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return 0, err
	}

	created := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		users := map[string]*models.User{}
		for _, u := range []models.User{
			{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin},
			{Name: "Moderator", Email: "moderator@example.com", Role: models.RoleModerator},
			{Name: "Rina Owner", Email: "owner@example.com", Role: models.RoleUser},
			{Name: "Sam Adopter", Email: "adopter@example.com", Role: models.RoleUser},
		} {
			u.Password = hash
			u.AuthProvider = models.ProviderLocal
			u.CreatedAt = now
			u.UpdatedAt = now
			res := tx.Where("email = ?", u.Email).FirstOrCreate(&u)
			if res.Error != nil {
				return res.Error
			}
			created += int(res.RowsAffected)
			user := u
			users[u.Email] = &user
		}

		owner := users["owner@example.com"]
		city := "Dhaka"
		for _, p := range []models.Pet{
			{Name: "Milo", Species: "cat", AdoptionStatus: models.PetAvailable, Approved: true},
			{Name: "Bella", Species: "dog", AdoptionStatus: models.PetAvailable, Approved: true},
			{Name: "Kiwi", Species: "bird", AdoptionStatus: models.PetUnlisted, Approved: false},
		} {
			p.OwnerID = owner.UserID
			p.City = &city
			p.CreatedAt = now
			p.UpdatedAt = now
			res := tx.Where("owner_id = ? AND name = ?", p.OwnerID, p.Name).FirstOrCreate(&p)
			if res.Error != nil {
				return res.Error
			}
			created += int(res.RowsAffected)
		}

		shelter := models.Shelter{Name: "Happy Paws Rescue", City: city, Address: "12 Lake Road", CreatedBy: users["admin@example.com"].UserID, CreatedAt: now}
		res := tx.Where("name = ?", shelter.Name).FirstOrCreate(&shelter)
		if res.Error != nil {
			return res.Error
		}
		created += int(res.RowsAffected)

		goat := models.QurbaniAnimal{SellerID: owner.UserID, Species: "goat", WeightKg: 32, Price: 28000, City: city, CreatedAt: now}
		res = tx.Where("seller_id = ? AND species = ?", goat.SellerID, goat.Species).FirstOrCreate(&goat)
		if res.Error != nil {
			return res.Error
		}
		created += int(res.RowsAffected)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed failed: %w", err)
	}
	return created, nil
}
