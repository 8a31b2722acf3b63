// Command specialistctl manages specialist accounts and seed fixtures outside the API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/kendall-kelly/curtainry-specialist-api/config"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"github.com/kendall-kelly/curtainry-specialist-api/services"
	"gorm.io/gorm"
)

const usage = "expected 'add-specialist', 'seed' or 'validate-seed' subcommand"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errors.New(usage)
	}

	switch args[0] {
	case "add-specialist":
		return addSpecialist(args[1:], out)
	case "seed":
		return seed(args[1:], out)
	case "validate-seed":
		return validateSeed(args[1:], out)
	default:
		return errors.New(usage)
	}
}

// openDatabase connects and migrates using the same environment as the server
func openDatabase() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := config.ConnectDatabase(cfg); err != nil {
		return nil, err
	}
	db := config.GetDB()
	// Ensure tables exist if running the CLI before the server
	if err := config.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func addSpecialist(args []string, out io.Writer) error {
	cmd := flag.NewFlagSet("add-specialist", flag.ContinueOnError)
	cmd.SetOutput(out)
	username := cmd.String("username", "", "Username for the new specialist")
	password := cmd.String("password", "", "Password for the new specialist")
	name := cmd.String("name", "", "Display name")
	email := cmd.String("email", "", "Email address")
	role := cmd.String("role", models.RoleConsultant, "consultant or fitter")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	if *username == "" || *password == "" || *email == "" {
		cmd.PrintDefaults()
		return errors.New("username, password and email are required")
	}
	if !models.IsSpecialistRole(*role) {
		return fmt.Errorf("role must be %q or %q", models.RoleConsultant, models.RoleFitter)
	}

	hash, err := services.HashPassword(*password)
	if err != nil {
		return err
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}

	displayName := *name
	if displayName == "" {
		displayName = *username
	}
	user := models.User{
		Username:     *username,
		PasswordHash: hash,
		Name:         displayName,
		Email:        *email,
		Role:         *role,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create specialist: %w", err)
	}

	fmt.Fprintf(out, "Specialist '%s' (%s) created with id %d.\n", user.Username, user.Role, user.ID)
	return nil
}

func seed(args []string, out io.Writer) error {
	cmd := flag.NewFlagSet("seed", flag.ContinueOnError)
	cmd.SetOutput(out)
	file := cmd.String("file", "config/seed.toml", "Seed file to apply")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	data, err := config.LoadSeedFile(*file)
	if err != nil {
		return err
	}
	db, err := openDatabase()
	if err != nil {
		return err
	}
	if err := config.SeedDatabase(db, data); err != nil {
		return err
	}

	fmt.Fprintf(out, "Applied %s: %d specialists, %d orders.\n", *file, len(data.Specialists), len(data.Orders))
	return nil
}

// validateSeed loads the fixtures into an in-memory repository without touching a database
func validateSeed(args []string, out io.Writer) error {
	cmd := flag.NewFlagSet("validate-seed", flag.ContinueOnError)
	cmd.SetOutput(out)
	file := cmd.String("file", "config/seed.toml", "Seed file to check")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	data, err := config.LoadSeedFile(*file)
	if err != nil {
		return err
	}

	ids := make(map[string]uint, len(data.Specialists))
	roles := make(map[uint]string, len(data.Specialists))
	for i, s := range data.Specialists {
		if _, dup := ids[s.Username]; dup {
			return fmt.Errorf("specialist %s is defined twice", s.Username)
		}
		if !models.IsSpecialistRole(s.Role) {
			return fmt.Errorf("specialist %s has invalid role %q", s.Username, s.Role)
		}
		if len(s.Password) < services.MinPasswordLength {
			return fmt.Errorf("specialist %s: %w", s.Username, services.ErrWeakPassword)
		}
		ids[s.Username] = uint(i + 1)
		roles[uint(i+1)] = s.Role
	}

	repo, err := services.NewMemoryOrderRepository()
	if err != nil {
		return err
	}
	for _, f := range data.Orders {
		assignedTo, ok := ids[f.AssignedTo]
		if !ok {
			return fmt.Errorf("order %s is assigned to unknown specialist %q", f.ID, f.AssignedTo)
		}
		order, err := f.ToOrder(assignedTo)
		if err != nil {
			return err
		}
		if err := repo.Insert(order); err != nil {
			return err
		}
	}

	usernames := make([]string, 0, len(ids))
	for username := range ids {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)

	fmt.Fprintf(out, "%s is valid: %d specialists, %d orders.\n", *file, len(data.Specialists), len(data.Orders))
	for _, username := range usernames {
		id := ids[username]
		orders, err := repo.List(context.Background(), id)
		if err != nil {
			return err
		}
		stats := services.BuildDashboardStats(orders, roles[id], time.Now())
		fmt.Fprintf(out, "  %-20s %-10s %d orders (%d pending, %d active, %d completed)\n",
			username, roles[id], stats.TotalOrders, stats.PendingActions, stats.ActiveJobs, stats.CompletedJobs)
	}
	return nil
}
