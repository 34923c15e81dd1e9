package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"cohortattend/internal/auth"
	"cohortattend/internal/config"
	"cohortattend/internal/roster"
	"cohortattend/internal/store"
)

// Seed imports the student roster from a CSV file and creates login accounts:
// one admin plus one student login per roster entry (username = enrollment
// number). Upserts throughout, so re-running is safe.
func main() {
	var (
		rosterPath      = flag.String("students", "students.csv", "roster CSV: enrollment_no,name[,department]")
		adminUser       = flag.String("admin-user", "admin", "admin username")
		adminPassword   = flag.String("admin-password", envOr("ADMIN_PASSWORD", "admin123"), "admin password")
		studentPassword = flag.String("student-password", envOr("STUDENT_PASSWORD", "student123"), "initial password for student accounts")
	)
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	rosterRepo := roster.NewRepository(db.Client)
	userRepo := auth.NewRepository(db.Client)

	adminHash, err := auth.HashPassword(*adminPassword)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	if err := userRepo.Upsert(ctx, *adminUser, adminHash, auth.RoleAdmin, ""); err != nil {
		log.Fatalf("create admin account: %v", err)
	}
	log.Printf("admin account %q ready", *adminUser)

	f, err := os.Open(*rosterPath)
	if err != nil {
		log.Fatalf("open roster: %v", err)
	}
	defer f.Close()

	studentHash, err := auth.HashPassword(*studentPassword)
	if err != nil {
		log.Fatalf("hash student password: %v", err)
	}

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	imported := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("read roster: %v", err)
		}
		if len(row) < 2 {
			log.Printf("skipping short row %v", row)
			continue
		}

		enrollmentNo := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		if enrollmentNo == "" || strings.EqualFold(enrollmentNo, "enrollment_no") {
			continue // blank line or header
		}
		department := cfg.DefaultDept
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			department = strings.TrimSpace(row[2])
		}

		if _, err := rosterRepo.Upsert(ctx, enrollmentNo, name, department); err != nil {
			log.Fatalf("import student %s: %v", enrollmentNo, err)
		}
		if err := userRepo.Upsert(ctx, enrollmentNo, studentHash, auth.RoleStudent, enrollmentNo); err != nil {
			log.Fatalf("create account for %s: %v", enrollmentNo, err)
		}
		imported++
	}

	log.Printf("imported %d students with login accounts", imported)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
