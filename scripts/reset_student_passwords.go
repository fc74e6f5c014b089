package main

import (
	"fmt"
	"os"

	"github.com/nisshin-gakuen/admission-portal/internal/config"
	"github.com/nisshin-gakuen/admission-portal/internal/models"
	"github.com/nisshin-gakuen/admission-portal/internal/utils"
)

// Resets every student's password back to the initial one derived from the
// last four digits of their phone number. Handy after seeding a new intake
// from CSV or when the office wants a clean slate before login day.
//
// Dry run by default; pass --reset to actually write.
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := models.InitDB(&cfg.Database); err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	db := models.GetDB()

	var students []models.Student
	if err := db.Order("exam_no").Find(&students).Error; err != nil {
		fmt.Printf("Failed to read students: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Found %d students\n\n", len(students))

	apply := len(os.Args) > 1 && os.Args[1] == "--reset"

	reset := 0
	for _, s := range students {
		initial := utils.InitialPasswordFromPhone(s.Phone)
		if initial == "" {
			fmt.Printf("Skipped %s: phone number too short\n", s.ExamNo)
			continue
		}

		if !apply {
			fmt.Printf("Would reset %s (%s)\n", s.ExamNo, s.Name)
			continue
		}

		hashed, err := utils.HashPassword(initial)
		if err != nil {
			fmt.Printf("Failed to hash for %s: %v\n", s.ExamNo, err)
			continue
		}
		if err := db.Model(&models.Student{}).Where("id = ?", s.ID).Update("password_hash", hashed).Error; err != nil {
			fmt.Printf("Failed to update %s: %v\n", s.ExamNo, err)
			continue
		}
		fmt.Printf("Reset %s (%s)\n", s.ExamNo, s.Name)
		reset++
	}

	if apply {
		fmt.Printf("\nDone, reset %d passwords\n", reset)
	} else {
		fmt.Println("\nTo apply, run: go run scripts/reset_student_passwords.go --reset")
	}
}
