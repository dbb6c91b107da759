package database

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"SafeEduBackend/logger"
	"SafeEduBackend/models"
	"SafeEduBackend/services"
)

//go:embed seed.json
var embeddedSeedJSON []byte

// SystemAuthorID authors the seeded notices when no admin account is seeded.
const SystemAuthorID = "system"

// AdminSeed describes the administrator account created on first start.
type AdminSeed struct {
	Username   string
	Email      string
	Password   string
	Department string
}

type seedCourse struct {
	ID string `json:"id"`
	models.CourseCreate
}

type seedAssessment struct {
	ID       string `json:"id"`
	CourseID string `json:"courseId"`
	models.AssessmentCreate
}

type seedData struct {
	Courses     []seedCourse          `json:"courses"`
	Assessments []seedAssessment      `json:"assessments"`
	Notices     []models.NoticeCreate `json:"notices"`
}

func loadSeedData() (*seedData, error) {
	if len(embeddedSeedJSON) == 0 {
		return nil, fmt.Errorf("embedded seed.json is empty - build error")
	}
	var data seedData
	if err := json.Unmarshal(embeddedSeedJSON, &data); err != nil {
		return nil, fmt.Errorf("failed to parse embedded seed.json: %w", err)
	}
	return &data, nil
}

// Seed creates the admin account, default courses, questions and notices.
// Each group is only written when its table is still empty, so restarting
// against a persistent database is a no-op. Records go through the portal
// components so they pass the same validation as API input.
func Seed(ctx context.Context, portal *services.Portal, store services.Store, admin AdminSeed, log *logger.Logger) error {
	data, err := loadSeedData()
	if err != nil {
		return err
	}

	authorID, err := seedAdmin(ctx, portal, store, admin, log)
	if err != nil {
		return err
	}

	courses, err := store.ListCourses(ctx)
	if err != nil {
		return fmt.Errorf("error checking courses: %w", err)
	}
	if len(courses) == 0 {
		for _, c := range data.Courses {
			in := c.CourseCreate
			in.ID = c.ID
			if _, err := portal.Catalog.Create(ctx, in); err != nil {
				return fmt.Errorf("error seeding course %s: %w", c.ID, err)
			}
		}
		for _, a := range data.Assessments {
			in := a.AssessmentCreate
			in.ID = a.ID
			in.CourseID = a.CourseID
			if _, err := portal.Assessments.CreateQuestion(ctx, in); err != nil {
				return fmt.Errorf("error seeding question %s: %w", a.ID, err)
			}
		}
		log.Info("Seeded default courses", "courses", len(data.Courses), "questions", len(data.Assessments))
	}

	notices, err := store.ListNotices(ctx)
	if err != nil {
		return fmt.Errorf("error checking notices: %w", err)
	}
	if len(notices) == 0 {
		for _, n := range data.Notices {
			if _, err := portal.Notices.Create(ctx, authorID, n); err != nil {
				return fmt.Errorf("error seeding notice %q: %w", n.Title, err)
			}
		}
		log.Info("Seeded default notices", "count", len(data.Notices))
	}
	return nil
}

// seedAdmin returns the id that seeded notices are attributed to.
func seedAdmin(ctx context.Context, portal *services.Portal, store services.Store, admin AdminSeed, log *logger.Logger) (string, error) {
	if admin.Email == "" || admin.Password == "" {
		log.Warn("Admin credentials not configured, skipping admin seed")
		return SystemAuthorID, nil
	}

	existing, err := store.GetUserByEmail(ctx, models.NormalizeEmail(admin.Email))
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, services.ErrRecordNotFound) {
		return "", fmt.Errorf("error checking admin user: %w", err)
	}

	username := admin.Username
	if username == "" {
		username = "Administrator"
	}
	department := admin.Department
	if department == "" {
		department = "IT"
	}
	user, err := portal.Identity.Register(ctx, models.UserSignup{
		Username:   username,
		Email:      admin.Email,
		Password:   admin.Password,
		Department: department,
		Role:       models.RoleAdmin,
	})
	if err != nil {
		return "", fmt.Errorf("error seeding admin user: %w", err)
	}
	log.Info("Seeded admin user", "user_id", user.ID)
	return user.ID, nil
}
