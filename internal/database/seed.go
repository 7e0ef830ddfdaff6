package database

import (
	"log"
	"time"

	"github.com/seoscribe/seoscribe/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedDevData populates the database with development test data.
// Idempotent: skips if data already exists.
func SeedDevData(db *gorm.DB) error {
	var existingUser models.User
	result := db.Where("email = ?", "dev@seoscribe.local").First(&existingUser)
	if result.Error == nil {
		log.Println("Seed data already exists, skipping")
		return nil
	}

	user := models.User{
		Email: "dev@seoscribe.local",
		Name:  "Dev User",
		Role:  "user",
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	project := models.Project{
		UserID:      user.ID,
		Name:        "Coffee Gear Reviews",
		Website:     "https://coffeegear.example.com",
		Description: "In-depth reviews of espresso machines and grinders for home baristas.",
		Audience:    "home coffee enthusiasts",
		Tone:        "friendly",
	}
	if err := db.Create(&project).Error; err != nil {
		return err
	}

	settings := models.ArticleSettings{
		ProjectID:       project.ID,
		AutoGenerate:    true,
		AutoPublish:     false,
		PublishTime:     "09:00",
		PreferredDays:   datatypes.JSON([]byte(`["monday","wednesday","friday"]`)),
		ArticlesPerWeek: 3,
	}
	if err := db.Create(&settings).Error; err != nil {
		return err
	}

	integration := models.Integration{
		ProjectID:   project.ID,
		Platform:    models.PlatformWordPress,
		SiteURL:     "https://coffeegear.example.com",
		Username:    "dev",
		AppPassword: "dev-app-password-placeholder",
		Status:      models.IntegrationStatusActive,
	}
	if err := db.Create(&integration).Error; err != nil {
		return err
	}

	// One draft and one article scheduled for tomorrow morning, so both
	// pipelines have something to chew on out of the box.
	draft := models.Article{
		ProjectID:       project.ID,
		Title:           "Best Entry-Level Espresso Machines",
		Slug:            "best-entry-level-espresso-machines",
		Content:         "## Our picks\n\nA rundown of machines under $500.",
		MetaDescription: "The best entry-level espresso machines reviewed.",
		Status:          models.ArticleStatusDraft,
	}
	if err := db.Create(&draft).Error; err != nil {
		return err
	}

	tomorrow := time.Now().AddDate(0, 0, 1)
	scheduledAt := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, time.Local)
	scheduled := models.Article{
		ProjectID:   project.ID,
		Title:       "How to Dial In Your Grinder",
		Slug:        "how-to-dial-in-your-grinder",
		Status:      models.ArticleStatusScheduled,
		ScheduledAt: &scheduledAt,
	}
	if err := db.Create(&scheduled).Error; err != nil {
		return err
	}

	ideas := []models.ContentIdea{
		{ProjectID: project.ID, Keyword: "burr vs blade grinder", ContentType: "comparison", Difficulty: 20},
		{ProjectID: project.ID, Keyword: "espresso tamping technique", ContentType: "how_to", Difficulty: 35},
	}
	if err := db.Create(&ideas).Error; err != nil {
		return err
	}

	log.Println("Seeded dev data: 1 user, 1 project, 1 integration, 2 articles, 2 content ideas")
	return nil
}
