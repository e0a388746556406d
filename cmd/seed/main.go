// Command seed loads the module, question, and achievement catalogs from
// YAML files into the database. Safe to re-run: rows are matched by slug
// (or prompt, for questions) and updated in place.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/pokerpath/backend/internal/common/database"
	contentmodels "github.com/pokerpath/backend/internal/content/models"
	"github.com/pokerpath/backend/internal/progression/models"
)

type seedConfig struct {
	DBType  string
	DSN     string
	SeedDir string
}

var cfg seedConfig

func init() {
	flag.StringVar(&cfg.DBType, "db-type", "sqlite", "Database type: sqlite or postgres")
	flag.StringVar(&cfg.DSN, "dsn", "./data/pokerpath.db?mode=rwc&cache=shared&timeout=5000", "Database DSN")
	flag.StringVar(&cfg.SeedDir, "seed-dir", "./seed", "Directory containing the YAML catalogs")
}

type moduleCatalog struct {
	Modules []struct {
		Slug       string `yaml:"slug"`
		Title      string `yaml:"title"`
		Position   int    `yaml:"position"`
		XPRequired int    `yaml:"xp_required"`
	} `yaml:"modules"`
}

type questionCatalog struct {
	Questions []struct {
		Module        string `yaml:"module"`
		Prompt        string `yaml:"prompt"`
		CorrectAnswer string `yaml:"correct_answer"`
		Difficulty    int    `yaml:"difficulty"`
		XPValue       int    `yaml:"xp_value"`
		IsPlacement   bool   `yaml:"is_placement"`
	} `yaml:"questions"`
}

type achievementCatalog struct {
	Achievements []struct {
		Slug        string `yaml:"slug"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Category    string `yaml:"category"`
		Rarity      string `yaml:"rarity"`
		XPReward    int    `yaml:"xp_reward"`
		Kind        string `yaml:"kind"`
		Threshold   int    `yaml:"threshold"`
		ModuleSlug  string `yaml:"module_slug"`
	} `yaml:"achievements"`
}

func main() {
	flag.Parse()

	if cfg.DBType == "sqlite" {
		os.MkdirAll("./data", 0755)
	}

	db, err := database.Connect(cfg.DBType, cfg.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Seeding catalogs...")

	nModules, err := seedModules(db)
	if err != nil {
		log.Fatalf("Failed to seed modules: %v", err)
	}
	log.Printf("Modules: %d", nModules)

	nQuestions, err := seedQuestions(db)
	if err != nil {
		log.Fatalf("Failed to seed questions: %v", err)
	}
	log.Printf("Questions: %d", nQuestions)

	nAchievements, err := seedAchievements(db)
	if err != nil {
		log.Fatalf("Failed to seed achievements: %v", err)
	}
	log.Printf("Achievements: %d", nAchievements)

	log.Println("Seeding complete")
}

func loadCatalog(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(cfg.SeedDir, name))
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

func seedModules(db *gorm.DB) (int, error) {
	var catalog moduleCatalog
	if err := loadCatalog("modules.yaml", &catalog); err != nil {
		return 0, err
	}

	for _, m := range catalog.Modules {
		module := contentmodels.Module{
			Slug:       m.Slug,
			Title:      m.Title,
			Position:   m.Position,
			XPRequired: m.XPRequired,
		}

		var existing contentmodels.Module
		err := db.Where("slug = ?", m.Slug).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&module).Error; err != nil {
				return 0, err
			}
		case err != nil:
			return 0, err
		default:
			module.ID = existing.ID
			if err := db.Save(&module).Error; err != nil {
				return 0, err
			}
		}
	}

	return len(catalog.Modules), nil
}

func seedQuestions(db *gorm.DB) (int, error) {
	var catalog questionCatalog
	if err := loadCatalog("questions.yaml", &catalog); err != nil {
		return 0, err
	}

	for _, q := range catalog.Questions {
		if q.Difficulty < 1 || q.Difficulty > 3 {
			return 0, fmt.Errorf("question %q: difficulty must be 1-3, got %d", q.Prompt, q.Difficulty)
		}

		question := contentmodels.Question{
			ModuleSlug:    q.Module,
			Prompt:        q.Prompt,
			CorrectAnswer: q.CorrectAnswer,
			Difficulty:    q.Difficulty,
			XPValue:       q.XPValue,
			IsPlacement:   q.IsPlacement,
		}

		var existing contentmodels.Question
		err := db.Where("module_slug = ? AND prompt = ?", q.Module, q.Prompt).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&question).Error; err != nil {
				return 0, err
			}
		case err != nil:
			return 0, err
		default:
			question.ID = existing.ID
			if err := db.Save(&question).Error; err != nil {
				return 0, err
			}
		}
	}

	return len(catalog.Questions), nil
}

func seedAchievements(db *gorm.DB) (int, error) {
	var catalog achievementCatalog
	if err := loadCatalog("achievements.yaml", &catalog); err != nil {
		return 0, err
	}

	for _, a := range catalog.Achievements {
		kind := models.ConditionKind(a.Kind)
		switch kind {
		case models.ConditionStreak, models.ConditionXP, models.ConditionQuestions,
			models.ConditionCorrect, models.ConditionMastery, models.ConditionLevel:
		default:
			return 0, fmt.Errorf("achievement %q: unknown condition kind %q", a.Slug, a.Kind)
		}

		achievement := models.Achievement{
			Slug:        a.Slug,
			Name:        a.Name,
			Description: a.Description,
			Category:    a.Category,
			Rarity:      a.Rarity,
			XPReward:    a.XPReward,
			Kind:        kind,
			Threshold:   a.Threshold,
			ModuleSlug:  a.ModuleSlug,
		}

		var existing models.Achievement
		err := db.Where("slug = ?", a.Slug).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&achievement).Error; err != nil {
				return 0, err
			}
		case err != nil:
			return 0, err
		default:
			achievement.ID = existing.ID
			if err := db.Save(&achievement).Error; err != nil {
				return 0, err
			}
		}
	}

	return len(catalog.Achievements), nil
}
