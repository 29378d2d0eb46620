package main

import (
	"log"
	"os"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/mapper"
	"copyforge-be/internal/model"
	"copyforge-be/pkg/database"
	"copyforge-be/pkg/scoring"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type seedVoice struct {
	name        string
	guide       string
	bannedWords []string
	thresholds  *scoring.Thresholds
}

func seedVoices() []seedVoice {
	strict := scoring.DefaultThresholds()
	strict.SlopMax = 3
	strict.VendorSpeakMax = 3

	return []seedVoice{
		{
			name: "Practitioner",
			guide: "Write like an experienced engineer talking to a peer. Concrete, " +
				"specific, no hype. Prefer numbers and named mechanisms over adjectives. " +
				"Short sentences. It is fine to acknowledge tradeoffs.",
			bannedWords: []string{"synergy", "best-in-class", "world-class"},
			thresholds:  &strict,
		},
		{
			name: "Executive Brief",
			guide: "Write for a VP skimming between meetings. Lead with the business " +
				"outcome, quantify impact where the source material allows, one idea per " +
				"paragraph. No implementation detail unless it carries the argument.",
			bannedWords: []string{"leverage", "holistic"},
		},
		{
			name: "Field Conversational",
			guide: "Write for a seller to say out loud. Contractions, natural rhythm, " +
				"plain words. Questions are welcome. Nothing that sounds like it was " +
				"read off a slide.",
			bannedWords: []string{"utilize", "robust", "seamless"},
		},
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDB(dsn)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Seeding starter voice profiles\n")

	voiceMapper := mapper.NewVoiceMapper()
	for _, sv := range seedVoices() {
		var existing model.VoiceProfile
		err := db.Where("name = ?", sv.name).First(&existing).Error
		if err == nil {
			color.Yellow("Skipping %q (already present)", sv.name)
			continue
		}

		m := voiceMapper.ToModel(&entity.VoiceProfile{
			Id:          uuid.New(),
			Name:        sv.name,
			Guide:       sv.guide,
			BannedWords: sv.bannedWords,
			Thresholds:  sv.thresholds,
		})
		if err := db.Create(m).Error; err != nil {
			color.Red("Failed to seed %q: %v", sv.name, err)
			continue
		}
		color.Green("Seeded %q", sv.name)
	}

	color.Cyan("\nDone")
}
