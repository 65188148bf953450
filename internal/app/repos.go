package app

import (
	"gorm.io/gorm"

	"github.com/lunacare/lunacare-backend/internal/data/repos"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
)

type Repos struct {
	User        repos.UserRepo
	UserToken   repos.UserTokenRepo
	Profile     repos.ProfileRepo
	Cycle       repos.CycleRepo
	Health      repos.HealthRepo
	Assessment  repos.AssessmentRepo
	Medication  repos.MedicationRepo
	Appointment repos.AppointmentRepo
	Prediction  repos.PredictionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		UserToken:   repos.NewUserTokenRepo(db, log),
		Profile:     repos.NewProfileRepo(db, log),
		Cycle:       repos.NewCycleRepo(db, log),
		Health:      repos.NewHealthRepo(db, log),
		Assessment:  repos.NewAssessmentRepo(db, log),
		Medication:  repos.NewMedicationRepo(db, log),
		Appointment: repos.NewAppointmentRepo(db, log),
		Prediction:  repos.NewPredictionRepo(db, log),
	}
}
