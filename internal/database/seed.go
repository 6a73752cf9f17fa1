package database

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

var seedActivityTypes = []string{"Running", "Cycling", "Swimming", "Weightlifting", "Yoga", "Boxing", "CrossFit"}

type seedParticipant struct {
	name  string
	email string
	team  string
}

var seedParticipants = []seedParticipant{
	{"Ada Okafor", "ada.okafor@teamfit.dev", "Cardio Crushers"},
	{"Bruno Silva", "bruno.silva@teamfit.dev", "Cardio Crushers"},
	{"Chloe Tanaka", "chloe.tanaka@teamfit.dev", "Cardio Crushers"},
	{"Dmitri Volkov", "dmitri.volkov@teamfit.dev", "Cardio Crushers"},
	{"Elena Rossi", "elena.rossi@teamfit.dev", "Iron Giants"},
	{"Farid Haddad", "farid.haddad@teamfit.dev", "Iron Giants"},
	{"Grace Nakamura", "grace.nakamura@teamfit.dev", "Iron Giants"},
	{"Henrik Larsen", "henrik.larsen@teamfit.dev", "Iron Giants"},
}

var seedWorkouts = []*Workout{
	{
		Name:        "Foundation Strength",
		Description: "Full-body strength session built around the big compound lifts",
		Difficulty:  "Hard",
		Duration:    45,
		Exercises:   []string{"Bench Press 4x8", "Squats 4x10", "Deadlifts 3x8", "Pull-ups 3x12"},
		Category:    "Strength",
	},
	{
		Name:        "Interval Sprints",
		Description: "Short high-intensity sprint repeats with full recovery",
		Difficulty:  "Medium",
		Duration:    30,
		Exercises:   []string{"5 min warm-up jog", "10x 100m sprints", "5 min cool-down walk"},
		Category:    "Cardio",
	},
	{
		Name:        "Mobility Flow",
		Description: "Low-impact flexibility and balance work",
		Difficulty:  "Easy",
		Duration:    25,
		Exercises:   []string{"Sun Salutations 5x", "Warrior Poses", "Pigeon Pose", "Meditation 5 min"},
		Category:    "Flexibility",
	},
	{
		Name:        "Fight Conditioning",
		Description: "Boxing-inspired conditioning circuit",
		Difficulty:  "Hard",
		Duration:    60,
		Exercises:   []string{"Shadow Boxing 3x3 min", "Heavy Bag 5x2 min", "Burpees 3x20", "Jump Rope 10 min"},
		Category:    "Combat",
	},
	{
		Name:        "Starter Circuit",
		Description: "Bodyweight-only circuit for new participants",
		Difficulty:  "Easy",
		Duration:    20,
		Exercises:   []string{"Push-ups 3x10", "Bodyweight Squats 3x15", "Plank 3x30 sec", "Jumping Jacks 3x20"},
		Category:    "Full Body",
	},
}

// Seed populates the database with demo participants, teams, activities and
// the workout catalog. It is intended for development and demos; totals and
// leaderboards are left at zero for the caller to recompute.
func (db *DB) Seed() error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().Unix()

	teams := map[string]string{
		"Cardio Crushers": "Endurance above all. Long runs, longer rides.",
		"Iron Giants":     "Strength first. The rack is home.",
	}
	for name, description := range teams {
		t := &Team{
			ID:          uuid.NewString(),
			Name:        name,
			Description: description,
		}
		if err := db.CreateTeam(t); err != nil {
			return fmt.Errorf("failed to seed team %s: %w", name, err)
		}
	}

	for _, sp := range seedParticipants {
		p := &Participant{
			ID:       uuid.NewString(),
			Name:     sp.name,
			Email:    sp.email,
			Team:     sp.team,
			JoinedAt: now - int64(rng.Intn(90))*86400,
		}
		if err := db.CreateParticipant(p); err != nil {
			return fmt.Errorf("failed to seed participant %s: %w", sp.email, err)
		}

		// 3-8 activities per participant over the last month
		for i := 0; i < 3+rng.Intn(6); i++ {
			a := &Activity{
				ID:           uuid.NewString(),
				UserEmail:    sp.email,
				UserName:     sp.name,
				ActivityType: seedActivityTypes[rng.Intn(len(seedActivityTypes))],
				Duration:     20 + rng.Intn(100),
				Calories:     100 + rng.Intn(700),
				Points:       10 + rng.Intn(40),
				Date:         now - int64(rng.Intn(30))*86400,
				Notes:        "Great workout session!",
			}
			if rng.Intn(2) == 0 {
				distance := 1.0 + rng.Float64()*14.0
				a.Distance = &distance
			}
			if err := db.CreateActivity(a); err != nil {
				return fmt.Errorf("failed to seed activity for %s: %w", sp.email, err)
			}
		}
	}

	for _, w := range seedWorkouts {
		w.ID = uuid.NewString()
		if err := db.CreateWorkout(w); err != nil {
			return fmt.Errorf("failed to seed workout %s: %w", w.Name, err)
		}
	}

	return nil
}
