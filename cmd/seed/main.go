// Package main provides a tool to seed the database with test habit data.
//
// This reads existing users from the database (optionally creating test
// users first) and fills in habits plus a month of completion history to
// exercise streaks, heatmaps, and trend stats.
//
// Usage:
//
//	DATABASE_PATH=~/habitflow/habitflow.db go run ./cmd/seed
//	DATABASE_PATH=~/habitflow/habitflow.db go run ./cmd/seed --create-users
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/habitflow/habitflow-server/internal/auth"
	"github.com/habitflow/habitflow-server/internal/domain"
	"github.com/habitflow/habitflow-server/internal/id"
	"github.com/habitflow/habitflow-server/internal/logger"
	"github.com/habitflow/habitflow-server/internal/store/sqlite"
)

var createUsers = flag.Bool("create-users", false, "Create test users before seeding")

// seedDays is how far back the generated completion history reaches.
const seedDays = 30

func main() {
	flag.Parse()

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/habitflow/habitflow.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	quietLog := logger.New(logger.Config{
		Writer: os.Stderr,
		Format: "json",
		Level:  slog.LevelWarn,
	})

	s, err := sqlite.Open(dbPath, quietLog)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if *createUsers {
		createTestUsers(ctx, s)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to get users: %v", err)
	}

	if len(users) == 0 {
		log.Fatal("No users found in database. Create a user first.")
	}

	fmt.Printf("Found %d users\n", len(users))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, user := range users {
		fmt.Printf("\nSeeding data for user: %s (%s)\n", user.DisplayName, user.ID)

		habits, err := s.ListHabits(ctx, user.ID, true)
		if err != nil {
			log.Printf("Failed to list habits for user %s: %v", user.ID, err)
			continue
		}

		if len(habits) == 0 {
			habits = createSampleHabits(ctx, s, rng, user.ID)
		}

		if len(habits) == 0 {
			fmt.Printf("  No habits for this user, skipping\n")
			continue
		}

		fmt.Printf("  User has %d habits\n", len(habits))

		logsCreated := 0
		now := time.Now()

		for _, habit := range habits {
			for day := seedDays - 1; day >= 0; day-- {
				// Keep today and yesterday completed so every habit
				// shows an active streak; older days complete at 75%.
				if day > 1 && rng.Float32() > 0.75 {
					continue
				}

				date := domain.NormalizeDay(now.AddDate(0, 0, -day))

				if existing, _ := s.GetLogForDay(ctx, user.ID, habit.ID, date); existing != nil {
					continue
				}

				// Completion time somewhere between 6am and 11pm local.
				completedAt := time.Date(
					now.Year(), now.Month(), now.Day()-day,
					6+rng.Intn(17), rng.Intn(60), 0, 0, time.Local,
				)

				entry := &domain.CompletionLog{
					Syncable: domain.Syncable{
						ID:        id.MustGenerate("log"),
						CreatedAt: completedAt,
						UpdatedAt: completedAt,
					},
					HabitID:     habit.ID,
					UserID:      user.ID,
					Date:        date,
					Completed:   true,
					CompletedAt: &completedAt,
				}

				if err := s.CreateLog(ctx, entry); err != nil {
					log.Printf("Failed to create log: %v", err)
					continue
				}

				logsCreated++
			}
		}

		fmt.Printf("  Created %d completion logs across %d habits\n", logsCreated, len(habits))
	}

	fmt.Println("\nSeeding complete!")
}

// sampleHabits are the habit templates test users get.
var sampleHabits = []struct {
	name     string
	category domain.Category
	color    string
}{
	{"Morning run", domain.CategoryFitness, "#EF4444"},
	{"Read 20 pages", domain.CategoryLearning, "#3B82F6"},
	{"Meditate", domain.CategoryMindfulness, "#8B5CF6"},
	{"Drink 2L water", domain.CategoryHealth, "#06B6D4"},
	{"Practice guitar", domain.CategoryCreative, "#F59E0B"},
	{"Inbox zero", domain.CategoryProductivity, "#10B981"},
	{"Call a friend", domain.CategorySocial, "#EC4899"},
}

// createSampleHabits gives a user 3-5 habits picked from the templates.
func createSampleHabits(ctx context.Context, s *sqlite.Store, rng *rand.Rand, userID string) []*domain.Habit {
	count := 3 + rng.Intn(3)

	shuffled := make([]int, len(sampleHabits))
	for i := range shuffled {
		shuffled[i] = i
	}
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	now := time.Now()
	created := make([]*domain.Habit, 0, count)

	for _, idx := range shuffled[:count] {
		tmpl := sampleHabits[idx]

		habit := &domain.Habit{
			Syncable: domain.Syncable{
				ID:        id.MustGenerate("hab"),
				CreatedAt: now.AddDate(0, 0, -seedDays),
				UpdatedAt: now.AddDate(0, 0, -seedDays),
			},
			UserID:    userID,
			Name:      tmpl.name,
			Category:  tmpl.category,
			Color:     tmpl.color,
			Frequency: domain.FrequencyDaily,
			IsActive:  true,
		}

		if err := s.CreateHabit(ctx, habit); err != nil {
			log.Printf("  Failed to create habit %s: %v", tmpl.name, err)
			continue
		}

		fmt.Printf("  Created habit: %s\n", tmpl.name)
		created = append(created, habit)
	}

	return created
}

// testUserNames are display names for generated test users.
var testUserNames = []string{
	"Alex Rivera",
	"Jordan Chen",
	"Sam Taylor",
	"Casey Morgan",
	"Riley Kim",
}

// createTestUsers creates member accounts with a shared test password.
func createTestUsers(ctx context.Context, s *sqlite.Store) {
	fmt.Println("\n=== Creating Test Users ===")

	passwordHash, err := auth.HashPassword("testpass123")
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return
	}

	now := time.Now()

	for i, name := range testUserNames {
		email := fmt.Sprintf("test%d@example.com", i+1)

		if existing, _ := s.GetUserByEmail(ctx, email); existing != nil {
			fmt.Printf("  User %s already exists, skipping\n", email)
			continue
		}

		user := &domain.User{
			Syncable: domain.Syncable{
				ID:        id.MustGenerate("usr"),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Email:        email,
			PasswordHash: passwordHash,
			DisplayName:  name,
			Role:         domain.RoleMember,
		}

		if err := s.CreateUser(ctx, user); err != nil {
			log.Printf("  Failed to create user %s: %v", name, err)
			continue
		}

		fmt.Printf("  Created user: %s (%s)\n", name, email)
	}

	fmt.Println("=== Test Users Created ===")
}
