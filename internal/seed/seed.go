package seed

import (
	"fmt"
	"log"
	"strings"

	"rewear/internal/models"

	"gorm.io/gorm"
)

// Options controls how much data the seeder generates.
type Options struct {
	Users   int  `yaml:"users"`
	Items   int  `yaml:"items"`
	Swaps   int  `yaml:"swaps"`
	Likes   int  `yaml:"likes"`
	Reports int  `yaml:"reports"`
	Clean   bool `yaml:"clean"`
}

// Seeder populates the database with generated marketplace data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the given DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes seeded data in dependency order.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"likes", "reports", "closet_tokens", "swaps", "avatars", "items", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")
	return nil
}

// Run generates users, their closets and a mesh of swaps, likes and reports.
func (s *Seeder) Run(opts Options) error {
	if opts.Clean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	log.Printf("Seeding %d users, %d items, %d swaps, %d likes, %d reports",
		opts.Users, opts.Items, opts.Swaps, opts.Likes, opts.Reports)

	users, err := s.seedUsers(opts.Users)
	if err != nil {
		return err
	}
	items, err := s.seedItems(users, opts.Items)
	if err != nil {
		return err
	}
	if err := s.seedSwaps(users, items, opts.Swaps); err != nil {
		return err
	}
	if err := s.seedLikes(users, items, opts.Likes); err != nil {
		return err
	}
	if err := s.seedReports(users, items, opts.Reports); err != nil {
		return err
	}

	log.Println("Seeding complete")
	return nil
}

func (s *Seeder) seedUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n+1)

	// One deterministic admin for moderation workflows.
	admin, err := s.factory.CreateUser(func(u *models.User) {
		u.ExternalID = "user_seed_admin"
		u.Email = "admin@rewear.local"
		u.FirstName = "Ada"
		u.LastName = "Admin"
		u.Role = models.UserRoleAdmin
	})
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	users = append(users, admin)

	for i := 0; i < n; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("seed user %d: %w", i, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedItems(users []*models.User, n int) ([]*models.Item, error) {
	items := make([]*models.Item, 0, n)
	for i := 0; i < n; i++ {
		owner := users[s.factory.r.Intn(len(users))]
		items = append(items, s.factory.BuildItem(owner))
	}
	if err := s.factory.CreateItemsBatch(items); err != nil {
		return nil, fmt.Errorf("seed items: %w", err)
	}
	return items, nil
}

// seedSwaps creates a mix of pending, accepted and completed swaps. Completed
// swaps mark their items swapped and mint closet tokens, mirroring what the
// live transition does.
func (s *Seeder) seedSwaps(users []*models.User, items []*models.Item, n int) error {
	created := 0
	for attempt := 0; attempt < n*4 && created < n; attempt++ {
		item := items[s.factory.r.Intn(len(items))]
		if item.Status != models.ItemStatusAvailable {
			continue
		}
		requester := users[s.factory.r.Intn(len(users))]
		if requester.ID == item.UserID {
			continue
		}

		status := models.SwapStatusPending
		switch s.factory.r.Intn(5) {
		case 0:
			status = models.SwapStatusAccepted
		case 1:
			status = models.SwapStatusRejected
		case 2:
			status = models.SwapStatusCompleted
		}

		swap, err := s.factory.CreateSwap(requester, item, func(sw *models.Swap) {
			sw.Status = status
		})
		if err != nil {
			return fmt.Errorf("seed swap: %w", err)
		}
		created++

		if status != models.SwapStatusCompleted {
			continue
		}
		item.Status = models.ItemStatusSwapped
		if err := s.db.Model(&models.Item{}).Where("id = ?", item.ID).
			Update("status", models.ItemStatusSwapped).Error; err != nil {
			return fmt.Errorf("mark item swapped: %w", err)
		}
		if err := s.db.Model(&models.User{}).
			Where("id IN ?", []uint{item.UserID, requester.ID}).
			Update("total_swaps", gorm.Expr("total_swaps + 1")).Error; err != nil {
			return fmt.Errorf("bump swap counters: %w", err)
		}
		if _, err := s.factory.CreateToken(owner(users, item.UserID), item, &swap.ID); err != nil {
			return fmt.Errorf("seed token: %w", err)
		}
	}
	log.Printf("Created %d swaps", created)
	return nil
}

func (s *Seeder) seedLikes(users []*models.User, items []*models.Item, n int) error {
	for i := 0; i < n; i++ {
		user := users[s.factory.r.Intn(len(users))]
		item := items[s.factory.r.Intn(len(items))]
		if user.ID == item.UserID {
			continue
		}
		if err := s.factory.CreateLike(user, item); err != nil {
			return fmt.Errorf("seed like: %w", err)
		}
	}
	return nil
}

func (s *Seeder) seedReports(users []*models.User, items []*models.Item, n int) error {
	for i := 0; i < n; i++ {
		reporter := users[s.factory.r.Intn(len(users))]
		item := items[s.factory.r.Intn(len(items))]
		if reporter.ID == item.UserID {
			continue
		}
		if _, err := s.factory.CreateReport(reporter, item); err != nil {
			if isDuplicate(err) {
				continue
			}
			return fmt.Errorf("seed report: %w", err)
		}
		if err := s.db.Model(&models.Item{}).Where("id = ?", item.ID).
			Update("report_count", gorm.Expr("report_count + 1")).Error; err != nil {
			return fmt.Errorf("bump report count: %w", err)
		}
	}
	return nil
}

func owner(users []*models.User, id uint) *models.User {
	for _, u := range users {
		if u.ID == id {
			return u
		}
	}
	return users[0]
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}
