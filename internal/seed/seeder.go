package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/socialsimple/backend/internal/logger"
	"github.com/socialsimple/backend/internal/models"
	"github.com/socialsimple/backend/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EmailDomain marks seeded accounts so Clean can find them again.
const EmailDomain = "seed.socialsimple.local"

// DefaultPassword is the login password of every seeded account.
const DefaultPassword = "password123"

// Seeder handles database seeding operations
type Seeder struct {
	db         *gorm.DB
	users      repository.UserRepository
	posts      repository.PostRepository
	bcryptCost int
	rng        *rand.Rand
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	seed := time.Now().UnixNano()
	// Seed returns an error only for invalid sources
	_ = gofakeit.Seed(seed)
	return &Seeder{
		db:         db,
		users:      repository.NewUserRepository(db),
		posts:      repository.NewPostRepository(db),
		bcryptCost: bcrypt.DefaultCost,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// SetBcryptCost lowers hashing cost, for tests.
func (s *Seeder) SetBcryptCost(cost int) {
	s.bcryptCost = cost
}

// SeedDev seeds the development database with realistic data
func (s *Seeder) SeedDev(ctx context.Context) error {
	return s.run(ctx, 20, 100)
}

// SeedTest seeds a minimal data set
func (s *Seeder) SeedTest(ctx context.Context) error {
	return s.run(ctx, 2, 5)
}

func (s *Seeder) run(ctx context.Context, userCount, postCount int) error {
	logger.Log.Info("Creating users...", zap.Int("count", userCount))
	users, err := s.seedUsers(ctx, userCount)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	logger.Log.Info("Creating posts...", zap.Int("count", postCount))
	if err := s.seedPosts(ctx, users, postCount); err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	return nil
}

// Clean removes every seeded account together with its posts
func (s *Seeder) Clean(ctx context.Context) error {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Where("email LIKE ?", "%@"+EmailDomain).
		Find(&users).Error; err != nil {
		return fmt.Errorf("failed to find seed users: %w", err)
	}

	for _, u := range users {
		if err := s.users.DeleteUser(ctx, u.ID); err != nil {
			return fmt.Errorf("failed to delete user %s: %w", u.Email, err)
		}
	}

	logger.Log.Info("Removed seed users", zap.Int("count", len(users)))
	return nil
}

// Stats counts the rows visible to the feed
type Stats struct {
	Users int64
	Posts int64
}

// Stats reports the current user and post totals
func (s *Seeder) Stats(ctx context.Context) (Stats, error) {
	users, err := s.users.GetTotalUserCount(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count users: %w", err)
	}
	posts, err := s.posts.GetTotalPostCount(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count posts: %w", err)
	}
	return Stats{Users: users, Posts: posts}, nil
}

// seedUsers creates active accounts sharing DefaultPassword
func (s *Seeder) seedUsers(ctx context.Context, count int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	users := make([]models.User, 0, count)
	for len(users) < count {
		user := &models.User{Email: s.fakeEmail()}
		cred := &models.Credential{
			HashedPassword: string(hashed),
			IsActive:       true,
			IsVerified:     s.rng.Intn(2) == 0,
		}

		err := s.users.CreateUser(ctx, user, cred)
		if errors.Is(err, repository.ErrEmailTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	return users, nil
}

// seedPosts spreads posts over the last 30 days. Media URLs are placeholders.
func (s *Seeder) seedPosts(ctx context.Context, users []models.User, count int) error {
	if len(users) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := 0; i < count; i++ {
		owner := users[s.rng.Intn(len(users))]
		fileType := models.FileTypeImage
		ext := "jpg"
		if s.rng.Intn(5) == 0 {
			fileType = models.FileTypeVideo
			ext = "mp4"
		}
		name := fmt.Sprintf("%s_%s.%s", gofakeit.Word(), gofakeit.UUID()[:8], ext)

		post := &models.Post{
			UserID:    owner.ID,
			Caption:   s.caption(),
			URL:       fmt.Sprintf("https://picsum.photos/seed/%s/800/600", strings.TrimSuffix(name, "."+ext)),
			FileType:  fileType,
			FileName:  name,
			CreatedAt: now.Add(-time.Duration(s.rng.Int63n(int64(30 * 24 * time.Hour)))),
		}
		if err := s.posts.CreatePost(ctx, post); err != nil {
			return err
		}
	}

	return nil
}

func (s *Seeder) fakeEmail() string {
	local := strings.ToLower(gofakeit.Username())
	return fmt.Sprintf("%s%d@%s", local, s.rng.Intn(1000), EmailDomain)
}

func (s *Seeder) caption() string {
	if s.rng.Intn(4) == 0 {
		return ""
	}
	return gofakeit.HipsterSentence()
}
