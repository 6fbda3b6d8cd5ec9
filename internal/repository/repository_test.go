package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/socialsimple/backend/internal/database/dbtest"
	"github.com/socialsimple/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type RepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	users UserRepository
	posts PostRepository
	ctx   context.Context
}

func (suite *RepositoryTestSuite) SetupTest() {
	suite.db = dbtest.Open(suite.T())
	suite.users = NewUserRepository(suite.db)
	suite.posts = NewPostRepository(suite.db)
	suite.ctx = context.Background()
}

func (suite *RepositoryTestSuite) createUser(email string) *models.User {
	user := &models.User{Email: email}
	cred := &models.Credential{HashedPassword: "hash", IsActive: true}
	require.NoError(suite.T(), suite.users.CreateUser(suite.ctx, user, cred))
	return user
}

func (suite *RepositoryTestSuite) createPost(owner uuid.UUID, caption string, at time.Time) *models.Post {
	post := &models.Post{
		UserID:    owner,
		Caption:   caption,
		URL:       "https://cdn.example.com/" + caption,
		FileType:  models.FileTypeImage,
		FileName:  caption + ".jpg",
		CreatedAt: at,
	}
	require.NoError(suite.T(), suite.posts.CreatePost(suite.ctx, post))
	return post
}

func (suite *RepositoryTestSuite) TestCreateUserAssignsIDAndCredential() {
	user := suite.createUser("alice@example.com")
	assert.NotEqual(suite.T(), uuid.Nil, user.ID)

	account, err := suite.users.GetAccount(suite.ctx, user.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "alice@example.com", account.Email)
	assert.Equal(suite.T(), user.ID, account.Credential.UserID)
	assert.True(suite.T(), account.Credential.IsActive)
	assert.False(suite.T(), account.Credential.IsSuperuser)
	assert.False(suite.T(), account.Credential.IsVerified)
}

func (suite *RepositoryTestSuite) TestCreateUserDuplicateEmail() {
	suite.createUser("alice@example.com")

	err := suite.users.CreateUser(suite.ctx,
		&models.User{Email: "ALICE@example.com"},
		&models.Credential{HashedPassword: "hash", IsActive: true})
	assert.ErrorIs(suite.T(), err, ErrEmailTaken)

	count, err := suite.users.GetTotalUserCount(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *RepositoryTestSuite) TestCreateUserInvalidInput() {
	assert.ErrorIs(suite.T(), suite.users.CreateUser(suite.ctx, nil, &models.Credential{}), ErrInvalidInput)
	assert.ErrorIs(suite.T(), suite.users.CreateUser(suite.ctx, &models.User{Email: " "}, &models.Credential{}), ErrInvalidInput)
}

func (suite *RepositoryTestSuite) TestGetAccountByEmailIsCaseInsensitive() {
	user := suite.createUser("Bob@Example.com")

	account, err := suite.users.GetAccountByEmail(suite.ctx, "bob@example.COM")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, account.ID)

	_, err = suite.users.GetAccountByEmail(suite.ctx, "nobody@example.com")
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

func (suite *RepositoryTestSuite) TestGetAccountUnknown() {
	_, err := suite.users.GetAccount(suite.ctx, uuid.New())
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

func (suite *RepositoryTestSuite) TestUpdateAccount() {
	alice := suite.createUser("alice@example.com")
	suite.createUser("bob@example.com")

	taken := "bob@example.com"
	err := suite.users.UpdateAccount(suite.ctx, alice.ID, &taken, map[string]interface{}{"is_verified": true})
	assert.ErrorIs(suite.T(), err, ErrEmailTaken)

	account, err := suite.users.GetAccount(suite.ctx, alice.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "alice@example.com", account.Email)
	assert.False(suite.T(), account.Credential.IsVerified, "refused update writes nothing")

	newEmail := "alice@example.org"
	require.NoError(suite.T(), suite.users.UpdateAccount(suite.ctx, alice.ID, &newEmail, map[string]interface{}{"is_verified": true}))

	account, err = suite.users.GetAccount(suite.ctx, alice.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "alice@example.org", account.Email)
	assert.True(suite.T(), account.Credential.IsVerified)

	blank := " "
	assert.ErrorIs(suite.T(), suite.users.UpdateAccount(suite.ctx, alice.ID, &blank, nil), ErrInvalidInput)

	other := "new@example.com"
	assert.ErrorIs(suite.T(), suite.users.UpdateAccount(suite.ctx, uuid.New(), &other, nil), ErrUserNotFound)
}

func (suite *RepositoryTestSuite) TestUpdateCredential() {
	user := suite.createUser("alice@example.com")

	require.NoError(suite.T(), suite.users.UpdateCredential(suite.ctx, user.ID, map[string]interface{}{
		"is_superuser": true,
		"is_verified":  true,
	}))

	account, err := suite.users.GetAccount(suite.ctx, user.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), account.Credential.IsSuperuser)
	assert.True(suite.T(), account.Credential.IsVerified)

	err = suite.users.UpdateCredential(suite.ctx, uuid.New(), map[string]interface{}{"is_active": false})
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

func (suite *RepositoryTestSuite) TestDeleteUserRemovesPostsAndCredential() {
	alice := suite.createUser("alice@example.com")
	bob := suite.createUser("bob@example.com")
	suite.createPost(alice.ID, "a1", time.Now())
	kept := suite.createPost(bob.ID, "b1", time.Now())

	require.NoError(suite.T(), suite.users.DeleteUser(suite.ctx, alice.ID))

	_, err := suite.users.GetAccount(suite.ctx, alice.ID)
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)

	var creds int64
	suite.db.Model(&models.Credential{}).Where("user_id = ?", alice.ID).Count(&creds)
	assert.Zero(suite.T(), creds)

	posts, err := suite.posts.ListPostsNewestFirst(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), posts, 1)
	assert.Equal(suite.T(), kept.ID, posts[0].ID)

	assert.ErrorIs(suite.T(), suite.users.DeleteUser(suite.ctx, alice.ID), ErrUserNotFound)
}

func (suite *RepositoryTestSuite) TestGetEmailsByID() {
	alice := suite.createUser("alice@example.com")
	bob := suite.createUser("bob@example.com")

	emails, err := suite.users.GetEmailsByID(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), map[uuid.UUID]string{
		alice.ID: "alice@example.com",
		bob.ID:   "bob@example.com",
	}, emails)
}

func (suite *RepositoryTestSuite) TestListPostsNewestFirst() {
	user := suite.createUser("alice@example.com")
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	suite.createPost(user.ID, "middle", base.Add(time.Minute))
	suite.createPost(user.ID, "oldest", base)
	suite.createPost(user.ID, "newest", base.Add(2*time.Minute))

	posts, err := suite.posts.ListPostsNewestFirst(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), posts, 3)
	assert.Equal(suite.T(), "newest", posts[0].Caption)
	assert.Equal(suite.T(), "middle", posts[1].Caption)
	assert.Equal(suite.T(), "oldest", posts[2].Caption)
	for i := 1; i < len(posts); i++ {
		assert.False(suite.T(), posts[i].CreatedAt.After(posts[i-1].CreatedAt))
	}
}

func (suite *RepositoryTestSuite) TestListPostsEmpty() {
	posts, err := suite.posts.ListPostsNewestFirst(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), posts)
}

func (suite *RepositoryTestSuite) TestListPostsByUser() {
	alice := suite.createUser("alice@example.com")
	bob := suite.createUser("bob@example.com")
	suite.createPost(alice.ID, "a1", time.Now())
	suite.createPost(bob.ID, "b1", time.Now())

	posts, err := suite.posts.ListPostsByUser(suite.ctx, bob.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), posts, 1)
	assert.Equal(suite.T(), "b1", posts[0].Caption)
}

func (suite *RepositoryTestSuite) TestGetAndDeletePost() {
	user := suite.createUser("alice@example.com")
	post := suite.createPost(user.ID, "cat", time.Now())

	got, err := suite.posts.GetPost(suite.ctx, post.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), post.URL, got.URL)
	assert.Equal(suite.T(), user.ID, got.UserID)

	require.NoError(suite.T(), suite.posts.DeletePost(suite.ctx, post.ID))

	_, err = suite.posts.GetPost(suite.ctx, post.ID)
	assert.ErrorIs(suite.T(), err, ErrPostNotFound)
	assert.ErrorIs(suite.T(), suite.posts.DeletePost(suite.ctx, post.ID), ErrPostNotFound)

	count, err := suite.posts.GetTotalPostCount(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), count)
}

func (suite *RepositoryTestSuite) TestCreatePostRequiresOwner() {
	err := suite.posts.CreatePost(suite.ctx, &models.Post{URL: "u", FileType: "image", FileName: "f"})
	assert.ErrorIs(suite.T(), err, ErrInvalidInput)
	assert.ErrorIs(suite.T(), suite.posts.CreatePost(suite.ctx, nil), ErrInvalidInput)
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
