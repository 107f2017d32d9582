package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-user-registration/config"
	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	repo "github.com/oksasatya/go-user-registration/internal/domain/repository"
	"github.com/oksasatya/go-user-registration/pkg/helpers"
	"github.com/oksasatya/go-user-registration/pkg/i18n"
	"github.com/oksasatya/go-user-registration/pkg/mailer"
	"github.com/oksasatya/go-user-registration/pkg/mailer/templates"
	"github.com/oksasatya/go-user-registration/pkg/validation"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, u *entity.User) (*entity.User, error) {
	args := m.Called(ctx, u)
	if fn, ok := args.Get(0).(func(*entity.User) *entity.User); ok {
		return fn(u), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(ctx context.Context, body any) error {
	return m.Called(ctx, body).Error(0)
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("entropy exhausted") }
func (failingHasher) Verify(string, string) bool  { return false }

type failingIssuer struct{}

func (failingIssuer) Issue(string) (string, time.Time, error) {
	return "", time.Time{}, errors.New("key unavailable")
}

// persist mimics the store: it assigns ids and returns a copy.
func persist(u *entity.User) *entity.User {
	saved := *u
	saved.ID = uuid.NewString()
	saved.Phones = make([]entity.Phone, len(u.Phones))
	for i, p := range u.Phones {
		p.ID = int64(i + 1)
		saved.Phones[i] = p
	}
	return &saved
}

type UserServiceTestSuite struct {
	suite.Suite
	repo    *MockUserRepository
	hasher  *helpers.BcryptHasher
	issuer  *helpers.JWTIssuer
	service *Service
	ctx     context.Context
}

func (suite *UserServiceTestSuite) SetupTest() {
	emails, err := validation.NewEmailValidator(config.DefaultEmailPattern)
	require.NoError(suite.T(), err)
	suite.hasher, err = helpers.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(suite.T(), err)
	suite.issuer, err = helpers.NewJWTIssuer("test-secret", time.Hour)
	require.NoError(suite.T(), err)

	suite.repo = &MockUserRepository{}
	suite.repo.Test(suite.T())
	suite.service = NewService(suite.repo, emails, suite.hasher, suite.issuer, i18n.New("en"), nil)
	suite.ctx = context.Background()
}

func (suite *UserServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func validInput() RegisterInput {
	return RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
		Phones:   []PhoneDTO{},
	}
}

func (suite *UserServiceTestSuite) TestRegisterUser_Success() {
	in := validInput()
	suite.repo.On("FindByEmail", suite.ctx, in.Email).Return(nil, repo.ErrNotFound).Once()
	suite.repo.On("Save", suite.ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == in.Email && u.Password != in.Password && u.IsActive && u.Token != ""
	})).Return(persist, nil).Once()

	res, err := suite.service.RegisterUser(suite.ctx, in)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), res)

	assert.NotEmpty(suite.T(), res.ID)
	assert.True(suite.T(), res.IsActive)
	assert.NotEmpty(suite.T(), res.Token)
	assert.False(suite.T(), res.Created.IsZero())
	assert.Equal(suite.T(), res.Created, res.Modified)
	assert.Equal(suite.T(), res.Created, res.LastLogin)
	assert.NotEqual(suite.T(), in.Password, res.EncryptedPassword)
	assert.True(suite.T(), suite.hasher.Verify(in.Password, res.EncryptedPassword))
	assert.NotNil(suite.T(), res.Phones)
	assert.Empty(suite.T(), res.Phones)

	subject, err := suite.issuer.Verify(res.Token)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), in.Email, subject)
}

func (suite *UserServiceTestSuite) TestRegisterUser_WithPhones() {
	in := validInput()
	in.Phones = []PhoneDTO{
		{Number: "123456789", CityCode: "1", CountryCode: "57"},
		{Number: "555000111", CityCode: "2", CountryCode: "56"},
	}
	var stored *entity.User
	suite.repo.On("FindByEmail", suite.ctx, in.Email).Return(nil, repo.ErrNotFound).Once()
	suite.repo.On("Save", suite.ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*entity.User) }).
		Return(persist, nil).Once()

	res, err := suite.service.RegisterUser(suite.ctx, in)
	require.NoError(suite.T(), err)

	require.Len(suite.T(), res.Phones, 2)
	assert.Equal(suite.T(), "123456789", res.Phones[0].Number)
	assert.Equal(suite.T(), in.Phones, res.Phones)

	require.NotNil(suite.T(), stored)
	require.Len(suite.T(), stored.Phones, len(in.Phones))
	assert.Equal(suite.T(), "1", stored.Phones[0].CityCode)
	assert.Equal(suite.T(), "57", stored.Phones[0].CountryCode)
}

func (suite *UserServiceTestSuite) TestRegisterUser_NilPhones() {
	in := validInput()
	in.Phones = nil
	suite.repo.On("FindByEmail", suite.ctx, in.Email).Return(nil, repo.ErrNotFound).Once()
	suite.repo.On("Save", suite.ctx, mock.Anything).Return(persist, nil).Once()

	res, err := suite.service.RegisterUser(suite.ctx, in)
	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), res.Phones)
	assert.Empty(suite.T(), res.Phones)
}

func (suite *UserServiceTestSuite) TestRegisterUser_RoundTripsRequestFields() {
	in := validInput()
	in.Name = "Juan Rodriguez"
	in.Email = "juan@rodriguez.org"
	in.Phones = []PhoneDTO{{Number: "1234567", CityCode: "1", CountryCode: "57"}}
	suite.repo.On("FindByEmail", suite.ctx, in.Email).Return(nil, repo.ErrNotFound).Once()
	suite.repo.On("Save", suite.ctx, mock.Anything).Return(persist, nil).Once()

	res, err := suite.service.RegisterUser(suite.ctx, in)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), in.Name, res.Name)
	assert.Equal(suite.T(), in.Email, res.Email)
	assert.Equal(suite.T(), in.Phones, res.Phones)
}

func (suite *UserServiceTestSuite) TestRegisterUser_EmailAlreadyExists() {
	in := validInput()
	suite.repo.On("FindByEmail", suite.ctx, in.Email).
		Return(&entity.User{ID: "existing", Email: in.Email}, nil).Once()

	res, err := suite.service.RegisterUser(suite.ctx, in)
	assert.Nil(suite.T(), res)
	assert.ErrorIs(suite.T(), err, ErrEmailAlreadyExists)
	assert.EqualError(suite.T(), err, "The email is already registered")
	suite.repo.AssertNotCalled(suite.T(), "Save", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegisterUser_LostInsertRace() {
	in := validInput()
	suite.repo.On("FindByEmail", suite.ctx, in.Email).Return(nil, repo.ErrNotFound).Once()
	suite.repo.On("Save", suite.ctx, mock.Anything).Return(nil, repo.ErrEmailTaken).Once()

	_, err := suite.service.RegisterUser(suite.ctx, in)
	assert.ErrorIs(suite.T(), err, ErrEmailAlreadyExists)
	assert.NotErrorIs(suite.T(), err, ErrUnexpected)
}

func (suite *UserServiceTestSuite) TestRegisterUser_InvalidEmailNeverReachesStore() {
	for _, email := range []string{"invalid-email", "user@", "", "user@example"} {
		in := validInput()
		in.Email = email

		res, err := suite.service.RegisterUser(suite.ctx, in)
		assert.Nil(suite.T(), res)
		assert.ErrorIs(suite.T(), err, ErrInvalidEmail, email)
		assert.EqualError(suite.T(), err, "The email format is invalid")
	}
	suite.repo.AssertNotCalled(suite.T(), "FindByEmail", mock.Anything, mock.Anything)
	suite.repo.AssertNotCalled(suite.T(), "Save", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegisterUser_LookupFailure() {
	in := validInput()
	suite.repo.On("FindByEmail", suite.ctx, in.Email).Return(nil, errors.New("connection refused")).Once()

	_, err := suite.service.RegisterUser(suite.ctx, in)
	assert.ErrorIs(suite.T(), err, ErrUnexpected)
	assert.EqualError(suite.T(), err, "An unexpected error occurred: connection refused")
	suite.repo.AssertNotCalled(suite.T(), "Save", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegisterUser_SaveFailure() {
	in := validInput()
	cause := errors.New("disk full")
	suite.repo.On("FindByEmail", suite.ctx, in.Email).Return(nil, repo.ErrNotFound).Once()
	suite.repo.On("Save", suite.ctx, mock.Anything).Return(nil, cause).Once()

	_, err := suite.service.RegisterUser(suite.ctx, in)
	assert.ErrorIs(suite.T(), err, ErrUnexpected)
	assert.ErrorIs(suite.T(), err, cause)
}

func (suite *UserServiceTestSuite) TestRegisterUser_HashFailure() {
	in := validInput()
	suite.service.Hasher = failingHasher{}
	suite.repo.On("FindByEmail", suite.ctx, in.Email).Return(nil, repo.ErrNotFound).Once()

	_, err := suite.service.RegisterUser(suite.ctx, in)
	assert.ErrorIs(suite.T(), err, ErrUnexpected)
	assert.Contains(suite.T(), err.Error(), "entropy exhausted")
	suite.repo.AssertNotCalled(suite.T(), "Save", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegisterUser_TokenFailure() {
	in := validInput()
	suite.service.Tokens = failingIssuer{}
	suite.repo.On("FindByEmail", suite.ctx, in.Email).Return(nil, repo.ErrNotFound).Once()

	_, err := suite.service.RegisterUser(suite.ctx, in)
	assert.ErrorIs(suite.T(), err, ErrUnexpected)
	assert.Contains(suite.T(), err.Error(), "key unavailable")
	suite.repo.AssertNotCalled(suite.T(), "Save", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegisterUser_TimestampsFromClock() {
	in := validInput()
	fixed := time.Date(2024, 9, 1, 12, 30, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return fixed }
	suite.repo.On("FindByEmail", suite.ctx, in.Email).Return(nil, repo.ErrNotFound).Once()
	suite.repo.On("Save", suite.ctx, mock.Anything).Return(persist, nil).Once()

	res, err := suite.service.RegisterUser(suite.ctx, in)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), fixed, res.Created)
	assert.Equal(suite.T(), fixed, res.Modified)
	assert.Equal(suite.T(), fixed, res.LastLogin)
}

func (suite *UserServiceTestSuite) TestRegisterUser_PublishesWelcomeEmail() {
	in := validInput()
	pub := &MockPublisher{}
	pub.Test(suite.T())
	suite.service.Publisher = pub
	suite.repo.On("FindByEmail", suite.ctx, in.Email).Return(nil, repo.ErrNotFound).Once()
	suite.repo.On("Save", suite.ctx, mock.Anything).Return(persist, nil).Once()
	pub.On("PublishJSON", suite.ctx, mock.MatchedBy(func(job mailer.EmailJob) bool {
		return job.To == in.Email && job.Template == templates.Welcome && job.Data["Name"] == in.Name
	})).Return(nil).Once()

	_, err := suite.service.RegisterUser(suite.ctx, in)
	require.NoError(suite.T(), err)
	pub.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_PublishFailureIsNotFatal() {
	in := validInput()
	pub := &MockPublisher{}
	suite.service.Publisher = pub
	suite.repo.On("FindByEmail", suite.ctx, in.Email).Return(nil, repo.ErrNotFound).Once()
	suite.repo.On("Save", suite.ctx, mock.Anything).Return(persist, nil).Once()
	pub.On("PublishJSON", suite.ctx, mock.Anything).Return(errors.New("channel closed")).Once()

	res, err := suite.service.RegisterUser(suite.ctx, in)
	require.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), res.ID)
}

func (suite *UserServiceTestSuite) TestGetProfile() {
	stored := &entity.User{ID: "u-1", Email: "test@example.com", Name: "Test User", Password: "hash", IsActive: true}
	suite.repo.On("FindByEmail", suite.ctx, "test@example.com").Return(stored, nil).Once()
	suite.repo.On("FindByEmail", suite.ctx, "ghost@example.com").Return(nil, repo.ErrNotFound).Once()

	res, err := suite.service.GetProfile(suite.ctx, "test@example.com")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "u-1", res.ID)
	assert.Equal(suite.T(), "hash", res.EncryptedPassword)

	_, err = suite.service.GetProfile(suite.ctx, "ghost@example.com")
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", &Error{Kind: ErrUnexpected, Message: "An unexpected error occurred", Err: cause})

	assert.ErrorIs(t, err, ErrUnexpected)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrInvalidEmail)

	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "An unexpected error occurred: boom", appErr.Error())

	plain := &Error{Kind: ErrInvalidEmail, Message: "bad"}
	assert.Equal(t, "bad", plain.Error())
}
