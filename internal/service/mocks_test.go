package service

import (
	"context"
	"errors"
	"time"

	"CapybaraPetService/internal/models"
	"CapybaraPetService/internal/repository/postgres"
	"CapybaraPetService/pkg/apperrors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var errStorageDown = errors.New("storage is down")

// Мок для репозитория пользователей
type MockUserRepository struct {
	users    map[string]*models.User
	takenIDs map[string]bool
	creates  int
	err      error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:    make(map[string]*models.User),
		takenIDs: make(map[string]bool),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.creates++
	if m.err != nil {
		return m.err
	}
	if m.takenIDs[user.ID] {
		return postgres.ErrDuplicateID
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperrors.Conflict("Email already exists")
		}
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.users[id]
	return ok, nil
}

func (m *MockUserRepository) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	for id, u := range m.users {
		if u.Email == email && id != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	user, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range fields {
		switch key {
		case "user_name":
			user.UserName = value.(string)
		case "email":
			user.Email = value.(string)
		case "age":
			user.Age = value.(int)
		case "gender":
			user.Gender = value.(string)
		case "height":
			user.Height = value.(float64)
		case "weight":
			user.Weight = value.(float64)
		case "goal_weight":
			user.GoalWeight = value.(float64)
		case "goal_steps":
			user.GoalSteps = value.(int)
		case "goal_calories":
			user.GoalCalories = value.(int)
		case "goal_water":
			user.GoalWater = value.(int)
		case "password":
			user.PasswordHash = value.(string)
		}
	}
	return nil
}

// Мок для кэша профилей
type MockUserCache struct {
	users   map[string]*models.UserResponse
	deleted []string
}

func NewMockUserCache() *MockUserCache {
	return &MockUserCache{users: make(map[string]*models.UserResponse)}
}

func (m *MockUserCache) SetUser(ctx context.Context, user *models.UserResponse) {
	m.users[user.ID] = user
}

func (m *MockUserCache) GetUser(ctx context.Context, id string) (*models.UserResponse, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, redis.Nil
	}
	return user, nil
}

func (m *MockUserCache) DeleteUser(ctx context.Context, id string) {
	delete(m.users, id)
	m.deleted = append(m.deleted, id)
}

// Мок для выпуска токенов
type MockTokenIssuer struct {
	issued []string
}

func (m *MockTokenIssuer) IssueLoginToken(userID, email string) (string, error) {
	m.issued = append(m.issued, userID)
	return "token-" + userID, nil
}

// Мок для репозитория питомцев
type MockPetRepository struct {
	pets     map[uint]*models.Pet
	owners   map[uint]string
	emotions map[string]*models.Emotion
	statuses map[uint]*models.PetStatus
	created  []postgres.CreatePetParams
	createFn func(params postgres.CreatePetParams) (*models.Pet, error)
}

func NewMockPetRepository() *MockPetRepository {
	return &MockPetRepository{
		pets:   make(map[uint]*models.Pet),
		owners: make(map[uint]string),
		emotions: map[string]*models.Emotion{
			"neutral": {ID: 1, Emotion: "neutral"},
			"happy":   {ID: 2, Emotion: "happy"},
		},
		statuses: make(map[uint]*models.PetStatus),
	}
}

func (m *MockPetRepository) CreateForUser(ctx context.Context, params postgres.CreatePetParams) (*models.Pet, error) {
	m.created = append(m.created, params)
	if m.createFn != nil {
		return m.createFn(params)
	}
	pet := &models.Pet{ID: uint(len(m.pets) + 1), PetTypeID: 1, Name: params.Name, Gender: params.Gender, EmoID: 1}
	m.pets[pet.ID] = pet
	m.owners[pet.ID] = params.UserID
	return pet, nil
}

func (m *MockPetRepository) ListByUser(ctx context.Context, userID string) ([]models.PetWithType, error) {
	var list []models.PetWithType
	for id, owner := range m.owners {
		if owner == userID {
			list = append(list, models.PetWithType{ID: id, Type: "capybara"})
		}
	}
	return list, nil
}

func (m *MockPetRepository) Exists(ctx context.Context, petID uint) (bool, error) {
	_, ok := m.pets[petID]
	return ok, nil
}

func (m *MockPetRepository) OwnerOf(ctx context.Context, petID uint) (string, error) {
	owner, ok := m.owners[petID]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return owner, nil
}

func (m *MockPetRepository) EmotionByLabel(ctx context.Context, label string) (*models.Emotion, error) {
	emotion, ok := m.emotions[label]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return emotion, nil
}

func (m *MockPetRepository) UpdateStatus(ctx context.Context, petID, emoID uint, weatherID *uint) error {
	pet, ok := m.pets[petID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	pet.EmoID = emoID
	pet.WeatherID = weatherID
	return nil
}

func (m *MockPetRepository) Status(ctx context.Context, petID uint) (*models.PetStatus, error) {
	status, ok := m.statuses[petID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return status, nil
}

// Мок для временных рядов
type MockMetricRepository struct {
	entries map[string][]postgres.MetricEntry
	points  []models.MetricPoint
	sums    map[string]float64
	latest  map[string]float64
	sleeps  []*models.SleepLog
	lastID  uint
	err     error

	from, to time.Time
}

func NewMockMetricRepository() *MockMetricRepository {
	return &MockMetricRepository{
		entries: make(map[string][]postgres.MetricEntry),
		sums:    make(map[string]float64),
		latest:  make(map[string]float64),
	}
}

func (m *MockMetricRepository) Insert(ctx context.Context, metric models.Metric, entry postgres.MetricEntry) (uint, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.lastID++
	m.entries[metric.Name] = append(m.entries[metric.Name], entry)
	return m.lastID, nil
}

func (m *MockMetricRepository) Points(ctx context.Context, metric models.Metric, userID string, from, to time.Time) ([]models.MetricPoint, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.from, m.to = from, to
	return m.points, nil
}

func (m *MockMetricRepository) Sum(ctx context.Context, metric models.Metric, userID string, from, to time.Time) (float64, error) {
	m.from, m.to = from, to
	return m.sums[metric.Name], nil
}

func (m *MockMetricRepository) Latest(ctx context.Context, metric models.Metric, userID string) (*float64, error) {
	value, ok := m.latest[metric.Name]
	if !ok {
		return nil, nil
	}
	return &value, nil
}

func (m *MockMetricRepository) InsertSleep(ctx context.Context, entry *models.SleepLog) error {
	m.lastID++
	entry.ID = m.lastID
	m.sleeps = append(m.sleeps, entry)
	return nil
}

func (m *MockMetricRepository) LastSleep(ctx context.Context, userID string) (*models.SleepLog, error) {
	if len(m.sleeps) == 0 {
		return nil, nil
	}
	return m.sleeps[len(m.sleeps)-1], nil
}

// Мок для источника последней погоды
type MockLatestWeatherID struct {
	id *uint
}

func (m *MockLatestWeatherID) LatestID(ctx context.Context) (*uint, error) {
	return m.id, nil
}

// Мок для репозитория погоды
type MockWeatherRepository struct {
	references []*models.WeatherAsset
	history    []*models.WeatherAsset
}

func intPtr(v int) *int { return &v }

func NewMockWeatherRepository() *MockWeatherRepository {
	return &MockWeatherRepository{
		references: []*models.WeatherAsset{
			{ID: 1, MinID: intPtr(200), MaxID: intPtr(232), Description: "thunderstorm", Message: "Stay inside"},
			{ID: 2, MinID: intPtr(500), MaxID: intPtr(531), Description: "rain", Message: "Take an umbrella"},
			{ID: 3, MinID: intPtr(800), MaxID: intPtr(800), Description: "clear", Message: "Enjoy the sun"},
		},
	}
}

func (m *MockWeatherRepository) FindByCode(ctx context.Context, code int) (*models.WeatherAsset, error) {
	for _, ref := range m.references {
		if ref.Matches(code) {
			return ref, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockWeatherRepository) FindReferenceByDescription(ctx context.Context, description string) (*models.WeatherAsset, error) {
	for _, ref := range m.references {
		if ref.Description == description {
			return ref, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockWeatherRepository) Insert(ctx context.Context, asset *models.WeatherAsset) error {
	asset.ID = uint(100 + len(m.history))
	m.history = append(m.history, asset)
	return nil
}

func (m *MockWeatherRepository) Latest(ctx context.Context) (*models.WeatherAsset, error) {
	if len(m.history) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return m.history[len(m.history)-1], nil
}

// Мок для кэша погоды
type MockWeatherCache struct {
	latest *models.WeatherAsset
}

func (m *MockWeatherCache) SetLatestWeather(ctx context.Context, asset *models.WeatherAsset) {
	m.latest = asset
}

func (m *MockWeatherCache) GetLatestWeather(ctx context.Context) (*models.WeatherAsset, error) {
	if m.latest == nil {
		return nil, redis.Nil
	}
	return m.latest, nil
}

// Мок для внешнего погодного API
type MockWeatherObserver struct {
	observation models.WeatherObservation
	err         error
	calls       int
}

func (m *MockWeatherObserver) Observe(ctx context.Context, city string) (models.WeatherObservation, error) {
	m.calls++
	if m.err != nil {
		return models.WeatherObservation{}, m.err
	}
	obs := m.observation
	obs.City = city
	return obs, nil
}

// Мок для кодов восстановления
type MockPasswordResetRepository struct {
	codes map[string]*models.PasswordResetOTP
	users *MockUserRepository
}

func NewMockPasswordResetRepository(users *MockUserRepository) *MockPasswordResetRepository {
	return &MockPasswordResetRepository{codes: make(map[string]*models.PasswordResetOTP), users: users}
}

func (m *MockPasswordResetRepository) Issue(ctx context.Context, otp *models.PasswordResetOTP, deliver func(ctx context.Context) error) error {
	previous, had := m.codes[otp.UserID]
	m.codes[otp.UserID] = otp
	if err := deliver(ctx); err != nil {
		if had {
			m.codes[otp.UserID] = previous
		} else {
			delete(m.codes, otp.UserID)
		}
		return err
	}
	return nil
}

func (m *MockPasswordResetRepository) FindValid(ctx context.Context, userID, token string, now time.Time) (*models.PasswordResetOTP, error) {
	otp, ok := m.codes[userID]
	if !ok || otp.Token != token || otp.Expired(now) {
		return nil, gorm.ErrRecordNotFound
	}
	return otp, nil
}

func (m *MockPasswordResetRepository) ConsumeAndSetPassword(ctx context.Context, userID, token, passwordHash string, now time.Time) error {
	if _, err := m.FindValid(ctx, userID, token, now); err != nil {
		return err
	}
	if err := m.users.Update(ctx, userID, map[string]interface{}{"password": passwordHash}); err != nil {
		return err
	}
	delete(m.codes, userID)
	return nil
}

// Мок для отправки кодов
type MockResetCodeSender struct {
	sent map[string]string
	err  error
	// block ждет отмены контекста, как зависший почтовый сервер
	block       bool
	hadDeadline bool
}

func (m *MockResetCodeSender) SendResetCode(ctx context.Context, email, code string) error {
	_, m.hadDeadline = ctx.Deadline()
	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if m.err != nil {
		return m.err
	}
	if m.sent == nil {
		m.sent = make(map[string]string)
	}
	m.sent[email] = code
	return nil
}
