package service

import (
	"context"
	"testing"

	"eduhub/courses-service/internal/app/courses/entity"
	"eduhub/courses-service/internal/app/courses/repository"
	"eduhub/courses-service/internal/app/courses/repository/mocks"
	"eduhub/pkg/access"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memoryCache - кеш в памяти для тестов CourseService
type memoryCache struct {
	categories []entity.Category
	courses    map[uuid.UUID]*entity.Course
}

func newMemoryCache() *memoryCache {
	return &memoryCache{courses: make(map[uuid.UUID]*entity.Course)}
}

func (c *memoryCache) GetCategories(ctx context.Context) ([]entity.Category, error) {
	return c.categories, nil
}

func (c *memoryCache) SetCategories(ctx context.Context, categories []entity.Category) error {
	c.categories = categories
	return nil
}

func (c *memoryCache) DeleteCategories(ctx context.Context) error {
	c.categories = nil
	return nil
}

func (c *memoryCache) GetCourse(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	return c.courses[id], nil
}

func (c *memoryCache) SetCourse(ctx context.Context, course *entity.Course) error {
	c.courses[course.ID] = course
	return nil
}

func (c *memoryCache) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	delete(c.courses, id)
	return nil
}

func authorIdentity() *access.Identity {
	return &access.Identity{
		ID:       uuid.New(),
		Email:    "petrov@example.com",
		Name:     "Петров Пётр",
		RoleID:   access.RoleUserID,
		RoleName: access.RoleUser,
	}
}

func newCourseService(
	categoryRepo *mocks.MockCategoryRepository,
	courseRepo *mocks.MockCourseRepository,
	reviewRepo *mocks.MockReviewRepository,
) (*CourseService, *memoryCache) {
	cache := newMemoryCache()
	return NewCourseService(categoryRepo, courseRepo, reviewRepo, cache), cache
}

func TestCourseService_GetAllCategories_CachesResult(t *testing.T) {
	categoryRepo := new(mocks.MockCategoryRepository)
	courseRepo := new(mocks.MockCourseRepository)
	reviewRepo := new(mocks.MockReviewRepository)
	svc, cache := newCourseService(categoryRepo, courseRepo, reviewRepo)

	stored := []entity.Category{{ID: uuid.New(), Name: "Программирование"}}
	categoryRepo.On("GetAll", mock.Anything).Return(stored, nil).Once()

	// Первый вызов - промах кеша, загрузка из БД
	categories, err := svc.GetAllCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stored, categories)
	assert.Equal(t, stored, cache.categories)

	// Второй вызов обслуживается из кеша, репозиторий не трогается
	categories, err = svc.GetAllCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stored, categories)
	categoryRepo.AssertNumberOfCalls(t, "GetAll", 1)
}

func TestCourseService_CreateCategory_InvalidatesCache(t *testing.T) {
	categoryRepo := new(mocks.MockCategoryRepository)
	courseRepo := new(mocks.MockCourseRepository)
	reviewRepo := new(mocks.MockReviewRepository)
	svc, cache := newCourseService(categoryRepo, courseRepo, reviewRepo)

	cache.categories = []entity.Category{{ID: uuid.New(), Name: "Старая"}}
	categoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Category")).Return(nil)

	_, err := svc.CreateCategory(context.Background(), &entity.CreateCategoryRequest{Name: "Дизайн"})

	require.NoError(t, err)
	assert.Nil(t, cache.categories)
}

func TestCourseService_CreateCourse_SetsAuthorFromIdentity(t *testing.T) {
	categoryRepo := new(mocks.MockCategoryRepository)
	courseRepo := new(mocks.MockCourseRepository)
	reviewRepo := new(mocks.MockReviewRepository)
	svc, _ := newCourseService(categoryRepo, courseRepo, reviewRepo)

	categoryID := uuid.New()
	identity := authorIdentity()

	categoryRepo.On("GetByID", mock.Anything, categoryID).
		Return(&entity.Category{ID: categoryID, Name: "Программирование"}, nil)
	courseRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Course")).Return(nil)

	course, err := svc.CreateCourse(context.Background(), identity, &entity.CreateCourseRequest{
		Name:       "Веб-разработка на Flask",
		ShortDesc:  "Практический курс",
		CategoryID: categoryID,
	})

	require.NoError(t, err)
	assert.Equal(t, identity.ID, course.AuthorID)
	assert.Equal(t, "Петров Пётр", course.AuthorName)
	assert.Zero(t, course.RatingSum)
	assert.Zero(t, course.RatingNum)
}

func TestCourseService_CreateCourse_UnknownCategory(t *testing.T) {
	categoryRepo := new(mocks.MockCategoryRepository)
	courseRepo := new(mocks.MockCourseRepository)
	reviewRepo := new(mocks.MockReviewRepository)
	svc, _ := newCourseService(categoryRepo, courseRepo, reviewRepo)

	categoryID := uuid.New()
	categoryRepo.On("GetByID", mock.Anything, categoryID).Return(nil, repository.ErrCategoryNotFound)

	_, err := svc.CreateCourse(context.Background(), authorIdentity(), &entity.CreateCourseRequest{
		Name:       "Веб-разработка на Flask",
		ShortDesc:  "Практический курс",
		CategoryID: categoryID,
	})

	assert.ErrorIs(t, err, ErrCategoryNotFound)
	courseRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCourseService_GetCourse_WithRatingAndLatestReviews(t *testing.T) {
	categoryRepo := new(mocks.MockCategoryRepository)
	courseRepo := new(mocks.MockCourseRepository)
	reviewRepo := new(mocks.MockReviewRepository)
	svc, _ := newCourseService(categoryRepo, courseRepo, reviewRepo)

	courseID := uuid.New()
	course := &entity.Course{ID: courseID, Name: "Веб-разработка на Flask", RatingSum: 9, RatingNum: 2}

	courseRepo.On("GetWithCategory", mock.Anything, courseID).Return(course, nil)
	reviewRepo.On("Latest", mock.Anything, courseID, 5).
		Return([]entity.Review{{CourseID: courseID, Rating: 5}, {CourseID: courseID, Rating: 4}}, nil)

	detail, err := svc.GetCourse(context.Background(), courseID, nil)

	require.NoError(t, err)
	assert.InDelta(t, 4.5, detail.Rating, 0.0001)
	assert.Len(t, detail.Reviews, 2)
	assert.Nil(t, detail.MyReview)
}

func TestCourseService_GetCourse_IncludesOwnReview(t *testing.T) {
	categoryRepo := new(mocks.MockCategoryRepository)
	courseRepo := new(mocks.MockCourseRepository)
	reviewRepo := new(mocks.MockReviewRepository)
	svc, _ := newCourseService(categoryRepo, courseRepo, reviewRepo)

	courseID := uuid.New()
	userID := uuid.New()
	own := &entity.Review{CourseID: courseID, UserID: userID, Rating: 3}

	courseRepo.On("GetWithCategory", mock.Anything, courseID).
		Return(&entity.Course{ID: courseID}, nil)
	reviewRepo.On("Latest", mock.Anything, courseID, 5).Return([]entity.Review{}, nil)
	reviewRepo.On("GetByCourseAndUser", mock.Anything, courseID, userID).Return(own, nil)

	detail, err := svc.GetCourse(context.Background(), courseID, &userID)

	require.NoError(t, err)
	require.NotNil(t, detail.MyReview)
	assert.Equal(t, userID, detail.MyReview.UserID)
}

func TestCourseService_ListCourses_Meta(t *testing.T) {
	categoryRepo := new(mocks.MockCategoryRepository)
	courseRepo := new(mocks.MockCourseRepository)
	reviewRepo := new(mocks.MockReviewRepository)
	svc, _ := newCourseService(categoryRepo, courseRepo, reviewRepo)

	filter := repository.CourseFilter{Name: "flask", Page: 1, PerPage: 2}
	courseRepo.On("List", mock.Anything, filter).
		Return([]entity.Course{{RatingSum: 10, RatingNum: 2}, {}}, int64(3), nil)

	resp, err := svc.ListCourses(context.Background(), filter)

	require.NoError(t, err)
	assert.Len(t, resp.Courses, 2)
	assert.InDelta(t, 5.0, resp.Courses[0].Rating, 0.0001)
	assert.Equal(t, 2, resp.Meta.TotalPages)
	assert.True(t, resp.Meta.HasNext)
}
