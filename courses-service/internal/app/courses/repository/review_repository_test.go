package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"eduhub/courses-service/internal/app/courses/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ReviewRepositoryTestSuite тестовый suite для PostgreSQL repository
type ReviewRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  ReviewRepository
	sqlDB *sql.DB
}

func TestReviewRepositorySuite(t *testing.T) {
	suite.Run(t, new(ReviewRepositoryTestSuite))
}

func (s *ReviewRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewReviewRepository(s.db)
}

func (s *ReviewRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

func reviewColumns() []string {
	return []string{"id", "course_id", "user_id", "user_name", "rating", "text", "created_at", "updated_at"}
}

// ===================== Submit Tests =====================

// Первый отзыв: вставка и сдвиг обоих агрегатов в одной транзакции
func (s *ReviewRepositoryTestSuite) TestSubmit_FirstReview() {
	ctx := context.Background()
	review := &entity.Review{
		ID:       uuid.New(),
		CourseID: uuid.New(),
		UserID:   uuid.New(),
		UserName: "Иванов Иван",
		Rating:   4,
		Text:     "Отличный курс, рекомендую всем",
	}

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reviews" WHERE course_id = $1 AND user_id = $2`)).
		WillReturnError(gorm.ErrRecordNotFound)
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "reviews"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "courses" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	outcome, err := s.repo.Submit(ctx, review)

	s.NoError(err)
	s.Equal(OutcomeAdded, outcome)
	s.NoError(s.mock.ExpectationsWereMet())
}

// Повторный отзыв: правка на месте, rating_num не меняется
func (s *ReviewRepositoryTestSuite) TestSubmit_SecondReviewUpdatesInPlace() {
	ctx := context.Background()
	courseID := uuid.New()
	userID := uuid.New()
	existingID := uuid.New()
	createdAt := time.Now().Add(-time.Hour)

	review := &entity.Review{
		ID:       uuid.New(),
		CourseID: courseID,
		UserID:   userID,
		UserName: "Иванов Иван",
		Rating:   2,
		Text:     "Передумал, курс оказался слабее",
	}

	rows := sqlmock.NewRows(reviewColumns()).
		AddRow(existingID, courseID, userID, "Иванов Иван", 5, "Отличный курс, рекомендую всем", createdAt, createdAt)

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reviews" WHERE course_id = $1 AND user_id = $2`)).
		WillReturnRows(rows)
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "reviews" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// rating_sum сдвигается на new - old = 2 - 5 = -3
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "courses" SET "rating_sum"=rating_sum + $1`)).
		WithArgs(-3, courseID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	outcome, err := s.repo.Submit(ctx, review)

	s.NoError(err)
	s.Equal(OutcomeUpdated, outcome)
	// Отзыв сохраняет идентичность и дату создания
	s.Equal(existingID, review.ID)
	s.WithinDuration(createdAt, review.CreatedAt, time.Second)
	s.NoError(s.mock.ExpectationsWereMet())
}

// Повторный отзыв с той же оценкой: агрегат курса не трогается
func (s *ReviewRepositoryTestSuite) TestSubmit_SameRatingSkipsAggregateUpdate() {
	ctx := context.Background()
	courseID := uuid.New()
	userID := uuid.New()
	existingID := uuid.New()
	createdAt := time.Now().Add(-time.Hour)

	review := &entity.Review{
		ID:       uuid.New(),
		CourseID: courseID,
		UserID:   userID,
		UserName: "Иванов Иван",
		Rating:   5,
		Text:     "Обновил только текст отзыва",
	}

	rows := sqlmock.NewRows(reviewColumns()).
		AddRow(existingID, courseID, userID, "Иванов Иван", 5, "Отличный курс, рекомендую всем", createdAt, createdAt)

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reviews" WHERE course_id = $1 AND user_id = $2`)).
		WillReturnRows(rows)
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "reviews" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	outcome, err := s.repo.Submit(ctx, review)

	s.NoError(err)
	s.Equal(OutcomeUpdated, outcome)
	s.NoError(s.mock.ExpectationsWereMet())
}

// Курс исчез между проверкой и транзакцией: откат без частичного состояния
func (s *ReviewRepositoryTestSuite) TestSubmit_CourseGoneRollsBack() {
	ctx := context.Background()
	review := &entity.Review{
		ID:       uuid.New(),
		CourseID: uuid.New(),
		UserID:   uuid.New(),
		Rating:   3,
		Text:     "Отзыв о несуществующем курсе",
	}

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reviews" WHERE course_id = $1 AND user_id = $2`)).
		WillReturnError(gorm.ErrRecordNotFound)
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "reviews"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "courses" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0)) // 0 rows affected
	s.mock.ExpectRollback()

	_, err := s.repo.Submit(ctx, review)

	s.ErrorIs(err, ErrCourseNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Paged Tests =====================

func (s *ReviewRepositoryTestSuite) TestPaged_NewestOrder() {
	ctx := context.Background()
	courseID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "reviews" WHERE course_id = $1`)).
		WithArgs(courseID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	rows := sqlmock.NewRows(reviewColumns()).
		AddRow(uuid.New(), courseID, uuid.New(), "Иванов Иван", 5, "Отличный курс, рекомендую всем", time.Now(), time.Now()).
		AddRow(uuid.New(), courseID, uuid.New(), "Петров Пётр", 4, "Хороший курс, есть недочёты", time.Now(), time.Now())

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reviews" WHERE course_id = $1 ORDER BY created_at DESC, id DESC`)).
		WillReturnRows(rows)

	reviews, total, err := s.repo.Paged(ctx, courseID, entity.SortNewest, 1, 2)

	s.NoError(err)
	s.Equal(int64(3), total)
	s.Len(reviews, 2)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *ReviewRepositoryTestSuite) TestPaged_OutOfRangePageIsEmpty() {
	ctx := context.Background()
	courseID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "reviews" WHERE course_id = $1`)).
		WithArgs(courseID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reviews" WHERE course_id = $1 ORDER BY created_at DESC, id DESC`)).
		WillReturnRows(sqlmock.NewRows(reviewColumns()))

	reviews, total, err := s.repo.Paged(ctx, courseID, entity.SortNewest, 5, 2)

	s.NoError(err)
	s.Equal(int64(3), total)
	s.Empty(reviews)
	s.NoError(s.mock.ExpectationsWereMet())
}
