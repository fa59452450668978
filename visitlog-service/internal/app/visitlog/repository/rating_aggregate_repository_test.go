package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// RatingAggregateRepositoryTestSuite тестовый suite для PostgreSQL repository
type RatingAggregateRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  RatingAggregateRepository
	sqlDB *sql.DB
}

func TestRatingAggregateRepositorySuite(t *testing.T) {
	suite.Run(t, new(RatingAggregateRepositoryTestSuite))
}

func (s *RatingAggregateRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewRatingAggregateRepository(s.db)
}

func (s *RatingAggregateRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

func (s *RatingAggregateRepositoryTestSuite) TestStoredAggregates() {
	courseID := uuid.New()

	rows := sqlmock.NewRows([]string{"course_id", "rating_sum", "rating_num"}).
		AddRow(courseID, 9, 2)

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT id AS course_id, rating_sum, rating_num FROM courses`)).
		WillReturnRows(rows)

	aggregates, err := s.repo.StoredAggregates(context.Background())

	s.NoError(err)
	s.Len(aggregates, 1)
	s.Equal(courseID, aggregates[0].CourseID)
	s.Equal(int64(9), aggregates[0].RatingSum)
	s.Equal(int64(2), aggregates[0].RatingNum)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *RatingAggregateRepositoryTestSuite) TestActualAggregates() {
	courseID := uuid.New()

	rows := sqlmock.NewRows([]string{"course_id", "rating_sum", "rating_num"}).
		AddRow(courseID, 11, 3)

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT course_id, COALESCE(SUM(rating), 0) AS rating_sum, COUNT(*) AS rating_num FROM reviews GROUP BY course_id`)).
		WillReturnRows(rows)

	aggregates, err := s.repo.ActualAggregates(context.Background())

	s.NoError(err)
	s.Len(aggregates, 1)
	s.Equal(int64(11), aggregates[0].RatingSum)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *RatingAggregateRepositoryTestSuite) TestFixAggregate() {
	courseID := uuid.New()

	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE courses SET rating_sum = $1, rating_num = $2 WHERE id = $3`)).
		WithArgs(int64(9), int64(2), courseID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.repo.FixAggregate(context.Background(), courseID, 9, 2)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}
