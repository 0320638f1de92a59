package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"packagecatalog/catalog-service/internal/app/catalog/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PackageRepositoryTestSuite тестовый suite для PostgreSQL repository
type PackageRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  PackageRepository
	sqlDB *sql.DB
}

func TestPackageRepositorySuite(t *testing.T) {
	suite.Run(t, new(PackageRepositoryTestSuite))
}

func (s *PackageRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewPackageRepository(s.db)
}

func (s *PackageRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

func newRecord() *entity.PackageRecord {
	return &entity.PackageRecord{
		Name:        "Starter",
		Description: "Starter pack",
		Products: []entity.ProductRecord{
			{ProductID: "p1", Name: "Shield", USDPrice: decimal.RequireFromString("149.99")},
			{ProductID: "p2", Name: "Helmet", USDPrice: decimal.RequireFromString("10.01")},
		},
	}
}

// ===================== Create Tests =====================

func (s *PackageRepositoryTestSuite) TestCreate_Success() {
	ctx := context.Background()
	record := newRecord()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "packages"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "package_products"`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Create(ctx, record)

	// Assert
	s.NoError(err)
	s.NotEqual(uuid.Nil, record.ID)
	for i, p := range record.Products {
		s.Equal(record.ID, p.PackageID)
		s.Equal(i, p.Position)
	}
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PackageRepositoryTestSuite) TestCreate_NoProducts() {
	ctx := context.Background()
	record := &entity.PackageRecord{Name: "Empty"}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "packages"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Create(ctx, record)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PackageRepositoryTestSuite) TestCreate_DuplicateProduct() {
	ctx := context.Background()
	record := newRecord()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "packages"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "package_products"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	s.mock.ExpectRollback()

	// Act
	err := s.repo.Create(ctx, record)

	// Assert
	s.ErrorIs(err, ErrDuplicateProduct)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PackageRepositoryTestSuite) TestCreate_DatabaseError() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "packages"`)).
		WillReturnError(errors.New("connection reset"))
	s.mock.ExpectRollback()

	// Act
	err := s.repo.Create(ctx, newRecord())

	// Assert
	s.Error(err)
	s.Contains(err.Error(), "failed to create package")
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== GetByID Tests =====================

func (s *PackageRepositoryTestSuite) TestGetByID_Success() {
	ctx := context.Background()
	id := uuid.New()
	now := time.Now()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "packages" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at"}).
			AddRow(id, "Starter", "Starter pack", now, now))
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "package_products" WHERE "package_products"."package_id" = $1 ORDER BY position ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"package_id", "position", "product_id", "name", "usd_price"}).
			AddRow(id, 0, "p1", "Shield", "149.99").
			AddRow(id, 1, "p2", "Helmet", "10.01"))

	// Act
	record, err := s.repo.GetByID(ctx, id)

	// Assert
	s.NoError(err)
	s.Require().NotNil(record)
	s.Equal(id, record.ID)
	s.Equal("Starter", record.Name)
	s.Require().Len(record.Products, 2)
	s.Equal("p1", record.Products[0].ProductID)
	s.True(record.Products[1].USDPrice.Equal(decimal.RequireFromString("10.01")))

	pkg := record.ToPackage()
	s.True(pkg.Price.Equal(decimal.RequireFromString("160")))

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PackageRepositoryTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "packages" WHERE id = $1`)).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	record, err := s.repo.GetByID(ctx, uuid.New())

	// Assert
	s.ErrorIs(err, ErrPackageNotFound)
	s.Nil(record)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PackageRepositoryTestSuite) TestGetByID_EmptyResult() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "packages" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at"}))

	// Act
	record, err := s.repo.GetByID(ctx, uuid.New())

	// Assert
	s.ErrorIs(err, ErrPackageNotFound)
	s.Nil(record)
}

// ===================== GetAll Tests =====================

func (s *PackageRepositoryTestSuite) TestGetAll_Success() {
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()
	now := time.Now()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "packages" ORDER BY created_at ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at"}).
			AddRow(first, "First", "", now, now).
			AddRow(second, "Second", "", now, now))
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "package_products" WHERE "package_products"."package_id" IN ($1,$2) ORDER BY position ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"package_id", "position", "product_id", "name", "usd_price"}).
			AddRow(first, 0, "p1", "Shield", "5.00").
			AddRow(second, 0, "p2", "Helmet", "7.50"))

	// Act
	records, err := s.repo.GetAll(ctx)

	// Assert
	s.NoError(err)
	s.Require().Len(records, 2)
	s.Equal("First", records[0].Name)
	s.Require().Len(records[1].Products, 1)
	s.Equal("p2", records[1].Products[0].ProductID)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PackageRepositoryTestSuite) TestGetAll_Empty() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "packages" ORDER BY created_at ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at"}))

	// Act
	records, err := s.repo.GetAll(ctx)

	// Assert
	s.NoError(err)
	s.Empty(records)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Update Tests =====================

func (s *PackageRepositoryTestSuite) TestUpdate_ReplacesProducts() {
	ctx := context.Background()
	record := newRecord()
	record.ID = uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "packages" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "package_products" WHERE package_id = $1`)).
		WithArgs(record.ID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "package_products"`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Update(ctx, record)

	// Assert
	s.NoError(err)
	s.Equal(record.ID, record.Products[1].PackageID)
	s.Equal(1, record.Products[1].Position)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PackageRepositoryTestSuite) TestUpdate_NotFound() {
	ctx := context.Background()
	record := newRecord()
	record.ID = uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "packages" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectRollback()

	// Act
	err := s.repo.Update(ctx, record)

	// Assert
	s.ErrorIs(err, ErrPackageNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Delete Tests =====================

func (s *PackageRepositoryTestSuite) TestDelete_Success() {
	ctx := context.Background()
	id := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "packages" WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Delete(ctx, id)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PackageRepositoryTestSuite) TestDelete_NotFound() {
	ctx := context.Background()
	id := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "packages" WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Delete(ctx, id)

	// Assert
	s.ErrorIs(err, ErrPackageNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}
