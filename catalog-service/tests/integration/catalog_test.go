//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"packagecatalog/catalog-service/internal/app/catalog/currency"
	"packagecatalog/catalog-service/internal/app/catalog/entity"
	"packagecatalog/catalog-service/internal/app/catalog/handler"
	"packagecatalog/catalog-service/internal/app/catalog/repository"
	"packagecatalog/catalog-service/internal/app/catalog/service"
	"packagecatalog/catalog-service/internal/app/catalog/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CatalogIntegrationTestSuite содержит интеграционные тесты для catalog-service
// Требует запущенные PostgreSQL и Redis, Fixer заменен локальным HTTP сервером
type CatalogIntegrationTestSuite struct {
	suite.Suite
	db          *gorm.DB
	redisClient *util.RedisClient
	fixer       *httptest.Server
	fixerCalls  int32
	router      *gin.Engine
}

// SetupSuite выполняется один раз перед всеми тестами
func (s *CatalogIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	dsn := "host=localhost port=5433 user=postgres password=postgres dbname=catalog_service_test sslmode=disable"
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL")
	s.db = db

	s.redisClient, err = util.NewRedisClient("localhost:6380", "redis_password", 15)
	require.NoError(s.T(), err, "Failed to connect to Redis")

	require.NoError(s.T(), s.db.AutoMigrate(&entity.PackageRecord{}, &entity.ProductRecord{}))

	s.fixer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.fixerCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"base":"EUR","date":"2024-01-15","rates":{"USD":1.145771,"GBP":0.879981}}`))
	}))

	rateCache := currency.NewRateCache(currency.NewFixerClient(s.fixer.URL, "integration-key", 5))
	pricer := service.NewPackagePricer(currency.NewConverter(rateCache))
	packageService := service.NewPackageService(
		repository.NewPackageRepository(s.db),
		pricer,
		s.redisClient,
		&mockKafkaProducer{},
		time.Minute,
	)

	s.router = handler.SetupRoutes(
		handler.NewPackageHandler(packageService),
		handler.NewHealthHandler(rateCache, map[string]handler.CheckFunc{"redis": s.redisClient.Ping}),
		handler.NewAuthMiddleware(""),
		[]string{"http://*"},
	)
}

// TearDownSuite выполняется один раз после всех тестов
func (s *CatalogIntegrationTestSuite) TearDownSuite() {
	s.db.Exec("DROP TABLE IF EXISTS package_products")
	s.db.Exec("DROP TABLE IF EXISTS packages")
	if s.redisClient != nil {
		s.redisClient.Close()
	}
	if s.fixer != nil {
		s.fixer.Close()
	}
}

// SetupTest выполняется перед каждым тестом
func (s *CatalogIntegrationTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM package_products")
	s.db.Exec("DELETE FROM packages")
	s.redisClient.DeletePackages(context.Background())
}

// mockKafkaProducer - мок для Kafka в интеграционных тестах
type mockKafkaProducer struct{}

func (m *mockKafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	return nil
}

func (m *mockKafkaProducer) Close() error {
	return nil
}

func (s *CatalogIntegrationTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *CatalogIntegrationTestSuite) createPackage(body string) entity.PackageResponse {
	rec := s.do(http.MethodPost, "/packages-api/package", body)
	require.Equal(s.T(), http.StatusCreated, rec.Code, rec.Body.String())

	var response entity.PackageEnvelope
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &response))
	return response.Package
}

const starterPackage = `{"package":{"name":"Starter","description":"Starter pack","products":[
	{"id":"p3","name":"Boots","usdPrice":"899"},
	{"id":"p1","name":"Shield","usdPrice":"1149"},
	{"id":"p2","name":"Helmet","usdPrice":"999"}]}}`

// ==================== Package Tests ====================

func (s *CatalogIntegrationTestSuite) TestCreatePackage_StoresProductsInOrder() {
	// Act
	created := s.createPackage(starterPackage)

	// Assert
	assert.NotEqual(s.T(), uuid.Nil, created.ID)
	assert.Equal(s.T(), "3047.00", created.Price.String())

	rec := s.do(http.MethodGet, "/packages-api/package/"+created.ID.String(), "")
	assert.Equal(s.T(), http.StatusOK, rec.Code)

	var response entity.PackageEnvelope
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(s.T(), response.Package.Products, 3)
	assert.Equal(s.T(), "p3", response.Package.Products[0].ID)
	assert.Equal(s.T(), "p1", response.Package.Products[1].ID)
	assert.Equal(s.T(), "p2", response.Package.Products[2].ID)
}

func (s *CatalogIntegrationTestSuite) TestCreatePackage_DuplicateProduct() {
	// Act
	rec := s.do(http.MethodPost, "/packages-api/package", `{"package":{"name":"Twins","products":[
		{"id":"p1","name":"Shield","usdPrice":1},{"id":"p1","name":"Shield","usdPrice":1}]}}`)

	// Assert
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)

	var count int64
	s.db.Model(&entity.PackageRecord{}).Count(&count)
	assert.Equal(s.T(), int64(0), count, "transaction must be rolled back")
}

func (s *CatalogIntegrationTestSuite) TestGetPackages_ConvertedFromCache() {
	// Arrange
	s.createPackage(starterPackage)
	s.createPackage(`{"package":{"name":"Single","products":[{"id":"p9","name":"Ring","usdPrice":"10.00"}]}}`)

	// Act - первый запрос заполняет кеш, второй читает из него
	first := s.do(http.MethodGet, "/packages-api/package?currency=GBP", "")
	second := s.do(http.MethodGet, "/packages-api/package?currency=GBP", "")

	// Assert
	assert.Equal(s.T(), http.StatusOK, first.Code)
	assert.JSONEq(s.T(), first.Body.String(), second.Body.String())

	var response entity.PackageListResponse
	require.NoError(s.T(), json.Unmarshal(second.Body.Bytes(), &response))
	assert.Equal(s.T(), 2, response.Total)
	assert.Equal(s.T(), "GBP", response.Packages[1].Currency)
	assert.Equal(s.T(), "7.68", response.Packages[1].Price.String())
	assert.Equal(s.T(), int32(1), atomic.LoadInt32(&s.fixerCalls))

	cached, err := s.redisClient.GetPackages(context.Background())
	require.NoError(s.T(), err)
	assert.Len(s.T(), cached, 2)
}

func (s *CatalogIntegrationTestSuite) TestUpdatePackage_ReplacesProducts() {
	// Arrange
	created := s.createPackage(starterPackage)

	// Act
	rec := s.do(http.MethodPut, "/packages-api/package/"+created.ID.String(),
		`{"package":{"name":"Starter v2","products":[{"id":"p7","name":"Cape","usdPrice":"5.50"}]}}`)

	// Assert
	assert.Equal(s.T(), http.StatusOK, rec.Code)

	var products []entity.ProductRecord
	s.db.Where("package_id = ?", created.ID).Find(&products)
	require.Len(s.T(), products, 1)
	assert.Equal(s.T(), "p7", products[0].ProductID)

	var record entity.PackageRecord
	require.NoError(s.T(), s.db.First(&record, "id = ?", created.ID).Error)
	assert.Equal(s.T(), "Starter v2", record.Name)
}

func (s *CatalogIntegrationTestSuite) TestDeletePackage_CascadesProducts() {
	// Arrange
	created := s.createPackage(starterPackage)

	// Act
	rec := s.do(http.MethodDelete, "/packages-api/package/"+created.ID.String(), "")

	// Assert
	assert.Equal(s.T(), http.StatusOK, rec.Code)

	var count int64
	s.db.Model(&entity.ProductRecord{}).Where("package_id = ?", created.ID).Count(&count)
	assert.Equal(s.T(), int64(0), count)

	rec = s.do(http.MethodGet, "/packages-api/package/"+created.ID.String(), "")
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func (s *CatalogIntegrationTestSuite) TestHealthCheck() {
	// Act
	rec := s.do(http.MethodGet, "/health", "")

	// Assert
	assert.Equal(s.T(), http.StatusOK, rec.Code)
}

// Запуск test suite
func TestCatalogIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogIntegrationTestSuite))
}
