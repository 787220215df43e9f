// internal/handlers/auth_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tapedeck/tapedeck-backend/internal/config"
	"github.com/tapedeck/tapedeck-backend/internal/middleware"
	"github.com/tapedeck/tapedeck-backend/internal/models"
	"github.com/tapedeck/tapedeck-backend/internal/services"
	"github.com/tapedeck/tapedeck-backend/internal/utils"
)

type AuthTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *AuthTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", suite.T().Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.MasterRelease{},
		&models.Variant{},
		&models.VariantImage{},
		&models.SubmissionVote{},
	))
	suite.db = db

	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Moderation: config.ModerationConfig{AutoApproveVotes: 10},
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	storageService, err := services.NewStorageService(cfg)
	suite.Require().NoError(err)
	authService := services.NewAuthService(db, cfg)
	submissionService := services.NewSubmissionService(db, storageService, nil, cfg)

	authHandler := NewAuthHandler(authService)
	variantHandler := NewVariantHandler(submissionService)

	r := gin.New()
	auth := r.Group("/v1/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
	}
	r.DELETE("/v1/variants/:id", middleware.AuthRequired(), middleware.AdminRequired(), variantHandler.DeleteVariant)
	suite.router = r
}

func (suite *AuthTestSuite) postJSON(path string, body map[string]interface{}, token string) *httptest.ResponseRecorder {
	jsonData, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthTestSuite) register(username string) string {
	w := suite.postJSON("/v1/auth/register", map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "TestPass123!",
	}, "")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var response struct {
		Data struct {
			Auth struct {
				AccessToken string `json:"access_token"`
			} `json:"auth"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().NotEmpty(response.Data.Auth.AccessToken)
	return response.Data.Auth.AccessToken
}

func (suite *AuthTestSuite) TestRegisterLoginAndProfile() {
	suite.register("collector")

	w := suite.postJSON("/v1/auth/login", map[string]interface{}{
		"email":    "collector@example.com",
		"password": "TestPass123!",
	}, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(suite.T(), response["success"].(bool))
}

func (suite *AuthTestSuite) TestRegisterRejectsWeakPassword() {
	w := suite.postJSON("/v1/auth/register", map[string]interface{}{
		"username": "weakling",
		"email":    "weakling@example.com",
		"password": "password",
	}, "")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *AuthTestSuite) TestProfileRequiresToken() {
	token := suite.register("collector")

	req, _ := http.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	req, _ = http.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
}

func (suite *AuthTestSuite) TestDestructiveEndpointGates() {
	memberToken := suite.register("member")

	// Promote a second account to admin directly in the database.
	suite.register("moderator")
	suite.Require().NoError(suite.db.Model(&models.User{}).
		Where("username = ?", "moderator").
		Update("user_type", models.UserTypeAdmin).Error)
	// Token claims are stale after the promotion, so mint a fresh one.
	var admin models.User
	suite.Require().NoError(suite.db.First(&admin, "username = ?", "moderator").Error)
	adminToken, err := utils.GenerateJWT(admin.ID, admin.Username, string(admin.UserType), 1)
	suite.Require().NoError(err)

	var owner models.User
	suite.Require().NoError(suite.db.First(&owner, "username = ?", "member").Error)

	master := &models.MasterRelease{Title: "The Wraith", Year: 1986, CreatedBy: owner.ID}
	suite.Require().NoError(suite.db.Create(master).Error)
	variant := &models.Variant{
		MasterReleaseID: master.ID,
		Format:          models.FormatVHS,
		Region:          "NTSC (US)",
		CaseType:        models.CaseTypeSlipcase,
		Approved:        true,
		SubmittedBy:     owner.ID,
	}
	suite.Require().NoError(suite.db.Create(variant).Error)

	deletePath := "/v1/variants/" + variant.ID.String()

	// Members cannot delete.
	req, _ := http.NewRequest(http.MethodDelete, deletePath, nil)
	req.Header.Set("Authorization", "Bearer "+memberToken)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	// Admin without confirmation: 400 and no mutation.
	req, _ = http.NewRequest(http.MethodDelete, deletePath, nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var count int64
	suite.db.Model(&models.Variant{}).Where("id = ?", variant.ID).Count(&count)
	assert.EqualValues(suite.T(), 1, count)

	// Admin with confirm=true removes the variant.
	req, _ = http.NewRequest(http.MethodDelete, deletePath+"?confirm=true", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	suite.db.Model(&models.Variant{}).Where("id = ?", variant.ID).Count(&count)
	assert.Zero(suite.T(), count)
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}
