// internal/services/collection_service_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/tapedeck/tapedeck-backend/internal/models"
)

type CollectionTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *CollectionService
	user    *models.User
	variant *models.Variant
}

func (suite *CollectionTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.service = NewCollectionService(suite.db)
	suite.user = createTestUser(suite.T(), suite.db, "collector")
	suite.variant = seedVariant(suite.T(), suite.db, suite.user.ID, true)
}

func (suite *CollectionTestSuite) TestAddToCollectionUpsertsOnRepeat() {
	first, err := suite.service.AddToCollection(suite.user.ID, &AddToCollectionRequest{
		VariantID: suite.variant.ID,
		Condition: models.ConditionGood,
		Notes:     "garage sale find",
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), suite.variant.MasterReleaseID, first.MasterReleaseID)

	second, err := suite.service.AddToCollection(suite.user.ID, &AddToCollectionRequest{
		VariantID: suite.variant.ID,
		Condition: models.ConditionMint,
		Notes:     "upgraded copy",
	})
	suite.Require().NoError(err)

	var count int64
	suite.db.Model(&models.CollectionEntry{}).
		Where("user_id = ? AND variant_id = ?", suite.user.ID, suite.variant.ID).
		Count(&count)
	assert.EqualValues(suite.T(), 1, count)
	assert.Equal(suite.T(), models.ConditionMint, second.Condition)
	assert.Equal(suite.T(), "upgraded copy", second.Notes)
}

func (suite *CollectionTestSuite) TestAddToCollectionUnknownVariant() {
	_, err := suite.service.AddToCollection(suite.user.ID, &AddToCollectionRequest{
		VariantID: suite.user.ID,
	})
	assert.ErrorIs(suite.T(), err, gorm.ErrRecordNotFound)
}

func (suite *CollectionTestSuite) TestAddToCollectionRejectsUnknownCondition() {
	_, err := suite.service.AddToCollection(suite.user.ID, &AddToCollectionRequest{
		VariantID: suite.variant.ID,
		Condition: models.ItemCondition("chewed"),
	})

	var fieldErr *FieldValidationError
	suite.Require().ErrorAs(err, &fieldErr)
	assert.Equal(suite.T(), "condition", fieldErr.Field)
}

func (suite *CollectionTestSuite) TestRemoveThenReAdd() {
	_, err := suite.service.AddToCollection(suite.user.ID, &AddToCollectionRequest{VariantID: suite.variant.ID})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.RemoveFromCollection(suite.user.ID, suite.variant.ID))

	// Removing again reports not found.
	err = suite.service.RemoveFromCollection(suite.user.ID, suite.variant.ID)
	assert.ErrorIs(suite.T(), err, gorm.ErrRecordNotFound)

	// The slot is free again.
	_, err = suite.service.AddToCollection(suite.user.ID, &AddToCollectionRequest{VariantID: suite.variant.ID})
	assert.NoError(suite.T(), err)
}

func (suite *CollectionTestSuite) TestToggleWishlistFlipsMembership() {
	wanted, err := suite.service.ToggleWishlist(suite.user.ID, &ToggleWishlistRequest{VariantID: suite.variant.ID})
	suite.Require().NoError(err)
	assert.True(suite.T(), wanted)

	wanted, err = suite.service.ToggleWishlist(suite.user.ID, &ToggleWishlistRequest{VariantID: suite.variant.ID})
	suite.Require().NoError(err)
	assert.False(suite.T(), wanted)

	var count int64
	suite.db.Model(&models.WishlistEntry{}).Where("user_id = ?", suite.user.ID).Count(&count)
	assert.Zero(suite.T(), count)

	// Toggling twice more lands back on a single row.
	_, err = suite.service.ToggleWishlist(suite.user.ID, &ToggleWishlistRequest{VariantID: suite.variant.ID})
	suite.Require().NoError(err)
	wanted, err = suite.service.ToggleWishlist(suite.user.ID, &ToggleWishlistRequest{VariantID: suite.variant.ID})
	suite.Require().NoError(err)
	assert.False(suite.T(), wanted)
}

func (suite *CollectionTestSuite) TestSetRatingRecomputesAggregate() {
	masterID := suite.variant.MasterReleaseID

	for i, stars := range []int{3, 4, 5} {
		rater := createTestUser(suite.T(), suite.db, fmt.Sprintf("rater%d", i))
		master, err := suite.service.SetRating(rater.ID, masterID, &SetRatingRequest{Rating: stars})
		suite.Require().NoError(err)
		assert.Equal(suite.T(), i+1, master.TotalRatings)
	}

	var master models.MasterRelease
	suite.Require().NoError(suite.db.First(&master, "id = ?", masterID).Error)
	assert.InDelta(suite.T(), 4.0, master.AvgRating, 0.001)

	// A fourth rating of 2 pulls the mean to 3.5.
	rater := createTestUser(suite.T(), suite.db, "rater3")
	updated, err := suite.service.SetRating(rater.ID, masterID, &SetRatingRequest{Rating: 2})
	suite.Require().NoError(err)
	assert.InDelta(suite.T(), 3.5, updated.AvgRating, 0.001)
	assert.Equal(suite.T(), 4, updated.TotalRatings)
}

func (suite *CollectionTestSuite) TestSetRatingReplacesOwnRating() {
	masterID := suite.variant.MasterReleaseID

	_, err := suite.service.SetRating(suite.user.ID, masterID, &SetRatingRequest{Rating: 5})
	suite.Require().NoError(err)
	updated, err := suite.service.SetRating(suite.user.ID, masterID, &SetRatingRequest{Rating: 2})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), 1, updated.TotalRatings)
	assert.InDelta(suite.T(), 2.0, updated.AvgRating, 0.001)
}

func (suite *CollectionTestSuite) TestSetRatingRejectsOutOfRange() {
	masterID := suite.variant.MasterReleaseID

	_, err := suite.service.SetRating(suite.user.ID, masterID, &SetRatingRequest{Rating: 0})
	assert.Error(suite.T(), err)
	_, err = suite.service.SetRating(suite.user.ID, masterID, &SetRatingRequest{Rating: 6})
	assert.Error(suite.T(), err)
}

func (suite *CollectionTestSuite) TestGetCollectionAndWishlist() {
	_, err := suite.service.AddToCollection(suite.user.ID, &AddToCollectionRequest{VariantID: suite.variant.ID})
	suite.Require().NoError(err)
	_, err = suite.service.ToggleWishlist(suite.user.ID, &ToggleWishlistRequest{VariantID: suite.variant.ID})
	suite.Require().NoError(err)

	collection, err := suite.service.GetCollection(suite.user.ID, newQueueParams())
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 1, collection.Total)

	wishlist, err := suite.service.GetWishlist(suite.user.ID, newQueueParams())
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 1, wishlist.Total)

	// Another user's ledger stays empty.
	other := createTestUser(suite.T(), suite.db, "other")
	empty, err := suite.service.GetCollection(other.ID, newQueueParams())
	suite.Require().NoError(err)
	assert.Zero(suite.T(), empty.Total)
}

func TestCollectionSuite(t *testing.T) {
	suite.Run(t, new(CollectionTestSuite))
}
