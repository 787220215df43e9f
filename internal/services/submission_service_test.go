// internal/services/submission_service_test.go
package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/tapedeck/tapedeck-backend/internal/models"
)

type SubmissionTestSuite struct {
	suite.Suite
	db      *gorm.DB
	store   *fakeImageStore
	posters *fakePosterLookup
	service *SubmissionService
	user    *models.User
}

func (suite *SubmissionTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.store = newFakeImageStore()
	suite.posters = &fakePosterLookup{url: "https://image.tmdb.org/t/p/w500/wraith.jpg"}
	suite.service = NewSubmissionService(suite.db, suite.store, suite.posters, newTestConfig())
	suite.user = createTestUser(suite.T(), suite.db, "collector")
}

func (suite *SubmissionTestSuite) submitTitle() *models.MasterRelease {
	req := &SubmitTitleRequest{
		Title:   "The Wraith",
		Year:    1986,
		Variant: validVariantFields(),
	}
	master, err := suite.service.SubmitTitle(context.Background(), suite.user.ID, req, coverAndBackImages())
	suite.Require().NoError(err)
	return master
}

func (suite *SubmissionTestSuite) TestSubmitTitleCreatesPendingVariant() {
	master := suite.submitTitle()

	suite.Require().NotNil(master.PosterURL)
	assert.Equal(suite.T(), suite.posters.url, *master.PosterURL)
	suite.Require().Len(master.Variants, 1)

	variant := master.Variants[0]
	assert.False(suite.T(), variant.Approved)
	assert.Equal(suite.T(), models.FormatVHS, variant.Format)
	assert.Equal(suite.T(), suite.user.ID, variant.SubmittedBy)
	assert.Len(suite.T(), variant.Images, 2)
}

func (suite *SubmissionTestSuite) TestSubmitTitleRequiresRegion() {
	req := &SubmitTitleRequest{Title: "The Wraith", Variant: validVariantFields()}
	req.Variant.Region = ""

	_, err := suite.service.SubmitTitle(context.Background(), suite.user.ID, req, coverAndBackImages())

	var fieldErr *FieldValidationError
	suite.Require().ErrorAs(err, &fieldErr)
	assert.Equal(suite.T(), "region", fieldErr.Field)
}

func (suite *SubmissionTestSuite) TestSubmitTitleRequiresCaseType() {
	req := &SubmitTitleRequest{Title: "The Wraith", Variant: validVariantFields()}
	req.Variant.CaseType = ""

	_, err := suite.service.SubmitTitle(context.Background(), suite.user.ID, req, coverAndBackImages())

	var fieldErr *FieldValidationError
	suite.Require().ErrorAs(err, &fieldErr)
	assert.Equal(suite.T(), "case_type", fieldErr.Field)
}

func (suite *SubmissionTestSuite) TestSubmitTitleRequiresCoverAndBackImages() {
	req := &SubmitTitleRequest{Title: "The Wraith", Variant: validVariantFields()}

	_, err := suite.service.SubmitTitle(context.Background(), suite.user.ID, req, []ImageUpload{
		{Slot: models.ImageSlotBack, Data: []byte("back"), Filename: "back.jpg"},
	})
	var fieldErr *FieldValidationError
	suite.Require().ErrorAs(err, &fieldErr)
	assert.Equal(suite.T(), "cover_image", fieldErr.Field)

	_, err = suite.service.SubmitTitle(context.Background(), suite.user.ID, req, []ImageUpload{
		{Slot: models.ImageSlotCover, Data: []byte("front"), Filename: "front.jpg"},
	})
	suite.Require().ErrorAs(err, &fieldErr)
	assert.Equal(suite.T(), "back_image", fieldErr.Field)

	// Nothing was written while validation failed.
	var count int64
	suite.db.Model(&models.MasterRelease{}).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *SubmissionTestSuite) TestSubmitTitlePosterLookupFailureIsNonFatal() {
	suite.posters.err = errors.New("tmdb down")

	master := suite.submitTitle()
	assert.Nil(suite.T(), master.PosterURL)
}

func (suite *SubmissionTestSuite) TestSubmitTitleDefaultsFormatToVHS() {
	req := &SubmitTitleRequest{Title: "The Wraith", Variant: validVariantFields()}
	req.Variant.Format = ""

	master, err := suite.service.SubmitTitle(context.Background(), suite.user.ID, req, coverAndBackImages())
	suite.Require().NoError(err)
	suite.Require().Len(master.Variants, 1)
	assert.Equal(suite.T(), models.FormatVHS, master.Variants[0].Format)
}

func (suite *SubmissionTestSuite) TestSubmitVariantUnknownMaster() {
	fields := validVariantFields()
	_, err := suite.service.SubmitVariant(suite.user.ID, suite.user.ID, &fields, coverAndBackImages())
	assert.ErrorIs(suite.T(), err, gorm.ErrRecordNotFound)
}

func (suite *SubmissionTestSuite) TestSubmitVariantAttachesToMaster() {
	master := suite.submitTitle()

	fields := validVariantFields()
	fields.ReleaseYear = 1990
	fields.EditionType = "re-release"
	variant, err := suite.service.SubmitVariant(suite.user.ID, master.ID, &fields, coverAndBackImages())
	suite.Require().NoError(err)

	assert.Equal(suite.T(), master.ID, variant.MasterReleaseID)
	assert.False(suite.T(), variant.Approved)
	assert.Len(suite.T(), variant.Images, 2)
}

func (suite *SubmissionTestSuite) TestUpdateMasterKeepsPosterOnLookupFailure() {
	master := suite.submitTitle()
	previous := *master.PosterURL

	suite.posters.err = errors.New("tmdb down")
	title := "The Wraith (Special Edition)"
	updated, err := suite.service.UpdateMaster(context.Background(), master.ID, &UpdateMasterRequest{Title: title})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), title, updated.Title)
	suite.Require().NotNil(updated.PosterURL)
	assert.Equal(suite.T(), previous, *updated.PosterURL)
}

func (suite *SubmissionTestSuite) TestUpdateVariantReplacesImageSlot() {
	master := suite.submitTitle()
	variant := master.Variants[0]

	var before models.VariantImage
	suite.Require().NoError(suite.db.
		Where("variant_id = ? AND image_order = ?", variant.ID, models.ImageSlotCover).
		First(&before).Error)

	fields := validVariantFields()
	updated, err := suite.service.UpdateVariant(variant.ID, &fields, []ImageUpload{
		{Slot: models.ImageSlotCover, Data: []byte("new front"), Filename: "front2.jpg"},
	})
	suite.Require().NoError(err)

	// Still exactly one cover image, and it is the new object.
	var covers []models.VariantImage
	suite.Require().NoError(suite.db.
		Where("variant_id = ? AND image_order = ?", variant.ID, models.ImageSlotCover).
		Find(&covers).Error)
	suite.Require().Len(covers, 1)
	assert.NotEqual(suite.T(), before.ImageURL, covers[0].ImageURL)
	assert.Contains(suite.T(), suite.store.removed, before.ImageURL)
	assert.Len(suite.T(), updated.Images, 2)
}

func (suite *SubmissionTestSuite) TestUpdateVariantNeverTouchesApprovalOrVotes() {
	variant := seedVariant(suite.T(), suite.db, suite.user.ID, true)
	suite.db.Model(variant).Updates(map[string]interface{}{"votes_up": 4, "votes_down": 1})

	fields := validVariantFields()
	fields.Notes = "hi-fi stereo sticker on spine"
	updated, err := suite.service.UpdateVariant(variant.ID, &fields, nil)
	suite.Require().NoError(err)

	assert.True(suite.T(), updated.Approved)
	assert.Equal(suite.T(), 4, updated.VotesUp)
	assert.Equal(suite.T(), 1, updated.VotesDown)
	assert.Equal(suite.T(), fields.Notes, updated.Notes)
}

func (suite *SubmissionTestSuite) TestCastVoteInsertToggleAndSwitch() {
	variant := seedVariant(suite.T(), suite.db, suite.user.ID, false)
	voter := createTestUser(suite.T(), suite.db, "voter")

	// Fresh vote.
	updated, err := suite.service.CastVote(variant.ID, voter.ID, models.VoteTypeUp)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, updated.VotesUp)
	assert.Equal(suite.T(), 0, updated.VotesDown)

	// Switching sides flips the same row.
	updated, err = suite.service.CastVote(variant.ID, voter.ID, models.VoteTypeDown)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 0, updated.VotesUp)
	assert.Equal(suite.T(), 1, updated.VotesDown)

	var voteCount int64
	suite.db.Model(&models.SubmissionVote{}).Where("variant_id = ?", variant.ID).Count(&voteCount)
	assert.EqualValues(suite.T(), 1, voteCount)

	// Repeating the same side withdraws the vote.
	updated, err = suite.service.CastVote(variant.ID, voter.ID, models.VoteTypeDown)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 0, updated.VotesUp)
	assert.Equal(suite.T(), 0, updated.VotesDown)

	suite.db.Model(&models.SubmissionVote{}).Where("variant_id = ?", variant.ID).Count(&voteCount)
	assert.Zero(suite.T(), voteCount)
}

func (suite *SubmissionTestSuite) TestCastVoteRejectsUnknownVoteType() {
	variant := seedVariant(suite.T(), suite.db, suite.user.ID, false)

	_, err := suite.service.CastVote(variant.ID, suite.user.ID, models.VoteType("sideways"))

	var fieldErr *FieldValidationError
	suite.Require().ErrorAs(err, &fieldErr)
	assert.Equal(suite.T(), "vote_type", fieldErr.Field)
}

func (suite *SubmissionTestSuite) TestTenUpvotesAutoApprove() {
	variant := seedVariant(suite.T(), suite.db, suite.user.ID, false)

	for i := 0; i < 10; i++ {
		voter := createTestUser(suite.T(), suite.db, fmt.Sprintf("voter%d", i))
		updated, err := suite.service.CastVote(variant.ID, voter.ID, models.VoteTypeUp)
		suite.Require().NoError(err)

		if i < 9 {
			assert.False(suite.T(), updated.Approved, "approved before reaching the threshold")
		} else {
			assert.True(suite.T(), updated.Approved, "not approved at the threshold")
		}
	}
}

func (suite *SubmissionTestSuite) TestApprovalNeverReverts() {
	variant := seedVariant(suite.T(), suite.db, suite.user.ID, false)

	voters := make([]*models.User, 10)
	for i := range voters {
		voters[i] = createTestUser(suite.T(), suite.db, fmt.Sprintf("voter%d", i))
		_, err := suite.service.CastVote(variant.ID, voters[i].ID, models.VoteTypeUp)
		suite.Require().NoError(err)
	}

	// Withdrawing votes drops the counter below the threshold but the
	// variant stays approved.
	updated, err := suite.service.CastVote(variant.ID, voters[0].ID, models.VoteTypeUp)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 9, updated.VotesUp)
	assert.True(suite.T(), updated.Approved)

	updated, err = suite.service.CastVote(variant.ID, voters[1].ID, models.VoteTypeDown)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 8, updated.VotesUp)
	assert.True(suite.T(), updated.Approved)
}

func (suite *SubmissionTestSuite) TestAdminApprove() {
	variant := seedVariant(suite.T(), suite.db, suite.user.ID, false)

	approved, err := suite.service.ApproveVariant(variant.ID)
	suite.Require().NoError(err)
	assert.True(suite.T(), approved.Approved)
}

func (suite *SubmissionTestSuite) TestRejectPurgesImagesDespiteStorageFailures() {
	master := suite.submitTitle()
	variant := master.Variants[0]
	suite.store.failRemove = true

	err := suite.service.RejectVariant(variant.ID)
	suite.Require().NoError(err)

	// Both objects were attempted even though every delete failed.
	assert.Equal(suite.T(), 2, suite.store.removedCount())

	var variantCount, imageCount int64
	suite.db.Model(&models.Variant{}).Where("id = ?", variant.ID).Count(&variantCount)
	suite.db.Model(&models.VariantImage{}).Where("variant_id = ?", variant.ID).Count(&imageCount)
	assert.Zero(suite.T(), variantCount)
	assert.Zero(suite.T(), imageCount)
}

func (suite *SubmissionTestSuite) TestRejectRefusesApprovedVariant() {
	variant := seedVariant(suite.T(), suite.db, suite.user.ID, true)

	err := suite.service.RejectVariant(variant.ID)
	assert.Error(suite.T(), err)
}

func (suite *SubmissionTestSuite) TestDeleteMasterCascades() {
	master := suite.submitTitle()

	fields := validVariantFields()
	fields.ReleaseYear = 1990
	_, err := suite.service.SubmitVariant(suite.user.ID, master.ID, &fields, coverAndBackImages())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.DeleteMaster(master.ID))

	var masterCount, variantCount, imageCount int64
	suite.db.Model(&models.MasterRelease{}).Where("id = ?", master.ID).Count(&masterCount)
	suite.db.Model(&models.Variant{}).Where("master_release_id = ?", master.ID).Count(&variantCount)
	suite.db.Model(&models.VariantImage{}).Count(&imageCount)
	assert.Zero(suite.T(), masterCount)
	assert.Zero(suite.T(), variantCount)
	assert.Zero(suite.T(), imageCount)
	assert.Equal(suite.T(), 4, suite.store.removedCount())
}

func (suite *SubmissionTestSuite) TestModerationQueueOldestFirst() {
	first := seedVariant(suite.T(), suite.db, suite.user.ID, false)
	second := seedVariant(suite.T(), suite.db, suite.user.ID, false)
	seedVariant(suite.T(), suite.db, suite.user.ID, true) // approved, not queued

	result, err := suite.service.GetModerationQueue(newQueueParams())
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 2, result.Total)

	queue := result.Data.([]models.Variant)
	suite.Require().Len(queue, 2)
	assert.Equal(suite.T(), first.ID, queue[0].ID)
	assert.Equal(suite.T(), second.ID, queue[1].ID)
}

func (suite *SubmissionTestSuite) TestListVariantsNewestReleaseYearFirst() {
	master := suite.submitTitle()

	years := []int{1983, 1995, 1989}
	for _, year := range years {
		fields := validVariantFields()
		fields.ReleaseYear = year
		variant, err := suite.service.SubmitVariant(suite.user.ID, master.ID, &fields, coverAndBackImages())
		suite.Require().NoError(err)
		suite.Require().NoError(suite.db.Model(variant).Update("approved", true).Error)
	}

	variants, err := suite.service.ListVariants(master.ID, true)
	suite.Require().NoError(err)
	suite.Require().Len(variants, 3)
	assert.Equal(suite.T(), 1995, variants[0].ReleaseYear)
	assert.Equal(suite.T(), 1989, variants[1].ReleaseYear)
	assert.Equal(suite.T(), 1983, variants[2].ReleaseYear)
}

func (suite *SubmissionTestSuite) TestListMastersCountsApprovedVariants() {
	master := suite.submitTitle()

	fields := validVariantFields()
	variant, err := suite.service.SubmitVariant(suite.user.ID, master.ID, &fields, coverAndBackImages())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.Model(variant).Update("approved", true).Error)

	result, err := suite.service.ListMasters(newQueueParams())
	suite.Require().NoError(err)

	masters := result.Data.([]models.MasterRelease)
	suite.Require().Len(masters, 1)
	// The initial submission is still pending, so only one variant counts.
	assert.EqualValues(suite.T(), 1, masters[0].VariantCount)
}

func TestSubmissionSuite(t *testing.T) {
	suite.Run(t, new(SubmissionTestSuite))
}
