// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Admin
	KeyAdminAccessDenied = "admin.access_denied"

	// Validation
	KeyValidationInvalid = "validation.invalid"
	KeyConfirmRequired   = "confirm.required"

	// Master releases
	KeyReleaseCreated  = "release.created"
	KeyReleaseUpdated  = "release.updated"
	KeyReleaseDeleted  = "release.deleted"
	KeyReleaseNotFound = "release.not_found"

	// Variants and moderation
	KeyVariantSubmitted = "variant.submitted"
	KeyVariantUpdated   = "variant.updated"
	KeyVariantDeleted   = "variant.deleted"
	KeyVariantNotFound  = "variant.not_found"
	KeyVariantApproved  = "variant.approved"
	KeyVariantRejected  = "variant.rejected"

	// Votes
	KeyVoteRecorded  = "vote.recorded"
	KeyVoteWithdrawn = "vote.withdrawn"

	// Collection / wishlist / ratings
	KeyCollectionAdded    = "collection.added"
	KeyCollectionRemoved  = "collection.removed"
	KeyCollectionNotFound = "collection.not_found"
	KeyWishlistAdded      = "wishlist.added"
	KeyWishlistRemoved    = "wishlist.removed"
	KeyRatingSaved        = "rating.saved"

	// Metadata lookup
	KeyMetadataLookupFailed = "metadata.lookup_failed"
	KeyMetadataNotFound     = "metadata.not_found"

	// File uploads
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
)
