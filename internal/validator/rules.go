package validator

import (
	"log"
	"strconv"
	"unicode"

	"github.com/go-playground/validator/v10"

	"newsroom_backend/internal/models"
)

// registerCustomRules registers all custom validation functions on the
// given validator instance.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup error.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-user-role': the value is a known user role
	mustRegister("is-user-role", validateUserRole)

	// 'is-article-status': the value is a known article status
	mustRegister("is-article-status", validateArticleStatus)

	// 'is-notification-type': the value is a known notification type
	mustRegister("is-notification-type", validateNotificationType)

	// 'english': the text is written primarily in English.
	// Takes the minimum Latin-letter ratio as a param, e.g. english=0.8.
	mustRegister("english", validateEnglish)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // empty values are handled by 'required'
	}

	switch models.UserRole(value) {
	case models.UserRoleReader, models.UserRoleJournalist, models.UserRoleEditor:
		return true
	default:
		return false
	}
}

func validateArticleStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ArticleStatus(value) {
	case models.ArticleStatusDraft, models.ArticleStatusPending, models.ArticleStatusApproved,
		models.ArticleStatusRejected, models.ArticleStatusPublished:
		return true
	default:
		return false
	}
}

func validateNotificationType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.NotificationType(value) {
	case models.NotificationTypePublisher, models.NotificationTypeJournalist, models.NotificationTypeGeneral:
		return true
	default:
		return false
	}
}

func validateEnglish(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}

	threshold := 0.6
	if param := fl.Param(); param != "" {
		if t, err := strconv.ParseFloat(param, 64); err == nil {
			threshold = t
		}
	}

	return MostlyEnglish(value, threshold)
}

// MostlyEnglish reports whether at least threshold of the letters in the
// text are Latin letters. Text with no letters at all passes.
func MostlyEnglish(text string, threshold float64) bool {
	var letters, latin int

	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			latin++
		}
	}

	if letters == 0 {
		return true
	}

	return float64(latin)/float64(letters) >= threshold
}
