// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"cmms-backend/internal/workflow"
	"cmms-backend/pkg/constants"
)

// RegisterCustomValidations регистрирует доменные правила валидации
// в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("wo_priority", isKnownPriority); err != nil {
		return err
	}
	if err := v.RegisterValidation("wo_status", isKnownWorkOrderStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("iso_date", isISODate); err != nil {
		return err
	}
	if err := v.RegisterValidation("downtime_reason", isKnownDowntimeReason); err != nil {
		return err
	}
	return nil
}

func isKnownPriority(fl validator.FieldLevel) bool {
	return constants.IsValidPriority(fl.Field().String())
}

func isKnownWorkOrderStatus(fl validator.FieldLevel) bool {
	return workflow.ParseStatus(fl.Field().String()) != ""
}

func isKnownDowntimeReason(fl validator.FieldLevel) bool {
	return constants.IsValidDowntimeReason(fl.Field().String())
}

// Даты вида YYYY-MM-DD (due_date, preferred_date, install_date).
func isISODate(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	return re.MatchString(fl.Field().String())
}
