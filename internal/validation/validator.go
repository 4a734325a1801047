package validation

import (
	"fmt"
	"reflect"
	"strings"

	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
	"crew-exam/internal/util"

	"github.com/go-playground/validator/v10"
)

const (
	minRandomCount = 1
	maxRandomCount = 50
)

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("ulid", func(fl validator.FieldLevel) bool {
		return util.IsULID(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Struct runs the struct tags of s and converts failures into field errors.
func (v *Validator) Struct(s interface{}) domain.ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.ValidationErrors{domain.NewValidationError(err.Error())}
	}

	errs := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, toValidationError(fe))
	}
	return errs
}

func toValidationError(fe validator.FieldError) domain.ValidationError {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return domain.NewMissingFieldError(field)
	case "min", "max", "gte", "lte":
		return domain.ValidationError{
			Field:   field,
			Code:    domain.CodeOutOfRange,
			Message: fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param()),
			Value:   fe.Value(),
		}
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}

// fieldPath drops the root struct name: "TestRequest.settings.max_attempts" -> "settings.max_attempts".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// ValidateTestRequest checks the common fields by tag and then exactly the fields of the
// selection variant named by Mode.
func (v *Validator) ValidateTestRequest(req *dto.TestRequest) domain.ValidationErrors {
	errs := v.Struct(req)

	switch req.Mode {
	case dto.TestModeFixed:
		errs = append(errs, validateFixed(req.Fixed)...)
	case dto.TestModeRandom:
		errs = append(errs, validateRandom(req.Random)...)
	default:
		// reported by the oneof tag
	}
	return errs
}

func validateFixed(sel *dto.FixedSelection) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if sel == nil || len(sel.QuestionIDs) == 0 {
		return append(errs, domain.NewMissingFieldError("fixed.question_ids"))
	}
	seen := make(map[string]struct{}, len(sel.QuestionIDs))
	for i, id := range sel.QuestionIDs {
		field := fmt.Sprintf("fixed.question_ids[%d]", i)
		if !util.IsULID(id) {
			errs = append(errs, domain.NewInvalidFormatError(field, id))
			continue
		}
		if _, dup := seen[id]; dup {
			errs = append(errs, domain.ValidationError{Field: field, Code: domain.CodeInvalidFormat, Message: "question is listed twice", Value: id})
			continue
		}
		seen[id] = struct{}{}
	}
	for id, p := range sel.Points {
		if _, ok := seen[id]; !ok {
			errs = append(errs, domain.ValidationError{Field: "fixed.points", Code: domain.CodeInvalidFormat, Message: "points given for a question not in the list", Value: id})
		} else if p <= 0 {
			errs = append(errs, domain.ValidationError{Field: "fixed.points", Code: domain.CodeOutOfRange, Message: "points must be positive", Value: p})
		}
	}
	return errs
}

func validateRandom(sel *dto.RandomSelection) domain.ValidationErrors {
	if sel == nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("random.count")}
	}
	if sel.Count < minRandomCount || sel.Count > maxRandomCount {
		return domain.ValidationErrors{domain.NewOutOfRangeError("random.count", sel.Count, minRandomCount, maxRandomCount)}
	}
	return nil
}

// ValidateSubmitRequest rejects malformed question ids and empty payloads.
func (v *Validator) ValidateSubmitRequest(req *dto.SubmitRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors
	for qid, ans := range req.Responses {
		if !util.IsULID(qid) {
			errs = append(errs, domain.NewInvalidFormatError("responses", qid))
			continue
		}
		if ans.AnswerID != "" && !util.IsULID(ans.AnswerID) {
			errs = append(errs, domain.NewInvalidFormatError("responses."+qid+".answer_id", ans.AnswerID))
		}
		if len(ans.TextResponse) > 10000 {
			errs = append(errs, domain.NewOutOfRangeError("responses."+qid+".text_response", len(ans.TextResponse), 0, 10000))
		}
	}
	return errs
}

// ValidateID checks a path identifier.
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if !util.IsULID(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, id)}
	}
	return nil
}
