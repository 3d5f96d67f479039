package gateway

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	httpapi "shareit-backend/internal/api/http"
)

type bookingInput struct {
	ItemID int64  `json:"itemId" validate:"required,gt=0"`
	Start  string `json:"start" validate:"required,timestamp"`
	End    string `json:"end" validate:"required,timestamp"`
}

type itemCreateInput struct {
	Name        string `json:"name" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId" validate:"omitempty,gt=0"`
}

type itemPatchInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type userCreateInput struct {
	Name  string `json:"name" validate:"required,notblank"`
	Email string `json:"email" validate:"required,email"`
}

type userPatchInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type commentInput struct {
	Text string `json:"text" validate:"required,notblank"`
}

type itemRequestInput struct {
	Description string `json:"description" validate:"required,notblank"`
}

type pageInput struct {
	From int `validate:"gte=0"`
	Size int `validate:"gte=1"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("timestamp", func(fl validator.FieldLevel) bool {
		_, err := httpapi.ParseTime(fl.Field().String())
		return err == nil
	})
	v.RegisterStructValidation(bookingPeriod, bookingInput{})
	return v
}

// bookingPeriod requires end strictly after start. A start in the past is accepted.
func bookingPeriod(sl validator.StructLevel) {
	in := sl.Current().Interface().(bookingInput)
	start, err1 := httpapi.ParseTime(in.Start)
	end, err2 := httpapi.ParseTime(in.End)
	if err1 != nil || err2 != nil || start.IsZero() || end.IsZero() {
		return
	}
	if !end.After(start) {
		sl.ReportError(in.End, "End", "end", "gtstart", "")
	}
}

// describe turns validator output into a single client-facing message.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "notblank":
			msgs = append(msgs, fe.Field()+" is required")
		case "gtstart":
			msgs = append(msgs, "booking end must be after booking start")
		case "timestamp":
			msgs = append(msgs, fe.Field()+" must use layout "+httpapi.TimeLayout)
		default:
			msgs = append(msgs, fe.Field()+" failed "+fe.Tag()+" check")
		}
	}
	return strings.Join(msgs, "; ")
}
