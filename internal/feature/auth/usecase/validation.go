package usecase

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// maxbytes bounds the UTF-8 length; max counts runes.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= n
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// SignupInput is the input of Signup.
type SignupInput struct {
	FullName string `json:"fullName" validate:"required,max=255" msg:"Name is required" msg_max:"Name must be 255 characters or fewer"`
	Email    string `json:"email" validate:"required,max=255,email" msg:"Please include a valid email" msg_max:"Email must be 255 characters or fewer"`
	Password string `json:"password" validate:"min=6,maxbytes=72" msg:"Please enter a password with 6 or more characters" msg_maxbytes:"Password must be 72 bytes or fewer"`
}

// LoginInput is the input of Login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

// ResetPasswordInput is the input of ResetPassword.
type ResetPasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required" msg:"Current password is required"`
	NewPassword     string `json:"newPassword" validate:"min=6,maxbytes=72" msg:"New password must be 6 or more characters" msg_maxbytes:"New password must be 72 bytes or fewer"`
}

type updateProfileInput struct {
	FullName string `json:"fullName" validate:"required,max=255" msg:"Name is required" msg_max:"Name must be 255 characters or fewer"`
}

// validateInput runs the struct rules on in (a pointer to struct) and
// converts every failure into a FieldError. A msg_<tag> field tag overrides msg for that rule.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	typ := reflect.TypeOf(in)
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		msg := fe.Error()
		if sf, ok := typ.FieldByName(fe.StructField()); ok {
			if m := sf.Tag.Get("msg_" + fe.Tag()); m != "" {
				msg = m
			} else if m := sf.Tag.Get("msg"); m != "" {
				msg = m
			}
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
