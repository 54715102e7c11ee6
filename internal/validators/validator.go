package validators

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/aslectra/backend/internal/errors"
)

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator reporting fields by their form name.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var labels = map[string]string{
	"category_id":           "catégorie",
	"message":               "message",
	"content":               "contenu",
	"image":                 "image",
	"name":                  "nom",
	"forename":              "prénom",
	"email":                 "adresse e-mail",
	"password":              "mot de passe",
	"password_confirmation": "confirmation du mot de passe",
	"color":                 "couleur",
	"order":                 "ordre",
	"avatar":                "avatar",
}

func label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

// FieldErrors turns a validation error into one French message per field.
// Errors that are not validation errors yield nil.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	name := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Le champ %s est obligatoire.", name)
	case "email":
		return fmt.Sprintf("Le champ %s doit être une adresse e-mail valide.", name)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Le champ %s doit contenir au moins %s caractères.", name, fe.Param())
		}
		return fmt.Sprintf("Le champ %s doit être supérieur ou égal à %s.", name, fe.Param())
	case "max":
		return fmt.Sprintf("Le champ %s ne doit pas dépasser %s caractères.", name, fe.Param())
	case "eqfield":
		return fmt.Sprintf("Le champ %s ne correspond pas.", name)
	case "hexcolor":
		return fmt.Sprintf("Le champ %s doit être une couleur hexadécimale.", name)
	case "url":
		return fmt.Sprintf("Le champ %s doit être une URL valide.", name)
	default:
		return fmt.Sprintf("Le champ %s est invalide.", name)
	}
}

// ExistsMessage is reported when a submitted id references no row.
func ExistsMessage(field string) string {
	return fmt.Sprintf("Le champ %s sélectionné est invalide.", label(field))
}

// ImageMessage is reported when an upload is not an image.
func ImageMessage(field string) string {
	return fmt.Sprintf("Le champ %s doit être une image.", label(field))
}

// SVG is excluded since it can carry scripts.
var imageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/bmp",
	"image/webp",
}

// DetectImage sniffs r and returns its MIME type, or ErrInvalidImage when the
// content is not one of the accepted image formats.
func DetectImage(r io.Reader) (string, error) {
	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return "", err
	}
	for _, t := range imageTypes {
		if mtype.Is(t) {
			return t, nil
		}
	}
	return "", apperrors.ErrInvalidImage
}

// ValidateImage checks an uploaded file by content, not by its declared type.
func ValidateImage(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return DetectImage(f)
}
