package validator

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

var (
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
	initOnce  sync.Once

	spaceRegex = regexp.MustCompile(`\s+`)
)

func Init() {
	initOnce.Do(func() {
		validate = validator.New()

		sanitizer = bluemonday.StrictPolicy()

		registerCustomValidations(validate)

		if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustomValidations(engine)
		}
	})
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("no_html", validateNoHTML)
	v.RegisterValidation("menu_url", validateMenuURL)
}

func Validate(s interface{}) error {
	Init()
	return validate.Struct(s)
}

// SanitizeString strips every tag from s.
func SanitizeString(s string) string {
	Init()
	return sanitizer.Sanitize(s)
}

// NormalizeLabel prepares a free-text menu label for storage: tags are
// stripped, the text is NFC normalised and runs of whitespace collapse to a
// single space.
func NormalizeLabel(s string) string {
	cleaned := html.UnescapeString(SanitizeString(s))
	cleaned = norm.NFC.String(cleaned)
	return strings.TrimSpace(NormalizeSpaces(cleaned))
}

func NormalizeSpaces(s string) string {
	return spaceRegex.ReplaceAllString(s, " ")
}

func validateNoHTML(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return !strings.Contains(value, "<") && !strings.Contains(value, ">")
}

func validateMenuURL(fl validator.FieldLevel) bool {
	return ValidateMenuURL(fl.Field().String())
}

// ValidateMenuURL accepts absolute http(s) URLs and site-relative paths.
func ValidateMenuURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		_, err := url.Parse(raw)
		return err == nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
