package handlers

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/yungbote/meraki-backend/internal/platform/apierr"
)

const notBlankTag = "notblank"

// Binder decodes request bodies and turns validation failures into
// readable 400 messages keyed by JSON field name.
type Binder struct {
	trans ut.Translator
}

var (
	registerOnce sync.Once
	registered   ut.Translator
)

// NewBinder hooks the custom tags into gin's validator. gin keeps a single
// validator per process, so registration and its translator are shared.
func NewBinder() *Binder {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		english := en.New()
		trans, _ := ut.New(english, english).GetTranslator("en")
		registered = trans
		_ = entranslations.RegisterDefaultTranslations(v, trans)
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation(notBlankTag, notBlank)
		_ = v.RegisterTranslation(notBlankTag, trans,
			func(t ut.Translator) error {
				return t.Add(notBlankTag, "{0} is required", true)
			},
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T(notBlankTag, fe.Field())
				return msg
			},
		)
	})
	return &Binder{trans: registered}
}

func notBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() == reflect.String {
		return strings.TrimSpace(f.String()) != ""
	}
	return !f.IsZero()
}

// JSON binds the request body into dst. Errors come back as apierr 400s.
func (b *Binder) JSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return b.translate(err)
	}
	return nil
}

func (b *Binder) translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || b == nil || b.trans == nil {
		return apierr.BadRequest("invalid request body")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(b.trans))
	}
	return apierr.BadRequest(strings.Join(msgs, "; "))
}
