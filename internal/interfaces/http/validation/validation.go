// Package validation installs the request binding rules shared by every
// handler.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/shared/utils"
)

var (
	once    sync.Once
	initErr error
)

// Register adds the ticket enum tags to gin's binding engine and to the
// shared validator, and makes both report JSON/form field names. Safe to
// call more than once.
func Register() error {
	once.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			initErr = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}
		engine.RegisterTagNameFunc(fieldName)
		for _, v := range []*validator.Validate{engine, utils.Validator()} {
			if initErr = registerTags(v); initErr != nil {
				return
			}
		}
	})
	return initErr
}

func registerTags(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"ticket_status": func(fl validator.FieldLevel) bool {
			return vo.TicketStatus(fl.Field().String()).IsValid()
		},
		"ticket_priority": func(fl validator.FieldLevel) bool {
			return vo.Priority(fl.Field().String()).IsValid()
		},
		"visibility": func(fl validator.FieldLevel) bool {
			return vo.Visibility(fl.Field().String()).IsValid()
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}
