package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/xtding233/dropcalc/internal/drop"
	"github.com/xtding233/dropcalc/internal/enrage"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report yaml keys rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateRaw checks field bounds and the semantic constraints of a
// merged entry, reporting every violation at once.
func ValidateRaw(cfg RawEntry) error {
	var errs []string

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("config validation failed: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, describe(fe))
		}
	}

	// drop
	switch {
	case cfg.Drop.Rate == nil && cfg.Drop.Table == nil:
		errs = append(errs, "drop.rate or drop.table is required")
	case cfg.Drop.Rate != nil && cfg.Drop.Table != nil:
		errs = append(errs, "drop.rate and drop.table are mutually exclusive")
	}

	// pity
	if cfg.Pity != nil {
		if cfg.Pity.Start == nil {
			errs = append(errs, "pity.start is required when pity is set")
		}
		if cfg.Pity.Cap == nil {
			errs = append(errs, "pity.cap is required when pity is set")
		} else if cfg.Drop.Rate != nil && *cfg.Pity.Cap >= *cfg.Drop.Rate {
			errs = append(errs, "pity.cap must be below drop.rate")
		} else if t := cfg.Drop.Table; t != nil {
			rate, err := drop.EffectiveRate(t.compound())
			if err == nil && *cfg.Pity.Cap >= rate {
				errs = append(errs, "pity.cap must be below the table's effective rate")
			}
		}
	}

	// enrage
	if cfg.Enrage != nil {
		kind, err := enrage.ParseKind(cfg.Enrage.Kind)
		if err != nil {
			errs = append(errs, fmt.Sprintf("enrage.kind %q is not a known entity", cfg.Enrage.Kind))
		} else {
			d, _ := enrage.DomainOf(kind)
			if cfg.Enrage.Level != nil && !d.Contains(*cfg.Enrage.Level) {
				errs = append(errs, fmt.Sprintf("enrage.level must be in %v for %s", d, kind))
			}
			if cfg.Enrage.Max != nil && !d.Contains(*cfg.Enrage.Max) {
				errs = append(errs, fmt.Sprintf("enrage.max must be in %v for %s", d, kind))
			}
			if d.Unbounded && cfg.Enrage.Max == nil {
				errs = append(errs, fmt.Sprintf("enrage.max is required for %s", kind))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be > %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
