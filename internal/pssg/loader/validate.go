package loader

import (
	stderrors "errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/masajid/masajid-seo/internal/pkg/errors"
	"github.com/masajid/masajid-seo/internal/pssg/entity"
)

// rawRecord is a candidate record as decoded from any source format.
// Coordinates are pointers so that an absent value is distinguishable
// from zero.
type rawRecord struct {
	ID          string         `json:"id" yaml:"id" validate:"required,slug"`
	ReaderName  string         `json:"readerName" yaml:"readerName" validate:"required"`
	MosqueName  string         `json:"masjidName" yaml:"masjidName" validate:"required"`
	Region      string         `json:"region" yaml:"region" validate:"required,region"`
	Coordinates rawCoordinates `json:"coordinates" yaml:"coordinates"`
	MapsURL     string         `json:"googleMapsUrl" yaml:"googleMapsUrl" validate:"required,url"`
	AudioURL    string         `json:"audioUrl" yaml:"audioUrl" validate:"required,url"`
	Notes       string         `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type rawCoordinates struct {
	Lat *float64 `json:"lat" yaml:"lat" validate:"required,latitude"`
	Lng *float64 `json:"lng" yaml:"lng" validate:"required,longitude"`
}

func (r *rawRecord) toMosque() *entity.Mosque {
	return &entity.Mosque{
		ID:          r.ID,
		ReaderName:  r.ReaderName,
		MosqueName:  r.MosqueName,
		Region:      r.Region,
		Coordinates: entity.Coordinates{Lat: *r.Coordinates.Lat, Lng: *r.Coordinates.Lng},
		MapsURL:     r.MapsURL,
		AudioURL:    r.AudioURL,
		Notes:       r.Notes,
	}
}

type recordValidator struct {
	validate *validator.Validate
}

func newRecordValidator(regionKeys []string) *recordValidator {
	known := make(map[string]bool, len(regionKeys))
	for _, k := range regionKeys {
		known[k] = true
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return entity.IsURLSafe(fl.Field().String())
	})
	_ = v.RegisterValidation("region", func(fl validator.FieldLevel) bool {
		return known[fl.Field().String()]
	})

	return &recordValidator{validate: v}
}

// check validates one record and returns a "field: problem" error.
func (rv *recordValidator) check(r *rawRecord) error {
	if notFinite(r.Coordinates.Lat) {
		return fmt.Errorf("coordinates.lat: not a finite number")
	}
	if notFinite(r.Coordinates.Lng) {
		return fmt.Errorf("coordinates.lng: not a finite number")
	}

	err := rv.validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return fmt.Errorf("%s: %s", fieldPath(fe), describe(fe))
}

// accept validates candidates in source order and rejects duplicate IDs.
// In lenient mode every rejected record becomes a warning; otherwise the
// first rejection is returned as an INVALID_RECORD error.
func (rv *recordValidator) accept(candidates []*rawRecord, lenient bool) ([]*entity.Mosque, []Warning, error) {
	var (
		records  []*entity.Mosque
		warnings []Warning
	)
	seen := make(map[string]int)

	for i, r := range candidates {
		if r == nil {
			r = &rawRecord{}
		}
		err := rv.check(r)
		if err == nil {
			if first, dup := seen[r.ID]; dup {
				err = fmt.Errorf("id: duplicate of record %d", first+1)
			}
		}
		if err != nil {
			label := recordLabel(i, r.ID)
			if !lenient {
				return nil, warnings, errors.Wrap(errors.CodeInvalidRecord, label, err)
			}
			warnings = append(warnings, Warning{
				Code:    errors.CodeInvalidRecord,
				Message: fmt.Sprintf("skipping %s: %v", label, err),
			})
			continue
		}
		seen[r.ID] = i
		records = append(records, r.toMosque())
	}
	return records, warnings, nil
}

func notFinite(p *float64) bool {
	return p != nil && (math.IsNaN(*p) || math.IsInf(*p, 0))
}

// fieldPath drops the struct type prefix from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "slug":
		return fmt.Sprintf("%q is not URL-safe", fe.Value())
	case "region":
		return fmt.Sprintf("unknown region %q", fe.Value())
	case "latitude":
		return "not a valid latitude"
	case "longitude":
		return "not a valid longitude"
	case "url":
		return "not an absolute URL"
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}
