package render

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/masajid/masajid-seo/internal/pssg/entity"
)

// BuildFuncMap creates the template FuncMap with all helper functions.
func BuildFuncMap() template.FuncMap {
	return template.FuncMap{
		"coord":        entity.FormatCoord,
		"arabicDigits": arabicDigits,
	}
}

var arabicIndic = strings.NewReplacer(
	"0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩",
)

// arabicDigits writes an integer with Arabic-Indic digits.
func arabicDigits(n int) string {
	return arabicIndic.Replace(strconv.Itoa(n))
}
