package revenue

import (
	"regexp"
	"strings"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
)

var (
	ipdPrefix = regexp.MustCompile(`(?i)^IPD-`)
	opdPrefix = regexp.MustCompile(`(?i)^OPD-`)
)

// ClassifyFormType decide IPD u OPD. Usa formType si es válido; si no, el prefijo de
// ipdNumber y luego de opdNumber; por defecto IPD.
func ClassifyFormType(formType, ipdNumber, opdNumber string) string {
	switch strings.ToUpper(strings.TrimSpace(formType)) {
	case entity.FormTypeIPD:
		return entity.FormTypeIPD
	case entity.FormTypeOPD:
		return entity.FormTypeOPD
	}
	for _, n := range []string{ipdNumber, opdNumber} {
		n = strings.TrimSpace(n)
		if ipdPrefix.MatchString(n) {
			return entity.FormTypeIPD
		}
		if opdPrefix.MatchString(n) {
			return entity.FormTypeOPD
		}
	}
	return entity.FormTypeIPD
}
