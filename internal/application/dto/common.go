package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Los importes viajan como números JSON, no como strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrorResponse cuerpo de error HTTP: {"error": "...", "code": "..."}.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// MessageResponse respuesta simple con mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}

// NumberError valor que no se puede interpretar como número.
type NumberError struct {
	Raw string
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("%s must be a number", e.Raw)
}

// Number valor numérico tolerante: acepta número JSON o string numérico.
// null, "" o ausente dejan Set en false.
type Number struct {
	Value decimal.Decimal
	Set   bool
}

// UnmarshalJSON implementa json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = Number{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return &NumberError{Raw: s}
		}
		s = strings.TrimSpace(str)
		if s == "" {
			*n = Number{}
			return nil
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return &NumberError{Raw: fmt.Sprintf("%q", s)}
	}
	*n = Number{Value: d, Set: true}
	return nil
}

// Ptr devuelve nil cuando no se informó.
func (n Number) Ptr() *decimal.Decimal {
	if !n.Set {
		return nil
	}
	v := n.Value
	return &v
}

// Or devuelve el valor o def.
func (n Number) Or(def decimal.Decimal) decimal.Decimal {
	if !n.Set {
		return def
	}
	return n.Value
}

// Int64 parte entera (0 si no se informó).
func (n Number) Int64() int64 {
	if !n.Set {
		return 0
	}
	return n.Value.IntPart()
}

// DateInput fecha cruda tal como llegó (string ISO, DD/MM/YYYY, epoch ms...).
// Nunca falla al decodificar: la interpretación la hace el caso de uso.
type DateInput struct {
	Raw     string
	Present bool
}

// UnmarshalJSON implementa json.Unmarshaler.
func (d *DateInput) UnmarshalJSON(b []byte) error {
	d.Present = true
	s := strings.TrimSpace(string(b))
	if s == "null" {
		d.Raw = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err == nil {
			d.Raw = str
			return nil
		}
	}
	d.Raw = s
	return nil
}
